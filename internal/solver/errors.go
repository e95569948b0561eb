package solver

import (
	"errors"
	"fmt"
)

// ErrConvergenceFailure is returned when the power balance cannot be solved
// within the iteration cap.
var ErrConvergenceFailure = errors.New("solver: convergence failure")

// ConvergenceError describes a failed solve. It matches
// ErrConvergenceFailure with errors.Is, and any underlying calibration error.
type ConvergenceError struct {
	Direction  Direction
	Level      float64
	Target     float64
	Inflow     float64
	Days       int
	Iterations int

	// Flow and Head are the last iterate.
	Flow            float64
	Head            float64
	HeadOutOfBounds bool

	// Err is the calibration error that stopped the loop, if any.
	Err error
}

func (e *ConvergenceError) Error() string {
	msg := fmt.Sprintf("%s solve for target %.6g at level %.4f (inflow %.4g, %d days) stopped after %d iterations at flow %.6g, head %.6g",
		e.Direction, e.Target, e.Level, e.Inflow, e.Days, e.Iterations, e.Flow, e.Head)
	if e.HeadOutOfBounds {
		msg += " (head outside operating bounds)"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrConvergenceFailure, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrConvergenceFailure, msg)
}

func (e *ConvergenceError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrConvergenceFailure, e.Err}
	}
	return []error{ErrConvergenceFailure}
}
