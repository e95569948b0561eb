package simulate

import (
	"fmt"

	"github.com/chrissnell/reservoirops/internal/solver"
)

// PeriodError locates a simulation failure.
type PeriodError struct {
	Year      int
	StartYear int
	// Period is the index of the failing period, or -1 for the whole year.
	Period int
	Label  string
	Target float64
	Pass   solver.Direction
	Err    error
}

func (e *PeriodError) Error() string {
	if e.Period < 0 {
		return fmt.Sprintf("year %d (%d), target %.6g: %v", e.Year, e.StartYear, e.Target, e.Err)
	}
	return fmt.Sprintf("year %d (%d), period %d (%s), %s pass, target %.6g: %v",
		e.Year, e.StartYear, e.Period, e.Label, e.Pass, e.Target, e.Err)
}

func (e *PeriodError) Unwrap() error {
	return e.Err
}
