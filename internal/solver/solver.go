// Package solver finds the constant release flow that holds a reservoir at a
// target power output over one period.
//
// The output is N = K·Q·H, where the head H depends on Q through the average
// upstream level (the storage change over the period moves the level), the
// tailwater level and the head loss. The solver iterates
//
//	Q ← Q − (K·Q·H − N) / (K·H)
//
// from a fixed initial guess until the output is within tolerance of the
// target, or fails after a fixed number of iterations. A balance reached at
// a head outside [MinHead, MaxHead] is a failure too.
package solver

import (
	"errors"
	"fmt"
	"math"

	"github.com/chrissnell/reservoirops/internal/reservoir"
)

// Direction is the time direction a period is traversed in.
type Direction int

const (
	// Forward starts from the level at the beginning of the period.
	Forward Direction = iota
	// Backward starts from the level at the end of the period.
	Backward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Params controls convergence.
type Params struct {
	// Tolerance is the largest accepted |K·Q·H − N|.
	Tolerance float64
	// MaxIterations caps the correction loop.
	MaxIterations int
}

// DefaultParams returns the default convergence settings.
func DefaultParams() Params {
	return Params{
		Tolerance:     1e-6,
		MaxIterations: 200,
	}
}

// Validate checks that the loop is bounded and the tolerance is positive.
func (p Params) Validate() error {
	if !(p.Tolerance > 0) {
		return fmt.Errorf("tolerance must be positive, got %v", p.Tolerance)
	}
	if p.MaxIterations < 1 {
		return fmt.Errorf("max iterations must be at least 1, got %d", p.MaxIterations)
	}
	return nil
}

// Solution is the converged state of one period.
type Solution struct {
	Flow         float64
	Head         float64
	AverageLevel float64
	// EndLevel is the level at the far side of the period: the end for a
	// forward solve, the start for a backward one.
	EndLevel  float64
	EndVolume float64
	// Output is K·Flow·Head as computed in the final iteration.
	Output     float64
	Iterations int
}

// Solver solves the power balance against one reservoir model. It is safe
// for concurrent use.
type Solver struct {
	model  *reservoir.Model
	params Params
}

// New returns a Solver for model.
func New(model *reservoir.Model, params Params) (*Solver, error) {
	if model == nil {
		return nil, errors.New("solver: nil reservoir model")
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid solver params: %w", err)
	}
	return &Solver{model: model, params: params}, nil
}

// Model returns the reservoir model the solver works against.
func (s *Solver) Model() *reservoir.Model {
	return s.model
}

// SolveForward finds the flow that produces target over days, starting from
// startLevel with the given inflow.
func (s *Solver) SolveForward(startLevel, target, inflow float64, days int) (Solution, error) {
	return s.solve(Forward, startLevel, target, inflow, days)
}

// SolveBackward finds the flow that produces target over days, ending at
// endLevel with the given inflow.
func (s *Solver) SolveBackward(endLevel, target, inflow float64, days int) (Solution, error) {
	return s.solve(Backward, endLevel, target, inflow, days)
}

func (s *Solver) solve(dir Direction, level, target, inflow float64, days int) (Solution, error) {
	c := s.model.Constants()

	fail := func(iter int, flow, head float64, cause error) (Solution, error) {
		return Solution{}, &ConvergenceError{
			Direction:       dir,
			Level:           level,
			Target:          target,
			Inflow:          inflow,
			Days:            days,
			Iterations:      iter,
			Flow:            flow,
			Head:            head,
			HeadOutOfBounds: finite(head) && !c.HeadInBounds(head),
			Err:             cause,
		}
	}

	v0, err := s.model.VolumeFromLevel(level)
	if err != nil {
		return fail(0, math.NaN(), math.NaN(), err)
	}

	// m³ moved per unit of (inflow − flow), expressed in curve volume units.
	scale := reservoir.SecondsPerDay * float64(days) / c.VolumeUnit
	if dir == Backward {
		scale = -scale
	}

	flow := c.InitialFlowGuess
	head := math.NaN()

	for iter := 1; iter <= s.params.MaxIterations; iter++ {
		v1 := v0 + (inflow-flow)*scale
		l1, err := s.model.LevelFromVolume(v1)
		if err != nil {
			return fail(iter, flow, head, err)
		}
		avg := (level + l1) / 2

		tail, err := s.model.TailwaterLevel(flow)
		if err != nil {
			return fail(iter, flow, head, err)
		}
		head = avg - tail - s.model.HeadLoss(flow)
		n2 := c.PowerCoefficient * flow * head

		if !finite(head) || !finite(n2) {
			return fail(iter, flow, head, nil)
		}
		if math.Abs(n2-target) < s.params.Tolerance {
			if !c.HeadInBounds(head) {
				return fail(iter, flow, head, nil)
			}
			return Solution{
				Flow:         flow,
				Head:         head,
				AverageLevel: avg,
				EndLevel:     l1,
				EndVolume:    v1,
				Output:       n2,
				Iterations:   iter,
			}, nil
		}
		if head == 0 {
			return fail(iter, flow, head, nil)
		}

		flow -= (n2 - target) / (c.PowerCoefficient * head)
		if !finite(flow) {
			return fail(iter, flow, head, nil)
		}
	}

	return fail(s.params.MaxIterations, flow, head, nil)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
