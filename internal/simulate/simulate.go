// Package simulate propagates a reservoir level through one hydrological
// year at a fixed power output.
//
// Two passes run over the year, both starting at the minimum operating
// level: a forward pass from the first period and a backward pass from the
// last. The backward pass records every period, so under the combination
// rule it decides the output; the forward pass is kept and reported
// alongside it.
package simulate

import (
	"errors"
	"math"

	"go.uber.org/zap"

	"github.com/chrissnell/reservoirops/internal/calendar"
	"github.com/chrissnell/reservoirops/internal/reservoir"
	"github.com/chrissnell/reservoirops/internal/solver"
	"github.com/chrissnell/reservoirops/internal/types"
)

// DefaultTailDays is the length assumed for the period beyond the last
// observation.
const DefaultTailDays = 11

// Pass holds the levels one pass recorded. Unrecorded periods are NaN in
// Levels and false in Recorded.
type Pass struct {
	Levels   []float64
	Recorded []bool
	// ClosingLevel is the state after the pass's last step.
	ClosingLevel float64
	// StoppedAt is the period at which the forward pass met the seasonal
	// ceiling, or -1.
	StoppedAt int
}

func newPass(n int) Pass {
	p := Pass{
		Levels:    make([]float64, n),
		Recorded:  make([]bool, n),
		StoppedAt: -1,
	}
	for i := range p.Levels {
		p.Levels[i] = math.NaN()
	}
	return p
}

func (p *Pass) record(i int, level float64) {
	p.Levels[i] = level
	p.Recorded[i] = true
}

// Result is the simulation of one year.
type Result struct {
	Year      int
	StartYear int
	Target    float64
	Forward   Pass
	Backward  Pass
	// Combined is the labelled, clamped trajectory of the year.
	Combined types.Trajectory
}

// Simulator runs level simulations against one solver. It keeps no state
// between calls and is safe for concurrent use.
type Simulator struct {
	solver   *solver.Solver
	model    *reservoir.Model
	tailDays int
	logger   *zap.SugaredLogger
}

// New returns a Simulator. A tailDays below 1 selects DefaultTailDays; a nil
// logger discards output.
func New(s *solver.Solver, tailDays int, logger *zap.SugaredLogger) (*Simulator, error) {
	if s == nil {
		return nil, errors.New("simulate: nil solver")
	}
	if tailDays < 1 {
		tailDays = DefaultTailDays
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Simulator{
		solver:   s,
		model:    s.Model(),
		tailDays: tailDays,
		logger:   logger,
	}, nil
}

// Simulate runs both passes over year at the target output and combines them.
func (s *Simulator) Simulate(year types.HydroYear, target float64) (*Result, error) {
	obs := year.Observations
	if err := calendar.CheckIncreasing(obs); err != nil {
		return nil, &PeriodError{Year: year.Index, StartYear: year.StartYear, Period: -1, Target: target, Err: err}
	}

	res := &Result{
		Year:      year.Index,
		StartYear: year.StartYear,
		Target:    target,
	}

	var err error
	if res.Forward, err = s.forward(year, target); err != nil {
		return nil, err
	}
	if res.Backward, err = s.backward(year, target); err != nil {
		return nil, err
	}
	res.Combined = s.combine(obs, res.Forward, res.Backward)

	s.logger.Debugw("simulated year",
		"year", year.StartYear,
		"target", target,
		"periods", len(obs),
		"forward_stopped_at", res.Forward.StoppedAt,
		"forward_closing_level", res.Forward.ClosingLevel,
		"backward_closing_level", res.Backward.ClosingLevel,
	)

	return res, nil
}

func (s *Simulator) forward(year types.HydroYear, target float64) (Pass, error) {
	obs := year.Observations
	pass := newPass(len(obs))
	level := s.model.Constants().MinOperatingLevel

	for i, o := range obs {
		if ceiling := s.model.SeasonalCeiling(o.Date); level > ceiling {
			pass.record(i, ceiling)
			pass.StoppedAt = i
			break
		}
		pass.record(i, level)

		sol, err := s.solver.SolveForward(level, target, o.Inflow, calendar.ForwardDays(obs, i, s.tailDays))
		if err != nil {
			return pass, s.periodError(year, i, target, solver.Forward, err)
		}
		s.checkCapacity(year, i, target, sol)
		level = sol.EndLevel
	}

	pass.ClosingLevel = level
	return pass, nil
}

func (s *Simulator) backward(year types.HydroYear, target float64) (Pass, error) {
	obs := year.Observations
	pass := newPass(len(obs))
	level := s.model.Constants().MinOperatingLevel

	for i := len(obs) - 1; i >= 0; i-- {
		pass.record(i, level)

		// Step over the preceding period; before the first period its
		// inflow stands in for the unknown one.
		inflow := obs[max(i-1, 0)].Inflow
		sol, err := s.solver.SolveBackward(level, target, inflow, calendar.BackwardDays(obs, i, s.tailDays))
		if err != nil {
			return pass, s.periodError(year, i, target, solver.Backward, err)
		}
		s.checkCapacity(year, i, target, sol)
		level = sol.EndLevel
	}

	pass.ClosingLevel = level
	return pass, nil
}

// combine takes the backward level where recorded, then the forward level,
// then the seasonal ceiling, and clamps the result into the operating range.
func (s *Simulator) combine(obs []types.InflowObservation, fwd, bwd Pass) types.Trajectory {
	out := make(types.Trajectory, len(obs))

	for i, o := range obs {
		var level float64
		switch {
		case bwd.Recorded[i]:
			level = bwd.Levels[i]
		case fwd.Recorded[i]:
			level = fwd.Levels[i]
		default:
			level = s.model.SeasonalCeiling(o.Date)
		}

		out[i] = types.LevelPoint{
			Label: calendar.PeriodLabel(o.Date),
			Date:  o.Date,
			Level: s.model.Clamp(o.Date, level),
		}
	}

	return out
}

func (s *Simulator) checkCapacity(year types.HydroYear, period int, target float64, sol solver.Solution) {
	if !s.model.HasCapacityCurve() {
		return
	}
	limit, err := s.model.CapacityCeiling(sol.Head)
	if err != nil {
		s.logger.Debugw("capacity ceiling unavailable", "year", year.StartYear, "period", period, "head", sol.Head, "error", err)
		return
	}
	if target > limit {
		s.logger.Debugw("target exceeds capacity ceiling",
			"year", year.StartYear,
			"period", period,
			"target", target,
			"head", sol.Head,
			"capacity", limit,
		)
	}
}

func (s *Simulator) periodError(year types.HydroYear, period int, target float64, dir solver.Direction, err error) error {
	pe := &PeriodError{
		Year:      year.Index,
		StartYear: year.StartYear,
		Period:    period,
		Target:    target,
		Pass:      dir,
		Err:       err,
	}
	if period >= 0 && period < len(year.Observations) {
		pe.Label = calendar.PeriodLabel(year.Observations[period].Date)
	}
	return pe
}
