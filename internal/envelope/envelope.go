// Package envelope reduces many years of simulated trajectories to a single
// operating envelope.
package envelope

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/chrissnell/reservoirops/internal/types"
)

var (
	// ErrMisalignedTrajectories is returned when trajectories differ in length.
	ErrMisalignedTrajectories = errors.New("envelope: misaligned trajectories")

	// ErrNoTrajectories is returned when there is nothing to combine.
	ErrNoTrajectories = errors.New("envelope: no trajectories")
)

// Reducer folds one period's levels across years into a single level. It is
// never called with an empty slice.
type Reducer func(levels []float64) float64

// Max is the upper-envelope reducer.
func Max(levels []float64) float64 { return floats.Max(levels) }

// Min is the lower-envelope reducer.
func Min(levels []float64) float64 { return floats.Min(levels) }

// Mean is the unweighted average across years.
func Mean(levels []float64) float64 { return stat.Mean(levels, nil) }

// Mode names an envelope.
type Mode string

const (
	ModeUpper Mode = "upper"
	ModeLower Mode = "lower"
	ModeMean  Mode = "mean"
)

// Reducer returns the reducer for the mode.
func (m Mode) Reducer() (Reducer, error) {
	switch m {
	case ModeUpper:
		return Max, nil
	case ModeLower:
		return Min, nil
	case ModeMean:
		return Mean, nil
	default:
		return nil, fmt.Errorf("unknown envelope mode %q", string(m))
	}
}

// Combine reduces trajectories period by period. Labels and dates come from
// the first trajectory; years are assumed to be aligned by position.
func Combine(trajectories []types.Trajectory, reduce Reducer) (types.Trajectory, error) {
	if len(trajectories) == 0 {
		return nil, ErrNoTrajectories
	}

	n := len(trajectories[0])
	for i, t := range trajectories[1:] {
		if len(t) != n {
			return nil, fmt.Errorf("year %d has %d periods, year 0 has %d: %w", i+1, len(t), n, ErrMisalignedTrajectories)
		}
	}

	out := make(types.Trajectory, n)
	column := make([]float64, len(trajectories))
	for p := 0; p < n; p++ {
		for y, t := range trajectories {
			column[y] = t[p].Level
		}
		out[p] = types.LevelPoint{
			Label: trajectories[0][p].Label,
			Date:  trajectories[0][p].Date,
			Level: reduce(column),
		}
	}

	return out, nil
}

// Summary describes the spread of an envelope.
type Summary struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// Summarize computes level statistics over a trajectory.
func Summarize(t types.Trajectory) Summary {
	if len(t) == 0 {
		return Summary{}
	}
	levels := t.Levels()
	mean, std := stat.MeanStdDev(levels, nil)
	return Summary{
		Min:    floats.Min(levels),
		Max:    floats.Max(levels),
		Mean:   mean,
		StdDev: std,
	}
}
