package envelope

import (
	"context"
	"errors"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chrissnell/reservoirops/internal/simulate"
	"github.com/chrissnell/reservoirops/internal/types"
)

// Runner simulates every year of a series and reduces the results.
type Runner struct {
	sim     *simulate.Simulator
	workers int
	logger  *zap.SugaredLogger
}

// NewRunner returns a Runner. workers bounds the number of years simulated
// at once; zero or less uses GOMAXPROCS and one runs the years in order.
func NewRunner(sim *simulate.Simulator, workers int, logger *zap.SugaredLogger) (*Runner, error) {
	if sim == nil {
		return nil, errors.New("envelope: nil simulator")
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Runner{sim: sim, workers: workers, logger: logger}, nil
}

// Simulate runs every year at target. Results are returned in year order.
// The first failing year cancels the rest.
func (r *Runner) Simulate(ctx context.Context, years []types.HydroYear, target float64) ([]*simulate.Result, error) {
	results := make([]*simulate.Result, len(years))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, year := range years {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := r.sim.Simulate(year, target)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.logger.Debugf("simulated %d years at target %.6g", len(years), target)
	return results, nil
}

// Reduce combines the trajectories of results under mode.
func Reduce(results []*simulate.Result, mode Mode) (types.Trajectory, error) {
	reduce, err := mode.Reducer()
	if err != nil {
		return nil, err
	}

	trajectories := make([]types.Trajectory, len(results))
	for i, res := range results {
		trajectories[i] = res.Combined
	}
	return Combine(trajectories, reduce)
}

// Run simulates every year at target and reduces the trajectories under mode.
func (r *Runner) Run(ctx context.Context, years []types.HydroYear, target float64, mode Mode) (types.Trajectory, error) {
	results, err := r.Simulate(ctx, years, target)
	if err != nil {
		return nil, err
	}
	return Reduce(results, mode)
}
