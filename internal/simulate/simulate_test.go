package simulate

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/chrissnell/reservoirops/internal/calendar"
	"github.com/chrissnell/reservoirops/internal/curve"
	"github.com/chrissnell/reservoirops/internal/reservoir"
	"github.com/chrissnell/reservoirops/internal/solver"
	"github.com/chrissnell/reservoirops/internal/types"
)

type fixture struct {
	constants reservoir.Constants
	capacity  []curve.Point
	logger    *zap.SugaredLogger
}

func newSimulator(t *testing.T, f fixture) *Simulator {
	t.Helper()

	storage, err := curve.New("storage", []curve.Point{{X: 700, Y: 50}, {X: 750, Y: 120}, {X: 800, Y: 200}})
	require.NoError(t, err)
	tailwater, err := curve.New("tailwater", []curve.Point{{X: 0, Y: 630}, {X: 1000, Y: 635}, {X: 5000, Y: 645}})
	require.NoError(t, err)

	curves := reservoir.Curves{Storage: storage, Tailwater: tailwater}
	if f.capacity != nil {
		curves.Capacity, err = curve.New("capacity", f.capacity)
		require.NoError(t, err)
	}

	if f.constants == (reservoir.Constants{}) {
		f.constants = reservoir.DefaultConstants()
	}
	m, err := reservoir.NewModel(f.constants, curves)
	require.NoError(t, err)

	slv, err := solver.New(m, solver.DefaultParams())
	require.NoError(t, err)

	sim, err := New(slv, DefaultTailDays, f.logger)
	require.NoError(t, err)
	return sim
}

// decadYear builds n decad observations of constant inflow starting on the
// 1st of the given month.
func decadYear(index int, from time.Time, n int, inflow float64) types.HydroYear {
	var obs []types.InflowObservation
	for m := 0; len(obs) < n; m++ {
		first := from.AddDate(0, m, 0)
		for d := 0; d < 3 && len(obs) < n; d++ {
			obs = append(obs, types.InflowObservation{Date: first.AddDate(0, 0, 10*d), Inflow: inflow})
		}
	}
	return types.HydroYear{Index: index, StartYear: from.Year(), Observations: obs}
}

func TestTrajectoryStaysInOperatingRange(t *testing.T) {
	sim := newSimulator(t, fixture{})
	k := sim.model.Constants()
	assert.Equal(t, 8.6, k.PowerCoefficient)
	assert.Equal(t, 731.0, k.MinOperatingLevel)

	for _, from := range []time.Time{
		time.Date(2020, time.September, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, time.May, 1, 0, 0, 0, 0, time.UTC),
	} {
		year := decadYear(0, from, 12, 300)

		res, err := sim.Simulate(year, 250000)
		require.NoError(t, err)
		require.Len(t, res.Combined, year.Len())

		for i, p := range res.Combined {
			ceiling := k.SeasonalCeiling(year.Observations[i].Date)
			assert.GreaterOrEqual(t, p.Level, 731.0, "period %d", i)
			assert.LessOrEqual(t, p.Level, ceiling, "period %d", i)
			assert.Equal(t, calendar.PeriodLabel(year.Observations[i].Date), p.Label)
		}
	}
}

func TestOutputLengthMatchesPeriods(t *testing.T) {
	sim := newSimulator(t, fixture{})
	from := time.Date(2020, time.May, 1, 0, 0, 0, 0, time.UTC)

	for _, n := range []int{1, 2, 7, calendar.DecadsPerYear} {
		res, err := sim.Simulate(decadYear(0, from, n, 300), 250000)
		require.NoError(t, err)
		assert.Len(t, res.Combined, n)
		assert.Len(t, res.Forward.Levels, n)
		assert.Len(t, res.Backward.Levels, n)
	}
}

func TestBackwardPassDecidesOutput(t *testing.T) {
	sim := newSimulator(t, fixture{})
	// Low inflow: the backward pass climbs above the floor going back in time.
	year := decadYear(3, time.Date(2020, time.May, 1, 0, 0, 0, 0, time.UTC), 12, 200)

	res, err := sim.Simulate(year, 250000)
	require.NoError(t, err)

	assert.Equal(t, 731.0, res.Backward.Levels[11])
	assert.Greater(t, res.Backward.Levels[0], 735.0)
	for i := range res.Combined {
		assert.True(t, res.Backward.Recorded[i])
		assert.InDelta(t, res.Backward.Levels[i], res.Combined[i].Level, 1e-12, "period %d", i)
	}

	// Forward pass ran the whole year without meeting the ceiling.
	assert.Equal(t, -1, res.Forward.StoppedAt)
	assert.Equal(t, 731.0, res.Forward.Levels[0])
	assert.Less(t, res.Forward.ClosingLevel, 731.0)
	assert.Equal(t, 3, res.Year)
}

func TestForwardPassStopsAtCeiling(t *testing.T) {
	c := reservoir.DefaultConstants()
	c.FloodCeiling = 735
	sim := newSimulator(t, fixture{constants: c})

	year := decadYear(0, time.Date(2020, time.May, 1, 0, 0, 0, 0, time.UTC), 4, 1500)
	res, err := sim.Simulate(year, 250000)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Forward.StoppedAt)
	assert.Equal(t, []bool{true, true, false, false}, res.Forward.Recorded)
	assert.Equal(t, 735.0, res.Forward.Levels[1])
	assert.True(t, math.IsNaN(res.Forward.Levels[2]))

	require.Len(t, res.Combined, 4)
	for _, p := range res.Combined {
		assert.GreaterOrEqual(t, p.Level, 731.0)
		assert.LessOrEqual(t, p.Level, 735.0)
	}
}

func TestCombineFallsBackToCeiling(t *testing.T) {
	sim := newSimulator(t, fixture{})
	obs := decadYear(0, time.Date(2020, time.October, 1, 0, 0, 0, 0, time.UTC), 3, 300).Observations

	fwd := newPass(3)
	fwd.record(0, 740)
	bwd := newPass(3)
	bwd.record(0, 750)
	bwd.record(1, 700)

	out := sim.combine(obs, fwd, bwd)
	assert.Equal(t, []float64{750, 731, 780}, out.Levels())
	assert.Equal(t, []string{"10-upper", "10-mid", "10-lower"}, out.Labels())
}

func TestUnreachableTargetFailsWithContext(t *testing.T) {
	sim := newSimulator(t, fixture{})
	year := decadYear(4, time.Date(2021, time.May, 1, 0, 0, 0, 0, time.UTC), 12, 300)

	_, err := sim.Simulate(year, 1e9)
	require.Error(t, err)
	assert.ErrorIs(t, err, solver.ErrConvergenceFailure)

	var pe *PeriodError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 4, pe.Year)
	assert.Equal(t, 2021, pe.StartYear)
	assert.Equal(t, 0, pe.Period)
	assert.Equal(t, "5-upper", pe.Label)
	assert.Equal(t, 1e9, pe.Target)
	assert.Equal(t, solver.Forward, pe.Pass)
}

func TestUnorderedYearRejected(t *testing.T) {
	sim := newSimulator(t, fixture{})
	year := decadYear(0, time.Date(2021, time.May, 1, 0, 0, 0, 0, time.UTC), 3, 300)
	year.Observations[2].Date = year.Observations[0].Date

	_, err := sim.Simulate(year, 250000)
	require.ErrorIs(t, err, calendar.ErrNotIncreasing)
}

func TestCapacityCeilingIsReported(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sim := newSimulator(t, fixture{
		capacity: []curve.Point{{X: 83, Y: 100000}, {X: 143, Y: 200000}},
		logger:   zap.New(core).Sugar(),
	})

	year := decadYear(0, time.Date(2020, time.May, 1, 0, 0, 0, 0, time.UTC), 3, 300)
	_, err := sim.Simulate(year, 250000)
	require.NoError(t, err)

	assert.NotZero(t, logs.FilterMessage("target exceeds capacity ceiling").Len())
	assert.Equal(t, 1, logs.FilterMessage("simulated year").Len())
}
