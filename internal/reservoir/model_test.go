package reservoir

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrissnell/reservoirops/internal/curve"
)

func mustCurve(t *testing.T, name string, pts ...curve.Point) *curve.Curve {
	t.Helper()
	c, err := curve.New(name, pts)
	require.NoError(t, err)
	return c
}

func testModel(t *testing.T, withCapacity bool) *Model {
	t.Helper()

	curves := Curves{
		Storage: mustCurve(t, "storage",
			curve.Point{X: 700, Y: 50},
			curve.Point{X: 720, Y: 76},
			curve.Point{X: 740, Y: 104},
			curve.Point{X: 760, Y: 136},
			curve.Point{X: 780, Y: 170},
			curve.Point{X: 800, Y: 200},
		),
		Tailwater: mustCurve(t, "tailwater",
			curve.Point{X: 0, Y: 630},
			curve.Point{X: 1000, Y: 635},
			curve.Point{X: 5000, Y: 645},
		),
	}
	if withCapacity {
		curves.Capacity = mustCurve(t, "capacity",
			curve.Point{X: 83, Y: 600000},
			curve.Point{X: 110, Y: 900000},
			curve.Point{X: 143, Y: 1000000},
		)
	}

	m, err := NewModel(DefaultConstants(), curves)
	require.NoError(t, err)
	return m
}

func TestVolumeLevelRoundTrip(t *testing.T) {
	m := testModel(t, false)

	for _, level := range []float64{705, 718.5, 731, 745.2, 760, 773.1, 790} {
		v, err := m.VolumeFromLevel(level)
		require.NoError(t, err)

		back, err := m.LevelFromVolume(v)
		require.NoError(t, err)
		assert.InDelta(t, level, back, 1e-9, "level %v", level)
	}
}

func TestTailwaterAndHeadLoss(t *testing.T) {
	m := testModel(t, false)

	z, err := m.TailwaterLevel(300)
	require.NoError(t, err)
	assert.InDelta(t, 631.5, z, 1e-9)

	assert.InDelta(t, 2.08e-5*300*300, m.HeadLoss(300), 1e-12)
	assert.Zero(t, m.HeadLoss(0))
}

func TestCapacityCeiling(t *testing.T) {
	_, err := testModel(t, false).CapacityCeiling(100)
	require.ErrorIs(t, err, ErrNoCapacityCurve)

	m := testModel(t, true)
	require.True(t, m.HasCapacityCurve())

	n, err := m.CapacityCeiling(110)
	require.NoError(t, err)
	assert.InDelta(t, 900000.0, n, 1e-6)
}

func TestSeasonalCeiling(t *testing.T) {
	m := testModel(t, false)

	tests := []struct {
		month    time.Month
		expected float64
	}{
		{time.January, 773.1},
		{time.June, 773.1},
		{time.September, 773.1},
		{time.October, 780.0},
		{time.December, 780.0},
	}

	for _, tt := range tests {
		t.Run(tt.month.String(), func(t *testing.T) {
			date := time.Date(2020, tt.month, 11, 0, 0, 0, 0, time.UTC)
			assert.Equal(t, tt.expected, m.SeasonalCeiling(date))
		})
	}
}

func TestWrappingFloodSeason(t *testing.T) {
	c := DefaultConstants()
	c.FloodSeasonStart = time.November
	c.FloodSeasonEnd = time.February

	assert.True(t, c.InFloodSeason(time.Date(2020, time.December, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, c.InFloodSeason(time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, c.InFloodSeason(time.Date(2020, time.June, 1, 0, 0, 0, 0, time.UTC)))
}

func TestClamp(t *testing.T) {
	m := testModel(t, false)
	june := time.Date(2020, time.June, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 731.0, m.Clamp(june, 700))
	assert.Equal(t, 773.1, m.Clamp(june, 790))
	assert.Equal(t, 750.0, m.Clamp(june, 750))
}

func TestNewModelValidation(t *testing.T) {
	storage := mustCurve(t, "storage", curve.Point{X: 700, Y: 50}, curve.Point{X: 800, Y: 200})

	_, err := NewModel(DefaultConstants(), Curves{Storage: storage})
	require.ErrorIs(t, err, curve.ErrInsufficientCalibrationData)

	bad := DefaultConstants()
	bad.MinHead = 200
	_, err = NewModel(bad, Curves{Storage: storage, Tailwater: storage})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min head")
}
