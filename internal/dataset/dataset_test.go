package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrissnell/reservoirops/internal/calendar"
	"github.com/chrissnell/reservoirops/internal/curve"
)

const storageTable = `# level-volume
No	Z	V
1	700	50
2	750	120
3	800	200
`

func TestReadCurveStorage(t *testing.T) {
	c, err := ReadCurve(strings.NewReader(storageTable), StorageTable)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, "storage", c.Name())

	v, err := c.Y(725)
	require.NoError(t, err)
	assert.InDelta(t, 85.0, v, 1e-9)
}

func TestReadCurveTailwaterColumns(t *testing.T) {
	in := "1\t630\t0\n2\t635\t1000\n3\t645\t5000\n"
	c, err := ReadCurve(strings.NewReader(in), TailwaterTable)
	require.NoError(t, err)

	z, err := c.Y(300)
	require.NoError(t, err)
	assert.InDelta(t, 631.5, z, 1e-9)
}

func TestReadCurveErrors(t *testing.T) {
	_, err := ReadCurve(strings.NewReader("1\t700\t50\n"), StorageTable)
	require.ErrorIs(t, err, curve.ErrInsufficientCalibrationData)

	_, err = ReadCurve(strings.NewReader("1\t700\t50\n2\tabc\t60\n"), StorageTable)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	_, err = ReadCurve(strings.NewReader("1\t700\n2\t710\n"), StorageTable)
	require.ErrorIs(t, err, curve.ErrInsufficientCalibrationData)
}

func monthlyRows(from, to int) string {
	var b strings.Builder
	b.WriteString("year\tJan\tFeb\tMar\tApr\tMay\tJun\tJul\tAug\tSep\tOct\tNov\tDec\n")
	for y := from; y <= to; y++ {
		b.WriteString(fmt.Sprint(y))
		for m := 1; m <= 12; m++ {
			fmt.Fprintf(&b, "\t%d", 100*m)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func TestReadInflowMonthly(t *testing.T) {
	set, err := ReadInflow(strings.NewReader(monthlyRows(2000, 2002)), FormatMonthly, time.May)
	require.NoError(t, err)

	require.Len(t, set.Years, 2)
	assert.Len(t, set.Dropped, 2)

	first := set.Years[0]
	assert.Equal(t, 2000, first.StartYear)
	require.Equal(t, calendar.DecadsPerYear, first.Len())
	assert.Equal(t, time.Date(2000, time.May, 1, 0, 0, 0, 0, time.UTC), first.Observations[0].Date)
	assert.Equal(t, 500.0, first.Observations[0].Inflow)
	assert.Equal(t, 500.0, first.Observations[2].Inflow)
	assert.Equal(t, 400.0, first.Observations[35].Inflow)
	assert.Equal(t, 1, set.Years[1].Index)
}

func TestReadInflowMonthlyRejectsShortRow(t *testing.T) {
	_, err := ReadInflow(strings.NewReader("2000\t1\t2\t3\n"), FormatMonthly, time.May)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "13 columns")
}

func TestReadInflowDesigned(t *testing.T) {
	var b strings.Builder
	for m := 1; m <= 12; m++ {
		fmt.Fprintf(&b, "%d\t%d\n", m, 10*m)
	}

	set, err := ReadInflow(strings.NewReader(b.String()), FormatDesigned, time.May)
	require.NoError(t, err)
	require.Len(t, set.Years, 1)

	year := set.Years[0]
	require.Equal(t, calendar.DecadsPerYear, year.Len())
	assert.Equal(t, "5-upper", calendar.PeriodLabel(year.Observations[0].Date))
	assert.Equal(t, 50.0, year.Observations[0].Inflow)
	assert.Equal(t, "4-lower", calendar.PeriodLabel(year.Observations[35].Date))
}

func TestReadInflowDecadal(t *testing.T) {
	in := "date,inflow\n2020-05-01,300\n2020-05-11,310\n2020-05-21,320\n"
	obs, err := ReadDecadalInflow(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, obs, 3)
	assert.Equal(t, 310.0, obs[1].Inflow)

	// Not a full year: parsed, split, then dropped.
	set, err := ReadInflow(strings.NewReader(in), FormatDecadal, time.May)
	require.NoError(t, err)
	assert.Empty(t, set.Years)
	assert.Len(t, set.Dropped, 1)
}

func TestReadInflowUnknownFormat(t *testing.T) {
	_, err := ReadInflow(strings.NewReader(""), InflowFormat("hourly"), time.May)
	require.Error(t, err)
}

func TestLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	zv := filepath.Join(dir, "Z_V.txt")
	hist := filepath.Join(dir, "HIST_FLOW.txt")
	require.NoError(t, os.WriteFile(zv, []byte(storageTable), 0o644))
	require.NoError(t, os.WriteFile(hist, []byte(monthlyRows(1990, 1991)), 0o644))

	c, err := LoadCurve(zv, StorageTable)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())

	set, err := LoadInflow(hist, FormatMonthly, time.May)
	require.NoError(t, err)
	assert.Len(t, set.Years, 1)

	_, err = LoadCurve(filepath.Join(dir, "missing.txt"), StorageTable)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
