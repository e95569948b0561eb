// Package calendar holds the date arithmetic of decad-based simulation:
// period labels, period lengths, decad expansion and hydrological years.
// Everything here is pure and stateless.
package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/chrissnell/reservoirops/internal/types"
)

// DecadsPerYear is the number of periods in a complete hydrological year.
const DecadsPerYear = 36

// ErrNotIncreasing is returned when observation dates are not strictly increasing.
var ErrNotIncreasing = errors.New("calendar: observation dates not strictly increasing")

// Decad is one third of a month.
type Decad int

const (
	Upper Decad = iota
	Mid
	Lower
)

func (d Decad) String() string {
	switch d {
	case Upper:
		return "upper"
	case Mid:
		return "mid"
	case Lower:
		return "lower"
	default:
		return fmt.Sprintf("decad(%d)", int(d))
	}
}

// DecadOf returns the decad a date falls in.
func DecadOf(date time.Time) Decad {
	switch day := date.Day(); {
	case day < 10:
		return Upper
	case day < 20:
		return Mid
	default:
		return Lower
	}
}

// PeriodLabel returns the display key of the period containing date, e.g. "7-mid".
func PeriodLabel(date time.Time) string {
	return fmt.Sprintf("%d-%s", int(date.Month()), DecadOf(date))
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// ForwardDays returns the length of period i when traversed forward: the gap
// to the next observation, or tail for the last one.
func ForwardDays(obs []types.InflowObservation, i, tail int) int {
	if i >= len(obs)-1 {
		return tail
	}
	return DaysBetween(obs[i].Date, obs[i+1].Date)
}

// BackwardDays returns the length of the period stepped over when moving
// backward from period i: the gap to the previous observation, or tail for
// the first one.
func BackwardDays(obs []types.InflowObservation, i, tail int) int {
	if i <= 0 {
		return tail
	}
	return DaysBetween(obs[i-1].Date, obs[i].Date)
}

// CheckIncreasing verifies that observation dates strictly increase.
func CheckIncreasing(obs []types.InflowObservation) error {
	for i := 1; i < len(obs); i++ {
		if !obs[i].Date.After(obs[i-1].Date) {
			return fmt.Errorf("%s follows %s: %w",
				obs[i].Date.Format(time.DateOnly), obs[i-1].Date.Format(time.DateOnly), ErrNotIncreasing)
		}
	}
	return nil
}

// ExpandToDecads turns monthly observations dated on the first of the month
// into three decad observations (1st, 11th, 21st) carrying the same inflow.
func ExpandToDecads(monthly []types.InflowObservation) []types.InflowObservation {
	out := make([]types.InflowObservation, 0, len(monthly)*3)
	for _, m := range monthly {
		for d := 0; d < 3; d++ {
			out = append(out, types.InflowObservation{
				Date:   m.Date.AddDate(0, 0, 10*d),
				Inflow: m.Inflow,
			})
		}
	}
	return out
}

// HydrologicalYearStart returns the first day of the hydrological year that
// contains date, for years beginning on the 1st of startMonth.
func HydrologicalYearStart(date time.Time, startMonth time.Month) time.Time {
	year := date.Year()
	if date.Month() < startMonth {
		year--
	}
	return time.Date(year, startMonth, 1, 0, 0, 0, 0, date.Location())
}

// SplitHydrologicalYears buckets an ordered observation series into
// hydrological years. Years are returned in order and indexed from zero.
func SplitHydrologicalYears(obs []types.InflowObservation, startMonth time.Month) ([]types.HydroYear, error) {
	if err := CheckIncreasing(obs); err != nil {
		return nil, err
	}

	var years []types.HydroYear
	for _, o := range obs {
		start := HydrologicalYearStart(o.Date, startMonth).Year()
		if n := len(years); n == 0 || years[n-1].StartYear != start {
			years = append(years, types.HydroYear{Index: n, StartYear: start})
		}
		last := &years[len(years)-1]
		last.Observations = append(last.Observations, o)
	}

	return years, nil
}

// CompleteYears keeps the years holding exactly periods observations and
// re-indexes them. The dropped years are returned separately.
func CompleteYears(years []types.HydroYear, periods int) (kept, dropped []types.HydroYear) {
	for _, y := range years {
		if y.Len() != periods {
			dropped = append(dropped, y)
			continue
		}
		y.Index = len(kept)
		kept = append(kept, y)
	}
	return kept, dropped
}
