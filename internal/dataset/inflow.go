package dataset

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/chrissnell/reservoirops/internal/calendar"
	"github.com/chrissnell/reservoirops/internal/types"
)

// InflowFormat identifies the layout of an inflow file.
type InflowFormat string

const (
	// FormatMonthly: "year m1 m2 ... m12", one row per calendar year.
	FormatMonthly InflowFormat = "monthly"
	// FormatDecadal: "YYYY-MM-DD inflow", one row per decad.
	FormatDecadal InflowFormat = "decadal"
	// FormatDesigned: "month inflow", a single design year.
	FormatDesigned InflowFormat = "designed"
)

// designYear is the nominal calendar year design flows are dated in.
const designYear = 2000

// ReadMonthlyInflow parses monthly rows into observations dated on the
// first of each month.
func ReadMonthlyInflow(r io.Reader) ([]types.InflowObservation, error) {
	var obs []types.InflowObservation

	err := dataLines(r, func(lineNo int, f []string) error {
		year, err := parseFloat(f, 0)
		if err != nil {
			if len(obs) == 0 {
				return nil
			}
			return fmt.Errorf("monthly inflow line %d: %v", lineNo, err)
		}
		if len(f) < 13 {
			return fmt.Errorf("monthly inflow line %d: want 13 columns, got %d", lineNo, len(f))
		}
		for m := 1; m <= 12; m++ {
			q, err := parseFloat(f, m)
			if err != nil {
				return fmt.Errorf("monthly inflow line %d, month %d: %v", lineNo, m, err)
			}
			obs = append(obs, types.InflowObservation{
				Date:   time.Date(int(year), time.Month(m), 1, 0, 0, 0, 0, time.UTC),
				Inflow: q,
			})
		}
		return nil
	})

	return obs, err
}

// ReadDecadalInflow parses "YYYY-MM-DD inflow" rows.
func ReadDecadalInflow(r io.Reader) ([]types.InflowObservation, error) {
	var obs []types.InflowObservation

	err := dataLines(r, func(lineNo int, f []string) error {
		if len(f) < 2 {
			return fmt.Errorf("decadal inflow line %d: want 2 columns, got %d", lineNo, len(f))
		}
		date, err := time.Parse(time.DateOnly, f[0])
		if err != nil {
			if len(obs) == 0 {
				return nil
			}
			return fmt.Errorf("decadal inflow line %d: %v", lineNo, err)
		}
		q, err := parseFloat(f, 1)
		if err != nil {
			return fmt.Errorf("decadal inflow line %d: %v", lineNo, err)
		}
		obs = append(obs, types.InflowObservation{Date: date, Inflow: q})
		return nil
	})

	return obs, err
}

// ReadDesignedInflow parses "month inflow" rows into one monthly year that
// begins in startMonth.
func ReadDesignedInflow(r io.Reader, startMonth time.Month) ([]types.InflowObservation, error) {
	var obs []types.InflowObservation

	err := dataLines(r, func(lineNo int, f []string) error {
		m, err := parseFloat(f, 0)
		if err != nil {
			if len(obs) == 0 {
				return nil
			}
			return fmt.Errorf("designed inflow line %d: %v", lineNo, err)
		}
		month := time.Month(m)
		if month < time.January || month > time.December {
			return fmt.Errorf("designed inflow line %d: month %v out of range", lineNo, m)
		}
		q, err := parseFloat(f, 1)
		if err != nil {
			return fmt.Errorf("designed inflow line %d: %v", lineNo, err)
		}
		year := designYear
		if month < startMonth {
			year++
		}
		obs = append(obs, types.InflowObservation{
			Date:   time.Date(year, month, 1, 0, 0, 0, 0, time.UTC),
			Inflow: q,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(obs, func(i, j int) bool { return obs[i].Date.Before(obs[j].Date) })
	return obs, nil
}

// InflowSet is a loaded inflow series split into hydrological years.
type InflowSet struct {
	// Years holds the complete years, indexed from zero.
	Years []types.HydroYear
	// Dropped holds the years that did not cover every decad.
	Dropped []types.HydroYear
}

// ReadInflow parses r in the given format, expands monthly values to
// decads and splits the series into hydrological years starting in
// startMonth. Only complete years are kept in Years.
func ReadInflow(r io.Reader, format InflowFormat, startMonth time.Month) (*InflowSet, error) {
	var (
		obs []types.InflowObservation
		err error
	)

	switch format {
	case FormatMonthly, "":
		obs, err = ReadMonthlyInflow(r)
		obs = calendar.ExpandToDecads(obs)
	case FormatDecadal:
		obs, err = ReadDecadalInflow(r)
	case FormatDesigned:
		obs, err = ReadDesignedInflow(r, startMonth)
		obs = calendar.ExpandToDecads(obs)
	default:
		return nil, fmt.Errorf("unsupported inflow format %q", string(format))
	}
	if err != nil {
		return nil, err
	}

	all, err := calendar.SplitHydrologicalYears(obs, startMonth)
	if err != nil {
		return nil, err
	}

	kept, dropped := calendar.CompleteYears(all, calendar.DecadsPerYear)
	return &InflowSet{Years: kept, Dropped: dropped}, nil
}

// LoadInflow reads an inflow file from path.
func LoadInflow(path string, format InflowFormat, startMonth time.Month) (*InflowSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open inflow series: %w", err)
	}
	defer f.Close()

	set, err := ReadInflow(f, format, startMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return set, nil
}
