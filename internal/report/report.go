// Package report tabulates envelope trajectories: one row per period label
// and one column per scenario and envelope mode.
package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/chrissnell/reservoirops/internal/types"
)

// ErrMisalignedSeries is returned when a series does not line up with the
// series already in the report.
var ErrMisalignedSeries = errors.New("report: series not aligned with existing columns")

// Series is one column of the report.
type Series struct {
	Scenario string           `json:"scenario"`
	Target   float64          `json:"target"`
	Mode     string           `json:"mode"`
	Points   types.Trajectory `json:"points"`
}

// Column returns the column heading for the series.
func (s Series) Column() string {
	return fmt.Sprintf("%s_%s", s.Scenario, s.Mode)
}

// Report is the set of envelopes produced by one run.
type Report struct {
	RunID     string    `json:"run_id"`
	Generated time.Time `json:"generated"`
	Series    []Series  `json:"series"`
}

// New returns an empty report.
func New(runID string, generated time.Time) *Report {
	return &Report{RunID: runID, Generated: generated}
}

// Add appends a series. Every series must carry the same period labels in
// the same order.
func (r *Report) Add(s Series) error {
	if len(r.Series) > 0 {
		first := r.Series[0].Points
		if len(first) != len(s.Points) {
			return fmt.Errorf("%s has %d periods, expected %d: %w", s.Column(), len(s.Points), len(first), ErrMisalignedSeries)
		}
		for i := range first {
			if first[i].Label != s.Points[i].Label {
				return fmt.Errorf("%s period %d is %q, expected %q: %w",
					s.Column(), i, s.Points[i].Label, first[i].Label, ErrMisalignedSeries)
			}
		}
	}
	r.Series = append(r.Series, s)
	return nil
}

// Labels returns the row labels.
func (r *Report) Labels() []string {
	if len(r.Series) == 0 {
		return nil
	}
	return r.Series[0].Points.Labels()
}

// Rows returns the table body: for each period, the level of every series
// in column order.
func (r *Report) Rows() [][]float64 {
	labels := r.Labels()
	rows := make([][]float64, len(labels))
	for i := range labels {
		row := make([]float64, len(r.Series))
		for j, s := range r.Series {
			row[j] = s.Points[i].Level
		}
		rows[i] = row
	}
	return rows
}
