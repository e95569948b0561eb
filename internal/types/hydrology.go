package types

import "time"

// InflowObservation is the mean inflow (m³/s) of the period beginning at Date.
type InflowObservation struct {
	Date   time.Time
	Inflow float64
}

// HydroYear is one hydrological year of inflow observations, ordered by
// strictly increasing date.
type HydroYear struct {
	// Index is the position of the year in the loaded series.
	Index int
	// StartYear is the calendar year in which the hydrological year begins.
	StartYear    int
	Observations []InflowObservation
}

// Len returns the number of periods in the year.
func (y HydroYear) Len() int {
	return len(y.Observations)
}

// LevelPoint is the simulated reservoir level of one period.
type LevelPoint struct {
	Label string    `json:"label"`
	Date  time.Time `json:"date"`
	Level float64   `json:"level"`
}

// Trajectory is an ordered sequence of period levels, either one year's
// simulation or an envelope across years.
type Trajectory []LevelPoint

// Levels returns the level values in order.
func (t Trajectory) Levels() []float64 {
	levels := make([]float64, len(t))
	for i, p := range t {
		levels[i] = p.Level
	}
	return levels
}

// Labels returns the period labels in order.
func (t Trajectory) Labels() []string {
	labels := make([]string, len(t))
	for i, p := range t {
		labels[i] = p.Label
	}
	return labels
}
