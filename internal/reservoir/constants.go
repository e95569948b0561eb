package reservoir

import (
	"errors"
	"fmt"
	"time"
)

// SecondsPerDay converts a flow in m³/s over one day into m³.
const SecondsPerDay = 86400.0

// Constants holds the physical parameters of one reservoir. It is built once
// and passed by value; nothing mutates it after construction.
type Constants struct {
	// PowerCoefficient K in N = K·Q·H.
	PowerCoefficient float64

	// FloodCeiling is the highest permitted level during the flood season.
	FloodCeiling float64

	// NormalCeiling is the highest permitted level outside the flood season.
	NormalCeiling float64

	// MinOperatingLevel is the dead-storage floor every trajectory starts from.
	MinOperatingLevel float64

	MinHead float64
	MaxHead float64

	// InitialFlowGuess seeds the flow solver (m³/s).
	InitialFlowGuess float64

	// HeadLossCoefficient c in loss = c·Q².
	HeadLossCoefficient float64

	// VolumeUnit is the number of m³ in one storage-curve volume unit.
	VolumeUnit float64

	// FloodSeasonStart and FloodSeasonEnd bound the flood season, inclusive.
	FloodSeasonStart time.Month
	FloodSeasonEnd   time.Month
}

// DefaultConstants returns the parameters of the reference reservoir.
func DefaultConstants() Constants {
	return Constants{
		PowerCoefficient:    8.6,
		FloodCeiling:        773.1,
		NormalCeiling:       780.0,
		MinOperatingLevel:   731.0,
		MinHead:             83.0,
		MaxHead:             143.0,
		InitialFlowGuess:    3012.0,
		HeadLossCoefficient: 2.08e-5,
		VolumeUnit:          1e8,
		FloodSeasonStart:    time.January,
		FloodSeasonEnd:      time.September,
	}
}

// Validate checks the constants for internal consistency.
func (c Constants) Validate() error {
	var errs []error

	if c.PowerCoefficient <= 0 {
		errs = append(errs, fmt.Errorf("power coefficient must be positive, got %v", c.PowerCoefficient))
	}
	if c.VolumeUnit <= 0 {
		errs = append(errs, fmt.Errorf("volume unit must be positive, got %v", c.VolumeUnit))
	}
	if c.HeadLossCoefficient < 0 {
		errs = append(errs, fmt.Errorf("head loss coefficient must not be negative, got %v", c.HeadLossCoefficient))
	}
	if c.MinHead >= c.MaxHead {
		errs = append(errs, fmt.Errorf("min head %v must be below max head %v", c.MinHead, c.MaxHead))
	}
	if c.MinOperatingLevel > c.FloodCeiling || c.MinOperatingLevel > c.NormalCeiling {
		errs = append(errs, fmt.Errorf("min operating level %v exceeds a seasonal ceiling (%v, %v)",
			c.MinOperatingLevel, c.FloodCeiling, c.NormalCeiling))
	}
	if c.FloodSeasonStart < time.January || c.FloodSeasonStart > time.December ||
		c.FloodSeasonEnd < time.January || c.FloodSeasonEnd > time.December {
		errs = append(errs, fmt.Errorf("flood season months out of range: %d..%d", c.FloodSeasonStart, c.FloodSeasonEnd))
	}

	return errors.Join(errs...)
}

// InFloodSeason reports whether date falls inside the flood season. A season
// whose end month precedes its start month wraps over the new year.
func (c Constants) InFloodSeason(date time.Time) bool {
	m := date.Month()
	if c.FloodSeasonStart <= c.FloodSeasonEnd {
		return m >= c.FloodSeasonStart && m <= c.FloodSeasonEnd
	}
	return m >= c.FloodSeasonStart || m <= c.FloodSeasonEnd
}

// SeasonalCeiling returns the highest permitted level on date.
func (c Constants) SeasonalCeiling(date time.Time) float64 {
	if c.InFloodSeason(date) {
		return c.FloodCeiling
	}
	return c.NormalCeiling
}

// HeadInBounds reports whether head lies within [MinHead, MaxHead].
func (c Constants) HeadInBounds(head float64) bool {
	return head >= c.MinHead && head <= c.MaxHead
}
