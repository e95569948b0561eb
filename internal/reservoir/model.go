// Package reservoir converts between the physical quantities of a reservoir:
// storage volume and level, release flow and tailwater level, head and
// generating capacity.
package reservoir

import (
	"errors"
	"fmt"
	"time"

	"github.com/chrissnell/reservoirops/internal/curve"
)

// ErrNoCapacityCurve is returned by CapacityCeiling when the model was built
// without a capacity curve.
var ErrNoCapacityCurve = errors.New("reservoir: no capacity curve loaded")

// Curves groups the calibration curves of a reservoir. Capacity is optional.
type Curves struct {
	// Storage maps level (X) to volume (Y).
	Storage *curve.Curve
	// Tailwater maps release flow (X) to downstream level (Y).
	Tailwater *curve.Curve
	// Capacity maps head (X) to maximum output (Y).
	Capacity *curve.Curve
}

// Model is the constraint model of one reservoir. It holds only read-only
// data and is safe for concurrent use.
type Model struct {
	constants Constants
	storage   *curve.Curve
	tailwater *curve.Curve
	capacity  *curve.Curve
}

// NewModel validates the constants and curves and builds a Model.
func NewModel(constants Constants, curves Curves) (*Model, error) {
	if err := constants.Validate(); err != nil {
		return nil, fmt.Errorf("invalid reservoir constants: %w", err)
	}
	if curves.Storage == nil {
		return nil, fmt.Errorf("storage curve missing: %w", curve.ErrInsufficientCalibrationData)
	}
	if curves.Tailwater == nil {
		return nil, fmt.Errorf("tailwater curve missing: %w", curve.ErrInsufficientCalibrationData)
	}

	return &Model{
		constants: constants,
		storage:   curves.Storage,
		tailwater: curves.Tailwater,
		capacity:  curves.Capacity,
	}, nil
}

// Constants returns the model's physical constants.
func (m *Model) Constants() Constants {
	return m.constants
}

// VolumeFromLevel returns the stored volume at level.
func (m *Model) VolumeFromLevel(level float64) (float64, error) {
	return m.storage.Y(level)
}

// LevelFromVolume returns the level at which volume is stored.
func (m *Model) LevelFromVolume(volume float64) (float64, error) {
	return m.storage.X(volume)
}

// TailwaterLevel returns the downstream level for a release flow.
func (m *Model) TailwaterLevel(flow float64) (float64, error) {
	return m.tailwater.Y(flow)
}

// HeadLoss returns the hydraulic loss for a release flow.
func (m *Model) HeadLoss(flow float64) float64 {
	return m.constants.HeadLossCoefficient * flow * flow
}

// HasCapacityCurve reports whether CapacityCeiling can be evaluated.
func (m *Model) HasCapacityCurve() bool {
	return m.capacity != nil
}

// CapacityCeiling returns the maximum output available at head.
func (m *Model) CapacityCeiling(head float64) (float64, error) {
	if m.capacity == nil {
		return 0, ErrNoCapacityCurve
	}
	return m.capacity.Y(head)
}

// SeasonalCeiling returns the highest permitted level on date.
func (m *Model) SeasonalCeiling(date time.Time) float64 {
	return m.constants.SeasonalCeiling(date)
}

// Clamp bounds level to [MinOperatingLevel, SeasonalCeiling(date)].
func (m *Model) Clamp(date time.Time, level float64) float64 {
	if ceiling := m.SeasonalCeiling(date); level > ceiling {
		return ceiling
	}
	if level < m.constants.MinOperatingLevel {
		return m.constants.MinOperatingLevel
	}
	return level
}
