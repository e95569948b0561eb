// Package curve provides calibration curves evaluated by two-nearest-point
// linear interpolation.
//
// A query picks the two samples whose coordinate on the queried axis is
// closest to the input (by squared distance) and evaluates the straight line
// through them. These are not necessarily the bracketing neighbours, so
// extrapolation past either end and behaviour around unevenly spaced samples
// differ from a bracketing lookup.
package curve

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInsufficientCalibrationData is returned when a curve has fewer than two points.
	ErrInsufficientCalibrationData = errors.New("curve: insufficient calibration data")

	// ErrDegenerateCalibration is returned when the two nearest points share
	// the same coordinate on the queried axis.
	ErrDegenerateCalibration = errors.New("curve: degenerate calibration segment")

	// ErrInvalidPoint is returned for NaN or infinite calibration values.
	ErrInvalidPoint = errors.New("curve: invalid calibration point")
)

// Point is one calibration sample.
type Point struct {
	X float64
	Y float64
}

// Curve is an immutable set of calibration points. It is safe for
// concurrent reads.
type Curve struct {
	name   string
	points []Point
}

// New copies points into a Curve. The order of points is kept; it decides
// which sample wins when two are equally distant from a query.
func New(name string, points []Point) (*Curve, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%s curve has %d points: %w", name, len(points), ErrInsufficientCalibrationData)
	}

	cp := make([]Point, len(points))
	for i, p := range points {
		if !finite(p.X) || !finite(p.Y) {
			return nil, fmt.Errorf("%s curve point %d (%v, %v): %w", name, i, p.X, p.Y, ErrInvalidPoint)
		}
		cp[i] = p
	}

	return &Curve{name: name, points: cp}, nil
}

// Name returns the curve's name.
func (c *Curve) Name() string {
	return c.name
}

// Len returns the number of points.
func (c *Curve) Len() int {
	return len(c.points)
}

// Points returns a copy of the calibration points.
func (c *Curve) Points() []Point {
	cp := make([]Point, len(c.points))
	copy(cp, c.points)
	return cp
}

// Y evaluates the curve at x, selecting neighbours on the X axis.
func (c *Curve) Y(x float64) (float64, error) {
	a, b := c.nearest(x, func(p Point) float64 { return p.X })
	if a.X == b.X {
		return 0, fmt.Errorf("%s curve at x=%v: %w", c.name, x, ErrDegenerateCalibration)
	}
	return (a.Y-b.Y)/(a.X-b.X)*(x-a.X) + a.Y, nil
}

// X evaluates the inverse curve at y, selecting neighbours on the Y axis.
func (c *Curve) X(y float64) (float64, error) {
	a, b := c.nearest(y, func(p Point) float64 { return p.Y })
	if a.Y == b.Y {
		return 0, fmt.Errorf("%s curve at y=%v: %w", c.name, y, ErrDegenerateCalibration)
	}
	return (a.X-b.X)/(a.Y-b.Y)*(y-a.Y) + a.X, nil
}

// nearest returns the two points closest to v on the axis picked by axis.
// On equal distance the earlier point wins, matching a stable sort.
func (c *Curve) nearest(v float64, axis func(Point) float64) (Point, Point) {
	first, second := -1, -1
	var d1, d2 float64

	for i, p := range c.points {
		d := axis(p) - v
		d *= d
		switch {
		case first < 0 || d < d1:
			second, d2 = first, d1
			first, d1 = i, d
		case second < 0 || d < d2:
			second, d2 = i, d
		}
	}

	return c.points[first], c.points[second]
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
