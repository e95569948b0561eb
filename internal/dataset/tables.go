// Package dataset reads calibration tables and inflow series from the
// tab-separated text files the reservoir data is kept in.
package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chrissnell/reservoirops/internal/curve"
)

// Table describes where a curve's axes live in a calibration file. Columns
// are zero-based; column 0 is usually a row index.
type Table struct {
	Name string
	XCol int
	YCol int
}

var (
	// StorageTable: index, level, volume.
	StorageTable = Table{Name: "storage", XCol: 1, YCol: 2}
	// TailwaterTable: index, tailwater level, flow. The curve maps flow to level.
	TailwaterTable = Table{Name: "tailwater", XCol: 2, YCol: 1}
	// CapacityTable: index, head, maximum output.
	CapacityTable = Table{Name: "capacity", XCol: 1, YCol: 2}
)

// fields splits a data line on tabs, spaces, commas or semicolons.
func fields(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == '\t' || r == ' ' || r == ',' || r == ';'
	})
}

// dataLines yields the non-blank, non-comment lines of r with their
// 1-based line numbers.
func dataLines(r io.Reader, fn func(lineNo int, f []string) error) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := fn(lineNo, fields(line)); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func parseFloat(f []string, col int) (float64, error) {
	if col >= len(f) {
		return 0, fmt.Errorf("missing column %d", col)
	}
	return strconv.ParseFloat(f[col], 64)
}

// ReadCurve parses a calibration table. A non-numeric line before the first
// data row is treated as a header and skipped; after that it is an error.
func ReadCurve(r io.Reader, t Table) (*curve.Curve, error) {
	var points []curve.Point

	err := dataLines(r, func(lineNo int, f []string) error {
		x, errX := parseFloat(f, t.XCol)
		y, errY := parseFloat(f, t.YCol)
		if errX != nil || errY != nil {
			if len(points) == 0 {
				return nil
			}
			return fmt.Errorf("%s table line %d: %v", t.Name, lineNo, firstErr(errX, errY))
		}
		points = append(points, curve.Point{X: x, Y: y})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return curve.New(t.Name, points)
}

// LoadCurve reads a calibration table from path.
func LoadCurve(path string, t Table) (*curve.Curve, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s table: %w", t.Name, err)
	}
	defer f.Close()

	c, err := ReadCurve(f, t)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return c, nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
