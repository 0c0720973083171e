// Package fixtures embeds small coordinate datasets used by tests and by
// the CLI demo mode.
package fixtures

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/banshee-data/patchgrid/internal/grid"
)

//go:embed sample_points.json
var samplePointsJSON []byte

// SamplePitch is the patch edge the sample points were extracted with.
const SamplePitch = 128

// SamplePointsJSON returns the raw sample document, shaped like a coordinate
// source: {"coords": [[x, y], ...]}.
func SamplePointsJSON() []byte {
	return append([]byte(nil), samplePointsJSON...)
}

// SamplePoints decodes the embedded 34-point excerpt of a kidney slide.
func SamplePoints() (grid.CoordinateSet, error) {
	var doc struct {
		Coords [][]int `json:"coords"`
	}
	if err := json.Unmarshal(samplePointsJSON, &doc); err != nil {
		return nil, fmt.Errorf("decode sample points: %w", err)
	}
	cs := make(grid.CoordinateSet, 0, len(doc.Coords))
	for i, row := range doc.Coords {
		if len(row) != 2 {
			return nil, fmt.Errorf("sample point %d: expected 2 values, got %d", i, len(row))
		}
		cs = append(cs, grid.Coordinate{X: row[0], Y: row[1]})
	}
	return cs, nil
}

// MustSamplePoints is SamplePoints for test setup; it panics on error.
func MustSamplePoints() grid.CoordinateSet {
	cs, err := SamplePoints()
	if err != nil {
		panic(err)
	}
	return cs
}

// PerfectGrid returns cols*rows corners spaced pitch apart starting at
// origin, emitted row by row.
func PerfectGrid(origin grid.Coordinate, cols, rows, pitch int) grid.CoordinateSet {
	cs := make(grid.CoordinateSet, 0, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cs = append(cs, grid.Coordinate{X: origin.X + c*pitch, Y: origin.Y + r*pitch})
		}
	}
	return cs
}
