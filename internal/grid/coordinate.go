// Package grid models WSI patch coordinates and infers the grid they were
// cut from.
//
// Coordinates are top-left pixel corners in image convention: x grows to the
// right and y grows downward. Nothing in this package mutates its input;
// helpers that need an ordering work on a sorted copy.
package grid

import (
	"fmt"
	"sort"
)

// Coordinate is the top-left pixel position of one extracted patch.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// CoordinateSet is a collection of patch corners in the order received.
// Duplicates are allowed.
type CoordinateSet []Coordinate

// Len returns the number of coordinates.
func (cs CoordinateSet) Len() int { return len(cs) }

// Clone returns an independent copy of the set.
func (cs CoordinateSet) Clone() CoordinateSet {
	if cs == nil {
		return nil
	}
	out := make(CoordinateSet, len(cs))
	copy(out, cs)
	return out
}

// SortByColumn returns a copy ordered by (x, y): points are grouped into
// columns, each column ordered top to bottom.
func (cs CoordinateSet) SortByColumn() CoordinateSet {
	out := cs.Clone()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Y < out[j].Y
	})
	return out
}

// SortByRow returns a copy ordered by (y, x): points are grouped into rows,
// each row ordered left to right.
func (cs CoordinateSet) SortByRow() CoordinateSet {
	out := cs.Clone()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// Bounds is the axis-aligned extent of a coordinate set, inclusive.
type Bounds struct {
	MinX, MinY int
	MaxX, MaxY int
}

// Width returns MaxX - MinX.
func (b Bounds) Width() int { return b.MaxX - b.MinX }

// Height returns MaxY - MinY.
func (b Bounds) Height() int { return b.MaxY - b.MinY }

// Pad returns the bounds extended by n on every side.
func (b Bounds) Pad(n int) Bounds {
	return Bounds{
		MinX: b.MinX - n,
		MinY: b.MinY - n,
		MaxX: b.MaxX + n,
		MaxY: b.MaxY + n,
	}
}

// Bounds returns the componentwise minima and maxima of the set.
// An empty set has no extent and yields ErrInvalidInput.
func (cs CoordinateSet) Bounds() (Bounds, error) {
	if len(cs) == 0 {
		return Bounds{}, ErrInvalidInput
	}
	b := Bounds{MinX: cs[0].X, MinY: cs[0].Y, MaxX: cs[0].X, MaxY: cs[0].Y}
	for _, c := range cs[1:] {
		b.MinX = min(b.MinX, c.X)
		b.MinY = min(b.MinY, c.Y)
		b.MaxX = max(b.MaxX, c.X)
		b.MaxY = max(b.MaxY, c.Y)
	}
	return b, nil
}
