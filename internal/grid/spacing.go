package grid

// Axis identifies the direction of a neighbour spacing.
type Axis int

const (
	// Vertical spacings join two points in the same column.
	Vertical Axis = iota
	// Horizontal spacings join two points in the same row.
	Horizontal
)

func (a Axis) String() string {
	switch a {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	default:
		return "unknown"
	}
}

// Spacing is the distance between two axis-aligned adjacent patches.
// Distance is always positive.
type Spacing struct {
	A, B     Coordinate
	Axis     Axis
	Distance int
}

// pairSpacing classifies an adjacent pair. Diagonal transitions and
// duplicates do not qualify.
func pairSpacing(a, b Coordinate) (Spacing, bool) {
	switch {
	case a.X == b.X && a.Y != b.Y:
		return Spacing{A: a, B: b, Axis: Vertical, Distance: absInt(b.Y - a.Y)}, true
	case a.Y == b.Y && a.X != b.X:
		return Spacing{A: a, B: b, Axis: Horizontal, Distance: absInt(b.X - a.X)}, true
	}
	return Spacing{}, false
}

func scanSpacings(sorted CoordinateSet, keep func(Axis) bool) []Spacing {
	var out []Spacing
	for i := 0; i+1 < len(sorted); i++ {
		s, ok := pairSpacing(sorted[i], sorted[i+1])
		if !ok || !keep(s.Axis) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// ColumnSpacings scans the (x, y)-sorted set and returns every qualifying
// adjacent pair, vertical or horizontal. These are the pitch candidates.
func (cs CoordinateSet) ColumnSpacings() []Spacing {
	return scanSpacings(cs.SortByColumn(), func(Axis) bool { return true })
}

// VerticalSpacings returns same-column neighbours from the (x, y)-sorted set.
func (cs CoordinateSet) VerticalSpacings() []Spacing {
	return scanSpacings(cs.SortByColumn(), func(a Axis) bool { return a == Vertical })
}

// HorizontalSpacings returns same-row neighbours from the (y, x)-sorted set.
func (cs CoordinateSet) HorizontalSpacings() []Spacing {
	return scanSpacings(cs.SortByRow(), func(a Axis) bool { return a == Horizontal })
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
