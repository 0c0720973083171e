package render

import (
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/patchgrid/internal/grid"
)

// spanArrows draws a double-headed arrow between the two corners of each
// spacing.
type spanArrows struct {
	spans []grid.Spacing
	draw.LineStyle

	// Head is the length of each arrowhead stroke.
	Head vg.Length
}

var (
	_ plot.Plotter    = (*spanArrows)(nil)
	_ plot.DataRanger = (*spanArrows)(nil)
)

func (a *spanArrows) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for _, s := range a.spans {
		p0 := vg.Point{X: trX(float64(s.A.X)), Y: trY(float64(s.A.Y))}
		p1 := vg.Point{X: trX(float64(s.B.X)), Y: trY(float64(s.B.Y))}
		lines := [][]vg.Point{{p0, p1}}
		lines = append(lines, arrowHead(p1, p0, a.Head)...)
		lines = append(lines, arrowHead(p0, p1, a.Head)...)
		c.StrokeLines(a.LineStyle, c.ClipLinesXY(lines...)...)
	}
}

func (a *spanArrows) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, ymin = math.Inf(1), math.Inf(1)
	xmax, ymax = math.Inf(-1), math.Inf(-1)
	for _, s := range a.spans {
		for _, c := range []grid.Coordinate{s.A, s.B} {
			xmin = math.Min(xmin, float64(c.X))
			xmax = math.Max(xmax, float64(c.X))
			ymin = math.Min(ymin, float64(c.Y))
			ymax = math.Max(ymax, float64(c.Y))
		}
	}
	return xmin, xmax, ymin, ymax
}

const headAngle = math.Pi / 6

// arrowHead returns the two strokes of a head at tip, pointing away from tail.
func arrowHead(tip, tail vg.Point, size vg.Length) [][]vg.Point {
	dx, dy := float64(tip.X-tail.X), float64(tip.Y-tail.Y)
	n := math.Hypot(dx, dy)
	if n == 0 || size <= 0 {
		return nil
	}
	back := math.Atan2(-dy, -dx)
	out := make([][]vg.Point, 0, 2)
	for _, da := range []float64{-headAngle, headAngle} {
		a := back + da
		end := vg.Point{
			X: tip.X + size*vg.Length(math.Cos(a)),
			Y: tip.Y + size*vg.Length(math.Sin(a)),
		}
		out = append(out, []vg.Point{tip, end})
	}
	return out
}
