package render

import (
	"fmt"
	"image/color"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/patchgrid/internal/fsutil"
	"github.com/banshee-data/patchgrid/internal/grid"
)

var (
	pointColor      = color.NRGBA{R: 0x1f, G: 0x4e, B: 0xd8, A: 0xb3}
	tileColor       = color.NRGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	verticalColor   = color.NRGBA{R: 0x1f, G: 0x4e, B: 0xd8, A: 0xff}
	horizontalColor = color.NRGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}
	gridLineColor   = color.Gray{Y: 0xc0}
)

// Renderer draws coordinate sets with a fixed set of options.
type Renderer struct {
	opts Options
	fs   fsutil.FileSystem
}

// New returns a Renderer that writes to the local filesystem.
func New(opts Options) *Renderer {
	return NewWithFS(opts, fsutil.OSFileSystem{})
}

// NewWithFS returns a Renderer that creates output files through fsys.
func NewWithFS(opts Options, fsys fsutil.FileSystem) *Renderer {
	return &Renderer{opts: opts.withDefaults(), fs: fsys}
}

// Options returns the effective options, defaults applied.
func (r *Renderer) Options() Options { return r.opts }

// Plot builds the figure for cs. The Y axis grows downwards, matching slide
// pixel coordinates.
func (r *Renderer) Plot(cs grid.CoordinateSet) (*plot.Plot, error) {
	if len(cs) == 0 {
		return nil, fmt.Errorf("render: %w: no coordinates", grid.ErrInvalidInput)
	}
	o := r.opts
	bounds, err := CanvasBounds(cs, o.Padding, o.Mode, o.Pitch)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = o.Title
	p.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}

	if o.ShowAxes || o.Annotate {
		p.X.Label.Text = "X coordinate (pixels)"
		p.Y.Label.Text = "Y coordinate (pixels)"
		lines := plotter.NewGrid()
		lines.Vertical = draw.LineStyle{Color: gridLineColor, Width: vg.Points(0.5), Dashes: []vg.Length{vg.Points(3), vg.Points(3)}}
		lines.Horizontal = lines.Vertical
		p.Add(lines)
	} else {
		p.HideAxes()
	}

	layers, err := r.layers(cs)
	if err != nil {
		return nil, err
	}
	p.Add(layers...)

	// Set after Add so plotter data ranges cannot override them.
	p.X.Min, p.X.Max = float64(bounds.MinX), float64(bounds.MaxX)
	p.Y.Min, p.Y.Max = float64(bounds.MinY), float64(bounds.MaxY)
	return p, nil
}

// layers returns the patch marks followed by any spacing annotations.
func (r *Renderer) layers(cs grid.CoordinateSet) ([]plot.Plotter, error) {
	var out []plot.Plotter
	switch r.opts.Mode {
	case ModeRectangles:
		tiles, err := tilePolygon(cs, r.opts.Pitch)
		if err != nil {
			return nil, err
		}
		out = append(out, tiles)
	default:
		s, err := plotter.NewScatter(toXYs(cs))
		if err != nil {
			return nil, fmt.Errorf("render: scatter: %w", err)
		}
		s.GlyphStyle = draw.GlyphStyle{Color: pointColor, Radius: vg.Points(2.5), Shape: draw.CircleGlyph{}}
		out = append(out, s)
	}

	if r.opts.Annotate {
		spans, err := spacingLayers(cs, r.opts.Pitch)
		if err != nil {
			return nil, err
		}
		out = append(out, spans...)
	}
	return out, nil
}

func toXYs(cs grid.CoordinateSet) plotter.XYs {
	xys := make(plotter.XYs, len(cs))
	for i, c := range cs {
		xys[i] = plotter.XY{X: float64(c.X), Y: float64(c.Y)}
	}
	return xys
}

// tilePolygon returns one unfilled ring per patch.
func tilePolygon(cs grid.CoordinateSet, pitch int) (*plotter.Polygon, error) {
	rings := make([]plotter.XYer, len(cs))
	side := float64(pitch)
	for i, c := range cs {
		x, y := float64(c.X), float64(c.Y)
		rings[i] = plotter.XYs{
			{X: x, Y: y},
			{X: x + side, Y: y},
			{X: x + side, Y: y + side},
			{X: x, Y: y + side},
		}
	}
	poly, err := plotter.NewPolygon(rings...)
	if err != nil {
		return nil, fmt.Errorf("render: tiles: %w", err)
	}
	poly.Color = nil
	poly.LineStyle = draw.LineStyle{Color: tileColor, Width: vg.Points(0.75)}
	return poly, nil
}

// spacingLayers draws vertical spacings left of their column and horizontal
// spacings below their row, each labelled with its distance.
func spacingLayers(cs grid.CoordinateSet, pitch int) ([]plot.Plotter, error) {
	var out []plot.Plotter
	vert := cs.VerticalSpacings()
	horiz := cs.HorizontalSpacings()
	for _, g := range []struct {
		spans []grid.Spacing
		color color.Color
	}{
		{vert, verticalColor},
		{horiz, horizontalColor},
	} {
		if len(g.spans) == 0 {
			continue
		}
		lbl, err := spacingLabels(g.spans, pitch, g.color)
		if err != nil {
			return nil, err
		}
		out = append(out, &spanArrows{
			spans:     g.spans,
			LineStyle: draw.LineStyle{Color: g.color, Width: vg.Points(0.75)},
			Head:      vg.Points(4),
		}, lbl)
	}
	return out, nil
}

func spacingLabels(spans []grid.Spacing, pitch int, clr color.Color) (*plotter.Labels, error) {
	xys := make(plotter.XYs, len(spans))
	text := make([]string, len(spans))
	for i, s := range spans {
		midX := float64(s.A.X+s.B.X) / 2
		midY := float64(s.A.Y+s.B.Y) / 2
		if s.Axis == grid.Vertical {
			xys[i] = plotter.XY{X: midX - 0.4*float64(pitch), Y: midY}
		} else {
			xys[i] = plotter.XY{X: midX, Y: midY + 0.3*float64(pitch)}
		}
		text[i] = strconv.Itoa(s.Distance)
	}
	lbl, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: text})
	if err != nil {
		return nil, fmt.Errorf("render: labels: %w", err)
	}
	for i, s := range spans {
		sty := &lbl.TextStyle[i]
		sty.Color = clr
		sty.Font.Size = vg.Points(7)
		if s.Axis == grid.Vertical {
			sty.XAlign, sty.YAlign = draw.XRight, draw.YCenter
		} else {
			sty.XAlign, sty.YAlign = draw.XCenter, draw.YTop
		}
	}
	return lbl, nil
}
