// Package render draws a patch coordinate set as an image so the grid,
// its coverage gaps and its spacing can be inspected by eye.
package render

import (
	"fmt"
	"strings"

	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/patchgrid/internal/grid"
)

// Mode selects how each patch is drawn.
type Mode int

const (
	// ModePoints marks each top-left corner with a dot.
	ModePoints Mode = iota
	// ModeRectangles outlines each patch as a pitch-sized square.
	ModeRectangles
)

func (m Mode) String() string {
	switch m {
	case ModePoints:
		return "points"
	case ModeRectangles:
		return "rectangles"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts "points" or "rectangles" (also "rect").
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "points", "point":
		return ModePoints, nil
	case "rectangles", "rectangle", "rect":
		return ModeRectangles, nil
	}
	return ModePoints, fmt.Errorf("unknown render mode %q", s)
}

// Defaults for unset Options fields. DefaultSize is the square figure edge.
const (
	DefaultDPI   = 300
	DefaultSize  = 10 * vg.Inch
	DefaultTitle = "Patch Grid Visualization"
)

// Options controls a render. Zero values take the defaults listed on each
// field.
type Options struct {
	Mode Mode

	// Pitch is the patch side length in pixels. Default grid.DefaultPatchSize.
	Pitch int

	// Padding is the margin around the outermost corners. Default Pitch.
	Padding int

	// Annotate draws the measured spacing between adjacent patches.
	Annotate bool

	// DPI applies to raster formats only. Default 300.
	DPI int

	// Width and Height of the figure. Default 10in each.
	Width, Height vg.Length

	Title string

	// ShowAxes draws tick labels. Annotated renders always show them.
	ShowAxes bool
}

func (o Options) withDefaults() Options {
	if o.Pitch <= 0 {
		o.Pitch = grid.DefaultPatchSize
	}
	if o.Padding <= 0 {
		o.Padding = o.Pitch
	}
	if o.DPI <= 0 {
		o.DPI = DefaultDPI
	}
	if o.Width <= 0 {
		o.Width = DefaultSize
	}
	if o.Height <= 0 {
		o.Height = DefaultSize
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	return o
}

// CanvasBounds returns the data-space extent of the canvas. Every corner lies
// at least pad inside each edge. In rectangle mode the far edges also leave
// room for a full tile beyond the last corner.
func CanvasBounds(cs grid.CoordinateSet, pad int, mode Mode, pitch int) (grid.Bounds, error) {
	b, err := cs.Bounds()
	if err != nil {
		return grid.Bounds{}, fmt.Errorf("canvas bounds: %w", err)
	}
	out := b.Pad(pad)
	if mode == ModeRectangles {
		far := max(pad, pitch)
		out.MaxX = b.MaxX + far
		out.MaxY = b.MaxY + far
	}
	return out, nil
}
