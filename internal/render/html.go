package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/patchgrid/internal/grid"
)

// WriteHTML writes an interactive chart of cs. Rectangles become mark areas
// and annotated spacings become labelled mark lines.
func WriteHTML(w io.Writer, cs grid.CoordinateSet, o Options) error {
	if len(cs) == 0 {
		return fmt.Errorf("render: %w: no coordinates", grid.ErrInvalidInput)
	}
	o = o.withDefaults()
	b, err := CanvasBounds(cs, o.Padding, o.Mode, o.Pitch)
	if err != nil {
		return err
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: o.Title, Width: cssPixels(o.Width), Height: cssPixels(o.Height)}),
		charts.WithTitleOpts(opts.Title{Title: o.Title, Subtitle: fmt.Sprintf("patches=%d pitch=%d mode=%s", len(cs), o.Pitch, o.Mode)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "X coordinate (pixels)", Min: b.MinX, Max: b.MaxX}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Y coordinate (pixels)", Min: b.MinY, Max: b.MaxY, Inverse: opts.Bool(true)}),
	)

	data := make([]opts.ScatterData, len(cs))
	for i, c := range cs {
		data[i] = opts.ScatterData{Name: c.String(), Value: []interface{}{c.X, c.Y}}
	}
	series := []charts.SeriesOpts{charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 5})}
	if o.Mode == ModeRectangles {
		series = append(series, tileAreas(cs, o.Pitch)...)
	}
	scatter.AddSeries("corners", data, series...)

	if o.Annotate {
		for _, g := range []struct {
			name  string
			spans []grid.Spacing
			color string
		}{
			{"vertical spacing", cs.VerticalSpacings(), "#1f4ed8"},
			{"horizontal spacing", cs.HorizontalSpacings(), "#2ca02c"},
		} {
			if len(g.spans) == 0 {
				continue
			}
			scatter.AddSeries(g.name, nil, spacingLines(g.spans, g.color)...)
		}
	}

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("%w: html: %w", grid.ErrOutputWrite, err)
	}
	return nil
}

// SaveHTML writes the interactive chart of cs to path on the local
// filesystem.
func SaveHTML(path string, cs grid.CoordinateSet, o Options) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if format != FormatHTML {
		return fmt.Errorf("%w: %q is not an html path", ErrUnsupportedFormat, path)
	}
	return New(o).Save(path, cs)
}

// cssPixels converts a figure dimension at 96 CSS pixels per inch.
func cssPixels(l vg.Length) string {
	return strconv.Itoa(int(l.Points()*96/72)) + "px"
}

func tileAreas(cs grid.CoordinateSet, pitch int) []charts.SeriesOpts {
	items := make([]opts.MarkAreaNameCoordItem, len(cs))
	for i, c := range cs {
		items[i] = opts.MarkAreaNameCoordItem{
			Coordinate0: []interface{}{c.X, c.Y},
			Coordinate1: []interface{}{c.X + pitch, c.Y + pitch},
		}
	}
	return []charts.SeriesOpts{
		charts.WithMarkAreaNameCoordItemOpts(items...),
		charts.WithMarkAreaStyleOpts(opts.MarkAreaStyle{
			ItemStyle: &opts.ItemStyle{Color: "rgba(0,0,0,0)", BorderColor: "#d62728", BorderWidth: 1},
		}),
	}
}

func spacingLines(spans []grid.Spacing, color string) []charts.SeriesOpts {
	items := make([]opts.MarkLineNameCoordItem, len(spans))
	for i, s := range spans {
		items[i] = opts.MarkLineNameCoordItem{
			Name:        strconv.Itoa(s.Distance),
			Coordinate0: []interface{}{s.A.X, s.A.Y},
			Coordinate1: []interface{}{s.B.X, s.B.Y},
		}
	}
	return []charts.SeriesOpts{
		charts.WithMarkLineNameCoordItemOpts(items...),
		charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
			Symbol:    []string{"arrow", "arrow"},
			Label:     &opts.Label{Show: opts.Bool(true), Formatter: types.FuncStr("{b}")},
			LineStyle: &opts.LineStyle{Color: color, Width: 1},
		}),
	}
}
