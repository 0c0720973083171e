package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/banshee-data/patchgrid/internal/grid"
	"github.com/banshee-data/patchgrid/internal/monitoring"
)

// Output formats, named by their canonical file extension.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpg"
	FormatTIFF = "tif"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatEPS  = "eps"
	FormatHTML = "html"
)

// ErrUnsupportedFormat is returned for an output path with an unknown
// extension.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// FormatFromPath maps a file extension to an output format.
func FormatFromPath(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case FormatPNG, FormatSVG, FormatPDF, FormatEPS, FormatHTML:
		return ext, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "htm":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// WriteTo renders cs in the given format and writes it to w.
func (r *Renderer) WriteTo(w io.Writer, format string, cs grid.CoordinateSet) error {
	if format == FormatHTML {
		return WriteHTML(w, cs, r.opts)
	}
	p, err := r.Plot(cs)
	if err != nil {
		return err
	}
	wt, err := r.canvas(p, format)
	if err != nil {
		return err
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("%w: %s: %w", grid.ErrOutputWrite, format, err)
	}
	return nil
}

func (r *Renderer) canvas(p *plot.Plot, format string) (io.WriterTo, error) {
	w, h := r.opts.Width, r.opts.Height
	switch format {
	case FormatPNG, FormatJPEG, FormatTIFF:
		c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(r.opts.DPI))
		p.Draw(draw.New(c))
		switch format {
		case FormatJPEG:
			return vgimg.JpegCanvas{Canvas: c}, nil
		case FormatTIFF:
			return vgimg.TiffCanvas{Canvas: c}, nil
		}
		return vgimg.PngCanvas{Canvas: c}, nil
	case FormatSVG, FormatPDF, FormatEPS:
		wt, err := p.WriterTo(w, h, format)
		if err != nil {
			return nil, fmt.Errorf("render: %s canvas: %w", format, err)
		}
		return wt, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// Save renders cs to path, choosing the format from its extension. The image
// is fully rendered before the file is created, so a failed render leaves
// nothing behind.
func (r *Renderer) Save(path string, cs grid.CoordinateSet) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := r.WriteTo(&buf, format, cs); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := r.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %s: %w", grid.ErrOutputWrite, dir, err)
		}
	}
	f, err := r.fs.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", grid.ErrOutputWrite, path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %s: %w", grid.ErrOutputWrite, path, cerr)
		}
	}()
	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %s: %w", grid.ErrOutputWrite, path, err)
	}

	monitoring.Logf("rendered %d patches (%s, pitch %d) to %s", len(cs), r.opts.Mode, r.opts.Pitch, path)
	return nil
}
