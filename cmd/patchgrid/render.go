package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/banshee-data/patchgrid/internal/config"
	"github.com/banshee-data/patchgrid/internal/coords"
	"github.com/banshee-data/patchgrid/internal/fixtures"
	"github.com/banshee-data/patchgrid/internal/fsutil"
	"github.com/banshee-data/patchgrid/internal/grid"
	"github.com/banshee-data/patchgrid/internal/render"
	"github.com/banshee-data/patchgrid/internal/store"
)

// demoSource names the built-in sample set in run records.
const demoSource = "builtin:sample_points"

// renderFlags parses render's flags into a config overlay. Only flags the
// user actually set end up non-nil, so file values survive.
func renderFlags(args []string) (configPath string, demo bool, overlay *config.RunConfig, err error) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "JSON run config file")
	source := fs.String("source", "", "coordinate source (.h5, .json, .csv, .db)")
	table := fs.String("table", "", "coordinate table output (.csv)")
	image := fs.String("image", "", "image output (.png, .jpg, .tif, .svg, .pdf, .eps, .html)")
	patchSize := fs.Int("patch-size", grid.DefaultPatchSize, "nominal patch size and fallback pitch")
	rect := fs.Bool("rect", false, "draw patch rectangles instead of corner points")
	mode := fs.String("mode", "", "render mode: points or rectangles (overrides -rect)")
	padding := fs.Int("padding", 0, "canvas padding in pixels (default: patch size)")
	dpi := fs.Int("dpi", render.DefaultDPI, "raster output resolution")
	annotate := fs.Bool("annotate", false, "label adjacent patch spacings")
	noEstimate := fs.Bool("no-estimate", false, "skip estimation and draw at -patch-size")
	dbPath := fs.String("db", "", "record the run in this SQLite store")
	slide := fs.String("slide", "", "slide id for the run record (default: source file name)")
	demoFlag := fs.Bool("demo", false, "use the built-in sample coordinates")
	if err := fs.Parse(args); err != nil {
		return "", false, nil, err
	}

	overlay = config.EmptyRunConfig()
	modeSet := false
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "source":
			overlay.SourcePath = source
		case "table":
			overlay.TablePath = table
		case "image":
			overlay.ImagePath = image
		case "patch-size":
			overlay.PatchSize = patchSize
		case "rect":
			overlay.DrawRect = rect
		case "padding":
			overlay.Padding = padding
		case "dpi":
			overlay.DPI = dpi
		case "annotate":
			overlay.Annotate = annotate
		case "no-estimate":
			estimate := !*noEstimate
			overlay.Estimate = &estimate
		case "db":
			overlay.DBPath = dbPath
		case "slide":
			overlay.SlideID = slide
		case "mode":
			modeSet = true
		}
	})
	if modeSet {
		m, err := render.ParseMode(*mode)
		if err != nil {
			return "", false, nil, err
		}
		drawRect := m == render.ModeRectangles
		overlay.DrawRect = &drawRect
	}
	return *cfgPath, *demoFlag, overlay, nil
}

func runRender(args []string, out io.Writer) error {
	cfgPath, demo, overlay, err := renderFlags(args)
	if err != nil {
		return err
	}

	cfg := config.EmptyRunConfig()
	if cfgPath != "" {
		if cfg, err = config.LoadRunConfig(cfgPath); err != nil {
			return err
		}
	}
	cfg.Merge(overlay)
	if demo && cfg.SourcePath == nil {
		src := demoSource
		cfg.SourcePath = &src
	}
	if err := cfg.Complete(); err != nil {
		return err
	}

	var cs grid.CoordinateSet
	if demo {
		cs, err = fixtures.SamplePoints()
	} else {
		cs, err = coords.Load(fsutil.OSFileSystem{}, cfg.GetSourcePath())
	}
	if err != nil {
		return err
	}

	run, err := renderSet(cfg, cs, fsutil.OSFileSystem{}, out)
	if err != nil {
		return err
	}

	if dbPath := cfg.GetDBPath(); dbPath != "" {
		db, err := store.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := store.NewRunStore(db.DB).Insert(run); err != nil {
			return err
		}
		fmt.Fprintf(out, "recorded run %s in %s\n", run.RunID, dbPath)
	}
	return nil
}

// renderSet runs the table, estimate and render steps for one set and
// returns the run record.
func renderSet(cfg *config.RunConfig, cs grid.CoordinateSet, fsys fsutil.FileSystem, out io.Writer) (*store.RenderRun, error) {
	if len(cs) == 0 {
		return nil, fmt.Errorf("%w: source %s has no coordinates", grid.ErrInvalidInput, cfg.GetSourcePath())
	}
	if _, err := grid.Summarize(cs, 10).WriteTo(out); err != nil {
		return nil, err
	}

	tablePath := cfg.GetTablePath()
	if err := coords.SaveTable(fsys, tablePath, cs); err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "coordinate table saved to %s\n", tablePath)

	est := grid.Estimate{Pitch: cfg.GetPatchSize()}
	if cfg.GetEstimate() {
		est = grid.EstimatePitch(cs, cfg.GetPatchSize())
		if err := est.Err(); err != nil {
			fmt.Fprintf(out, "warning: %v\n", err)
		}
		fmt.Fprintf(out, "estimated %s\n", est)
	}

	opts := cfg.RenderOptions(est.Pitch)
	imagePath := cfg.GetImagePath()
	if err := render.NewWithFS(opts, fsys).Save(imagePath, cs); err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "visualization saved to %s\n", imagePath)

	return &store.RenderRun{
		SlideID:       cfg.GetSlideID(),
		SourcePath:    cfg.GetSourcePath(),
		Pitch:         est.Pitch,
		Indeterminate: est.Indeterminate,
		Candidates:    est.Candidates,
		PointCount:    len(cs),
		Mode:          opts.Mode.String(),
		Padding:       cfg.GetPadding(),
		TablePath:     tablePath,
		ImagePath:     imagePath,
	}, nil
}
