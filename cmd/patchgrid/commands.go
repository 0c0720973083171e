package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/banshee-data/patchgrid/internal/config"
	"github.com/banshee-data/patchgrid/internal/coords"
	"github.com/banshee-data/patchgrid/internal/fsutil"
	"github.com/banshee-data/patchgrid/internal/grid"
	"github.com/banshee-data/patchgrid/internal/store"
)

var (
	errMissingFlag = errors.New("missing required flag")
	errRunNotFound = errors.New("render run not found")
)

func runInfo(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	source := fs.String("source", "", "coordinate source")
	patchSize := fs.Int("patch-size", grid.DefaultPatchSize, "fallback pitch")
	head := fs.Int("head", 10, "number of leading coordinates to print")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *source == "" {
		return fmt.Errorf("%w: -source", errMissingFlag)
	}

	cs, err := coords.Load(fsutil.OSFileSystem{}, *source)
	if err != nil {
		return err
	}
	if _, err := grid.Summarize(cs, *head).WriteTo(out); err != nil {
		return err
	}
	est := grid.EstimatePitch(cs, *patchSize)
	fmt.Fprintf(out, "estimated %s\n", est)
	return nil
}

func runImport(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	dbPath := fs.String("db", "", "SQLite store path")
	source := fs.String("source", "", "coordinate source")
	slide := fs.String("slide", "", "slide id (default: source file name)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dbPath == "" || *source == "" {
		return fmt.Errorf("%w: -db and -source", errMissingFlag)
	}

	cfg := &config.RunConfig{SourcePath: source}
	if *slide != "" {
		cfg.SlideID = slide
	}
	slideID := cfg.GetSlideID()

	cs, err := coords.Load(fsutil.OSFileSystem{}, *source)
	if err != nil {
		return err
	}

	db, err := store.Open(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.NewCoordinateStore(db.DB).Save(slideID, *source, cs); err != nil {
		return err
	}
	fmt.Fprintf(out, "imported %d coordinates as %s#%s\n", len(cs), *dbPath, slideID)
	return nil
}

func runRuns(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	dbPath := fs.String("db", "", "SQLite store path")
	slide := fs.String("slide", "", "slide id")
	runID := fs.String("id", "", "show a single run by id")
	asJSON := fs.Bool("json", false, "print runs as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dbPath == "" || (*slide == "" && *runID == "") {
		return fmt.Errorf("%w: -db and -slide or -id", errMissingFlag)
	}

	db, err := store.Open(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	runStore := store.NewRunStore(db.DB)

	var runs []*store.RenderRun
	if *runID != "" {
		run, err := runStore.Get(*runID)
		if err != nil {
			return err
		}
		if run == nil {
			return fmt.Errorf("%w: %s", errRunNotFound, *runID)
		}
		runs = []*store.RenderRun{run}
	} else if runs, err = runStore.ListBySlide(*slide); err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSLIDE\tCREATED\tPOINTS\tPITCH\tMODE\tIMAGE")
	for _, r := range runs {
		pitch := fmt.Sprint(r.Pitch)
		if r.Indeterminate {
			pitch += "*"
		}
		created := time.Unix(0, r.CreatedAt).UTC().Format(time.RFC3339)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n", r.RunID, r.SlideID, created, r.PointCount, pitch, r.Mode, r.ImagePath)
	}
	return tw.Flush()
}

func runDelete(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	dbPath := fs.String("db", "", "SQLite store path")
	slide := fs.String("slide", "", "slide id to remove")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dbPath == "" || *slide == "" {
		return fmt.Errorf("%w: -db and -slide", errMissingFlag)
	}

	db, err := store.Open(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.NewCoordinateStore(db.DB).Delete(*slide); err != nil {
		return err
	}
	fmt.Fprintf(out, "deleted slide %s from %s\n", *slide, *dbPath)
	return nil
}

func runMigrate(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	dbPath := fs.String("db", "", "SQLite store path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dbPath == "" {
		return fmt.Errorf("%w: -db", errMissingFlag)
	}
	action := "up"
	if fs.NArg() > 0 {
		action = fs.Arg(0)
	}

	db, err := store.OpenDB(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	switch action {
	case "up":
		err = db.MigrateUp()
	case "down":
		err = db.MigrateDown()
	case "version":
	default:
		return fmt.Errorf("unknown migrate action %q (want up, down or version)", action)
	}
	if err != nil {
		return err
	}

	v, dirty, err := db.MigrateVersion()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "schema version %d (dirty=%v)\n", v, dirty)
	return nil
}
