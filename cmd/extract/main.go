// Command extract drives the external patch extraction pipeline over a
// directory of slides: one slide on its own, then the whole directory, and
// checks that every enabled stage wrote its products.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/banshee-data/patchgrid/internal/extract"
)

const defaultCommand = "python3 create_patches_fp.py"

var errIncomplete = errors.New("extraction incomplete")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, extract.NewExecBuilder()); err != nil {
		log.Fatalf("extract: %v", err)
	}
}

func parseRequest(args []string) (extract.Request, string, error) {
	fs := flag.NewFlagSet("extract", flag.ContinueOnError)
	source := fs.String("source", "", "directory of slide files")
	saveDir := fs.String("save-dir", "", "directory for extraction products")
	patchSize := fs.Int("patch-size", extract.DefaultPatchSize, "patch edge in pixels")
	stepSize := fs.Int("step-size", extract.DefaultStepSize, "stride between patches")
	patchLevel := fs.Int("patch-level", extract.DefaultPatchLevel, "pyramid level to patch at")
	noSeg := fs.Bool("no-seg", false, "skip tissue segmentation")
	noPatch := fs.Bool("no-patch", false, "skip patching")
	noStitch := fs.Bool("no-stitch", false, "skip stitching")
	noAutoSkip := fs.Bool("no-auto-skip", false, "reprocess slides that already have products")
	numFiles := fs.Int("num-files", 0, "process at most n slides in the batch run (0 = all)")
	preset := fs.String("preset", "default", "parameter preset: "+strings.Join(extract.PresetNames(), ", "))
	command := fs.String("command", defaultCommand, "extraction program and leading arguments")
	if err := fs.Parse(args); err != nil {
		return extract.Request{}, "", err
	}

	p, err := extract.LookupPreset(*preset)
	if err != nil {
		return extract.Request{}, "", err
	}

	req := extract.NewRequest(*source, *saveDir).WithPreset(p)
	req.PatchSize = *patchSize
	req.StepSize = *stepSize
	req.PatchLevel = *patchLevel
	req.Seg = !*noSeg
	req.Patch = !*noPatch
	req.Stitch = !*noStitch
	req.AutoSkip = !*noAutoSkip
	req.NumFiles = *numFiles
	if err := req.Validate(); err != nil {
		return extract.Request{}, "", err
	}
	return req, *command, nil
}

func run(ctx context.Context, args []string, out io.Writer, builder extract.CommandBuilder) error {
	req, command, err := parseRequest(args)
	if err != nil {
		return err
	}

	ex, err := extract.NewCommandExtractor(command, builder)
	if err != nil {
		return err
	}

	summary, err := extract.NewRunner(ex).Run(ctx, req)
	printSummary(out, summary)
	if err != nil {
		return err
	}
	if !summary.Single.OK || !summary.Batch.OK {
		return errIncomplete
	}
	return nil
}

func printSummary(w io.Writer, s extract.Summary) {
	fmt.Fprintf(w, "slides: %d\n", len(s.Slides))
	for _, r := range []extract.Result{s.Single, s.Batch} {
		if r.Name == "" {
			continue
		}
		status := "ok"
		if !r.OK {
			status = "FAILED"
		}
		fmt.Fprintf(w, "%-7s %-6s seg=%v patch=%v dir=%s\n", r.Name, status, r.Timing.SegTime, r.Timing.PatchTime, r.SaveDir)
		for _, m := range r.Missing {
			fmt.Fprintf(w, "  missing %s: %s\n", m.Stage, m.Path)
		}
	}
}
