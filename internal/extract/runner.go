package extract

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/banshee-data/patchgrid/internal/fsutil"
	"github.com/banshee-data/patchgrid/internal/monitoring"
)

// Scratch directories created under the caller's save directory.
const (
	SingleSourceDir = "single_source"
	SingleSaveDir   = "single_test"
	BatchSaveDir    = "batch_test"
)

// Result is the outcome of one extraction run.
type Result struct {
	Name    string
	SaveDir string
	Timing  Timing

	// Missing lists expected products that were not written.
	Missing []Output
	OK      bool
}

// Summary covers a full single-then-batch run.
type Summary struct {
	Slides []string
	Single Result
	Batch  Result
}

// Runner checks an extractor end to end against a directory of slides.
type Runner struct {
	Extractor PatchExtractor
	FS        fsutil.FileSystem
}

// NewRunner returns a Runner on the local filesystem.
func NewRunner(e PatchExtractor) *Runner {
	return &Runner{Extractor: e, FS: fsutil.OSFileSystem{}}
}

// ListSlides returns the slide files in dir.
func (r *Runner) ListSlides(dir string) ([]string, error) {
	slides, err := r.FS.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list slides in %s: %w", dir, err)
	}
	if len(slides) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSlides, dir)
	}
	return slides, nil
}

// RunSingle copies one slide into its own source directory under
// req.SaveDir and processes it alone, then checks each enabled stage
// produced its file.
func (r *Runner) RunSingle(ctx context.Context, req Request, slideFile string) (Result, error) {
	srcDir := filepath.Join(req.SaveDir, SingleSourceDir)
	saveDir := filepath.Join(req.SaveDir, SingleSaveDir)
	for _, d := range []string{srcDir, saveDir} {
		if err := r.FS.MkdirAll(d, 0o755); err != nil {
			return Result{}, fmt.Errorf("create %s: %w", d, err)
		}
	}
	if err := fsutil.CopyFile(r.FS, filepath.Join(req.Source, slideFile), filepath.Join(srcDir, slideFile)); err != nil {
		return Result{}, err
	}

	single := req
	single.Source = srcDir
	single.SaveDir = saveDir
	single.NumFiles = 1

	monitoring.Logf("extract: single slide %s", slideFile)
	t, err := r.Extractor.Process(ctx, single)
	if err != nil {
		return Result{}, err
	}

	res := Result{Name: slideFile, SaveDir: saveDir, Timing: t}
	outputs := ExpectedOutputs(saveDir, slideFile)
	for _, o := range outputs {
		if r.FS.Exists(o.Path) {
			monitoring.Logf("extract: %s written: %s", o.Stage, o.Path)
		}
	}
	res.Missing = VerifyOutputs(r.FS, outputs, single)
	for _, m := range res.Missing {
		monitoring.Logf("extract: %s missing: %s", m.Stage, m.Path)
	}
	res.OK = len(res.Missing) == 0
	return res, nil
}

// RunBatch processes req.Source into a batch directory under req.SaveDir
// and checks that the process list was written.
func (r *Runner) RunBatch(ctx context.Context, req Request) (Result, error) {
	saveDir := filepath.Join(req.SaveDir, BatchSaveDir)
	if err := r.FS.MkdirAll(saveDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create %s: %w", saveDir, err)
	}
	batch := req
	batch.SaveDir = saveDir

	if req.NumFiles > 0 {
		monitoring.Logf("extract: batch of %d slides", req.NumFiles)
	} else {
		monitoring.Logf("extract: batch of all slides")
	}
	t, err := r.Extractor.Process(ctx, batch)
	if err != nil {
		return Result{}, err
	}

	res := Result{Name: "batch", SaveDir: saveDir, Timing: t}
	list := filepath.Join(saveDir, ProcessListFile)
	if !r.FS.Exists(list) {
		res.Missing = []Output{{Stage: StageProcessList, Path: list}}
	}
	res.OK = len(res.Missing) == 0
	return res, nil
}

// Run processes the first slide alone, then the whole source directory.
func (r *Runner) Run(ctx context.Context, req Request) (Summary, error) {
	if err := req.Validate(); err != nil {
		return Summary{}, err
	}
	if err := r.FS.MkdirAll(req.SaveDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create %s: %w", req.SaveDir, err)
	}
	slides, err := r.ListSlides(req.Source)
	if err != nil {
		return Summary{}, err
	}
	monitoring.Logf("extract: found %d slides in %s", len(slides), req.Source)

	s := Summary{Slides: slides}
	if s.Single, err = r.RunSingle(ctx, req, slides[0]); err != nil {
		return s, fmt.Errorf("single slide: %w", err)
	}
	if s.Batch, err = r.RunBatch(ctx, req); err != nil {
		return s, fmt.Errorf("batch: %w", err)
	}
	return s, nil
}
