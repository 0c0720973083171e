package extract

import (
	"path/filepath"
	"strings"

	"github.com/banshee-data/patchgrid/internal/fsutil"
)

// ProcessListFile is the per-batch summary the pipeline writes into its
// save directory.
const ProcessListFile = "process_list_autogen.csv"

// Stage names a pipeline stage with an on-disk product.
type Stage string

const (
	StageMask   Stage = "mask"
	StagePatch  Stage = "patch"
	StageStitch Stage = "stitch"

	// StageProcessList is the batch summary, required for every batch.
	StageProcessList Stage = "process_list"
)

// Output is one expected product of a stage.
type Output struct {
	Stage Stage
	Path  string
}

// SlideID strips the extension from a slide file name.
func SlideID(slideFile string) string {
	base := filepath.Base(slideFile)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ExpectedOutputs lists where the pipeline writes each product for one slide:
// masks/<id>.jpg, patches/<id>.h5 and stitches/<id>.jpg.
func ExpectedOutputs(saveDir, slideFile string) []Output {
	id := SlideID(slideFile)
	return []Output{
		{Stage: StageMask, Path: filepath.Join(saveDir, "masks", id+".jpg")},
		{Stage: StagePatch, Path: filepath.Join(saveDir, "patches", id+".h5")},
		{Stage: StageStitch, Path: filepath.Join(saveDir, "stitches", id+".jpg")},
	}
}

// Enabled reports whether req runs the stage.
func (req Request) Enabled(s Stage) bool {
	switch s {
	case StageMask:
		return req.Seg
	case StagePatch:
		return req.Patch
	case StageStitch:
		return req.Stitch
	}
	return false
}

// VerifyOutputs returns the outputs of enabled stages that are missing.
// Products of disabled stages are not required.
func VerifyOutputs(fsys fsutil.FileSystem, outputs []Output, req Request) []Output {
	var missing []Output
	for _, o := range outputs {
		if fsys.Exists(o.Path) {
			continue
		}
		if req.Enabled(o.Stage) {
			missing = append(missing, o)
		}
	}
	return missing
}
