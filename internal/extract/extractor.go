// Package extract drives the external WSI patch extraction pipeline that
// produces the coordinate files patchgrid visualises, and checks that each
// run left the expected masks, patch files and stitches behind.
package extract

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Defaults for a Request, matching the extraction pipeline's own.
const (
	DefaultPatchSize  = 256
	DefaultStepSize   = 256
	DefaultPatchLevel = 0
)

var (
	// ErrExtractionFailed wraps any failure of the extraction program.
	ErrExtractionFailed = errors.New("patch extraction failed")
	// ErrNoSlides is returned when a source directory holds no slide files.
	ErrNoSlides = errors.New("no slide files found")
)

// SegParams tunes tissue segmentation. Field names follow the pipeline's
// keyword arguments.
type SegParams struct {
	SegLevel   int    `json:"seg_level"`
	SThresh    int    `json:"sthresh"`
	MThresh    int    `json:"mthresh"`
	Close      int    `json:"close"`
	UseOtsu    bool   `json:"use_otsu"`
	KeepIDs    string `json:"keep_ids"`
	ExcludeIDs string `json:"exclude_ids"`
}

// FilterParams tunes contour filtering.
type FilterParams struct {
	AT        int `json:"a_t"`
	AH        int `json:"a_h"`
	MaxNHoles int `json:"max_n_holes"`
}

// Preset bundles tissue-specific parameters. Nil params leave the
// pipeline's built-in values in place.
type Preset struct {
	Name   string
	Seg    *SegParams
	Filter *FilterParams
}

var presets = map[string]Preset{
	"kidney": {
		Name:   "kidney",
		Seg:    &SegParams{SegLevel: -1, SThresh: 10, MThresh: 7, Close: 4, UseOtsu: false, KeepIDs: "none", ExcludeIDs: "none"},
		Filter: &FilterParams{AT: 100, AH: 16, MaxNHoles: 8},
	},
	"liver": {
		Name:   "liver",
		Seg:    &SegParams{SegLevel: -1, SThresh: 6, MThresh: 7, Close: 4, UseOtsu: true, KeepIDs: "none", ExcludeIDs: "none"},
		Filter: &FilterParams{AT: 100, AH: 16, MaxNHoles: 10},
	},
	"default": {Name: "default"},
}

// PresetNames lists the known presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LookupPreset returns the named preset. Each call returns fresh copies of
// the parameter structs.
func LookupPreset(name string) (Preset, error) {
	p, ok := presets[strings.ToLower(name)]
	if !ok {
		return Preset{}, fmt.Errorf("unknown preset %q (choose from %s)", name, strings.Join(PresetNames(), ", "))
	}
	if p.Seg != nil {
		seg := *p.Seg
		p.Seg = &seg
	}
	if p.Filter != nil {
		f := *p.Filter
		p.Filter = &f
	}
	return p, nil
}

// Request describes one invocation of the extraction pipeline.
type Request struct {
	Source  string // directory of slide files
	SaveDir string

	PatchSize  int
	StepSize   int
	PatchLevel int

	Seg      bool
	Patch    bool
	Stitch   bool
	AutoSkip bool

	// NumFiles limits how many slides are processed; 0 means all.
	NumFiles int

	SegParams    *SegParams
	FilterParams *FilterParams
}

// NewRequest returns a Request with every stage enabled and default sizes.
func NewRequest(source, saveDir string) Request {
	return Request{
		Source:     source,
		SaveDir:    saveDir,
		PatchSize:  DefaultPatchSize,
		StepSize:   DefaultStepSize,
		PatchLevel: DefaultPatchLevel,
		Seg:        true,
		Patch:      true,
		Stitch:     true,
		AutoSkip:   true,
	}
}

// WithPreset returns a copy of r using p's parameters.
func (r Request) WithPreset(p Preset) Request {
	r.SegParams = p.Seg
	r.FilterParams = p.Filter
	return r
}

// Validate rejects a request with missing directories, non-positive patch or
// step sizes, or a negative patch level or file count.
func (r Request) Validate() error {
	switch {
	case r.Source == "":
		return errors.New("source directory is required")
	case r.SaveDir == "":
		return errors.New("save directory is required")
	case r.PatchSize <= 0:
		return fmt.Errorf("patch size must be positive, got %d", r.PatchSize)
	case r.StepSize <= 0:
		return fmt.Errorf("step size must be positive, got %d", r.StepSize)
	case r.PatchLevel < 0:
		return fmt.Errorf("patch level must be non-negative, got %d", r.PatchLevel)
	case r.NumFiles < 0:
		return fmt.Errorf("num files must be non-negative, got %d", r.NumFiles)
	}
	return nil
}

// Timing reports the pipeline's average per-slide stage durations.
type Timing struct {
	SegTime   time.Duration
	PatchTime time.Duration
}

// PatchExtractor runs the segmentation, patching and stitching pipeline.
type PatchExtractor interface {
	Process(ctx context.Context, req Request) (Timing, error)
}
