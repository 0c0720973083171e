package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/banshee-data/patchgrid/internal/coords"
	"github.com/banshee-data/patchgrid/internal/grid"
	"github.com/banshee-data/patchgrid/internal/render"
	"github.com/banshee-data/patchgrid/internal/security"
)

// Defaults for the output paths, relative to the working directory.
const (
	DefaultTablePath = "patch_coords.csv"
	DefaultImagePath = "patch_coords_visualization.png"
)

// RunConfig holds the settings for one render run. Every field is optional
// in the JSON file; the Get* methods supply defaults for omitted fields, so
// partial configs are safe. CLI flags are layered on top with Merge.
type RunConfig struct {
	SourcePath *string `json:"source_path,omitempty"`
	TablePath  *string `json:"table_path,omitempty"`
	ImagePath  *string `json:"image_path,omitempty"`

	// Nominal patch size in pixels; also the fallback pitch.
	PatchSize *int  `json:"patch_size,omitempty"`
	DrawRect  *bool `json:"draw_rect,omitempty"`
	Padding   *int  `json:"padding,omitempty"` // defaults to patch_size
	DPI       *int  `json:"dpi,omitempty"`
	Annotate  *bool `json:"annotate,omitempty"`

	// Estimate false skips the estimator and draws at patch_size.
	Estimate *bool `json:"estimate,omitempty"`

	// Optional run history.
	DBPath  *string `json:"db_path,omitempty"`
	SlideID *string `json:"slide_id,omitempty"` // defaults to the source file name
}

func ptrBool(v bool) *bool       { return &v }
func ptrString(v string) *string { return &v }
func ptrInt(v int) *int          { return &v }

// EmptyRunConfig returns a RunConfig with all fields unset.
func EmptyRunConfig() *RunConfig {
	return &RunConfig{}
}

// LoadRunConfig loads a RunConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadRunConfig(path string) (*RunConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyRunConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the fields that are set. A missing source path is only
// caught by Complete, since flags may still supply it.
func (c *RunConfig) Validate() error {
	if c.PatchSize != nil && *c.PatchSize <= 0 {
		return fmt.Errorf("patch_size must be positive, got %d", *c.PatchSize)
	}
	if c.Padding != nil && *c.Padding <= 0 {
		return fmt.Errorf("padding must be positive, got %d", *c.Padding)
	}
	if c.DPI != nil && *c.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %d", *c.DPI)
	}
	if c.ImagePath != nil && *c.ImagePath != "" {
		if _, err := render.FormatFromPath(*c.ImagePath); err != nil {
			return fmt.Errorf("image_path: %w", err)
		}
	}
	return nil
}

// Complete validates the config and checks that everything a run needs
// is present.
func (c *RunConfig) Complete() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.GetSourcePath() == "" {
		return fmt.Errorf("source_path is required")
	}
	return nil
}

// GetSourcePath returns the source path, or "" when unset.
func (c *RunConfig) GetSourcePath() string {
	if c.SourcePath == nil {
		return ""
	}
	return *c.SourcePath
}

// GetTablePath returns the table_path value or the default.
func (c *RunConfig) GetTablePath() string {
	if c.TablePath == nil || *c.TablePath == "" {
		return DefaultTablePath
	}
	return *c.TablePath
}

// GetImagePath returns the image_path value or the default.
func (c *RunConfig) GetImagePath() string {
	if c.ImagePath == nil || *c.ImagePath == "" {
		return DefaultImagePath
	}
	return *c.ImagePath
}

// GetPatchSize returns the patch_size value or the default.
func (c *RunConfig) GetPatchSize() int {
	if c.PatchSize == nil {
		return grid.DefaultPatchSize
	}
	return *c.PatchSize
}

// GetDrawRect returns the draw_rect value or the default.
func (c *RunConfig) GetDrawRect() bool {
	if c.DrawRect == nil {
		return false
	}
	return *c.DrawRect
}

// GetPadding returns the padding value, defaulting to the patch size.
func (c *RunConfig) GetPadding() int {
	if c.Padding == nil {
		return c.GetPatchSize()
	}
	return *c.Padding
}

// GetDPI returns the dpi value or the default.
func (c *RunConfig) GetDPI() int {
	if c.DPI == nil {
		return render.DefaultDPI
	}
	return *c.DPI
}

// GetAnnotate returns the annotate value or the default.
func (c *RunConfig) GetAnnotate() bool {
	if c.Annotate == nil {
		return false
	}
	return *c.Annotate
}

// GetEstimate returns the estimate value or the default.
func (c *RunConfig) GetEstimate() bool {
	if c.Estimate == nil {
		return true
	}
	return *c.Estimate
}

// GetDBPath returns the db_path value, or "" when runs are not recorded.
func (c *RunConfig) GetDBPath() string {
	if c.DBPath == nil {
		return ""
	}
	return *c.DBPath
}

// GetSlideID returns the slide_id value, defaulting to the "#slide" suffix
// of a store source path or else the source file name without extension.
func (c *RunConfig) GetSlideID() string {
	if c.SlideID != nil && *c.SlideID != "" {
		return security.SlideID(*c.SlideID)
	}
	file, slide := coords.StorePath(c.GetSourcePath())
	if slide != "" {
		return security.SlideID(slide)
	}
	base := filepath.Base(file)
	return security.SlideID(strings.TrimSuffix(base, filepath.Ext(base)))
}

// Mode returns the render mode implied by draw_rect.
func (c *RunConfig) Mode() render.Mode {
	if c.GetDrawRect() {
		return render.ModeRectangles
	}
	return render.ModePoints
}

// RenderOptions builds renderer options for a measured pitch.
func (c *RunConfig) RenderOptions(pitch int) render.Options {
	return render.Options{
		Mode:     c.Mode(),
		Pitch:    pitch,
		Padding:  c.GetPadding(),
		Annotate: c.GetAnnotate(),
		DPI:      c.GetDPI(),
	}
}

// Merge copies every field set in o over c.
func (c *RunConfig) Merge(o *RunConfig) {
	if o == nil {
		return
	}
	mergeField(&c.SourcePath, o.SourcePath)
	mergeField(&c.TablePath, o.TablePath)
	mergeField(&c.ImagePath, o.ImagePath)
	mergeField(&c.PatchSize, o.PatchSize)
	mergeField(&c.DrawRect, o.DrawRect)
	mergeField(&c.Padding, o.Padding)
	mergeField(&c.DPI, o.DPI)
	mergeField(&c.Annotate, o.Annotate)
	mergeField(&c.Estimate, o.Estimate)
	mergeField(&c.DBPath, o.DBPath)
	mergeField(&c.SlideID, o.SlideID)
}

func mergeField[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}
