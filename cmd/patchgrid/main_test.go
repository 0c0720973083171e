package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/patchgrid/internal/config"
	"github.com/banshee-data/patchgrid/internal/fixtures"
	"github.com/banshee-data/patchgrid/internal/fsutil"
	"github.com/banshee-data/patchgrid/internal/grid"
	"github.com/banshee-data/patchgrid/internal/store"
	"github.com/banshee-data/patchgrid/internal/testutil"
)

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	printUsage(&buf)
	for _, cmd := range []string{"render", "info", "import", "runs", "delete", "migrate", "version"} {
		assert.Contains(t, buf.String(), cmd)
	}
}

func TestRenderFlags_OnlySetFlagsOverlay(t *testing.T) {
	cfgPath, demo, overlay, err := renderFlags([]string{"-config", "run.json", "-dpi", "72", "-no-estimate"})
	require.NoError(t, err)

	assert.Equal(t, "run.json", cfgPath)
	assert.False(t, demo)
	require.NotNil(t, overlay.DPI)
	assert.Equal(t, 72, *overlay.DPI)
	require.NotNil(t, overlay.Estimate)
	assert.False(t, *overlay.Estimate)

	assert.Nil(t, overlay.PatchSize)
	assert.Nil(t, overlay.SourcePath)
	assert.Nil(t, overlay.DrawRect)
	assert.Nil(t, overlay.Annotate)
}

func TestRenderFlags_Mode(t *testing.T) {
	_, _, overlay, err := renderFlags([]string{"-mode", "rectangles"})
	require.NoError(t, err)
	require.NotNil(t, overlay.DrawRect)
	assert.True(t, *overlay.DrawRect)

	_, _, overlay, err = renderFlags([]string{"-rect", "-mode", "points"})
	require.NoError(t, err)
	require.NotNil(t, overlay.DrawRect)
	assert.False(t, *overlay.DrawRect, "-mode overrides -rect")

	_, _, _, err = renderFlags([]string{"-mode", "hexagons"})
	assert.Error(t, err)
}

func TestRenderFlags_Unknown(t *testing.T) {
	_, _, _, err := renderFlags([]string{"-bogus"})
	assert.Error(t, err)
}

func TestRunRender_RequiresSource(t *testing.T) {
	err := runRender([]string{"-image", filepath.Join(t.TempDir(), "g.png")}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRunRender_Demo(t *testing.T) {
	dir := t.TempDir()
	table := filepath.Join(dir, "coords.csv")
	image := filepath.Join(dir, "out", "grid.svg")

	var out bytes.Buffer
	err := runRender([]string{"-demo", "-table", table, "-image", image, "-rect", "-annotate"}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "coordinates: 34")
	assert.Contains(t, out.String(), "estimated pitch=128 (median of 31 spacings)")
	assert.FileExists(t, table)
	assert.FileExists(t, image)
}

func TestRunRender_ConfigFileAndStore(t *testing.T) {
	dir := t.TempDir()
	src := testutil.WriteFile(t, dir, "slides/s1.json", fixtures.SamplePointsJSON())
	dbPath := filepath.Join(dir, "runs.db")

	cfg := map[string]interface{}{
		"source_path": src,
		"table_path":  filepath.Join(dir, "s1.csv"),
		"image_path":  filepath.Join(dir, "s1.png"),
		"dpi":         20,
		"patch_size":  256,
		"db_path":     dbPath,
	}
	raw, err := json.Marshal(cfg)
	require.NoError(t, err)
	cfgPath := testutil.WriteFile(t, dir, "run.json", raw)

	// -patch-size on the command line beats the file.
	var out bytes.Buffer
	require.NoError(t, runRender([]string{"-config", cfgPath, "-patch-size", "100"}, &out))
	assert.Contains(t, out.String(), "recorded run")

	db, err := store.Open(dbPath)
	require.NoError(t, err)
	defer db.Close()

	runs, err := store.NewRunStore(db.DB).ListBySlide("s1")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 128, runs[0].Pitch)
	assert.Equal(t, 34, runs[0].PointCount)
	assert.Equal(t, 100, runs[0].Padding, "padding follows the patch size when unset")
	assert.Equal(t, "points", runs[0].Mode)
	assert.Equal(t, src, runs[0].SourcePath)

	var listed bytes.Buffer
	require.NoError(t, runRuns([]string{"-db", dbPath, "-slide", "s1", "-json"}, &listed))
	var decoded []store.RenderRun
	require.NoError(t, json.Unmarshal(listed.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, runs[0].RunID, decoded[0].RunID)

	listed.Reset()
	require.NoError(t, runRuns([]string{"-db", dbPath, "-slide", "s1"}, &listed))
	assert.Contains(t, listed.String(), runs[0].RunID)

	listed.Reset()
	require.NoError(t, runRuns([]string{"-db", dbPath, "-id", runs[0].RunID}, &listed))
	assert.Contains(t, listed.String(), runs[0].RunID)
	assert.Contains(t, listed.String(), "s1")

	err = runRuns([]string{"-db", dbPath, "-id", "no-such-run"}, &listed)
	assert.ErrorIs(t, err, errRunNotFound)
}

func TestRenderSet_NoEstimateUsesPatchSize(t *testing.T) {
	size := 200
	estimate := false
	dpi := 20
	src := "diag.json"
	cfg := &config.RunConfig{SourcePath: &src, PatchSize: &size, Estimate: &estimate, DPI: &dpi}
	fsys := fsutil.NewMemoryFileSystem()

	var out bytes.Buffer
	run, err := renderSet(cfg, fixtures.MustSamplePoints(), fsys, &out)
	require.NoError(t, err)

	assert.Equal(t, 200, run.Pitch)
	assert.False(t, run.Indeterminate)
	assert.NotContains(t, out.String(), "estimated")
	assert.True(t, fsys.Exists(config.DefaultTablePath))
	assert.True(t, fsys.Exists(config.DefaultImagePath))
}

func TestRenderSet_IndeterminateWarns(t *testing.T) {
	src := "diag.json"
	dpi := 20
	cfg := &config.RunConfig{SourcePath: &src, DPI: &dpi}
	cs := grid.CoordinateSet{{X: 0, Y: 0}, {X: 512, Y: 512}}

	var out bytes.Buffer
	run, err := renderSet(cfg, cs, fsutil.NewMemoryFileSystem(), &out)
	require.NoError(t, err)

	assert.True(t, run.Indeterminate)
	assert.Equal(t, grid.DefaultPatchSize, run.Pitch)
	assert.Contains(t, out.String(), "warning:")
}

func TestRenderSet_EmptyWritesNothing(t *testing.T) {
	src := "empty.json"
	cfg := &config.RunConfig{SourcePath: &src}
	fsys := fsutil.NewMemoryFileSystem()

	var out bytes.Buffer
	_, err := renderSet(cfg, grid.CoordinateSet{}, fsys, &out)
	assert.ErrorIs(t, err, grid.ErrInvalidInput)
	assert.False(t, fsys.Exists(config.DefaultTablePath))
	assert.False(t, fsys.Exists(config.DefaultImagePath))
	assert.Empty(t, out.String())
}

func TestImportThenInfoFromStore(t *testing.T) {
	dir := t.TempDir()
	src := testutil.WriteFile(t, dir, "kidney.json", fixtures.SamplePointsJSON())
	dbPath := filepath.Join(dir, "coords.db")

	var out bytes.Buffer
	require.NoError(t, runImport([]string{"-db", dbPath, "-source", src}, &out))
	assert.Contains(t, out.String(), "imported 34 coordinates")
	assert.Contains(t, out.String(), "#kidney")

	out.Reset()
	require.NoError(t, runInfo([]string{"-source", dbPath + "#kidney", "-head", "3"}, &out))
	assert.Contains(t, out.String(), "coordinates: 34")
	assert.Contains(t, out.String(), "first 3 coordinates")
	assert.Contains(t, out.String(), "pitch=128")
}

func TestImportThenDelete(t *testing.T) {
	dir := t.TempDir()
	src := testutil.WriteFile(t, dir, "kidney.json", fixtures.SamplePointsJSON())
	dbPath := filepath.Join(dir, "coords.db")
	require.NoError(t, runImport([]string{"-db", dbPath, "-source", src}, &bytes.Buffer{}))

	var out bytes.Buffer
	require.NoError(t, runDelete([]string{"-db", dbPath, "-slide", "kidney"}, &out))
	assert.Contains(t, out.String(), "deleted slide kidney")

	err := runInfo([]string{"-source", dbPath + "#kidney"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, store.ErrSlideNotFound)

	err = runDelete([]string{"-db", dbPath, "-slide", "kidney"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, store.ErrSlideNotFound)
}

func TestRequiredFlags(t *testing.T) {
	assert.ErrorIs(t, runInfo(nil, &bytes.Buffer{}), errMissingFlag)
	assert.ErrorIs(t, runImport([]string{"-db", "x.db"}, &bytes.Buffer{}), errMissingFlag)
	assert.ErrorIs(t, runRuns([]string{"-db", "x.db"}, &bytes.Buffer{}), errMissingFlag)
	assert.ErrorIs(t, runDelete([]string{"-db", "x.db"}, &bytes.Buffer{}), errMissingFlag)
	assert.ErrorIs(t, runMigrate(nil, &bytes.Buffer{}), errMissingFlag)
}

func TestRunInfo_MissingSource(t *testing.T) {
	err := runInfo([]string{"-source", filepath.Join(t.TempDir(), "none.json")}, &bytes.Buffer{})
	assert.ErrorIs(t, err, grid.ErrSourceUnreadable)
}

func TestRunMigrate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "m.db")

	var out bytes.Buffer
	require.NoError(t, runMigrate([]string{"-db", dbPath, "version"}, &out))
	assert.Contains(t, out.String(), "schema version 0")

	out.Reset()
	require.NoError(t, runMigrate([]string{"-db", dbPath}, &out))
	assert.Contains(t, out.String(), "schema version 2 (dirty=false)")

	out.Reset()
	require.NoError(t, runMigrate([]string{"-db", dbPath, "down"}, &out))
	assert.Contains(t, out.String(), "schema version 1")

	assert.Error(t, runMigrate([]string{"-db", dbPath, "sideways"}, &out))

	_, err := os.Stat(dbPath)
	assert.NoError(t, err)
}
