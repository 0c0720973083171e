package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/patchgrid/internal/extract"
	"github.com/banshee-data/patchgrid/internal/testutil"
)

const timingJSON = `{"seg_time": 0.5, "patch_time": 1.25}`

// pipelineBuilder returns a builder whose commands write every
// product the real pipeline would for the slides in --source.
func pipelineBuilder(t *testing.T, writeStitch bool) *extract.RecordingBuilder {
	b := &extract.RecordingBuilder{}
	b.Respond = func(inv extract.Invocation) *extract.StubExecutor {
		src, save := inv.Flag("--source"), inv.Flag("--save_dir")

		entries, err := os.ReadDir(src)
		require.NoError(t, err)
		for _, e := range entries {
			for _, o := range extract.ExpectedOutputs(save, e.Name()) {
				if o.Stage == extract.StageStitch && !writeStitch {
					continue
				}
				testutil.WriteFile(t, filepath.Dir(o.Path), filepath.Base(o.Path), []byte("x"))
			}
		}
		testutil.WriteFile(t, save, extract.ProcessListFile, []byte("slide_id\n"))
		return &extract.StubExecutor{Output: []byte("processing...\n" + timingJSON + "\n")}
	}
	return b
}

func slidesDir(t *testing.T) string {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "a.svs", []byte("slide a"))
	testutil.WriteFile(t, dir, "b.svs", []byte("slide b"))
	return dir
}

func TestParseRequest_Defaults(t *testing.T) {
	req, command, err := parseRequest([]string{"-source", "in", "-save-dir", "out"})
	require.NoError(t, err)

	assert.Equal(t, defaultCommand, command)
	assert.Equal(t, extract.NewRequest("in", "out"), req)
}

func TestParseRequest_FlagsAndPreset(t *testing.T) {
	req, _, err := parseRequest([]string{
		"-source", "in", "-save-dir", "out",
		"-patch-size", "512", "-step-size", "128", "-patch-level", "1",
		"-no-stitch", "-no-auto-skip", "-num-files", "3", "-preset", "Kidney",
	})
	require.NoError(t, err)

	assert.Equal(t, 512, req.PatchSize)
	assert.Equal(t, 128, req.StepSize)
	assert.Equal(t, 1, req.PatchLevel)
	assert.True(t, req.Seg)
	assert.True(t, req.Patch)
	assert.False(t, req.Stitch)
	assert.False(t, req.AutoSkip)
	assert.Equal(t, 3, req.NumFiles)
	require.NotNil(t, req.SegParams)
	assert.Equal(t, 10, req.SegParams.SThresh)
}

func TestParseRequest_Errors(t *testing.T) {
	tests := map[string][]string{
		"missing source": {"-save-dir", "out"},
		"unknown preset": {"-source", "in", "-save-dir", "out", "-preset", "brain"},
		"bad patch size": {"-source", "in", "-save-dir", "out", "-patch-size", "0"},
		"unknown flag":   {"-source", "in", "-save-dir", "out", "-frobnicate"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := parseRequest(args)
			assert.Error(t, err)
		})
	}
}

func TestRun_SingleThenBatch(t *testing.T) {
	src := slidesDir(t)
	save := filepath.Join(t.TempDir(), "results")
	b := pipelineBuilder(t, true)

	var out bytes.Buffer
	err := run(context.Background(), []string{"-source", src, "-save-dir", save, "-command", "python3 fake.py"}, &out, b)
	require.NoError(t, err)

	require.Len(t, b.Invocations, 2)
	single, batch := b.Invocations[0], b.Invocations[1]
	assert.Equal(t, "python3", single.Name)
	assert.Equal(t, "fake.py", single.Args[0])
	assert.Equal(t, filepath.Join(save, extract.SingleSourceDir), single.Flag("--source"))
	assert.Equal(t, "1", single.Flag("--num_files"))
	assert.Equal(t, src, batch.Flag("--source"))
	assert.Equal(t, filepath.Join(save, extract.BatchSaveDir), batch.Flag("--save_dir"))
	assert.False(t, batch.Has("--num_files"))

	assert.Contains(t, out.String(), "slides: 2")
	assert.Contains(t, out.String(), "a.svs")
	assert.Contains(t, out.String(), "batch")
	assert.Contains(t, out.String(), "seg=500ms patch=1.25s")
	assert.NotContains(t, out.String(), "FAILED")
}

func TestRun_MissingProductsFail(t *testing.T) {
	src := slidesDir(t)
	save := t.TempDir()

	var out bytes.Buffer
	err := run(context.Background(), []string{"-source", src, "-save-dir", save}, &out, pipelineBuilder(t, false))
	assert.ErrorIs(t, err, errIncomplete)
	assert.Contains(t, out.String(), "FAILED")
	assert.Contains(t, out.String(), "missing stitch")
}

func TestRun_NoSlides(t *testing.T) {
	err := run(context.Background(), []string{"-source", t.TempDir(), "-save-dir", t.TempDir()}, &bytes.Buffer{}, &extract.RecordingBuilder{})
	assert.ErrorIs(t, err, extract.ErrNoSlides)
}

func TestRun_ExtractorFailure(t *testing.T) {
	b := &extract.RecordingBuilder{}
	b.Respond = func(extract.Invocation) *extract.StubExecutor {
		return &extract.StubExecutor{Err: assert.AnError}
	}

	var out bytes.Buffer
	err := run(context.Background(), []string{"-source", slidesDir(t), "-save-dir", t.TempDir()}, &out, b)
	require.Error(t, err)
	assert.ErrorIs(t, err, extract.ErrExtractionFailed)
	assert.True(t, strings.HasPrefix(out.String(), "slides: 2"))
}
