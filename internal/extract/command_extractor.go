package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/banshee-data/patchgrid/internal/monitoring"
)

// CommandExtractor runs an external extraction program. The program receives
// the request as command-line flags and must print a final stdout line of
// the form {"seg_time": 1.5, "patch_time": 20.1}, durations in seconds.
type CommandExtractor struct {
	name    string
	prefix  []string
	builder CommandBuilder
}

// NewCommandExtractor splits command on whitespace into a program and
// leading arguments, e.g. "python create_patches_fp.py".
func NewCommandExtractor(command string, builder CommandBuilder) (*CommandExtractor, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, fmt.Errorf("extraction command is empty")
	}
	if builder == nil {
		builder = NewExecBuilder()
	}
	return &CommandExtractor{name: fields[0], prefix: fields[1:], builder: builder}, nil
}

// Args returns the full argument list for req.
func (e *CommandExtractor) Args(req Request) ([]string, error) {
	args := append([]string(nil), e.prefix...)
	args = append(args,
		"--source", req.Source,
		"--save_dir", req.SaveDir,
		"--patch_size", strconv.Itoa(req.PatchSize),
		"--step_size", strconv.Itoa(req.StepSize),
		"--patch_level", strconv.Itoa(req.PatchLevel),
	)
	for _, f := range []struct {
		on   bool
		flag string
	}{
		{req.Seg, "--seg"},
		{req.Patch, "--patch"},
		{req.Stitch, "--stitch"},
	} {
		if f.on {
			args = append(args, f.flag)
		}
	}
	if !req.AutoSkip {
		args = append(args, "--no_auto_skip")
	}
	if req.NumFiles > 0 {
		args = append(args, "--num_files", strconv.Itoa(req.NumFiles))
	}
	if req.SegParams != nil {
		b, err := json.Marshal(req.SegParams)
		if err != nil {
			return nil, fmt.Errorf("encode seg params: %w", err)
		}
		args = append(args, "--seg_params", string(b))
	}
	if req.FilterParams != nil {
		b, err := json.Marshal(req.FilterParams)
		if err != nil {
			return nil, fmt.Errorf("encode filter params: %w", err)
		}
		args = append(args, "--filter_params", string(b))
	}
	return args, nil
}

// Process implements PatchExtractor.
func (e *CommandExtractor) Process(ctx context.Context, req Request) (Timing, error) {
	if err := req.Validate(); err != nil {
		return Timing{}, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}
	args, err := e.Args(req)
	if err != nil {
		return Timing{}, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	monitoring.Logf("extract: %s %s", e.name, strings.Join(args, " "))
	out, err := e.builder.BuildCommand(ctx, e.name, args...).Run()
	if err != nil {
		return Timing{}, fmt.Errorf("%w: %s: %w", ErrExtractionFailed, e.name, err)
	}
	t, err := parseTiming(out)
	if err != nil {
		return Timing{}, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}
	return t, nil
}

type timingLine struct {
	SegTime   *float64 `json:"seg_time"`
	PatchTime *float64 `json:"patch_time"`
}

// parseTiming reads the last non-empty line of the program's output.
func parseTiming(out []byte) (Timing, error) {
	lines := bytes.Split(bytes.TrimSpace(out), []byte("\n"))
	last := bytes.TrimSpace(lines[len(lines)-1])
	if len(last) == 0 {
		return Timing{}, fmt.Errorf("no timing line in output")
	}
	var tl timingLine
	if err := json.Unmarshal(last, &tl); err != nil {
		return Timing{}, fmt.Errorf("parse timing line %q: %w", last, err)
	}
	if tl.SegTime == nil || tl.PatchTime == nil {
		return Timing{}, fmt.Errorf("timing line %q lacks seg_time or patch_time", last)
	}
	return Timing{SegTime: seconds(*tl.SegTime), PatchTime: seconds(*tl.PatchTime)}, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
