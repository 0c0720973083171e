package extract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CommandExecutor runs one prepared command and returns its stdout.
type CommandExecutor interface {
	Run() ([]byte, error)
}

// CommandBuilder prepares the extraction program's invocation.
type CommandBuilder interface {
	BuildCommand(ctx context.Context, name string, args ...string) CommandExecutor
}

// ExecBuilder builds commands with os/exec, bound to the caller's context.
type ExecBuilder struct{}

// NewExecBuilder returns the builder used outside tests.
func NewExecBuilder() *ExecBuilder { return &ExecBuilder{} }

// BuildCommand wraps exec.CommandContext; cancelling ctx kills the process.
func (ExecBuilder) BuildCommand(ctx context.Context, name string, args ...string) CommandExecutor {
	return execCommand{cmd: exec.CommandContext(ctx, name, args...)}
}

type execCommand struct {
	cmd *exec.Cmd
}

// Run returns stdout. A non-zero exit carries the last lines of stderr,
// where Python tracebacks end.
func (c execCommand) Run() ([]byte, error) {
	out, err := c.cmd.Output()
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || len(exitErr.Stderr) == 0 {
		return out, err
	}
	return out, fmt.Errorf("%w: %s", err, stderrTail(exitErr.Stderr, 5))
}

func stderrTail(b []byte, n int) string {
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.Join(lines, "; ")
}
