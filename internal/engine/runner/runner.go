// Package runner executes external commands on behalf of the VCS adapter.
package runner

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/irahardianto/hookscan/internal/platform/logger"
)

// Result holds the outcome of a single command.
type Result struct {
	ExitCode int
	// Output holds stdout split into lines, without line terminators.
	Output []string
}

// Succeeded reports whether the command exited with status zero.
func (r Result) Succeeded() bool {
	return r.ExitCode == 0
}

// Runner executes commands given as argument vectors.
//
// A non-zero exit status is not an error: it is reported through the exit code.
// The error return is reserved for commands that could not be started or were
// interrupted by context cancellation.
type Runner interface {
	// Run executes args and captures stdout as lines.
	Run(ctx context.Context, args ...string) (Result, error)
	// RunTo executes args and streams stdout verbatim into w.
	RunTo(ctx context.Context, w io.Writer, args ...string) (int, error)
}

// ExecRunner implements Runner with os/exec.
type ExecRunner struct {
	// Dir is the working directory for commands.
	// If empty, the current directory is used.
	Dir string
}

// NewExecRunner creates a new ExecRunner with the given working directory.
func NewExecRunner(dir string) *ExecRunner {
	return &ExecRunner{Dir: dir}
}

// Run executes the command and splits its stdout into lines.
func (r *ExecRunner) Run(ctx context.Context, args ...string) (Result, error) {
	var stdout bytes.Buffer
	code, err := r.RunTo(ctx, &stdout, args...)
	if err != nil {
		return Result{ExitCode: code}, err
	}
	return Result{ExitCode: code, Output: SplitLines(stdout.String())}, nil
}

// RunTo executes the command with stdout attached to w.
func (r *ExecRunner) RunTo(ctx context.Context, w io.Writer, args ...string) (int, error) {
	if len(args) == 0 {
		return -1, errors.New("runner: empty command")
	}

	log := logger.FromContext(ctx)
	start := time.Now()

	cmd := exec.CommandContext(ctx, args[0], args[1:]...) // #nosec G204 -- argv is built by the VCS adapter, never passed through a shell
	cmd.Dir = r.Dir

	var stderr bytes.Buffer
	cmd.Stdout = w
	cmd.Stderr = &stderr

	err := cmd.Run()
	code := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || ctx.Err() != nil {
			return -1, fmt.Errorf("%s: %w", strings.Join(args, " "), err)
		}
		code = exitErr.ExitCode()
	}

	log.Debug("command finished",
		"args", args,
		"exit_code", code,
		"duration_ms", time.Since(start).Milliseconds(),
		"stderr", strings.TrimSpace(stderr.String()))

	return code, nil
}

// SplitLines splits command output into lines.
// A trailing newline does not produce an empty last line, and CRLF endings are tolerated.
func SplitLines(out string) []string {
	if out == "" {
		return nil
	}

	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	return lines
}
