package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/irahardianto/hookscan/internal/engine/vcs"
	"github.com/irahardianto/hookscan/internal/platform/logger"
)

// ErrScanFailed is returned when the scanner command exits non-zero.
var ErrScanFailed = errors.New("scan failed")

// scanFiles runs command over files through sh, in dir.
//
// Backends that read from disk get all files as positional arguments in one run.
// Backends that stream content run the command once per file, fed by the
// backend's cat command.
func scanFiles(ctx context.Context, backend vcs.Backend, dir, command string, files []string, out, errOut io.Writer) error {
	log := logger.FromContext(ctx)

	if len(files) == 0 {
		log.Info("no files to scan")
		return nil
	}

	if !backend.UsesStdout() {
		log.Info("scanning files", "command", command, "files", len(files))
		args := append([]string{"-c", command + ` "$@"`, "hookscan"}, files...)
		return runScanner(ctx, dir, out, errOut, args...)
	}

	var failed []error
	for _, f := range files {
		log.Debug("scanning streamed file", "command", command, "file", f)
		if err := runScanner(ctx, dir, out, errOut, "-c", backend.CatCommand(f)+" | "+command); err != nil {
			if !errors.Is(err, ErrScanFailed) {
				return err
			}
			failed = append(failed, fmt.Errorf("%s: %w", f, err))
		}
	}
	return errors.Join(failed...)
}

// runScanner executes sh with args in dir, streaming both output channels to the user.
func runScanner(ctx context.Context, dir string, out, errOut io.Writer, args ...string) error {
	cmd := exec.CommandContext(ctx, "sh", args...) // #nosec G204 -- the scanner command is configured by the repository owner
	cmd.Dir = dir
	cmd.Stdout = out
	cmd.Stderr = errOut

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			return fmt.Errorf("%w: exit code %d", ErrScanFailed, exitErr.ExitCode())
		}
		return fmt.Errorf("running scanner: %w", err)
	}
	return nil
}
