package hook

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/irahardianto/hookscan/internal/engine/runner"
	"github.com/irahardianto/hookscan/internal/platform/logger"
)

// Kind names a git hook hookscan can manage.
type Kind string

const (
	PreCommit  Kind = "pre-commit"
	PreReceive Kind = "pre-receive"
)

const hookMarker = "# hookscan-managed"

// ErrForeignHook is returned when a hook exists that hookscan did not install.
var ErrForeignHook = errors.New("hook is not managed by hookscan")

// ErrUnknownHook is returned for hook kinds hookscan does not manage.
var ErrUnknownHook = errors.New("unknown hook kind")

// subcommands maps each hook to the hookscan command it runs.
var subcommands = map[Kind]string{
	PreCommit:  "staged",
	PreReceive: "pre-receive",
}

// Installer writes and removes hookscan-managed hook scripts.
type Installer struct {
	runner  runner.Runner
	workDir string
	// Binary is the git executable.
	Binary string
	// Program is the hookscan executable the scripts call.
	Program string
}

// NewInstaller creates an Installer for the repository at workDir.
// r must run commands in workDir.
func NewInstaller(r runner.Runner, workDir string) *Installer {
	return &Installer{runner: r, workDir: workDir, Binary: "git", Program: "hookscan"}
}

// Script returns the hook script for kind.
func (i *Installer) Script(kind Kind) (string, error) {
	sub, ok := subcommands[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownHook, kind)
	}
	return fmt.Sprintf(`#!/bin/sh
%s
# This hook was installed by hookscan. Do not edit manually.
# Run 'hookscan teardown --hook %s' to remove.
exec %s %s "$@"
`, hookMarker, kind, i.Program, sub), nil
}

// Install creates the hook script for kind.
// Re-installing a managed hook rewrites it; a foreign hook is left alone and
// ErrForeignHook is returned.
func (i *Installer) Install(ctx context.Context, kind Kind) (string, error) {
	log := logger.FromContext(ctx)
	log.Info("installing hook", "hook", kind)

	script, err := i.Script(kind)
	if err != nil {
		return "", err
	}

	hooksDir, err := i.hooksDir(ctx)
	if err != nil {
		return "", err
	}
	hookPath := filepath.Join(hooksDir, string(kind))

	if data, err := os.ReadFile(hookPath); err == nil { // #nosec G304 -- path is constructed from the git dir, not user input
		if !strings.Contains(string(data), hookMarker) {
			return "", fmt.Errorf("%w: %s already exists, remove it first or back it up", ErrForeignHook, hookPath)
		}
	}

	if err := os.MkdirAll(hooksDir, 0o750); err != nil {
		return "", fmt.Errorf("creating hooks directory: %w", err)
	}

	if err := os.WriteFile(hookPath, []byte(script), 0o755); err != nil { // #nosec G306 -- hook must be executable
		return "", fmt.Errorf("writing hook script: %w", err)
	}

	log.Info("hook installed", "path", hookPath)
	return hookPath, nil
}

// Remove deletes the hookscan-managed hook for kind.
// It returns nil if no hook exists and ErrForeignHook for hooks hookscan did not write.
func (i *Installer) Remove(ctx context.Context, kind Kind) error {
	log := logger.FromContext(ctx)
	log.Info("removing hook", "hook", kind)

	if _, ok := subcommands[kind]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownHook, kind)
	}

	hooksDir, err := i.hooksDir(ctx)
	if err != nil {
		return err
	}
	hookPath := filepath.Join(hooksDir, string(kind))

	data, err := os.ReadFile(hookPath) // #nosec G304 -- path is constructed from the git dir, not user input
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Info("no hook found, nothing to remove", "hook", kind)
			return nil
		}
		return fmt.Errorf("reading hook: %w", err)
	}

	if !strings.Contains(string(data), hookMarker) {
		return fmt.Errorf("%w: will not remove %s", ErrForeignHook, hookPath)
	}

	if err := os.Remove(hookPath); err != nil {
		return fmt.Errorf("removing hook: %w", err)
	}

	log.Info("hook removed", "path", hookPath)
	return nil
}

// hooksDir locates <git dir>/hooks with `git rev-parse --git-dir`.
// Bare repositories, where pre-receive hooks live, report "." as their git dir.
func (i *Installer) hooksDir(ctx context.Context) (string, error) {
	res, err := i.runner.Run(ctx, i.Binary, "rev-parse", "--git-dir")
	if err != nil {
		return "", fmt.Errorf("finding git directory: %w", err)
	}
	if !res.Succeeded() || len(res.Output) == 0 {
		return "", fmt.Errorf("finding git directory: not a git repository (exit code %d)", res.ExitCode)
	}

	gitDir := strings.TrimSpace(res.Output[0])
	if !filepath.IsAbs(gitDir) && i.workDir != "" {
		gitDir = filepath.Join(i.workDir, gitDir)
	}

	return filepath.Join(gitDir, "hooks"), nil
}
