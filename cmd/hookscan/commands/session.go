package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/irahardianto/hookscan/internal/engine/config"
	"github.com/irahardianto/hookscan/internal/engine/formatter"
	"github.com/irahardianto/hookscan/internal/engine/runner"
	"github.com/irahardianto/hookscan/internal/engine/vcs"
	"github.com/irahardianto/hookscan/internal/platform/logger"
)

// enabledKey is the git config switch that turns scanning off for a repository.
const enabledKey = "hookscan.enabled"

// session bundles the collaborators every file command needs.
type session struct {
	Dir       string
	Config    *config.Config
	Runner    runner.Runner
	Backend   vcs.Backend
	Formatter formatter.Formatter
}

// openSession is a variable for testability (defaults to openExecSession).
var openSession = openExecSession

// getwd is a variable for testability (defaults to os.Getwd).
var getwd = os.Getwd

// openExecSession is the composition root: it loads configuration and wires the
// git backend over a real command runner.
//
// Commands run at the top of the working tree so that listed paths, which git
// reports relative to it, resolve for the scanner. Bare repositories keep dir.
func openExecSession(ctx context.Context) (*session, error) {
	dir, err := repoDir()
	if err != nil {
		return nil, err
	}
	if top, ok := vcs.TopLevel(ctx, runner.NewExecRunner(dir), ""); ok {
		dir = top
	} else {
		logger.FromContext(ctx).Debug("no working tree, using directory as is", "dir", dir)
	}

	cfgPath := flagConfig
	if cfgPath == "" {
		cfgPath = filepath.Join(dir, config.DefaultPath)
	}
	cfg, err := config.Load(ctx, cfgPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	matcher, err := cfg.Matcher()
	if err != nil {
		return nil, err
	}

	r := runner.NewExecRunner(dir)
	opts := vcs.Options{Binary: cfg.GitBinary, TempRoot: cfg.TempRoot}
	if !matcher.Empty() {
		opts.Include = matcher.Match
	}
	backend, err := vcs.New(cfg.VCS, r, opts)
	if err != nil {
		return nil, err
	}

	format := cfg.Format
	if flagFormat != "" {
		format = flagFormat
	}
	f, err := formatter.New(format)
	if err != nil {
		return nil, err
	}

	return &session{Dir: dir, Config: cfg, Runner: r, Backend: backend, Formatter: f}, nil
}

// repoDir returns --dir or the working directory.
func repoDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}
	dir, err := getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return dir, nil
}

// enabled reports whether scanning is switched on for this repository.
func (s *session) enabled(ctx context.Context) bool {
	if s.Backend.GetConfig(ctx, enabledKey, "true") == "false" {
		logger.FromContext(ctx).Info("scanning disabled by git config", "key", enabledKey)
		return false
	}
	return true
}

// scanner returns --exec, or the configured scanner when the flag is empty.
func (s *session) scanner() string {
	if flagExec != "" || s.Config == nil {
		return flagExec
	}
	return s.Config.Scanner
}

// emit prints the file set, or hands it to the scanner command when one is given.
// After a scanner run the extracted files are released.
func (s *session) emit(ctx context.Context, out, errOut io.Writer, set formatter.FileSet, exec string) error {
	if exec == "" {
		if set.Source == sourceBetween || set.Source == sourcePreReceive {
			logger.FromContext(ctx).Debug("extracted files left for the caller; reclaim them with 'hookscan cleanup'", "files", len(set.Files))
		}
		_, err := io.WriteString(out, s.Formatter.Format(set))
		return err
	}

	defer s.release(ctx)
	return scanFiles(ctx, s.Backend, s.Dir, exec, set.Files, out, errOut)
}

// release removes extracted files unless --keep-temp is set.
// A failed removal is logged: it must not change the hook's verdict.
func (s *session) release(ctx context.Context) {
	if flagKeepTemp {
		return
	}
	if err := s.Backend.Cleanup(); err != nil {
		logger.FromContext(ctx).Warn("removing extracted files failed", "error", err)
	}
}
