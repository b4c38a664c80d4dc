package vcs

import (
	"context"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/irahardianto/hookscan/internal/engine/runner"
	"github.com/irahardianto/hookscan/internal/platform/logger"
)

// fileFlag matches the leading status token of a `git status --short` line
// and the whitespace after it, whatever the token width.
var fileFlag = regexp.MustCompile(`^\S*\s+`)

// Git implements Backend on top of the git command line.
type Git struct {
	runner runner.Runner
	opts   Options

	mu   sync.Mutex
	dirs []string
}

var (
	_ Backend    = (*Git)(nil)
	_ TreeHasher = (*Git)(nil)
)

// NewGit creates a git Backend issuing commands through r.
func NewGit(r runner.Runner, opts Options) *Git {
	if opts.Binary == "" {
		opts.Binary = KindGit
	}
	return &Git{runner: r, opts: opts}
}

// StagedFiles returns staged paths with status Added, Copied or Modified,
// in the order git reports them. Deleted files are never listed.
func (g *Git) StagedFiles(ctx context.Context) []string {
	logger.FromContext(ctx).Debug("listing staged files")

	out := g.lines(ctx, "staged", "diff", "--cached", "--name-only", "--diff-filter=ACM")
	return g.paths(out)
}

// NewFiles returns paths reported as added by `git status --short`.
func (g *Git) NewFiles(ctx context.Context) []string {
	logger.FromContext(ctx).Debug("listing new files")

	var added []string
	for _, line := range g.lines(ctx, "new", "status", "--short") {
		if strings.HasPrefix(line, "A") {
			added = append(added, StripFileFlag(line))
		}
	}
	return g.paths(added)
}

// GetConfig reads key with `git config`. An unset key, or a failing query,
// yields defaultValue.
func (g *Git) GetConfig(ctx context.Context, key, defaultValue string) string {
	log := logger.FromContext(ctx)

	res, err := g.run(ctx, "config", key)
	if err != nil {
		log.Warn("git config read failed, using default", "key", key, "error", err)
		return defaultValue
	}
	if len(res.Output) == 0 {
		log.Debug("git config key unset, using default", "key", key, "exit_code", res.ExitCode)
		return defaultValue
	}
	return res.Output[0]
}

// SetConfig writes key=value with `git config`.
// It returns true only when git exits with status zero.
func (g *Git) SetConfig(ctx context.Context, key, value string) bool {
	log := logger.FromContext(ctx)

	res, err := g.run(ctx, "config", key, value)
	if err != nil {
		log.Warn("git config write failed", "key", key, "error", err)
		return false
	}
	if !res.Succeeded() {
		log.Warn("git config write failed", "key", key, "exit_code", res.ExitCode)
		return false
	}
	return true
}

// CatCommand returns "cat <file>". The argument is embedded unmodified:
// it is not quoted, so it is only safe for paths without shell metacharacters.
func (g *Git) CatCommand(file string) string {
	return "cat " + file
}

// UsesStdout is always false for git: files are read from disk.
func (g *Git) UsesStdout() bool {
	return false
}

// EmptyTree returns the empty tree id for the repository's object format,
// falling back to EmptyTreeSHA1 when git cannot compute it.
func (g *Git) EmptyTree(ctx context.Context) string {
	res, err := g.run(ctx, "hash-object", "-t", "tree", os.DevNull)
	if err != nil || !res.Succeeded() || len(res.Output) == 0 || strings.TrimSpace(res.Output[0]) == "" {
		logger.FromContext(ctx).Warn("git hash-object failed, assuming SHA-1 empty tree", "exit_code", res.ExitCode, "error", err)
		return EmptyTreeSHA1
	}
	return strings.TrimSpace(res.Output[0])
}

// TopLevel returns the root of the working tree that contains r's directory.
// ok is false outside a working tree, which includes bare repositories.
func TopLevel(ctx context.Context, r runner.Runner, binary string) (string, bool) {
	if binary == "" {
		binary = KindGit
	}
	res, err := r.Run(ctx, binary, "rev-parse", "--show-toplevel")
	if err != nil || !res.Succeeded() || len(res.Output) == 0 || res.Output[0] == "" {
		return "", false
	}
	return res.Output[0], true
}

// run invokes git with args.
func (g *Git) run(ctx context.Context, args ...string) (runner.Result, error) {
	argv := append([]string{g.opts.Binary}, args...)
	return g.runner.Run(ctx, argv...)
}

// lines runs a listing query. Failures are logged and yield no lines.
func (g *Git) lines(ctx context.Context, op string, args ...string) []string {
	log := logger.FromContext(ctx)

	res, err := g.run(ctx, args...)
	if err != nil {
		log.Warn("git query could not run, returning no files", "op", op, "args", args, "error", err)
		return nil
	}
	if !res.Succeeded() {
		log.Warn("git query failed, returning no files", "op", op, "args", args, "exit_code", res.ExitCode)
		return nil
	}
	return res.Output
}

// paths normalizes listed paths, dropping blanks and filtered entries.
// Paths are taken verbatim: leading and trailing spaces are part of the name.
func (g *Git) paths(lines []string) []string {
	var out []string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		p := unquotePath(line)
		if p == "" || !g.opts.included(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// StripFileFlag removes a leading status flag such as "A", "AM" or "??"
// and the whitespace around the remaining path.
func StripFileFlag(line string) string {
	return strings.TrimSpace(fileFlag.ReplaceAllString(line, ""))
}

// unquotePath decodes the C-style quoting git applies to unusual paths.
func unquotePath(p string) string {
	if len(p) >= 2 && strings.HasPrefix(p, `"`) && strings.HasSuffix(p, `"`) {
		if decoded, err := strconv.Unquote(p); err == nil {
			return decoded
		}
	}
	return p
}
