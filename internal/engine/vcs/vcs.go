// Package vcs answers "which files should be scanned" for a version control system.
//
// Callers depend on Backend and never run version control commands themselves.
// Query failures degrade to empty or default results and are reported through the
// context logger; only local storage failures during extraction are returned as errors.
package vcs

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/irahardianto/hookscan/internal/engine/runner"
)

// Kinds accepted by New.
const (
	KindGit = "git"
)

// TempPrefix prefixes every extraction directory created under Options.TempRoot.
const TempPrefix = "hookscan_"

// EmptyTreeSHA1 is the id of git's empty tree in SHA-1 repositories.
const EmptyTreeSHA1 = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"

// ErrStorage marks failures writing extracted content to the local filesystem.
var ErrStorage = errors.New("extraction storage failure")

// ErrUnsupportedVCS is returned by New for unknown backend kinds.
var ErrUnsupportedVCS = errors.New("unsupported version control system")

// Backend is the query surface a scanning caller needs from a version control system.
type Backend interface {
	// StagedFiles returns paths staged as added, copied or modified.
	StagedFiles(ctx context.Context) []string
	// NewFiles returns paths of newly added files in the working tree status.
	NewFiles(ctx context.Context) []string
	// FilesBetween materializes files changed between two revisions and returns
	// readable temporary paths holding their content at the second revision.
	FilesBetween(ctx context.Context, first, second string) ([]string, error)

	// GetConfig reads a configuration value, falling back to defaultValue when unset.
	GetConfig(ctx context.Context, key, defaultValue string) string
	// SetConfig writes a configuration value and reports whether it succeeded.
	SetConfig(ctx context.Context, key, value string) bool

	// CatCommand returns the shell command that prints file to stdout.
	CatCommand(file string) string
	// UsesStdout reports whether this backend reads file content through stdout.
	UsesStdout() bool

	// Cleanup removes every temporary directory created by FilesBetween.
	Cleanup() error
}

// TreeHasher is implemented by backends that can name the empty tree of their
// repository, which depends on its object format.
type TreeHasher interface {
	EmptyTree(ctx context.Context) string
}

// Options configures a Backend.
type Options struct {
	// Binary is the executable to invoke. Defaults to the backend kind.
	Binary string
	// TempRoot is where extraction directories are created. Defaults to os.TempDir().
	TempRoot string
	// Include, if set, drops listed paths for which it returns false.
	// It sees repository-relative paths, before any extraction happens.
	Include func(path string) bool
}

func (o Options) tempRoot() string {
	if o.TempRoot != "" {
		return o.TempRoot
	}
	return os.TempDir()
}

func (o Options) included(path string) bool {
	return o.Include == nil || o.Include(path)
}

// New returns the Backend for kind. An empty kind selects git.
func New(kind string, r runner.Runner, opts Options) (Backend, error) {
	switch kind {
	case "", KindGit:
		return NewGit(r, opts), nil
	default:
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrUnsupportedVCS, kind, KindGit)
	}
}
