package vcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/irahardianto/hookscan/internal/platform/logger"
)

// TreeEntry is one line of `git ls-tree` output.
type TreeEntry struct {
	Mode   string
	Type   string
	Object string
	Path   string
}

// ParseTreeEntry parses "<mode> <type> <object>\t<path>".
func ParseTreeEntry(line string) (TreeEntry, error) {
	meta, path, hasTab := strings.Cut(line, "\t")
	fields := strings.Fields(meta)
	if !hasTab {
		if len(fields) < 4 {
			return TreeEntry{}, fmt.Errorf("malformed tree entry %q", line)
		}
		path = strings.Join(fields[3:], " ")
		fields = fields[:3]
	}
	if len(fields) != 3 || path == "" {
		return TreeEntry{}, fmt.Errorf("malformed tree entry %q", line)
	}

	return TreeEntry{
		Mode:   fields[0],
		Type:   fields[1],
		Object: fields[2],
		Path:   unquotePath(path),
	}, nil
}

// FilesBetween lists paths that differ between first and second and writes each
// one's content at second into a fresh directory under the temp root.
//
// The returned paths keep the repository layout below that directory and follow
// the order of `git diff --name-only`. Paths deleted in second are omitted.
// If the diff itself fails, no files are returned and the failure is logged.
// Filesystem failures stop extraction and return an error wrapping ErrStorage.
func (g *Git) FilesBetween(ctx context.Context, first, second string) ([]string, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing files between revisions", "first", first, "second", second)

	changed := g.paths(g.lines(ctx, "between", "diff", "--name-only", first, second))

	var (
		files []string
		root  string
	)
	for _, path := range changed {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry, ok := g.treeEntry(ctx, second, path)
		if !ok {
			log.Debug("path absent at revision, skipping", "path", path, "revision", second)
			continue
		}
		if entry.Type != "blob" {
			log.Debug("not a blob, skipping", "path", path, "type", entry.Type)
			continue
		}
		if !filepath.IsLocal(filepath.FromSlash(path)) {
			log.Warn("refusing to extract non-local path", "path", path)
			continue
		}

		if root == "" {
			var err error
			if root, err = g.newExtractionDir(); err != nil {
				return nil, err
			}
		}

		target := filepath.Join(root, filepath.FromSlash(path))
		extracted, err := g.extract(ctx, entry, target)
		if err != nil {
			return nil, err
		}
		if extracted {
			files = append(files, target)
		}
	}

	log.Debug("extracted files between revisions", "count", len(files), "dir", root)
	return files, nil
}

// Cleanup removes every extraction directory this backend has created.
func (g *Git) Cleanup() error {
	g.mu.Lock()
	dirs := g.dirs
	g.dirs = nil
	g.mu.Unlock()

	var errs []error
	for _, dir := range dirs {
		if err := os.RemoveAll(dir); err != nil {
			errs = append(errs, fmt.Errorf("removing %s: %w", dir, err))
		}
	}
	return errors.Join(errs...)
}

// treeEntry looks up path in the tree of rev. ok is false when the path
// does not exist there or the lookup fails.
// path is relative to the repository root, as diff reports it, so the lookup
// uses --full-tree and does not depend on the runner's directory.
func (g *Git) treeEntry(ctx context.Context, rev, path string) (TreeEntry, bool) {
	log := logger.FromContext(ctx)

	res, err := g.run(ctx, "ls-tree", "--full-tree", rev, "--", path)
	if err != nil {
		log.Warn("git ls-tree could not run", "path", path, "error", err)
		return TreeEntry{}, false
	}
	if !res.Succeeded() || len(res.Output) == 0 || strings.TrimSpace(res.Output[0]) == "" {
		return TreeEntry{}, false
	}

	entry, err := ParseTreeEntry(res.Output[0])
	if err != nil {
		log.Warn("unparseable git ls-tree output", "path", path, "error", err)
		return TreeEntry{}, false
	}
	return entry, true
}

// newExtractionDir creates <temp root>/hookscan_<uuid> and records it for Cleanup.
// The uuid keeps concurrent invocations apart, including across processes.
func (g *Git) newExtractionDir() (string, error) {
	dir := filepath.Join(g.opts.tempRoot(), TempPrefix+uuid.NewString())
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("%w: creating %s: %w", ErrStorage, dir, err)
	}

	g.mu.Lock()
	g.dirs = append(g.dirs, dir)
	g.mu.Unlock()

	return dir, nil
}

// extract writes the object behind entry to target.
// It returns false without error when git cannot produce the object.
func (g *Git) extract(ctx context.Context, entry TreeEntry, target string) (bool, error) {
	log := logger.FromContext(ctx)

	if err := os.MkdirAll(filepath.Dir(target), 0o700); err != nil {
		return false, fmt.Errorf("%w: creating %s: %w", ErrStorage, filepath.Dir(target), err)
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) // #nosec G304 -- target is below our own extraction directory
	if err != nil {
		return false, fmt.Errorf("%w: creating %s: %w", ErrStorage, target, err)
	}

	w := &errWriter{w: f}
	code, runErr := g.runner.RunTo(ctx, w, g.opts.Binary, "cat-file", entry.Type, entry.Object)
	closeErr := f.Close()

	switch {
	case w.err != nil:
		return false, fmt.Errorf("%w: writing %s: %w", ErrStorage, target, w.err)
	case closeErr != nil:
		return false, fmt.Errorf("%w: closing %s: %w", ErrStorage, target, closeErr)
	case runErr != nil || code != 0:
		log.Warn("git cat-file failed, skipping file", "path", entry.Path, "object", entry.Object, "exit_code", code, "error", runErr)
		if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
			return false, fmt.Errorf("%w: removing partial %s: %w", ErrStorage, target, err)
		}
		return false, nil
	}
	return true, nil
}

// errWriter remembers the first write error so storage failures can be told
// apart from git failures.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}

// SweepTemp removes extraction directories under root older than age,
// left behind by runs that exited before Cleanup. It returns how many were removed.
func SweepTemp(root string, age time.Duration) (int, error) {
	if root == "" {
		root = os.TempDir()
	}

	matches, err := filepath.Glob(filepath.Join(root, TempPrefix+"*"))
	if err != nil {
		return 0, fmt.Errorf("listing %s: %w", root, err)
	}

	cutoff := time.Now().Add(-age)
	removed := 0
	var errs []error
	for _, dir := range matches {
		info, err := os.Lstat(dir)
		if err != nil || !info.IsDir() || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			errs = append(errs, fmt.Errorf("removing %s: %w", dir, err))
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}
