// Package hook connects hookscan to git hook entry points.
package hook

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/irahardianto/hookscan/internal/engine/vcs"
	"github.com/irahardianto/hookscan/internal/platform/logger"
	"golang.org/x/sync/errgroup"
)

// EmptyTree is the base of new branches in SHA-1 repositories. Backends that
// implement vcs.TreeHasher supply the id for their own object format.
const EmptyTree = vcs.EmptyTreeSHA1

// maxParallel bounds concurrent extractions for one push.
const maxParallel = 4

// RefUpdate is one "<old> <new> <ref>" line a pre-receive hook reads from stdin.
type RefUpdate struct {
	Old string
	New string
	Ref string
}

// Deletes reports whether the push removes the ref.
func (u RefUpdate) Deletes() bool {
	return isZeroID(u.New)
}

// Creates reports whether the push introduces the ref.
func (u RefUpdate) Creates() bool {
	return isZeroID(u.Old)
}

// ParseUpdates reads pre-receive input. Blank lines are ignored.
func ParseUpdates(r io.Reader) ([]RefUpdate, error) {
	var updates []RefUpdate

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: expected \"<old> <new> <ref>\", got %q", lineNo, line)
		}
		updates = append(updates, RefUpdate{Old: fields[0], New: fields[1], Ref: fields[2]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ref updates: %w", err)
	}

	return updates, nil
}

// Collect extracts the files changed by every update, resolving updates concurrently.
// Results are concatenated in input order. Deleted refs contribute nothing;
// created refs are compared against the empty tree.
func Collect(ctx context.Context, backend vcs.Backend, updates []RefUpdate) ([]string, error) {
	log := logger.FromContext(ctx)

	results := make([][]string, len(updates))
	emptyTree := ""
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	for i, u := range updates {
		i, u := i, u // per-iteration copy (go 1.21 loop semantics)
		if u.Deletes() {
			log.Debug("ref deleted, nothing to scan", "ref", u.Ref)
			continue
		}

		first := u.Old
		if u.Creates() {
			if emptyTree == "" {
				emptyTree = emptyTreeOf(ctx, backend)
			}
			first = emptyTree
		}

		g.Go(func() error {
			files, err := backend.FilesBetween(gctx, first, u.New)
			if err != nil {
				return fmt.Errorf("collecting files for %s: %w", u.Ref, err)
			}
			log.Debug("collected ref update", "ref", u.Ref, "files", len(files))
			results[i] = files
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var files []string
	for _, r := range results {
		files = append(files, r...)
	}
	return files, nil
}

// emptyTreeOf asks backend for its empty tree id, defaulting to SHA-1's.
func emptyTreeOf(ctx context.Context, backend vcs.Backend) string {
	if h, ok := backend.(vcs.TreeHasher); ok {
		return h.EmptyTree(ctx)
	}
	return EmptyTree
}

func isZeroID(id string) bool {
	return id != "" && strings.Trim(id, "0") == ""
}
