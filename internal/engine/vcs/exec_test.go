package vcs

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/irahardianto/hookscan/internal/engine/runner"
)

// setupGitRepo creates a temporary git repository with a test identity.
func setupGitRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	run(t, dir, "git", "init")
	run(t, dir, "git", "config", "user.email", "test@test.com")
	run(t, dir, "git", "config", "user.name", "Test")
	run(t, dir, "git", "config", "commit.gpgsign", "false")

	return dir
}

// run executes a command in the given directory and fails the test on error.
func run(t *testing.T, dir, name string, args ...string) string {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("%s %s failed: %v\n%s", name, strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestGitRepo_StagedFilesExcludesDeletions(t *testing.T) {
	dir := setupGitRepo(t)
	writeFile(t, dir, "keep.go", "package keep\n")
	writeFile(t, dir, "doomed.go", "package doomed\n")
	run(t, dir, "git", "add", ".")
	run(t, dir, "git", "commit", "-m", "initial")

	writeFile(t, dir, "keep.go", "package keep\n// changed\n")
	writeFile(t, dir, "added.go", "package added\n")
	run(t, dir, "git", "rm", "-q", "doomed.go")
	run(t, dir, "git", "add", "keep.go", "added.go")

	g := NewGit(runner.NewExecRunner(dir), Options{})
	got := g.StagedFiles(context.Background())

	if diff := cmp.Diff([]string{"added.go", "keep.go"}, got); diff != "" {
		t.Errorf("staged files mismatch (-want +got):\n%s", diff)
	}
}

func TestGitRepo_StagedFilesFreshRepo(t *testing.T) {
	dir := setupGitRepo(t)

	g := NewGit(runner.NewExecRunner(dir), Options{})
	if got := g.StagedFiles(context.Background()); len(got) != 0 {
		t.Errorf("expected no staged files, got %v", got)
	}
}

func TestGitRepo_NewFiles(t *testing.T) {
	dir := setupGitRepo(t)
	writeFile(t, dir, "base.txt", "base\n")
	run(t, dir, "git", "add", "base.txt")
	run(t, dir, "git", "commit", "-m", "initial")

	writeFile(t, dir, "src/fresh.txt", "fresh\n")
	writeFile(t, dir, "untracked.txt", "nope\n")
	writeFile(t, dir, "base.txt", "base\nchanged\n")
	run(t, dir, "git", "add", "src/fresh.txt", "base.txt")

	g := NewGit(runner.NewExecRunner(dir), Options{})
	got := g.NewFiles(context.Background())

	if diff := cmp.Diff([]string{"src/fresh.txt"}, got); diff != "" {
		t.Errorf("new files mismatch (-want +got):\n%s", diff)
	}
}

func TestGitRepo_FilesBetween(t *testing.T) {
	dir := setupGitRepo(t)
	writeFile(t, dir, "a.txt", "first\n")
	writeFile(t, dir, "sub/b.txt", "to be deleted\n")
	run(t, dir, "git", "add", ".")
	run(t, dir, "git", "commit", "-m", "first")
	first := run(t, dir, "git", "rev-parse", "HEAD")

	writeFile(t, dir, "a.txt", "second\n")
	writeFile(t, dir, "sub/deep/c.txt", "nested\n")
	run(t, dir, "git", "rm", "-q", "sub/b.txt")
	run(t, dir, "git", "add", ".")
	run(t, dir, "git", "commit", "-m", "second")
	second := run(t, dir, "git", "rev-parse", "HEAD")

	// The working tree no longer matches the pushed revision, as on a server.
	writeFile(t, dir, "a.txt", "working tree noise\n")

	root := t.TempDir()
	g := NewGit(runner.NewExecRunner(dir), Options{TempRoot: root})
	t.Cleanup(func() { _ = g.Cleanup() })

	files, err := g.FilesBetween(context.Background(), first, second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %v", files)
	}

	ext := filepath.Dir(files[0])
	want := []string{filepath.Join(ext, "a.txt"), filepath.Join(ext, "sub", "deep", "c.txt")}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}

	contents := map[string]string{want[0]: "second\n", want[1]: "nested\n"}
	for path, content := range contents {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading %s: %v", path, err)
		}
		if string(data) != content {
			t.Errorf("%s: expected %q, got %q", path, content, string(data))
		}
	}
}

func TestGitRepo_FilesBetweenInvalidRevision(t *testing.T) {
	dir := setupGitRepo(t)
	writeFile(t, dir, "a.txt", "a\n")
	run(t, dir, "git", "add", ".")
	run(t, dir, "git", "commit", "-m", "first")

	g := NewGit(runner.NewExecRunner(dir), Options{TempRoot: t.TempDir()})
	files, err := g.FilesBetween(context.Background(), "no-such-rev", "HEAD")
	if err != nil {
		t.Fatalf("invalid revision should not be an error, got %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected no files, got %v", files)
	}
}

func TestGitRepo_Config(t *testing.T) {
	dir := setupGitRepo(t)
	g := NewGit(runner.NewExecRunner(dir), Options{})
	ctx := context.Background()

	if got := g.GetConfig(ctx, "nonexistent.key", "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %q", got)
	}
	if !g.SetConfig(ctx, "user.test", "value") {
		t.Fatal("expected SetConfig to succeed")
	}
	if got := g.GetConfig(ctx, "user.test", "fallback"); got != "value" {
		t.Errorf("expected 'value', got %q", got)
	}
	if g.SetConfig(ctx, "invalid key with spaces", "value") {
		t.Error("expected SetConfig to fail for an invalid key")
	}
}

func TestGitRepo_FilesBetweenFromSubdirectory(t *testing.T) {
	dir := setupGitRepo(t)
	writeFile(t, dir, "top.txt", "top v1\n")
	writeFile(t, dir, "sub/a.txt", "a v1\n")
	run(t, dir, "git", "add", ".")
	run(t, dir, "git", "commit", "-m", "first")
	first := run(t, dir, "git", "rev-parse", "HEAD")

	writeFile(t, dir, "top.txt", "top v2\n")
	writeFile(t, dir, "sub/a.txt", "a v2\n")
	run(t, dir, "git", "add", ".")
	run(t, dir, "git", "commit", "-m", "second")
	second := run(t, dir, "git", "rev-parse", "HEAD")

	g := NewGit(runner.NewExecRunner(filepath.Join(dir, "sub")), Options{TempRoot: t.TempDir()})
	t.Cleanup(func() { _ = g.Cleanup() })

	files, err := g.FilesBetween(context.Background(), first, second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected both changed files from a subdirectory, got %v", files)
	}

	ext := filepath.Dir(filepath.Dir(files[0]))
	want := map[string]string{
		filepath.Join(ext, "sub", "a.txt"): "a v2\n",
		filepath.Join(ext, "top.txt"):      "top v2\n",
	}
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading %s: %v", path, err)
		}
		if string(data) != want[path] {
			t.Errorf("%s: expected %q, got %q", path, want[path], string(data))
		}
	}
}

func TestGitRepo_FilesBetweenSpacedNames(t *testing.T) {
	dir := setupGitRepo(t)
	writeFile(t, dir, "base.txt", "base\n")
	run(t, dir, "git", "add", ".")
	run(t, dir, "git", "commit", "-m", "first")
	first := run(t, dir, "git", "rev-parse", "HEAD")

	writeFile(t, dir, " lead.txt", "lead\n")
	writeFile(t, dir, "trail.txt ", "trail\n")
	run(t, dir, "git", "add", ".")
	run(t, dir, "git", "commit", "-m", "second")
	second := run(t, dir, "git", "rev-parse", "HEAD")

	g := NewGit(runner.NewExecRunner(dir), Options{TempRoot: t.TempDir()})
	t.Cleanup(func() { _ = g.Cleanup() })

	files, err := g.FilesBetween(context.Background(), first, second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	if diff := cmp.Diff([]string{" lead.txt", "trail.txt "}, names); diff != "" {
		t.Errorf("extracted names mismatch (-want +got):\n%s", diff)
	}
}

func TestGitRepo_EmptyTreeAndTopLevel(t *testing.T) {
	dir := setupGitRepo(t)
	writeFile(t, dir, "sub/a.txt", "a\n")
	ctx := context.Background()

	if got := NewGit(runner.NewExecRunner(dir), Options{}).EmptyTree(ctx); got != EmptyTreeSHA1 {
		t.Errorf("expected SHA-1 empty tree in a default repository, got %s", got)
	}

	top, ok := TopLevel(ctx, runner.NewExecRunner(filepath.Join(dir, "sub")), "git")
	if !ok {
		t.Fatal("expected a top level from a subdirectory")
	}
	want, _ := filepath.EvalSymlinks(dir)
	got, _ := filepath.EvalSymlinks(top)
	if got != want {
		t.Errorf("expected top level %s, got %s", want, got)
	}

	bare := t.TempDir()
	run(t, bare, "git", "init", "--bare")
	if _, ok := TopLevel(ctx, runner.NewExecRunner(bare), "git"); ok {
		t.Error("expected no top level in a bare repository")
	}
}
