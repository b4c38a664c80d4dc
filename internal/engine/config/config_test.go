package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testdataPath(name string) string {
	return filepath.Join("testdata", name)
}

func loadConfig(t *testing.T, name string) (*Config, error) {
	t.Helper()
	path := testdataPath(name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}

	mockFS := NewMockFileSystem()
	mockFS.Files[path] = data

	return NewLoader(mockFS).Load(context.Background(), path)
}

func TestLoad_ValidFull(t *testing.T) {
	cfg, err := loadConfig(t, "valid_full.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &Config{
		Version:   1,
		VCS:       "git",
		GitBinary: "/usr/bin/git",
		TempRoot:  "/var/tmp/hookscan",
		Include:   []string{"**/*.php", "*.go"},
		Exclude:   []string{"vendor/**"},
		Format:    FormatSarif,
		Scanner:   "phpcs --standard=PSR12",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_MinimalAppliesDefaults(t *testing.T) {
	cfg, err := loadConfig(t, "minimal.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Version != 1 || cfg.VCS != "git" || cfg.GitBinary != "git" || cfg.Format != FormatText {
		t.Errorf("expected defaults to be applied, got %+v", cfg)
	}
	if cfg.TempRoot != "" {
		t.Errorf("expected empty temp root, got %q", cfg.TempRoot)
	}

	m, err := cfg.Matcher()
	if err != nil {
		t.Fatal(err)
	}
	if m.Match("yarn.lock") {
		t.Error("expected exclude pattern to be honored")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := NewLoader(NewMockFileSystem()).Load(context.Background(), "/nope/.hookscan.yaml")
	if err != nil {
		t.Fatalf("missing file should not error, got: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("expected defaults (-want +got):\n%s", diff)
	}
}

func TestLoad_InvalidValuesJoined(t *testing.T) {
	_, err := loadConfig(t, "invalid_values.yaml")
	if err == nil {
		t.Fatal("expected validation error")
	}

	for _, want := range []string{"version 2", `vcs "svn"`, `format "xml"`, "[unterminated"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %q, got: %v", want, err)
		}
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := loadConfig(t, "malformed.yaml")
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "parsing") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestLoad_ReadError(t *testing.T) {
	mockFS := NewMockFileSystem()
	mockFS.ReadErrors["/locked.yaml"] = errors.New("permission denied")

	_, err := NewLoader(mockFS).Load(context.Background(), "/locked.yaml")
	if err == nil || !strings.Contains(err.Error(), "permission denied") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HOOKSCAN_TEMP_ROOT", "/srv/scratch")
	t.Setenv("HOOKSCAN_GIT_BINARY", "/opt/git/bin/git")
	t.Setenv("HOOKSCAN_FORMAT", "json")
	t.Setenv("HOOKSCAN_EXCLUDE", "*.md,docs/**")
	t.Setenv("HOOKSCAN_SCANNER", "gitleaks detect --no-git --source")

	cfg, err := loadConfig(t, "valid_full.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.TempRoot != "/srv/scratch" {
		t.Errorf("expected env temp root, got %q", cfg.TempRoot)
	}
	if cfg.GitBinary != "/opt/git/bin/git" {
		t.Errorf("expected env git binary, got %q", cfg.GitBinary)
	}
	if cfg.Format != FormatJSON {
		t.Errorf("expected env format, got %q", cfg.Format)
	}
	if cfg.Scanner != "gitleaks detect --no-git --source" {
		t.Errorf("expected env scanner, got %q", cfg.Scanner)
	}
	if diff := cmp.Diff([]string{"*.md", "docs/**"}, cfg.Exclude); diff != "" {
		t.Errorf("exclude mismatch (-want +got):\n%s", diff)
	}
	// Untouched by the environment.
	if diff := cmp.Diff([]string{"**/*.php", "*.go"}, cfg.Include); diff != "" {
		t.Errorf("include mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_InvalidEnvOverride(t *testing.T) {
	t.Setenv("HOOKSCAN_VCS", "hg")

	_, err := NewLoader(NewMockFileSystem()).Load(context.Background(), DefaultPath)
	if err == nil || !strings.Contains(err.Error(), `vcs "hg"`) {
		t.Fatalf("expected invalid vcs error, got %v", err)
	}
}
