package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRealFileSystem(t *testing.T) {
	fs := &RealFileSystem{}
	path := filepath.Join(t.TempDir(), DefaultPath)

	_, err := fs.ReadFile(path)
	if !fs.IsNotExist(err) {
		t.Errorf("expected not-exist error before create, got %v", err)
	}

	if err := os.WriteFile(path, []byte("vcs: git\n"), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "vcs: git\n" {
		t.Errorf("unexpected content %q", data)
	}
}
