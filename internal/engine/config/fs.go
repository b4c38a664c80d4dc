package config

import (
	"os"
)

// FileSystem abstracts the file reads the loader needs, for testing.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	IsNotExist(err error) bool
}

// RealFileSystem implements FileSystem using the os package.
type RealFileSystem struct{}

// ReadFile reads the named file and returns the contents.
func (r *RealFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name) // #nosec G304 -- config path comes from the CLI flag or the repository root
}

// IsNotExist reports whether err means the file does not exist.
func (r *RealFileSystem) IsNotExist(err error) bool {
	return os.IsNotExist(err)
}
