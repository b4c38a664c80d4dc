package vcs

import (
	"context"
	"sync"
)

// MockBackend is a test double for Backend.
type MockBackend struct {
	Staged     []string
	Added      []string
	Between    map[string][]string // keyed by "first..second"
	BetweenErr error
	Config     map[string]string
	SetOK      bool
	Stdout     bool
	CleanupErr error
	// EmptyTreeID overrides the id returned by EmptyTree.
	EmptyTreeID string

	mu          sync.Mutex
	ranges      [][2]string
	set         map[string]string
	cleanupRuns int
}

var (
	_ Backend    = (*MockBackend)(nil)
	_ TreeHasher = (*MockBackend)(nil)
)

// StagedFiles returns the configured staged paths.
func (m *MockBackend) StagedFiles(_ context.Context) []string {
	return m.Staged
}

// NewFiles returns the configured added paths.
func (m *MockBackend) NewFiles(_ context.Context) []string {
	return m.Added
}

// FilesBetween records the range and returns the configured paths for it.
func (m *MockBackend) FilesBetween(_ context.Context, first, second string) ([]string, error) {
	m.mu.Lock()
	m.ranges = append(m.ranges, [2]string{first, second})
	m.mu.Unlock()

	if m.BetweenErr != nil {
		return nil, m.BetweenErr
	}
	return m.Between[first+".."+second], nil
}

// GetConfig returns the configured value or defaultValue.
func (m *MockBackend) GetConfig(_ context.Context, key, defaultValue string) string {
	if v, ok := m.Config[key]; ok {
		return v
	}
	return defaultValue
}

// SetConfig records the write and returns SetOK.
func (m *MockBackend) SetConfig(_ context.Context, key, value string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.set == nil {
		m.set = make(map[string]string)
	}
	m.set[key] = value
	return m.SetOK
}

// CatCommand mirrors the git backend.
func (m *MockBackend) CatCommand(file string) string {
	return "cat " + file
}

// UsesStdout returns Stdout.
func (m *MockBackend) UsesStdout() bool {
	return m.Stdout
}

// EmptyTree returns EmptyTreeID, or the SHA-1 empty tree when unset.
func (m *MockBackend) EmptyTree(_ context.Context) string {
	if m.EmptyTreeID != "" {
		return m.EmptyTreeID
	}
	return EmptyTreeSHA1
}

// Cleanup counts the call and returns CleanupErr.
func (m *MockBackend) Cleanup() error {
	m.mu.Lock()
	m.cleanupRuns++
	m.mu.Unlock()
	return m.CleanupErr
}

// Ranges returns the revision pairs passed to FilesBetween, in call order.
func (m *MockBackend) Ranges() [][2]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][2]string(nil), m.ranges...)
}

// Written returns the values passed to SetConfig.
func (m *MockBackend) Written() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.set))
	for k, v := range m.set {
		out[k] = v
	}
	return out
}

// CleanupRuns returns how many times Cleanup was called.
func (m *MockBackend) CleanupRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cleanupRuns
}
