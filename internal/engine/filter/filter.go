// Package filter narrows listed files down to the ones a scan cares about.
package filter

import (
	"errors"
	"fmt"
	"path"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher selects paths by include and exclude glob patterns.
//
// Rules:
//   - With no patterns, every path matches.
//   - If Include is set, a path must match at least one include pattern.
//   - A path matching any Exclude pattern never matches.
//   - Patterns use doublestar syntax ("**/*.go", "vendor/**") and are tried
//     against both the full slash-separated path and its base name.
type Matcher struct {
	Include []string
	Exclude []string
}

// New creates a Matcher after validating its patterns.
func New(include, exclude []string) (*Matcher, error) {
	m := &Matcher{Include: include, Exclude: exclude}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate reports every malformed pattern at once.
func (m *Matcher) Validate() error {
	var errs []error
	for _, p := range m.Include {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, fmt.Errorf("invalid include pattern %q", p))
		}
	}
	for _, p := range m.Exclude {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, fmt.Errorf("invalid exclude pattern %q", p))
		}
	}
	return errors.Join(errs...)
}

// Empty reports whether the matcher accepts every path.
func (m *Matcher) Empty() bool {
	return m == nil || (len(m.Include) == 0 && len(m.Exclude) == 0)
}

// Match reports whether file passes the filter.
func (m *Matcher) Match(file string) bool {
	if m.Empty() {
		return true
	}
	if matchesPattern(file, m.Exclude) {
		return false
	}
	if len(m.Include) == 0 {
		return true
	}
	return matchesPattern(file, m.Include)
}

// Apply returns the files that pass the filter, keeping their order.
func (m *Matcher) Apply(files []string) []string {
	if m.Empty() {
		return files
	}
	var result []string
	for _, f := range files {
		if m.Match(f) {
			result = append(result, f)
		}
	}
	return result
}

// matchesPattern returns true if the file matches any of the given patterns,
// by full path or by base name (e.g., "*.go" should match "cmd/main.go").
func matchesPattern(file string, patterns []string) bool {
	base := path.Base(file)
	for _, p := range patterns {
		if matched, _ := doublestar.Match(p, file); matched {
			return true
		}
		if matched, _ := doublestar.Match(p, base); matched {
			return true
		}
	}
	return false
}
