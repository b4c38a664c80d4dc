// Package formatter renders the files selected for a scan.
package formatter

import (
	"fmt"
)

// FileSet is the outcome of one file query.
type FileSet struct {
	// Source names the query that produced the files (staged, new, between, pre-receive).
	Source string `json:"source"`
	// Revisions holds the revision range for revision queries.
	Revisions []string `json:"revisions,omitempty"`
	Files     []string `json:"files"`
}

// Formatter formats a FileSet for output.
type Formatter interface {
	Format(set FileSet) string
}

// New returns the formatter registered under name.
func New(name string) (Formatter, error) {
	switch name {
	case "", "text":
		return NewTextFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	case "sarif":
		return NewSarifFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (valid: text, json, sarif)", name)
	}
}
