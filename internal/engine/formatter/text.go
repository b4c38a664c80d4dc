package formatter

import (
	"strings"
)

// TextFormatter prints one path per line, ready for xargs or a scanner reading stdin.
type TextFormatter struct{}

// NewTextFormatter creates a new TextFormatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Format returns the files separated by newlines, with a trailing newline.
// An empty set produces no output.
func (f *TextFormatter) Format(set FileSet) string {
	if len(set.Files) == 0 {
		return ""
	}
	return strings.Join(set.Files, "\n") + "\n"
}
