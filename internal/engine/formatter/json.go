package formatter

import (
	"encoding/json"
)

// JSONFormatter outputs a FileSet as pretty-printed JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format returns the FileSet as indented JSON.
// Files is always an array, never null.
func (f *JSONFormatter) Format(set FileSet) string {
	if set.Files == nil {
		set.Files = []string{}
	}
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		// Fallback: should never happen since FileSet is fully serializable.
		return `{"error": "failed to marshal file set"}`
	}
	return string(data) + "\n"
}
