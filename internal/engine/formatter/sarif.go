package formatter

import (
	"bytes"

	"github.com/owenrumney/go-sarif/v2/sarif"
)

const (
	toolName = "hookscan"
	toolURI  = "https://github.com/irahardianto/hookscan"
)

// SarifFormatter outputs a SARIF 2.1.0 log whose single run lists the files as artifacts.
// Scanners that accept SARIF input can use it as their work list.
type SarifFormatter struct{}

// NewSarifFormatter creates a new SarifFormatter.
func NewSarifFormatter() *SarifFormatter {
	return &SarifFormatter{}
}

// Format returns the SARIF log as indented JSON.
func (f *SarifFormatter) Format(set FileSet) string {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return `{"error": "failed to create SARIF report"}`
	}

	run := sarif.NewRunWithInformationURI(toolName, toolURI)
	for _, file := range set.Files {
		run.AddDistinctArtifact(file)
	}
	report.AddRun(run)

	var buf bytes.Buffer
	if err := report.PrettyWrite(&buf); err != nil {
		return `{"error": "failed to marshal SARIF report"}`
	}
	return buf.String()
}
