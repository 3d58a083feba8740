package validate

import (
	"fmt"

	"github.com/zjrosen/starforge/internal/data/entities"
)

// Severity classifies a diagnostic.
type Severity string

const (
	// SeverityFatal aborts the whole candidate load.
	SeverityFatal Severity = "fatal"
	// SeverityAdvisory is surfaced as a warning and never blocks.
	SeverityAdvisory Severity = "advisory"
)

// Diagnostic is one finding from the pipeline: validation rules, decode
// failures and skipped mods all report through this shape.
type Diagnostic struct {
	Severity   Severity            `json:"severity"`
	Collection entities.Collection `json:"collection,omitempty"`
	ID         string              `json:"id,omitempty"`
	Message    string              `json:"message"`
}

func (d Diagnostic) String() string {
	sev := "ADVISORY"
	if d.Severity == SeverityFatal {
		sev = "FATAL"
	}
	switch {
	case d.Collection != "" && d.ID != "":
		return fmt.Sprintf("%s %s %s: %s", sev, d.Collection, d.ID, d.Message)
	case d.Collection != "":
		return fmt.Sprintf("%s %s: %s", sev, d.Collection, d.Message)
	default:
		return fmt.Sprintf("%s %s", sev, d.Message)
	}
}

// Fatalf builds a fatal diagnostic.
func Fatalf(col entities.Collection, id, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity:   SeverityFatal,
		Collection: col,
		ID:         id,
		Message:    fmt.Sprintf(format, args...),
	}
}

// Advisoryf builds an advisory diagnostic.
func Advisoryf(col entities.Collection, id, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity:   SeverityAdvisory,
		Collection: col,
		ID:         id,
		Message:    fmt.Sprintf(format, args...),
	}
}

// HasFatal reports whether any diagnostic is fatal.
func HasFatal(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityFatal {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics with the given severity.
func Count(diags []Diagnostic, severity Severity) int {
	n := 0
	for _, d := range diags {
		if d.Severity == severity {
			n++
		}
	}
	return n
}
