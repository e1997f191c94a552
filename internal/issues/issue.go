// Package issues provides a unified issue type for validation and conversion problems.
package issues

import (
	"fmt"

	"github.com/consbio/gis-metadata-parser/internal/severity"
)

// Issue represents a single problem found during validation or conversion.
type Issue struct {
	// Path is the property path to the problematic value (e.g., "contacts[1].email")
	Path string
	// Message is a human-readable description of the issue
	Message string
	// Severity indicates the severity level of the issue
	Severity severity.Severity
	// Field is the specific sub-property name that has the issue
	Field string
	// Value is the problematic value (optional)
	Value any
	// SpecRef is the URL to the relevant section of the metadata standard (optional, validation use)
	SpecRef string
	// Context provides additional information about the issue (optional, conversion use)
	Context string
	// PropertyContext identifies the standard and document location behind the
	// property when known. Nil when not applicable.
	PropertyContext *PropertyContext
}

// String returns a formatted string representation of the issue.
// Uses different symbols based on severity level:
// - "✗" for Error or Critical severity
// - "⚠" for Warning severity
// - "ℹ" for Info severity
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case severity.SeverityError, severity.SeverityCritical:
		symbol = "✗"
	case severity.SeverityWarning:
		symbol = "⚠"
	case severity.SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "?"
	}

	pathWithContext := i.Path
	if i.PropertyContext != nil && !i.PropertyContext.IsEmpty() {
		pathWithContext = fmt.Sprintf("%s %s", i.Path, i.PropertyContext.String())
	}

	result := fmt.Sprintf("%s %s: %s", symbol, pathWithContext, i.Message)

	// Add SpecRef if present (validation use case)
	if i.SpecRef != "" {
		result += fmt.Sprintf("\n    Standard: %s", i.SpecRef)
	}

	// Add Context if present (conversion use case)
	if i.Context != "" {
		result += fmt.Sprintf("\n    Context: %s", i.Context)
	}

	return result
}
