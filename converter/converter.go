// Package converter translates metadata documents between supported
// standards by projecting the canonical property set through the target
// standard's registry.
//
// Conversion is value-preserving but not lossless: properties the target
// standard cannot represent are dropped, and each drop is reported as a
// warning issue. Values themselves are never transformed.
package converter

import (
	"fmt"
	"os"

	"github.com/consbio/gis-metadata-parser/internal/issues"
	"github.com/consbio/gis-metadata-parser/internal/severity"
	"github.com/consbio/gis-metadata-parser/parser"
)

// Severity indicates the severity level of a conversion issue
type Severity = severity.Severity

const (
	// SeverityInfo indicates informational messages about conversion choices
	SeverityInfo = severity.SeverityInfo
	// SeverityWarning indicates lossy conversions or best-effort transformations
	SeverityWarning = severity.SeverityWarning
	// SeverityCritical indicates properties that cannot be converted (data loss)
	SeverityCritical = severity.SeverityCritical
)

// ConversionIssue represents a single conversion issue or limitation
type ConversionIssue = issues.Issue

// ConversionResult contains the results of converting a metadata document
type ConversionResult struct {
	// Parser is the converted document, ready for further edits or writing
	Parser *parser.MetadataParser
	// SourceStandard is the detected source standard identifier
	SourceStandard string
	// TargetStandard is the target standard identifier
	TargetStandard string
	// Carried lists the properties whose values were carried over
	Carried []string
	// Dropped lists the properties the target standard cannot represent
	Dropped []string
	// Issues contains all conversion issues in property order
	Issues []ConversionIssue
	// InfoCount is the total number of info messages
	InfoCount int
	// WarningCount is the total number of warnings
	WarningCount int
	// CriticalCount is the total number of critical issues
	CriticalCount int
	// Success is true if conversion completed without critical issues
	Success bool
}

// HasCriticalIssues returns true if there are any critical issues
func (r *ConversionResult) HasCriticalIssues() bool {
	return r.CriticalCount > 0
}

// HasWarnings returns true if there are any warnings
func (r *ConversionResult) HasWarnings() bool {
	return r.WarningCount > 0
}

// Serialize writes the converted document as XML.
func (r *ConversionResult) Serialize() ([]byte, error) {
	return r.Parser.Serialize(false)
}

// Converter handles metadata standard conversion
type Converter struct {
	// StrictMode causes conversion to fail when any property is dropped
	StrictMode bool
	// IncludeInfo determines whether to include informational messages
	IncludeInfo bool
}

// New creates a new Converter instance with default settings
func New() *Converter {
	return &Converter{
		StrictMode:  false,
		IncludeInfo: true,
	}
}

// Convert is a convenience function that converts a metadata XML file to the
// target standard with default settings.
//
// Example:
//
//	result, err := converter.Convert("record.xml", parser.StandardISO)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if result.HasWarnings() {
//	    // Some properties could not be represented in ISO
//	}
func Convert(path string, targetStandard string) (*ConversionResult, error) {
	return New().Convert(path, targetStandard)
}

// ConvertParsed is a convenience function that converts an already parsed
// document to the target standard with default settings.
func ConvertParsed(p *parser.MetadataParser, targetStandard string) (*ConversionResult, error) {
	return New().ConvertParsed(p, targetStandard)
}

// Convert converts a metadata XML file to the target standard
func (c *Converter) Convert(path string, targetStandard string) (*ConversionResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("converter: reading %s: %w", path, err)
	}
	return c.ConvertBytes(data, targetStandard)
}

// ConvertBytes parses raw metadata XML and converts it to the target standard
func (c *Converter) ConvertBytes(data []byte, targetStandard string) (*ConversionResult, error) {
	p, err := parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("converter: %w", err)
	}
	return c.ConvertParsed(p, targetStandard)
}

// ConvertParsed converts an already parsed document to the target standard
func (c *Converter) ConvertParsed(p *parser.MetadataParser, targetStandard string) (*ConversionResult, error) {
	if p == nil {
		return nil, fmt.Errorf("converter: nil parser")
	}
	target, ok := parser.RegistryFor(targetStandard)
	if !ok {
		return nil, fmt.Errorf("converter: unsupported target standard: %s", targetStandard)
	}

	result := &ConversionResult{
		SourceStandard: p.Standard(),
		TargetStandard: targetStandard,
	}

	// Identity conversion is allowed: it rebuilds the document from a fresh
	// skeleton, normalizing node placement along the way.
	converted, err := p.ConvertTo(target)
	if err != nil {
		return nil, fmt.Errorf("converter: converting %s to %s: %w", p.Standard(), targetStandard, err)
	}
	result.Parser = converted

	for _, prop := range p.Registry().Properties() {
		if !p.Has(prop) || p.Get(prop).IsEmpty() {
			continue
		}
		if target.Has(prop) {
			result.Carried = append(result.Carried, prop)
			continue
		}
		result.Dropped = append(result.Dropped, prop)
		result.Issues = append(result.Issues, ConversionIssue{
			Path:     prop,
			Message:  "property has no mapping in the target standard and was dropped",
			Severity: SeverityWarning,
			Context:  fmt.Sprintf("converting %s to %s", p.Standard(), targetStandard),
			PropertyContext: &issues.PropertyContext{
				Standard: targetStandard,
				Dropped:  true,
			},
		})
	}

	if c.IncludeInfo {
		result.Issues = append(result.Issues, ConversionIssue{
			Path:     "document",
			Message:  fmt.Sprintf("carried %d of %d properties", len(result.Carried), len(result.Carried)+len(result.Dropped)),
			Severity: SeverityInfo,
		})
	}

	for _, issue := range result.Issues {
		switch issue.Severity {
		case SeverityInfo:
			result.InfoCount++
		case SeverityWarning:
			result.WarningCount++
		case SeverityCritical:
			result.CriticalCount++
		}
	}
	result.Success = result.CriticalCount == 0

	if c.StrictMode && len(result.Dropped) > 0 {
		return result, fmt.Errorf("converter: %d properties cannot be represented in %s", len(result.Dropped), targetStandard)
	}

	return result, nil
}
