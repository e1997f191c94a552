// Package differ compares two geospatial metadata records by their
// canonical properties.
//
// The records may use different standards; comparison happens on the
// canonical property set, so an FGDC record can be diffed against the ISO
// record it was converted to. Differences in raw XML layout that do not
// change any canonical property are not reported.
package differ

import (
	"fmt"
	"os"
	"sort"

	"github.com/consbio/gis-metadata-parser/parser"
)

// ChangeType indicates whether a change is an addition, removal, or modification
type ChangeType string

const (
	// ChangeTypeAdded indicates the property is present only in the target record
	ChangeTypeAdded ChangeType = "added"
	// ChangeTypeRemoved indicates the property is present only in the source record
	ChangeTypeRemoved ChangeType = "removed"
	// ChangeTypeModified indicates the property is present in both records with different values
	ChangeTypeModified ChangeType = "modified"
)

// Change represents a single canonical property difference between two records
type Change struct {
	// Property is the canonical property name (e.g. "title", "bounding_box")
	Property string
	// Type indicates if this is an addition, removal, or modification
	Type ChangeType
	// OldValue is the value in the source record (absent for additions)
	OldValue parser.Value
	// NewValue is the value in the target record (absent for removals)
	NewValue parser.Value
	// Message is a human-readable description of the change
	Message string
}

// String returns a formatted string representation of the change
func (c Change) String() string {
	var symbol string
	switch c.Type {
	case ChangeTypeAdded:
		symbol = "+"
	case ChangeTypeRemoved:
		symbol = "-"
	case ChangeTypeModified:
		symbol = "~"
	default:
		symbol = "·"
	}
	return fmt.Sprintf("%s %s: %s", symbol, c.Property, c.Message)
}

// DiffResult contains the results of comparing two metadata records
type DiffResult struct {
	// SourceStandard is the detected standard of the source record
	SourceStandard string
	// TargetStandard is the detected standard of the target record
	TargetStandard string
	// Changes contains all detected changes in property name order
	Changes []Change
	// AddedCount is the number of properties only the target has
	AddedCount int
	// RemovedCount is the number of properties only the source has
	RemovedCount int
	// ModifiedCount is the number of properties with differing values
	ModifiedCount int
	// Identical is true when no changes were detected
	Identical bool
}

// Differ compares metadata records property by property
type Differ struct {
	// Properties restricts the comparison to the named canonical
	// properties. When empty, every property either record's standard
	// maps is compared.
	Properties []string
}

// New creates a new Differ instance with default settings
func New() *Differ {
	return &Differ{}
}

// Diff reads and parses two metadata files and compares them.
func (d *Differ) Diff(sourcePath, targetPath string) (*DiffResult, error) {
	source, err := parseFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}
	target, err := parseFile(targetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse target: %w", err)
	}
	return d.DiffParsed(source, target)
}

// DiffParsed compares two already-parsed metadata records.
func (d *Differ) DiffParsed(source, target *parser.MetadataParser) (*DiffResult, error) {
	if source == nil || target == nil {
		return nil, fmt.Errorf("differ: both source and target records are required")
	}

	result := &DiffResult{
		SourceStandard: source.Standard(),
		TargetStandard: target.Standard(),
	}

	for _, prop := range d.properties(source, target) {
		oldValue := source.Get(prop)
		newValue := target.Get(prop)

		switch {
		case oldValue.IsEmpty() && newValue.IsEmpty():
			continue
		case oldValue.IsEmpty():
			result.Changes = append(result.Changes, Change{
				Property: prop,
				Type:     ChangeTypeAdded,
				NewValue: newValue,
				Message:  fmt.Sprintf("added with value %s", preview(newValue)),
			})
			result.AddedCount++
		case newValue.IsEmpty():
			result.Changes = append(result.Changes, Change{
				Property: prop,
				Type:     ChangeTypeRemoved,
				OldValue: oldValue,
				Message:  fmt.Sprintf("removed (was %s)", preview(oldValue)),
			})
			result.RemovedCount++
		case !oldValue.Equal(newValue):
			result.Changes = append(result.Changes, Change{
				Property: prop,
				Type:     ChangeTypeModified,
				OldValue: oldValue,
				NewValue: newValue,
				Message:  fmt.Sprintf("changed from %s to %s", preview(oldValue), preview(newValue)),
			})
			result.ModifiedCount++
		}
	}

	result.Identical = len(result.Changes) == 0
	return result, nil
}

// properties returns the sorted set of canonical properties to compare.
func (d *Differ) properties(source, target *parser.MetadataParser) []string {
	if len(d.Properties) > 0 {
		props := append([]string(nil), d.Properties...)
		sort.Strings(props)
		return props
	}

	seen := make(map[string]bool)
	var props []string
	for _, registry := range []*parser.Registry{source.Registry(), target.Registry()} {
		for _, prop := range registry.Properties() {
			if !seen[prop] {
				seen[prop] = true
				props = append(props, prop)
			}
		}
	}
	sort.Strings(props)
	return props
}

// maxPreview bounds the value excerpt included in change messages.
const maxPreview = 60

// preview renders a value excerpt for change messages.
func preview(value parser.Value) string {
	s := value.String()
	if len(s) > maxPreview {
		s = s[:maxPreview-3] + "..."
	}
	return fmt.Sprintf("%q", s)
}

func parseFile(path string) (*parser.MetadataParser, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parser.Parse(data)
}
