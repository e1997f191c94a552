// Package issues provides a unified issue type for validation and conversion problems.
package issues

import "fmt"

// PropertyContext ties an issue to the metadata standard and document
// location behind the canonical property it was raised against.
type PropertyContext struct {
	// Standard is the standard identifier ("fgdc", "iso", "arcgis")
	Standard string
	// Location is the document location the property maps to
	// (e.g., "idinfo/citation/citeinfo/title"). May be empty for
	// custom-codec properties with no single location.
	Location string
	// Dropped is true when the issue describes a property that could not be
	// carried over during conversion.
	Dropped bool
}

// String returns a formatted string representation of the property context.
// Returns empty string if the context is empty.
func (c PropertyContext) String() string {
	if c.IsEmpty() {
		return ""
	}
	if c.Dropped {
		if c.Standard != "" {
			return fmt.Sprintf("(not representable in %s)", c.Standard)
		}
		return "(not representable in target)"
	}
	if c.Location != "" && c.Standard != "" {
		return fmt.Sprintf("(%s: %s)", c.Standard, c.Location)
	}
	if c.Location != "" {
		return fmt.Sprintf("(%s)", c.Location)
	}
	return fmt.Sprintf("(%s)", c.Standard)
}

// IsEmpty returns true if the context has no meaningful information.
func (c PropertyContext) IsEmpty() bool {
	if c.Dropped {
		return false
	}
	return c.Standard == "" && c.Location == ""
}
