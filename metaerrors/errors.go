// Package metaerrors provides structured error types for gis-metadata-parser.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between different categories
// of errors and implement appropriate recovery strategies.
//
// # Error Categories
//
//   - ContentError: invalid, empty, or unrecognized metadata content
//   - ConfigError: malformed registry or property spec configuration
//   - ValidationError: canonical property sets that fail validation
//
// # Usage with errors.Is
//
//	p, err := parser.Parse(data)
//	if err != nil {
//	    if errors.Is(err, metaerrors.ErrNoContent) {
//	        // Handle empty input specifically
//	    }
//	}
package metaerrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/consbio/gis-metadata-parser/internal/maputil"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrContent indicates the metadata content could not be used.
	ErrContent = errors.New("content error")

	// ErrNoContent indicates the metadata content was empty.
	ErrNoContent = errors.New("no content")

	// ErrInvalidContent indicates the metadata content was malformed or
	// did not conform to a supported metadata standard.
	ErrInvalidContent = errors.New("invalid content")

	// ErrConfig indicates a malformed registry or property spec.
	ErrConfig = errors.New("configuration error")

	// ErrValidation indicates a canonical property set failed validation.
	ErrValidation = errors.New("validation error")
)

// ContentError represents a failure to use the supplied metadata content.
// This includes XML deserialization errors, empty input, and documents
// whose root element matches no supported standard.
type ContentError struct {
	// Standard is the metadata standard in use, if known (e.g. "fgdc")
	Standard string
	// Root is the offending document root element name, if known
	Root string
	// Empty is true if the error is due to empty or missing content
	Empty bool
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ContentError) Error() string {
	msg := "invalid content"
	if e.Empty {
		msg = "no content"
	}
	if e.Standard != "" {
		msg += " for " + e.Standard
	}
	if e.Root != "" {
		msg += fmt.Sprintf(" (root element %q)", e.Root)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ContentError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ContentError) Is(target error) bool {
	if target == ErrContent {
		return true
	}
	if e.Empty {
		return target == ErrNoContent
	}
	return target == ErrInvalidContent
}

// ConfigError represents a defect in registry or property spec configuration,
// such as a complex spec used where a scalar was expected, or a property spec
// carrying neither locations nor parse/update functions. These indicate
// programming errors in an adapter, not bad input data.
type ConfigError struct {
	// Standard is the metadata standard whose registry is misconfigured
	Standard string
	// Property is the canonical property name with the bad spec
	Property string
	// Message describes the configuration defect
	Message string
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Standard != "" {
		msg += " in " + e.Standard + " registry"
	}
	if e.Property != "" {
		msg += fmt.Sprintf(" for property %q", e.Property)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// ValidationError represents a canonical property set that failed validation.
// Missing contains the required property names that were absent or empty;
// Invalid maps property names to a description of their shape problem.
type ValidationError struct {
	// Standard is the metadata standard being validated against
	Standard string
	// Missing lists required properties that were absent or empty
	Missing []string
	// Invalid maps property names to shape problems
	Invalid map[string]string
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *ValidationError) Error() string {
	msg := "validation error"
	if e.Standard != "" {
		msg += " for " + e.Standard
	}
	if len(e.Missing) > 0 {
		msg += ": missing properties: " + strings.Join(e.Missing, ",")
	}
	if len(e.Invalid) > 0 {
		parts := make([]string, 0, len(e.Invalid))
		for _, prop := range maputil.SortedKeys(e.Invalid) {
			parts = append(parts, prop+": "+e.Invalid[prop])
		}
		msg += ": invalid properties: " + strings.Join(parts, "; ")
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewContentError creates a ContentError with a message and optional cause.
func NewContentError(message string, cause error) *ContentError {
	return &ContentError{Message: message, Cause: cause}
}

// NewNoContentError creates a ContentError for empty input.
func NewNoContentError(message string) *ContentError {
	return &ContentError{Empty: true, Message: message}
}

// NewConfigError creates a ConfigError for a property spec defect.
func NewConfigError(standard, property, message string) *ConfigError {
	return &ConfigError{Standard: standard, Property: property, Message: message}
}
