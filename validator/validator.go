// Package validator checks canonical metadata property sets for structural
// and content problems beyond what parsing alone enforces.
//
// Validation never mutates the document. Errors mark property sets that a
// downstream consumer should reject; warnings mark values that are legal but
// suspicious, such as coordinates outside their range or date values that do
// not parse.
package validator

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/consbio/gis-metadata-parser/internal/issues"
	"github.com/consbio/gis-metadata-parser/internal/severity"
	"github.com/consbio/gis-metadata-parser/internal/stringutil"
	"github.com/consbio/gis-metadata-parser/parser"
)

// Severity indicates the severity level of a validation issue
type Severity = severity.Severity

const (
	// SeverityError indicates a structural violation that makes the property set invalid
	SeverityError = severity.SeverityError
	// SeverityWarning indicates a suspicious value or recommendation
	SeverityWarning = severity.SeverityWarning
	// SeverityInfo indicates informational messages
	SeverityInfo = severity.SeverityInfo
	// SeverityCritical indicates critical issues
	SeverityCritical = severity.SeverityCritical
)

const (
	// defaultErrorCapacity is the initial capacity for error slices
	defaultErrorCapacity = 10
	// defaultWarningCapacity is the initial capacity for warning slices
	defaultWarningCapacity = 10
)

// Standard section references used in issue SpecRefs.
var standardRefs = map[string]string{
	parser.StandardFGDC:   "https://www.fgdc.gov/metadata/csdgm-standard",
	parser.StandardISO:    "https://www.iso.org/standard/53798.html",
	parser.StandardArcGIS: "https://desktop.arcgis.com/en/arcmap/latest/manage-data/metadata/the-arcgis-metadata-format.htm",
}

// ValidationError represents a single validation issue
type ValidationError = issues.Issue

// ValidationResult contains the results of validating a metadata document
type ValidationResult struct {
	// Valid is true if no errors were found (warnings are allowed)
	Valid bool
	// Standard is the detected metadata standard identifier
	Standard string
	// Properties lists the canonical properties present in the document
	Properties []string
	// Errors contains all validation errors
	Errors []ValidationError
	// Warnings contains all validation warnings
	Warnings []ValidationError
	// ErrorCount is the total number of errors
	ErrorCount int
	// WarningCount is the total number of warnings
	WarningCount int
	// Parser is the parsed document, available for package chaining
	Parser *parser.MetadataParser
}

// Validator checks parsed metadata against the canonical property contract
type Validator struct {
	// IncludeWarnings determines whether to include recommendation warnings
	IncludeWarnings bool
	// StrictMode adds checks beyond the property contract, such as date
	// range ordering
	StrictMode bool
	// Required overrides the registry's required property subset when non-nil
	Required []string
}

// New creates a new Validator instance with default settings
func New() *Validator {
	return &Validator{
		IncludeWarnings: true,
		StrictMode:      false,
	}
}

// ValidateWithOptions validates a metadata document using functional options.
//
// Example:
//
//	result, err := validator.ValidateWithOptions(
//	    validator.WithFilePath("dataset.xml"),
//	    validator.WithRequiredProperties("title", "abstract"),
//	)
func ValidateWithOptions(opts ...Option) (*ValidationResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("validator: invalid options: %w", err)
	}

	v := &Validator{
		IncludeWarnings: cfg.includeWarnings,
		StrictMode:      cfg.strictMode,
		Required:        cfg.required,
	}

	if cfg.parsed != nil {
		return v.ValidateParsed(cfg.parsed)
	}
	if cfg.data != nil {
		return v.ValidateBytes(cfg.data)
	}
	// cfg.filePath must be non-nil here (validated by applyOptions)
	return v.Validate(*cfg.filePath)
}

// Validate validates a metadata XML file
func (v *Validator) Validate(path string) (*ValidationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("validator: reading %s: %w", path, err)
	}
	return v.ValidateBytes(data)
}

// ValidateBytes parses raw XML and validates the resulting property set
func (v *Validator) ValidateBytes(data []byte) (*ValidationResult, error) {
	p, err := parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("validator: %w", err)
	}
	return v.ValidateParsed(p)
}

// ValidateParsed validates an already parsed metadata document
func (v *Validator) ValidateParsed(p *parser.MetadataParser) (*ValidationResult, error) {
	if p == nil {
		return nil, fmt.Errorf("validator: nil parser")
	}

	result := &ValidationResult{
		Standard: p.Standard(),
		Errors:   make([]ValidationError, 0, defaultErrorCapacity),
		Warnings: make([]ValidationError, 0, defaultWarningCapacity),
		Parser:   p,
	}
	for _, prop := range p.Registry().Properties() {
		if p.Has(prop) {
			result.Properties = append(result.Properties, prop)
		}
	}

	v.checkRequired(p, result)
	for _, prop := range result.Properties {
		v.checkProperty(p, prop, result)
	}
	if v.IncludeWarnings {
		v.checkRecommended(p, result)
	}

	result.ErrorCount = len(result.Errors)
	result.WarningCount = len(result.Warnings)
	result.Valid = result.ErrorCount == 0

	if !v.IncludeWarnings {
		result.Warnings = nil
		result.WarningCount = 0
	}

	return result, nil
}

// addError appends a validation error carrying the property's context.
func (v *Validator) addError(result *ValidationResult, path, message string, opts ...func(*ValidationError)) {
	issue := ValidationError{
		Path:     path,
		Message:  message,
		Severity: SeverityError,
		SpecRef:  standardRefs[result.Standard],
	}
	for _, opt := range opts {
		opt(&issue)
	}
	result.Errors = append(result.Errors, issue)
}

// addWarning appends a validation warning. Warnings never affect Valid;
// callers that suppress them do so through IncludeWarnings.
func (v *Validator) addWarning(result *ValidationResult, path, message string, opts ...func(*ValidationError)) {
	issue := ValidationError{
		Path:     path,
		Message:  message,
		Severity: SeverityWarning,
	}
	for _, opt := range opts {
		opt(&issue)
	}
	result.Warnings = append(result.Warnings, issue)
}

// withField sets the Field on a ValidationError.
func withField(field string) func(*ValidationError) {
	return func(e *ValidationError) { e.Field = field }
}

// withValue sets the Value on a ValidationError.
func withValue(value any) func(*ValidationError) {
	return func(e *ValidationError) { e.Value = value }
}

// withContext sets the PropertyContext on a ValidationError.
func withContext(standard, location string) func(*ValidationError) {
	return func(e *ValidationError) {
		e.PropertyContext = &issues.PropertyContext{Standard: standard, Location: location}
	}
}

// checkRequired reports required properties with no present value.
func (v *Validator) checkRequired(p *parser.MetadataParser, result *ValidationResult) {
	required := v.Required
	if required == nil {
		required = p.Registry().Required()
	}
	for _, prop := range required {
		if p.Has(prop) {
			continue
		}
		v.addError(result, prop, "required property is missing",
			withContext(result.Standard, propertyLocation(p, prop)))
	}
}

// checkRecommended warns about core descriptive properties every published
// record should carry.
func (v *Validator) checkRecommended(p *parser.MetadataParser, result *ValidationResult) {
	for _, prop := range []string{parser.Title, parser.Abstract} {
		if !p.Has(prop) && !containsIssue(result.Errors, prop) {
			v.addWarning(result, prop, "record should have a "+prop+" for discoverability",
				withContext(result.Standard, propertyLocation(p, prop)))
		}
	}
}

// checkProperty dispatches per-property content checks.
func (v *Validator) checkProperty(p *parser.MetadataParser, prop string, result *ValidationResult) {
	value := p.Get(prop)

	if subs, structured := parser.ComplexSubProperties[prop]; structured {
		v.checkSubKeys(prop, value, subs, result)
	}

	switch prop {
	case parser.Dates:
		v.checkDates(value, result)
	case parser.BoundingBox:
		v.checkBoundingBox(value, result)
	case parser.Contacts:
		v.checkContacts(value, result)
	case parser.DigitalForms:
		v.checkURLField(prop, value, "network_resource", result)
	case parser.LargerWorks:
		v.checkURLField(prop, value, "online_linkage", result)
	case parser.OnlineLinkages:
		for i, link := range value.Sequence() {
			v.checkURL(issues.FormatIndexed(prop, i), "", link, result)
		}
	case parser.RasterInfo:
		v.checkRasterInfo(value, result)
	}
}

// checkSubKeys reports occurrence keys outside the property's closed
// sub-property vocabulary.
func (v *Validator) checkSubKeys(prop string, value parser.Value, subs []string, result *ValidationResult) {
	known := make(map[string]bool, len(subs))
	for _, sub := range subs {
		known[sub] = true
	}
	for i, occurrence := range value.Structured() {
		for key := range occurrence {
			if !known[key] {
				v.addError(result, issues.FormatIndexed(prop, i, key),
					fmt.Sprintf("unknown sub-property %q", key),
					withField(key))
			}
		}
	}
}

// dateLayouts are the value formats accepted without a warning, most
// specific first.
var dateLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"20060102",
	"2006-01",
	"2006",
	"January 2, 2006",
}

// checkDates verifies the type and value-count agreement of the dates
// structure, then warns about values in no recognized format.
func (v *Validator) checkDates(value parser.Value, result *ValidationResult) {
	for i, occurrence := range value.Structured() {
		path := issues.FormatIndexed(parser.Dates, i)
		dateType := occurrence[parser.DateKeyType]
		values := splitNonEmpty(occurrence[parser.DateKeyValues])

		switch dateType {
		case parser.DateTypeSingle:
			if len(values) != 1 {
				v.addError(result, path,
					fmt.Sprintf("single date must have exactly one value, got %d", len(values)),
					withField(parser.DateKeyValues))
			}
		case parser.DateTypeRange:
			if len(values) != 2 {
				v.addError(result, path,
					fmt.Sprintf("date range must have exactly two values, got %d", len(values)),
					withField(parser.DateKeyValues))
			} else if v.StrictMode && !datesOrdered(values[0], values[1]) {
				v.addError(result, path, "date range ends before it begins",
					withValue(strings.Join(values, " .. ")))
			}
		case parser.DateTypeMultiple:
			if len(values) < 2 {
				v.addError(result, path,
					fmt.Sprintf("multiple dates must have at least two values, got %d", len(values)),
					withField(parser.DateKeyValues))
			}
		case parser.DateTypeMissing:
			if len(values) > 0 {
				v.addError(result, path, "dates value carries no date type",
					withField(parser.DateKeyType))
			}
		default:
			v.addError(result, path,
				fmt.Sprintf("unknown date type %q", dateType),
				withField(parser.DateKeyType), withValue(dateType))
		}

		if v.IncludeWarnings {
			for _, val := range values {
				if !parseableDate(val) {
					v.addWarning(result, path,
						fmt.Sprintf("date value %q is in no recognized format", val),
						withValue(val))
				}
			}
		}
	}
}

// checkBoundingBox verifies the coordinates are numeric and inside the
// geographic range.
func (v *Validator) checkBoundingBox(value parser.Value, result *ValidationResult) {
	box := firstOccurrence(value)
	if box == nil {
		return
	}
	coords := map[string]float64{}
	for _, side := range []string{"west", "east", "south", "north"} {
		raw := strings.TrimSpace(box[side])
		if raw == "" {
			continue
		}
		coord, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			v.addError(result, parser.BoundingBox,
				fmt.Sprintf("%s is not a number", side),
				withField(side), withValue(raw))
			continue
		}
		coords[side] = coord
		limit := 180.0
		if side == "south" || side == "north" {
			limit = 90.0
		}
		if coord < -limit || coord > limit {
			v.addError(result, parser.BoundingBox,
				fmt.Sprintf("%s is outside the valid range [%.0f, %.0f]", side, -limit, limit),
				withField(side), withValue(raw))
		}
	}
	south, hasSouth := coords["south"]
	north, hasNorth := coords["north"]
	if hasSouth && hasNorth && south > north {
		v.addError(result, parser.BoundingBox, "south is greater than north",
			withValue(fmt.Sprintf("south=%v north=%v", box["south"], box["north"])))
	}
	// West greater than east is legal across the antimeridian, so it only
	// warrants a warning.
	west, hasWest := coords["west"]
	east, hasEast := coords["east"]
	if hasWest && hasEast && west > east && v.IncludeWarnings {
		v.addWarning(result, parser.BoundingBox,
			"west is greater than east; verify the box crosses the antimeridian intentionally",
			withValue(fmt.Sprintf("west=%v east=%v", box["west"], box["east"])))
	}
}

// checkContacts warns about contact records with no identifying value.
func (v *Validator) checkContacts(value parser.Value, result *ValidationResult) {
	for i, contact := range value.Structured() {
		path := issues.FormatIndexed(parser.Contacts, i)
		if strings.TrimSpace(contact["name"]) == "" && strings.TrimSpace(contact["organization"]) == "" {
			v.addWarning(result, path, "contact has neither a name nor an organization")
		}
		if email := strings.TrimSpace(contact["email"]); email != "" && !stringutil.IsValidEmail(email) {
			v.addWarning(result, issues.FormatPath(path, "email"),
				fmt.Sprintf("%q does not look like an email address", email),
				withField("email"), withValue(email))
		}
	}
}

// checkRasterInfo verifies dimension counts are integers.
func (v *Validator) checkRasterInfo(value parser.Value, result *ValidationResult) {
	raster := firstOccurrence(value)
	if raster == nil {
		return
	}
	for _, field := range []string{"dimensions", "row_count", "column_count", "vertical_count"} {
		raw := strings.TrimSpace(raster[field])
		if raw == "" {
			continue
		}
		if _, err := strconv.Atoi(raw); err != nil {
			v.addError(result, parser.RasterInfo,
				fmt.Sprintf("%s is not an integer", field),
				withField(field), withValue(raw))
		}
	}
}

// checkURLField warns about a structured property's URL-carrying sub-values
// that do not parse as absolute URLs.
func (v *Validator) checkURLField(prop string, value parser.Value, field string, result *ValidationResult) {
	for i, occurrence := range value.Structured() {
		for _, raw := range splitNonEmpty(occurrence[field]) {
			v.checkURL(issues.FormatIndexed(prop, i, field), field, raw, result)
		}
	}
}

func (v *Validator) checkURL(path, field, raw string, result *ValidationResult) {
	if !v.IncludeWarnings || looksLikeURL(raw) {
		return
	}
	opts := []func(*ValidationError){withValue(raw)}
	if field != "" {
		opts = append(opts, withField(field))
	}
	v.addWarning(result, path, fmt.Sprintf("%q is not an absolute URL", raw), opts...)
}

// propertyLocation derives the document location behind a property for
// issue context. Custom-codec properties have no single location.
func propertyLocation(p *parser.MetadataParser, prop string) string {
	spec, ok := p.Registry().Spec(prop)
	if !ok {
		return ""
	}
	switch {
	case len(spec.Tiers) > 0:
		return spec.Tiers[0]
	case spec.Complex != nil:
		return spec.Complex.Root
	case spec.Dates != nil:
		return spec.Dates.Root
	}
	return ""
}

func firstOccurrence(value parser.Value) map[string]string {
	occurrences := value.Structured()
	if len(occurrences) == 0 {
		return nil
	}
	return occurrences[0]
}

func splitNonEmpty(joined string) []string {
	var values []string
	for _, part := range strings.Split(joined, parser.MultiValueDelim) {
		if strings.TrimSpace(part) != "" {
			values = append(values, part)
		}
	}
	return values
}

func parseableDate(value string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}

// datesOrdered reports whether begin is not after end. Values in unknown
// formats are treated as ordered; format problems surface as warnings.
func datesOrdered(begin, end string) bool {
	for _, layout := range dateLayouts {
		b, errB := time.Parse(layout, begin)
		e, errE := time.Parse(layout, end)
		if errB == nil && errE == nil {
			return !b.After(e)
		}
	}
	return true
}

func looksLikeURL(value string) bool {
	return strings.HasPrefix(value, "http://") ||
		strings.HasPrefix(value, "https://") ||
		strings.HasPrefix(value, "ftp://")
}

func containsIssue(list []ValidationError, path string) bool {
	for _, issue := range list {
		if issue.Path == path {
			return true
		}
	}
	return false
}
