package parser

import (
	"fmt"
	"io"

	"github.com/beevik/etree"

	"github.com/consbio/gis-metadata-parser/internal/xmltree"
	"github.com/consbio/gis-metadata-parser/metaerrors"
)

// MetadataParser maps one metadata document onto the canonical property
// vocabulary through a standard's registry. It owns its document tree for
// its lifetime; sharing a tree between engines is not supported.
//
// Lifecycle: construct (New or Parse), read and edit canonical properties
// via Get/Set, optionally Validate, then Update/Serialize to write the
// canonical set back into the tree. Serialization may be followed by
// further edit cycles.
type MetadataParser struct {
	registry *Registry
	doc      *etree.Document
	props    map[string]Value
	required []string
	logger   Logger

	// HasData is true when loading found at least one mapped property.
	HasData bool
}

// New creates an engine over a fresh document skeleton for the registry's
// standard, with every property absent.
func New(registry *Registry, opts ...Option) (*MetadataParser, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}
	if err := registry.checkRequired(); err != nil {
		return nil, err
	}
	p := &MetadataParser{
		registry: registry,
		doc:      xmltree.NewDocument(registry.DefaultRoot()),
		props:    make(map[string]Value),
		required: cfg.requiredOr(registry),
		logger:   cfg.logger.With("standard", registry.Standard()),
	}
	return p, nil
}

// ParseWithRegistry parses metadata content against an explicitly chosen
// registry, bypassing standard detection.
func ParseWithRegistry(data []byte, registry *Registry, opts ...Option) (*MetadataParser, error) {
	doc, root, err := loadContent(data)
	if err != nil {
		return nil, err
	}
	if !registry.AcceptsRoot(root.Tag) {
		return nil, &metaerrors.ContentError{
			Standard: registry.Standard(),
			Root:     root.Tag,
			Message:  "root element not valid for standard",
		}
	}
	return fromDocument(doc, registry, opts...)
}

// Parse parses metadata content, auto-detecting the standard from the
// document's root element and children.
func Parse(data []byte, opts ...Option) (*MetadataParser, error) {
	doc, root, err := loadContent(data)
	if err != nil {
		return nil, err
	}
	registry, err := detectRegistry(root)
	if err != nil {
		return nil, err
	}
	return fromDocument(doc, registry, opts...)
}

// ParseFrom reads and parses metadata content from r; see Parse.
func ParseFrom(r io.Reader, opts ...Option) (*MetadataParser, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, metaerrors.NewContentError("reading metadata content", err)
	}
	return Parse(data, opts...)
}

// Detect returns the standard identifier ("fgdc", "iso", or "arcgis") for
// the given metadata content without constructing an engine.
func Detect(data []byte) (string, error) {
	_, root, err := loadContent(data)
	if err != nil {
		return "", err
	}
	registry, err := detectRegistry(root)
	if err != nil {
		return "", err
	}
	return registry.Standard(), nil
}

func fromDocument(doc *etree.Document, registry *Registry, opts ...Option) (*MetadataParser, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}
	if err := registry.checkRequired(); err != nil {
		return nil, err
	}
	p := &MetadataParser{
		registry: registry,
		doc:      doc,
		props:    make(map[string]Value),
		required: cfg.requiredOr(registry),
		logger:   cfg.logger.With("standard", registry.Standard()),
	}
	if err := p.load(); err != nil {
		return nil, err
	}
	return p, nil
}

func loadContent(data []byte) (*etree.Document, *etree.Element, error) {
	if len(data) == 0 {
		return nil, nil, metaerrors.NewNoContentError("metadata has no data")
	}
	doc, err := xmltree.LoadBytes(data)
	if err != nil {
		return nil, nil, metaerrors.NewContentError("cannot parse metadata content", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, nil, metaerrors.NewNoContentError("metadata contains no data")
	}
	return doc, root, nil
}

// Standard returns the standard identifier of the engine's registry.
func (p *MetadataParser) Standard() string {
	return p.registry.Standard()
}

// Registry returns the engine's registry.
func (p *MetadataParser) Registry() *Registry {
	return p.registry
}

// Root returns the document root element. Exposed for custom parse/update
// functions; other callers should treat the tree as engine-owned.
func (p *MetadataParser) Root() *etree.Element {
	return p.doc.Root()
}

// Get returns the canonical value of a property; absent when the property
// is not set or not mapped.
func (p *MetadataParser) Get(prop string) Value {
	return p.props[prop]
}

// Has reports whether the property is present in the canonical set,
// including explicitly-empty values pending removal on serialization.
func (p *MetadataParser) Has(prop string) bool {
	_, ok := p.props[prop]
	return ok
}

// Set assigns a canonical property value. The property must be mapped by
// the registry and the value's shape must match the property's declared
// shape. Setting an empty or absent value marks the property for removal
// from the document at the next Update.
func (p *MetadataParser) Set(prop string, value Value) error {
	spec, ok := p.registry.Spec(prop)
	if !ok {
		return &metaerrors.ValidationError{
			Standard: p.Standard(),
			Invalid:  map[string]string{prop: "property not supported by standard"},
		}
	}
	if !value.IsEmpty() {
		if err := checkShape(p.Standard(), prop, spec, value); err != nil {
			return err
		}
	}
	p.props[prop] = value
	return nil
}

// Delete removes a property from the canonical set entirely, so the next
// Update leaves its document content untouched.
func (p *MetadataParser) Delete(prop string) {
	delete(p.props, prop)
}

// Properties returns a copy of the canonical property set.
func (p *MetadataParser) Properties() map[string]Value {
	out := make(map[string]Value, len(p.props))
	for name, value := range p.props {
		out[name] = value
	}
	return out
}

// ToMap returns the canonical set as plain values keyed by property name,
// in registry order, for interchange with key-value consumers.
func (p *MetadataParser) ToMap() map[string]Value {
	out := make(map[string]Value)
	for _, name := range p.registry.Properties() {
		if value, ok := p.props[name]; ok && !value.IsEmpty() {
			out[name] = value
		}
	}
	return out
}

// load parses every mapped property out of the document into the canonical
// set. Absent properties are omitted, not stored as empty values.
func (p *MetadataParser) load() error {
	root := p.doc.Root()
	for _, name := range p.registry.Properties() {
		spec, _ := p.registry.Spec(name)
		value, err := p.parseProperty(root, name, spec)
		if err != nil {
			return err
		}
		if !value.IsEmpty() {
			p.props[name] = value
			p.HasData = true
		}
	}
	return nil
}

func (p *MetadataParser) parseProperty(root *etree.Element, prop string, spec *PropertySpec) (Value, error) {
	switch spec.kind() {
	case "custom":
		return spec.Parse(p, prop)
	case "dates":
		return p.parseDates(root, spec.Dates), nil
	case "complex":
		if spec.Complex.List {
			return p.parseComplexList(root, prop, spec.Complex), nil
		}
		return p.parseComplexStruct(root, prop, spec.Complex), nil
	default:
		return p.parseScalar(root, prop, spec), nil
	}
}

// Validate checks the canonical set against the required property subset
// and each present value's structure. It returns a *metaerrors.
// ValidationError describing every missing or invalid property, or nil.
// Validation never consults the document: it operates on the canonical
// set alone.
func (p *MetadataParser) Validate() error {
	verr := &metaerrors.ValidationError{
		Standard: p.Standard(),
		Invalid:  make(map[string]string),
	}
	for _, name := range p.required {
		if value, ok := p.props[name]; !ok || value.IsEmpty() {
			verr.Missing = append(verr.Missing, name)
		}
	}
	for name, value := range p.props {
		if value.IsEmpty() {
			continue
		}
		if problem := validateShape(name, value); problem != "" {
			verr.Invalid[name] = problem
		}
	}
	if len(verr.Missing) > 0 || len(verr.Invalid) > 0 {
		return verr
	}
	return nil
}

// Update writes every property present in the canonical set into the
// document tree via its codec. Properties absent from the set leave the
// document untouched; properties present with an empty value have their
// primary nodes removed. When useTemplate is true the original tree is
// replaced by a fresh standard skeleton before writing.
func (p *MetadataParser) Update(useTemplate bool) error {
	if useTemplate {
		p.doc = xmltree.NewDocument(p.registry.DefaultRoot())
	}
	root := p.doc.Root()
	for _, name := range p.registry.Properties() {
		value, ok := p.props[name]
		if !ok {
			continue
		}
		spec, _ := p.registry.Spec(name)
		if err := p.updateProperty(root, name, spec, value); err != nil {
			return err
		}
	}
	return nil
}

func (p *MetadataParser) updateProperty(root *etree.Element, prop string, spec *PropertySpec, value Value) error {
	switch spec.kind() {
	case "custom":
		return spec.Update(p, root, prop, value)
	case "dates":
		p.updateDates(root, prop, spec.Dates, value)
	case "complex":
		if spec.Complex.List {
			p.updateComplexList(root, prop, spec.Complex, value.Structured())
		} else {
			p.updateComplexStruct(root, prop, spec.Complex, firstMapping(value))
		}
	default:
		p.updateScalar(root, prop, spec, value)
	}
	return nil
}

// Serialize updates the document from the canonical set and renders it as
// indented XML. With useTemplate true the output is built on a fresh
// standard skeleton instead of the originally loaded tree.
func (p *MetadataParser) Serialize(useTemplate bool) ([]byte, error) {
	if err := p.Update(useTemplate); err != nil {
		return nil, err
	}
	return xmltree.Serialize(p.doc)
}

// Write updates the document from the canonical set and writes serialized
// XML to w.
func (p *MetadataParser) Write(w io.Writer, useTemplate bool) error {
	data, err := p.Serialize(useTemplate)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing serialized metadata: %w", err)
	}
	return nil
}

// ConvertTo projects the canonical set through another standard's registry,
// returning a new engine over a fresh target-standard skeleton. Properties
// the target does not support are dropped; properties this set lacks stay
// absent. Values are never transformed.
func (p *MetadataParser) ConvertTo(target *Registry, opts ...Option) (*MetadataParser, error) {
	converted, err := New(target, opts...)
	if err != nil {
		return nil, err
	}
	for _, name := range target.Properties() {
		if value, ok := p.props[name]; ok && !value.IsEmpty() {
			if err := converted.Set(name, value); err != nil {
				return nil, err
			}
		}
	}
	if err := converted.Update(false); err != nil {
		return nil, err
	}
	return converted, nil
}

func (c *config) requiredOr(registry *Registry) []string {
	if c.required != nil {
		return c.required
	}
	return registry.Required()
}

func checkShape(standard, prop string, spec *PropertySpec, value Value) error {
	expected := spec.shape()
	actual := ShapeScalar
	if value.Kind() == KindStructured {
		actual = ShapeStructured
	}
	if expected != actual {
		shape := map[Shape]string{ShapeScalar: "scalar", ShapeStructured: "structured"}
		return &metaerrors.ValidationError{
			Standard: standard,
			Invalid: map[string]string{
				prop: fmt.Sprintf("expected %s value, got %s", shape[expected], value.Kind()),
			},
		}
	}
	return nil
}

// validateShape checks structured values for unknown sub-property names and
// date structures for type/value-count agreement.
func validateShape(prop string, value Value) string {
	if value.Kind() != KindStructured {
		return ""
	}
	known, constrained := ComplexSubProperties[prop]
	for _, occ := range value.Structured() {
		if constrained {
			for key := range occ {
				if !containsString(known, key) {
					return fmt.Sprintf("unknown sub-property %q", key)
				}
			}
		}
	}
	if prop == Dates {
		return validateDates(value)
	}
	return ""
}

func validateDates(value Value) string {
	mapping := firstMapping(value)
	if mapping == nil {
		return ""
	}
	dateType := mapping[DateKeyType]
	count := len(nonEmpty(splitSubValues("values", mapping[DateKeyValues])))
	switch dateType {
	case DateTypeMissing:
		if count != 0 {
			return "missing date type with values present"
		}
	case DateTypeSingle:
		if count != 1 {
			return fmt.Sprintf("single date requires exactly one value, got %d", count)
		}
	case DateTypeRange:
		if count != 2 {
			return fmt.Sprintf("date range requires exactly two values, got %d", count)
		}
	case DateTypeMultiple:
		if count < 2 {
			return fmt.Sprintf("multiple dates require at least two values, got %d", count)
		}
	default:
		return fmt.Sprintf("unknown date type %q", dateType)
	}
	return ""
}

func containsString(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
