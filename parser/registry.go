package parser

import (
	"github.com/consbio/gis-metadata-parser/metaerrors"
)

// Registry maps the canonical property vocabulary onto one metadata
// standard's document layout. Registries are built once per standard and
// shared; Clone before mutating a shared registry.
type Registry struct {
	standard    string
	roots       []string
	defaultRoot string
	markers     []string
	required    []string
	specs       map[string]*PropertySpec
	order       []string
}

// NewRegistry creates an empty registry for a standard. roots lists the
// accepted document root tags, the first being the default used for fresh
// skeletons. required names the properties Validate checks for presence;
// nil means none, since most metadata documents are partial.
func NewRegistry(standard string, roots []string, required []string) *Registry {
	return &Registry{
		standard:    standard,
		roots:       append([]string(nil), roots...),
		defaultRoot: roots[0],
		required:    append([]string(nil), required...),
		specs:       make(map[string]*PropertySpec),
	}
}

// Register adds or replaces a property mapping. Re-registering keeps the
// property's original position in registry order.
func (r *Registry) Register(prop string, spec *PropertySpec) error {
	if err := r.validateSpec(prop, spec); err != nil {
		return err
	}
	if _, exists := r.specs[prop]; !exists {
		r.order = append(r.order, prop)
	}
	r.specs[prop] = spec
	return nil
}

// MustRegister is Register that panics on a malformed spec. Use for the
// built-in standard tables, which are validated by their tests.
func (r *Registry) MustRegister(prop string, spec *PropertySpec) {
	if err := r.Register(prop, spec); err != nil {
		panic(err)
	}
}

// Spec returns the mapping for a property.
func (r *Registry) Spec(prop string) (*PropertySpec, bool) {
	spec, ok := r.specs[prop]
	return spec, ok
}

// Has reports whether the property is mapped.
func (r *Registry) Has(prop string) bool {
	_, ok := r.specs[prop]
	return ok
}

// Properties returns the mapped property names in registration order.
func (r *Registry) Properties() []string {
	return append([]string(nil), r.order...)
}

// Required returns the property subset validation checks for presence.
func (r *Registry) Required() []string {
	return append([]string(nil), r.required...)
}

// Standard returns the registry's standard identifier.
func (r *Registry) Standard() string {
	return r.standard
}

// Roots returns the accepted document root tags.
func (r *Registry) Roots() []string {
	return append([]string(nil), r.roots...)
}

// DefaultRoot returns the root tag used for fresh document skeletons.
func (r *Registry) DefaultRoot() string {
	return r.defaultRoot
}

// AcceptsRoot reports whether tag is a valid document root for the
// standard.
func (r *Registry) AcceptsRoot(tag string) bool {
	for _, root := range r.roots {
		if root == tag {
			return true
		}
	}
	return false
}

// setMarkers records child tags that distinguish this standard from others
// sharing a root tag; used by detection.
func (r *Registry) setMarkers(tags ...string) {
	r.markers = append([]string(nil), tags...)
}

// Markers returns the standard's distinguishing child tags, if any.
func (r *Registry) Markers() []string {
	return append([]string(nil), r.markers...)
}

// Clone returns a shallow copy sharing property specs but not registry
// state, so callers can re-register or re-scope required properties
// without touching the shared built-in registries.
func (r *Registry) Clone() *Registry {
	clone := &Registry{
		standard:    r.standard,
		roots:       append([]string(nil), r.roots...),
		defaultRoot: r.defaultRoot,
		markers:     append([]string(nil), r.markers...),
		required:    append([]string(nil), r.required...),
		specs:       make(map[string]*PropertySpec, len(r.specs)),
		order:       append([]string(nil), r.order...),
	}
	for prop, spec := range r.specs {
		clone.specs[prop] = spec
	}
	return clone
}

// checkRequired verifies that every required property is actually mapped.
func (r *Registry) checkRequired() error {
	var missing []string
	for _, prop := range r.required {
		if !r.Has(prop) {
			missing = append(missing, prop)
		}
	}
	if len(missing) > 0 {
		return &metaerrors.ValidationError{
			Standard: r.standard,
			Missing:  missing,
			Message:  "registry does not map all required properties",
		}
	}
	return nil
}

func (r *Registry) validateSpec(prop string, spec *PropertySpec) error {
	if spec == nil {
		return metaerrors.NewConfigError(r.standard, prop, "nil property spec")
	}
	if (spec.Parse == nil) != (spec.Update == nil) {
		return metaerrors.NewConfigError(r.standard, prop, "custom codec requires both parse and update functions")
	}
	if spec.Parse != nil {
		return nil
	}
	declared := 0
	if len(spec.Tiers) > 0 {
		declared++
	}
	if spec.Complex != nil {
		declared++
	}
	if spec.Dates != nil {
		declared++
	}
	if declared != 1 {
		return metaerrors.NewConfigError(r.standard, prop, "spec must declare exactly one of tiers, complex, or dates")
	}
	if spec.Complex != nil {
		if len(spec.Complex.Subs) == 0 {
			return metaerrors.NewConfigError(r.standard, prop, "complex spec has no sub-properties")
		}
		if spec.Complex.List && spec.Complex.Root == "" {
			return metaerrors.NewConfigError(r.standard, prop, "repeatable complex spec requires a container root")
		}
	}
	if spec.Dates != nil {
		ds := spec.Dates
		if len(ds.Single) == 0 || len(ds.RangeBegin) == 0 || len(ds.RangeEnd) == 0 {
			return metaerrors.NewConfigError(r.standard, prop, "date spec requires single and range locations")
		}
	}
	return nil
}
