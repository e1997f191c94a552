package parser

import (
	"sort"

	"github.com/beevik/etree"
)

// Shape is the declared value shape of a mapped property.
type Shape int

const (
	// ShapeScalar accepts scalar and sequence values.
	ShapeScalar Shape = iota
	// ShapeStructured accepts structured values.
	ShapeStructured
)

// ParseFunc is a custom property reader, for standards whose handling of a
// property cannot be expressed by the declarative codecs.
type ParseFunc func(p *MetadataParser, prop string) (Value, error)

// UpdateFunc is a custom property writer.
type UpdateFunc func(p *MetadataParser, tree *etree.Element, prop string, value Value) error

// PropertySpec declares how one canonical property maps onto a standard's
// document. Exactly one of Tiers, Complex, or Dates drives the declarative
// codecs; Parse and Update together override them entirely.
type PropertySpec struct {
	// Tiers holds the property's ordered location expressions: the first
	// is the primary (read first, only one written), the rest are
	// read-only fallbacks.
	Tiers []string

	// WriteRoot names a repeatable ancestor under which each value gets
	// its own occurrence on write, rather than repeated leaves under one
	// parent. It also bounds removal when writing an empty value.
	WriteRoot string

	// Complex declares a structured property.
	Complex *ComplexSpec

	// Dates declares the dates property's per-type locations.
	Dates *DateSpec

	// Parse and Update, when both set, replace the declarative codecs.
	Parse  ParseFunc
	Update UpdateFunc

	// DeclaredShape overrides the shape derived from the spec kind; only
	// meaningful for custom codecs.
	DeclaredShape Shape
}

func (s *PropertySpec) kind() string {
	switch {
	case s.Parse != nil || s.Update != nil:
		return "custom"
	case s.Dates != nil:
		return "dates"
	case s.Complex != nil:
		return "complex"
	default:
		return "scalar"
	}
}

func (s *PropertySpec) shape() Shape {
	switch s.kind() {
	case "custom":
		return s.DeclaredShape
	case "dates", "complex":
		return ShapeStructured
	default:
		return ShapeScalar
	}
}

// primary returns the only location writes may touch.
func (s *PropertySpec) primary() string {
	if len(s.Tiers) > 0 {
		return s.Tiers[0]
	}
	return ""
}

// scalarSpec builds a plain scalar mapping from tiered locations.
func scalarSpec(tiers ...string) *PropertySpec {
	return &PropertySpec{Tiers: tiers}
}

// rootedScalarSpec builds a scalar mapping whose writes replace whole
// occurrences under writeRoot instead of repeating the leaf element.
func rootedScalarSpec(writeRoot string, tiers ...string) *PropertySpec {
	return &PropertySpec{Tiers: tiers, WriteRoot: writeRoot}
}

// ComplexSpec declares a structured property's container and sub-property
// locations.
type ComplexSpec struct {
	// Root is the container location. For repeatable properties each Root
	// occurrence yields one mapping; for single-occurrence properties it
	// bounds removal on write.
	Root string

	// Subs maps sub-property names to their ordered location tiers,
	// addressed absolutely; repeatable properties relativize them against
	// Root per occurrence.
	Subs map[string][]string

	// Order fixes sub-property write order; defaults to the canonical
	// vocabulary order.
	Order []string

	// List marks the property repeatable.
	List bool
}

// subOrder returns the deterministic write order for sub-properties:
// declared order first, then the canonical vocabulary order, then any
// remaining names sorted.
func (cs *ComplexSpec) subOrder(prop string) []string {
	seen := make(map[string]bool, len(cs.Subs))
	order := make([]string, 0, len(cs.Subs))
	appendKnown := func(names []string) {
		for _, name := range names {
			if _, ok := cs.Subs[name]; ok && !seen[name] {
				seen[name] = true
				order = append(order, name)
			}
		}
	}
	appendKnown(cs.Order)
	appendKnown(ComplexSubProperties[prop])

	var rest []string
	for name := range cs.Subs {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

// DateSpec declares the per-type locations of the dates property. Each
// location list is tiered like scalar locations: first entry primary, rest
// read-only fallbacks.
type DateSpec struct {
	// Root is the shared container removed before any date write.
	Root string

	Single     []string
	Multiple   []string
	RangeBegin []string
	RangeEnd   []string

	// MultipleRoot, when set, is the repeatable occurrence root used when
	// writing multiple dates (one container per value).
	MultipleRoot string
}
