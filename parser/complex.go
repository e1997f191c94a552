package parser

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/consbio/gis-metadata-parser/internal/xmltree"
)

// parseComplexList reads a repeatable structured property: one mapping per
// container occurrence, in document order. Occurrences whose every
// sub-property is absent are dropped.
func (p *MetadataParser) parseComplexList(root *etree.Element, prop string, cs *ComplexSpec) Value {
	var occurrences []map[string]string
	for _, occ := range xmltree.Find(root, cs.Root) {
		mapping := p.parseOccurrence(occ, prop, cs, true)
		if !emptyMapping(mapping) {
			occurrences = append(occurrences, mapping)
		}
	}
	return Structured(occurrences...)
}

// parseComplexStruct reads a single-occurrence structured property whose
// sub-properties are addressed absolutely over the whole document.
func (p *MetadataParser) parseComplexStruct(root *etree.Element, prop string, cs *ComplexSpec) Value {
	mapping := p.parseOccurrence(root, prop, cs, false)
	if emptyMapping(mapping) {
		return Absent()
	}
	return Structured(mapping)
}

// parseOccurrence reads every sub-property of one occurrence. Sub-property
// locations are relativized against the container root for repeatable
// specs. Fallback tiers apply per sub-property, never across occurrences.
func (p *MetadataParser) parseOccurrence(occ *etree.Element, prop string, cs *ComplexSpec, relative bool) map[string]string {
	mapping := make(map[string]string, len(cs.Subs))
	for name, tiers := range cs.Subs {
		resolved := tiers
		if relative {
			resolved = relativeTiers(cs.Root, tiers)
		}
		matches, tier := resolveTiers(occ, resolved)
		if tier < 0 {
			continue
		}
		if tier > 0 {
			p.logger.Debug("resolved sub-property from fallback location",
				"property", prop, "sub", name, "tier", tier)
		}
		mapping[name] = joinSubValues(resolved[tier], matchTexts(matches))
	}
	return mapping
}

// updateComplexList writes a repeatable structured property by full
// reconciliation: every existing container occurrence is removed, then one
// occurrence per mapping is created in value order and populated via the
// scalar write path. An empty value removes the container subtree.
func (p *MetadataParser) updateComplexList(tree *etree.Element, prop string, cs *ComplexSpec, occurrences []map[string]string) {
	xmltree.Remove(tree, cs.Root)
	if len(occurrences) == 0 {
		return
	}
	order := cs.subOrder(prop)
	for _, mapping := range occurrences {
		occ := xmltree.CreateOccurrence(tree, cs.Root)
		for _, name := range order {
			tiers := relativeTiers(cs.Root, cs.Subs[name])
			if len(tiers) == 0 {
				continue
			}
			p.writeValues(occ, "", tiers[0], splitSubValues(tiers[0], mapping[name]))
		}
	}
	p.logger.Debug("reconciled structured property", "property", prop, "occurrences", len(occurrences))
}

// updateComplexStruct writes a single-occurrence structured property: the
// container subtree is replaced, then each sub-property is written at its
// absolute primary location.
func (p *MetadataParser) updateComplexStruct(tree *etree.Element, prop string, cs *ComplexSpec, mapping map[string]string) {
	if cs.Root != "" {
		xmltree.Remove(tree, cs.Root)
	}
	if emptyMapping(mapping) {
		return
	}
	for _, name := range cs.subOrder(prop) {
		tiers := cs.Subs[name]
		if len(tiers) == 0 {
			continue
		}
		p.writeValues(tree, "", tiers[0], splitSubValues(tiers[0], mapping[name]))
	}
}

// mergeDigitalForms zips distribution format records with transfer option
// records by position into combined digital form occurrences, the way the
// standards that store the two halves separately are read.
func mergeDigitalForms(formats, transfers []map[string]string) []map[string]string {
	count := len(formats)
	if len(transfers) > count {
		count = len(transfers)
	}
	merged := make([]map[string]string, 0, count)
	for i := 0; i < count; i++ {
		form := make(map[string]string)
		if i < len(formats) {
			for key, val := range formats[i] {
				if val != "" {
					form[key] = val
				}
			}
		}
		if i < len(transfers) {
			for key, val := range transfers[i] {
				if val != "" {
					form[key] = val
				}
			}
		}
		if !emptyMapping(form) {
			merged = append(merged, form)
		}
	}
	return merged
}

// relativeTiers rewrites absolute sub-property locations relative to the
// container root. Locations outside the root pass through unchanged (they
// can only resolve when addressed by a custom codec).
func relativeTiers(root string, tiers []string) []string {
	out := make([]string, len(tiers))
	for i, expr := range tiers {
		out[i] = xmltree.Branch(root, expr)
	}
	return out
}

// joinSubValues flattens a sub-property's matched values into the single
// string stored in an occurrence mapping: comma-joined for attribute
// locations, newline-joined for element text.
func joinSubValues(expr string, values []string) string {
	if _, attr := xmltree.SplitAttribute(expr); attr != "" {
		return strings.Join(values, AttrValueDelim)
	}
	return strings.Join(values, MultiValueDelim)
}

// splitSubValues is the write-side inverse of joinSubValues.
func splitSubValues(expr string, value string) []string {
	if value == "" {
		return nil
	}
	delim := MultiValueDelim
	if _, attr := xmltree.SplitAttribute(expr); attr != "" {
		delim = AttrValueDelim
	}
	return nonEmpty(strings.Split(value, delim))
}
