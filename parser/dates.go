package parser

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/consbio/gis-metadata-parser/internal/xmltree"
)

// parseDates reads the dates structure, inferring the date type from which
// per-type locations hold values and how many: one single-date match is a
// single date, several are multiple dates, and a begin/end pair is a range.
func (p *MetadataParser) parseDates(root *etree.Element, ds *DateSpec) Value {
	if values := tierValues(root, ds.Single); len(values) > 0 {
		return datesValue(singleOrMultiple(values), values)
	}
	if values := tierValues(root, ds.Multiple); len(values) > 0 {
		return datesValue(singleOrMultiple(values), values)
	}

	values := tierValues(root, ds.RangeBegin)
	values = append(values, tierValues(root, ds.RangeEnd)...)
	switch len(values) {
	case 0:
		return Absent()
	case 1:
		return datesValue(DateTypeSingle, values)
	case 2:
		return datesValue(DateTypeRange, values)
	default:
		return datesValue(DateTypeMultiple, values)
	}
}

// updateDates replaces the dates container with nodes for the value's date
// type. Range dates write begin and end as siblings under a shared chain;
// multiple dates repeat per-value containers when the spec defines an
// occurrence root, otherwise repeated leaves.
func (p *MetadataParser) updateDates(tree *etree.Element, prop string, ds *DateSpec, value Value) {
	xmltree.Remove(tree, ds.Root)

	mapping := firstMapping(value)
	if mapping == nil {
		return
	}
	dateType := mapping[DateKeyType]
	values := nonEmpty(strings.Split(mapping[DateKeyValues], MultiValueDelim))
	if len(values) == 0 {
		return
	}
	if dateType == DateTypeMissing {
		dateType = singleOrMultiple(values)
	}

	switch dateType {
	case DateTypeSingle:
		p.writePrimaryDate(tree, ds.Single, values[:1])
	case DateTypeMultiple:
		if ds.MultipleRoot != "" {
			p.writeValues(tree, ds.MultipleRoot, primaryExpr(ds.Multiple), values)
		} else {
			p.writePrimaryDate(tree, ds.Multiple, values)
		}
	case DateTypeRange:
		p.writePrimaryDate(tree, ds.RangeBegin, values[:1])
		if len(values) > 1 {
			p.writePrimaryDate(tree, ds.RangeEnd, values[1:2])
		}
	default:
		p.logger.Warn("unknown date type not written", "property", prop, "type", dateType)
	}
}

func (p *MetadataParser) writePrimaryDate(tree *etree.Element, tiers []string, values []string) {
	p.writeValues(tree, "", primaryExpr(tiers), values)
}

// tierValues resolves tiered date locations to their ordered text values.
func tierValues(root *etree.Element, tiers []string) []string {
	matches, tier := resolveTiers(root, tiers)
	if tier < 0 {
		return nil
	}
	return matchTexts(matches)
}

func primaryExpr(tiers []string) string {
	if len(tiers) > 0 {
		return tiers[0]
	}
	return ""
}

func singleOrMultiple(values []string) string {
	if len(values) == 1 {
		return DateTypeSingle
	}
	return DateTypeMultiple
}

func datesValue(dateType string, values []string) Value {
	return Structured(map[string]string{
		DateKeyType:   dateType,
		DateKeyValues: strings.Join(values, MultiValueDelim),
	})
}

func firstMapping(value Value) map[string]string {
	occurrences := value.Structured()
	if len(occurrences) == 0 {
		return nil
	}
	return occurrences[0]
}
