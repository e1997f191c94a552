package parser

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/consbio/gis-metadata-parser/internal/xmltree"
)

// Match is one resolved node or attribute with non-empty content.
type Match struct {
	Elem *etree.Element
	Attr string
}

// Text returns the match's trimmed text content, or its attribute value.
func (m Match) Text() string {
	if m.Attr != "" {
		if a := m.Elem.SelectAttr(m.Attr); a != nil {
			return strings.TrimSpace(a.Value)
		}
		return ""
	}
	return strings.TrimSpace(m.Elem.Text())
}

// resolveExpr evaluates one location expression against root, returning the
// matches that carry non-empty content, in document order. Elements with
// whitespace-only text and attributes with empty values are not present.
func resolveExpr(root *etree.Element, expr string) []Match {
	if expr == "" || root == nil {
		return nil
	}
	path, attr := xmltree.SplitAttribute(expr)
	var matches []Match
	for _, el := range xmltree.Find(root, path) {
		if attr != "" {
			if a := el.SelectAttr(attr); a != nil && strings.TrimSpace(a.Value) != "" {
				matches = append(matches, Match{Elem: el, Attr: attr})
			}
		} else if strings.TrimSpace(el.Text()) != "" {
			matches = append(matches, Match{Elem: el})
		}
	}
	return matches
}

// resolveTiers walks tiered locations in priority order and returns the
// matches of the first tier with any present content, together with that
// tier's index. Returns (nil, -1) when every tier is empty. Ties within a
// tier keep document order.
func resolveTiers(root *etree.Element, tiers []string) ([]Match, int) {
	for i, expr := range tiers {
		if matches := resolveExpr(root, expr); len(matches) > 0 {
			return matches, i
		}
	}
	return nil, -1
}

// matchTexts collects the text of every match, in order.
func matchTexts(matches []Match) []string {
	texts := make([]string, 0, len(matches))
	for _, m := range matches {
		if text := m.Text(); text != "" {
			texts = append(texts, text)
		}
	}
	return texts
}
