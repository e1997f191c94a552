package parser

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/consbio/gis-metadata-parser/internal/xmltree"
)

// parseScalar reads a scalar-shaped property: the first non-empty tier's
// matches become a scalar (one match) or an ordered sequence (several).
func (p *MetadataParser) parseScalar(root *etree.Element, prop string, spec *PropertySpec) Value {
	matches, tier := resolveTiers(root, spec.Tiers)
	if tier < 0 {
		return Absent()
	}
	if tier > 0 {
		p.logger.Debug("resolved property from fallback location",
			"property", prop, "tier", tier, "location", spec.Tiers[tier])
	}
	return Sequence(matchTexts(matches)...)
}

// updateScalar writes a scalar-shaped property to its primary location only.
// An empty value removes the primary nodes; otherwise the node count at the
// primary location is reconciled to the value count and texts are assigned
// in order. Fallback-tier locations are never touched.
func (p *MetadataParser) updateScalar(tree *etree.Element, prop string, spec *PropertySpec, value Value) {
	values := nonEmpty(value.Sequence())
	p.writeValues(tree, spec.WriteRoot, spec.primary(), values)
	if len(values) == 0 {
		p.logger.Debug("removed property nodes", "property", prop)
	}
}

// writeValues implements the primary-location write contract shared by the
// scalar codec, the structure codec, and the dates updater.
//
// With an occurrence root (a repeatable ancestor of expr), all existing root
// occurrences are replaced by one occurrence per value carrying the branch
// beneath it. Without one, the leaf node count under a single parent is
// reconciled to len(values). Empty values remove the addressed nodes.
// Nothing outside the addressed location is modified.
func (p *MetadataParser) writeValues(tree *etree.Element, writeRoot, expr string, values []string) {
	if expr == "" {
		return
	}
	path, attr := xmltree.SplitAttribute(expr)

	if len(values) == 0 {
		switch {
		case writeRoot != "" && strings.HasPrefix(path, writeRoot):
			removeRootedBranch(tree, writeRoot, xmltree.Branch(writeRoot, path))
		case attr != "" && path != "":
			for _, el := range xmltree.Find(tree, path) {
				el.RemoveAttr(attr)
			}
		case attr != "":
			tree.RemoveAttr(attr)
		default:
			xmltree.Remove(tree, path)
		}
		return
	}

	if writeRoot != "" && strings.HasPrefix(path, writeRoot) {
		// Other properties may share the occurrence root: clear only this
		// property's branch beneath existing occurrences, then add one new
		// occurrence per value.
		branch := xmltree.Branch(writeRoot, path)
		removeRootedBranch(tree, writeRoot, branch)
		for _, val := range values {
			occ := xmltree.CreateOccurrence(tree, writeRoot)
			leaf := xmltree.CreatePath(occ, branch)
			setContent(leaf, attr, val)
		}
		return
	}

	if path == "" {
		// Bare attribute reference on the search root itself.
		tree.CreateAttr(attr, values[0])
		return
	}

	parentPath, leaf := splitLeaf(path)
	parent := xmltree.FindFirst(tree, parentPath)
	if parent == nil {
		parent = xmltree.CreatePath(tree, parentPath)
	}
	existing := parent.SelectElements(leaf)
	for len(existing) > len(values) {
		last := existing[len(existing)-1]
		parent.RemoveChild(last)
		existing = existing[:len(existing)-1]
	}
	for len(existing) < len(values) {
		existing = append(existing, parent.CreateElement(leaf))
	}
	for i, el := range existing {
		setContent(el, attr, values[i])
	}
}

// removeRootedBranch detaches branch from every occurrence of root, then
// drops any occurrences left with no remaining content.
func removeRootedBranch(tree *etree.Element, root, branch string) {
	for _, occ := range xmltree.Find(tree, root) {
		xmltree.Remove(occ, branch)
	}
	xmltree.RemoveEmpty(tree, root)
}

func setContent(el *etree.Element, attr, value string) {
	if attr != "" {
		el.CreateAttr(attr, value)
	} else {
		el.SetText(value)
	}
}

func splitLeaf(path string) (parent string, leaf string) {
	if idx := strings.LastIndex(path, xmltree.Delim); idx >= 0 {
		return path[:idx], path[idx+1:]
	}
	return "", path
}

func nonEmpty(items []string) []string {
	kept := items[:0:0]
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			kept = append(kept, item)
		}
	}
	return kept
}
