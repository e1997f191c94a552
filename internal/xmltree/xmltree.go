// Package xmltree provides the tree query and mutation primitives used by the
// metadata mapping engine: location-expression evaluation, path creation, and
// node removal over an etree document.
//
// Location expressions are slash-delimited element paths relative to a root
// element, with optional attribute selection as a trailing "@name" segment
// (e.g. "idinfo/citation/citeinfo/title" or "cntAddress/@addressType").
package xmltree

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// Delim separates segments in a location expression.
const Delim = "/"

// SplitAttribute splits a location expression into its element path and an
// optional trailing attribute reference. A bare "@name" yields an empty path.
func SplitAttribute(expr string) (path string, attr string) {
	if expr == "" {
		return "", ""
	}
	if strings.HasPrefix(expr, "@") {
		return "", strings.TrimPrefix(expr, "@")
	}
	if idx := strings.Index(expr, "/@"); idx >= 0 {
		return expr[:idx], expr[idx+2:]
	}
	return expr, ""
}

// Branch returns the part of expr extending past root, or expr unchanged when
// it does not start with root.
func Branch(root, expr string) string {
	if root != "" && expr != "" && strings.HasPrefix(expr, root) {
		return strings.TrimLeft(strings.TrimPrefix(expr, root), Delim)
	}
	return expr
}

// Find returns all elements matching the slash-delimited element path under
// root, in document order. An empty path yields root itself. The path must
// not contain an attribute reference; see SplitAttribute.
func Find(root *etree.Element, path string) []*etree.Element {
	if root == nil {
		return nil
	}
	if path == "" {
		return []*etree.Element{root}
	}
	current := []*etree.Element{root}
	for _, segment := range strings.Split(path, Delim) {
		if segment == "" {
			continue
		}
		var next []*etree.Element
		for _, el := range current {
			next = append(next, el.SelectElements(segment)...)
		}
		if len(next) == 0 {
			return nil
		}
		current = next
	}
	return current
}

// FindFirst returns the first element matching path under root, or nil.
func FindFirst(root *etree.Element, path string) *etree.Element {
	if matches := Find(root, path); len(matches) > 0 {
		return matches[0]
	}
	return nil
}

// Texts returns the trimmed text of every element matching path under root,
// skipping elements with empty or whitespace-only text.
func Texts(root *etree.Element, path string) []string {
	var texts []string
	for _, el := range Find(root, path) {
		if text := strings.TrimSpace(el.Text()); text != "" {
			texts = append(texts, text)
		}
	}
	return texts
}

// AttributeValues returns the non-empty values of attribute attr on every
// element matching path under root.
func AttributeValues(root *etree.Element, path, attr string) []string {
	var values []string
	for _, el := range Find(root, path) {
		if a := el.SelectAttr(attr); a != nil && strings.TrimSpace(a.Value) != "" {
			values = append(values, strings.TrimSpace(a.Value))
		}
	}
	return values
}

// CreatePath returns the first element at path under root, creating any
// missing segments along the way. Existing elements are reused; only absent
// segments are created.
func CreatePath(root *etree.Element, path string) *etree.Element {
	current := root
	if path == "" {
		return current
	}
	for _, segment := range strings.Split(path, Delim) {
		if segment == "" {
			continue
		}
		next := current.SelectElement(segment)
		if next == nil {
			next = current.CreateElement(segment)
		}
		current = next
	}
	return current
}

// CreateOccurrence creates a new element for the final segment of path,
// reusing existing elements for the leading segments. Unlike CreatePath it
// always creates the leaf, so repeated calls produce repeated siblings in
// call order. Returns the created leaf.
func CreateOccurrence(root *etree.Element, path string) *etree.Element {
	segments := strings.Split(path, Delim)
	leaf := segments[len(segments)-1]
	parent := CreatePath(root, strings.Join(segments[:len(segments)-1], Delim))
	return parent.CreateElement(leaf)
}

// Remove detaches every element matching path under root from its parent.
// Returns the number of elements removed.
func Remove(root *etree.Element, path string) int {
	if path == "" {
		return 0
	}
	matches := Find(root, path)
	for _, el := range matches {
		if parent := el.Parent(); parent != nil {
			parent.RemoveChild(el)
		}
	}
	return len(matches)
}

// RemoveEmpty removes every element matching path under root that has no
// child elements and no non-whitespace text, then prunes any ancestor
// elements left empty up to (but excluding) root.
func RemoveEmpty(root *etree.Element, path string) int {
	removed := 0
	for _, el := range Find(root, path) {
		if len(el.ChildElements()) == 0 && strings.TrimSpace(el.Text()) == "" {
			prune(root, el)
			removed++
		}
	}
	return removed
}

// Prune removes el from the tree, then removes any ancestors left with no
// children, no text, and no attributes, stopping at root.
func Prune(root, el *etree.Element) {
	prune(root, el)
}

func prune(root, el *etree.Element) {
	for el != nil && el != root {
		parent := el.Parent()
		if parent == nil {
			return
		}
		parent.RemoveChild(el)
		if len(parent.ChildElements()) != 0 || strings.TrimSpace(parent.Text()) != "" || len(parent.Attr) != 0 {
			return
		}
		el = parent
	}
}

// SetText replaces the text content of el.
func SetText(el *etree.Element, text string) {
	el.SetText(text)
}

// StripNamespaces removes namespace prefixes and xmlns declarations from
// every element and attribute in the document, so location expressions can
// address elements by local name alone.
func StripNamespaces(doc *etree.Document) {
	if root := doc.Root(); root != nil {
		stripNamespaces(root)
	}
}

func stripNamespaces(el *etree.Element) {
	el.Space = ""
	attrs := el.Attr[:0]
	for _, attr := range el.Attr {
		if attr.Space == "xmlns" || (attr.Space == "" && attr.Key == "xmlns") {
			continue
		}
		attr.Space = ""
		attrs = append(attrs, attr)
	}
	el.Attr = attrs
	for _, child := range el.ChildElements() {
		stripNamespaces(child)
	}
}

// Load reads an XML document, decoding legacy charsets (e.g. ISO-8859-1
// FGDC exports) via the IANA index, and strips namespace prefixes so that
// location expressions match on local names.
func Load(r io.Reader) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, err
	}
	StripNamespaces(doc)
	return doc, nil
}

// LoadBytes reads an XML document from a byte slice; see Load.
func LoadBytes(data []byte) (*etree.Document, error) {
	return Load(strings.NewReader(string(data)))
}

// NewDocument creates a document containing only an XML declaration and an
// empty root element with the given tag.
func NewDocument(rootTag string) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.CreateElement(rootTag)
	return doc
}

// Serialize renders the document as indented UTF-8 XML.
func Serialize(doc *etree.Document) ([]byte, error) {
	doc.Indent(2)
	return doc.WriteToBytes()
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}
