package mcpserver

import (
	"fmt"
	"os"

	"github.com/consbio/gis-metadata-parser/parser"
)

// maxInlineSize bounds inline record content; metadata documents larger
// than this should come in as files.
const maxInlineSize = 4 << 20

// recordInput represents the two ways a metadata record can be provided to
// a tool. Exactly one of File or Content must be set.
type recordInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a metadata XML file on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline metadata XML content"`
}

// resolve parses the record from whichever input was provided.
func (r recordInput) resolve() (*parser.MetadataParser, error) {
	count := 0
	if r.File != "" {
		count++
	}
	if r.Content != "" {
		count++
	}
	if count != 1 {
		return nil, fmt.Errorf("exactly one of file or content must be provided (got %d)", count)
	}

	if r.Content != "" {
		if len(r.Content) > maxInlineSize {
			return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead",
				len(r.Content), maxInlineSize)
		}
		return parser.Parse([]byte(r.Content))
	}

	data, err := os.ReadFile(r.File)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", r.File, err)
	}
	return parser.Parse(data)
}
