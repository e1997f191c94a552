package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/consbio/gis-metadata-parser/parser"
)

type parseInput struct {
	Record     recordInput `json:"record"               jsonschema:"The metadata record to parse"`
	Properties []string    `json:"properties,omitempty" jsonschema:"Canonical property names to return. When omitted every present property is returned."`
}

type parseOutput struct {
	Standard      string         `json:"standard"`
	PropertyCount int            `json:"property_count"`
	Properties    map[string]any `json:"properties,omitempty"`
}

func handleParse(_ context.Context, _ *mcp.CallToolRequest, input parseInput) (*mcp.CallToolResult, parseOutput, error) {
	p, err := input.Record.resolve()
	if err != nil {
		return errResult(err), parseOutput{}, nil
	}

	output := parseOutput{
		Standard:   p.Standard(),
		Properties: make(map[string]any),
	}

	names := input.Properties
	if len(names) == 0 {
		names = p.Registry().Properties()
	}
	for _, name := range names {
		value := p.Get(name)
		if value.IsEmpty() {
			continue
		}
		output.Properties[name] = valueJSON(value)
	}
	output.PropertyCount = len(output.Properties)

	return nil, output, nil
}

// valueJSON renders a canonical value in its natural JSON shape.
func valueJSON(value parser.Value) any {
	switch value.Kind() {
	case parser.KindSequence:
		return value.Sequence()
	case parser.KindStructured:
		return value.Structured()
	default:
		return value.Scalar()
	}
}
