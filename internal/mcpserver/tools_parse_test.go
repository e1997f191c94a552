package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consbio/gis-metadata-parser/parser"
)

func TestParseTool(t *testing.T) {
	input := parseInput{Record: recordInput{Content: sampleFGDC}}
	result, output, err := handleParse(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.Nil(t, result)

	assert.Equal(t, parser.StandardFGDC, output.Standard)
	assert.Equal(t, "Wetland Inventory", output.Properties[parser.Title])
	assert.Equal(t, "Mapped wetland boundaries.", output.Properties[parser.Abstract])
	assert.Equal(t, len(output.Properties), output.PropertyCount)
	assert.NotContains(t, output.Properties, parser.Purpose)
}

func TestParseTool_PropertyFilter(t *testing.T) {
	input := parseInput{
		Record:     recordInput{Content: sampleFGDC},
		Properties: []string{parser.Title, parser.Purpose},
	}
	result, output, err := handleParse(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.Nil(t, result)

	assert.Equal(t, 1, output.PropertyCount)
	assert.Equal(t, "Wetland Inventory", output.Properties[parser.Title])
}

func TestParseTool_BadInput(t *testing.T) {
	input := parseInput{Record: recordInput{Content: "not xml"}}
	result, _, err := handleParse(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

func TestValueJSON(t *testing.T) {
	assert.Equal(t, "one", valueJSON(parser.Scalar("one")))
	assert.Equal(t, []string{"a", "b"}, valueJSON(parser.Sequence("a", "b")))
	assert.Equal(t,
		[]map[string]string{{"name": "Jane"}},
		valueJSON(parser.Structured(map[string]string{"name": "Jane"})))
}
