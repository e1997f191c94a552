// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes metadata parsing, validation, and conversion as MCP tools
// over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	gismetadata "github.com/consbio/gis-metadata-parser"
)

const serverInstructions = `gis-metadata-parser MCP server — parses, validates, and converts geospatial metadata records.

Supported standards: FGDC CSDGM ("fgdc"), ISO-19115/ISO-19139 ("iso"), and the ArcGIS metadata format ("arcgis"). The standard is detected from the document root; every tool accepts a record as either a file path or inline XML content.

Tools:
- parse: read a record into its canonical properties
- validate: check a record for structural and content problems
- diff: compare two records by canonical property
- convert: translate a record to another standard`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "gis-metadata-parser", Version: gismetadata.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse",
		Description: "Parse a geospatial metadata record (FGDC, ISO-19115, or ArcGIS). Returns the detected standard and the canonical property set: scalar properties as strings, repeated properties as arrays, and structured properties (contacts, dates, bounding_box, ...) as objects.",
	}, handleParse)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate",
		Description: "Validate a geospatial metadata record. Checks required property presence, date structure agreement, bounding box coordinate ranges, and value recommendations. Returns errors and warnings with property paths. Use required to name properties that must be present.",
	}, handleValidate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "diff",
		Description: "Compare two geospatial metadata records by their canonical properties. The records may use different standards. Returns added, removed, and modified properties with old and new values.",
	}, handleDiff)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "convert",
		Description: "Convert a geospatial metadata record to another standard (fgdc, iso, or arcgis). Conversion is best effort: properties the target standard cannot represent are dropped and reported. Returns the converted XML inline or writes it to a file.",
	}, handleConvert)
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
