package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/consbio/gis-metadata-parser/validator"
)

type validateInput struct {
	Record     recordInput `json:"record"                jsonschema:"The metadata record to validate"`
	Strict     bool        `json:"strict,omitempty"      jsonschema:"Enable strict validation mode"`
	NoWarnings bool        `json:"no_warnings,omitempty" jsonschema:"Suppress warnings from output"`
	Required   []string    `json:"required,omitempty"    jsonschema:"Canonical properties that must be present"`
}

type validateIssue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type validateOutput struct {
	Valid        bool            `json:"valid"`
	Standard     string          `json:"standard"`
	ErrorCount   int             `json:"error_count"`
	WarningCount int             `json:"warning_count"`
	Errors       []validateIssue `json:"errors,omitempty"`
	Warnings     []validateIssue `json:"warnings,omitempty"`
}

func handleValidate(_ context.Context, _ *mcp.CallToolRequest, input validateInput) (*mcp.CallToolResult, validateOutput, error) {
	p, err := input.Record.resolve()
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	opts := []validator.Option{
		validator.WithParsed(p),
		validator.WithStrictMode(input.Strict),
		validator.WithIncludeWarnings(!input.NoWarnings),
	}
	if len(input.Required) > 0 {
		opts = append(opts, validator.WithRequiredProperties(input.Required...))
	}

	result, err := validator.ValidateWithOptions(opts...)
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	output := validateOutput{
		Valid:        result.Valid,
		Standard:     result.Standard,
		ErrorCount:   result.ErrorCount,
		WarningCount: result.WarningCount,
	}

	output.Errors = makeSlice[validateIssue](len(result.Errors))
	for _, e := range result.Errors {
		output.Errors = append(output.Errors, validateIssue{
			Path:    e.Path,
			Message: e.Message,
			Field:   e.Field,
		})
	}
	output.Warnings = makeSlice[validateIssue](len(result.Warnings))
	for _, w := range result.Warnings {
		output.Warnings = append(output.Warnings, validateIssue{
			Path:    w.Path,
			Message: w.Message,
			Field:   w.Field,
		})
	}

	return nil, output, nil
}
