package mcpserver

import (
	"context"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/consbio/gis-metadata-parser/converter"
	"github.com/consbio/gis-metadata-parser/internal/fileutil"
)

type convertInput struct {
	Record recordInput `json:"record"           jsonschema:"The metadata record to convert"`
	Target string      `json:"target"           jsonschema:"Target standard (fgdc\\, iso\\, or arcgis)"`
	Output string      `json:"output,omitempty" jsonschema:"File path to write the converted record. If omitted the record is returned inline."`
}

type convertIssue struct {
	Severity string `json:"severity"`
	Path     string `json:"path"`
	Message  string `json:"message"`
}

type convertOutput struct {
	SourceStandard string         `json:"source_standard"`
	TargetStandard string         `json:"target_standard"`
	Success        bool           `json:"success"`
	Carried        []string       `json:"carried,omitempty"`
	Dropped        []string       `json:"dropped,omitempty"`
	Issues         []convertIssue `json:"issues,omitempty"`
	WrittenTo      string         `json:"written_to,omitempty"`
	Document       string         `json:"document,omitempty"`
}

func handleConvert(_ context.Context, _ *mcp.CallToolRequest, input convertInput) (*mcp.CallToolResult, convertOutput, error) {
	if input.Target == "" {
		return errResult(fmt.Errorf("target standard is required")), convertOutput{}, nil
	}

	p, err := input.Record.resolve()
	if err != nil {
		return errResult(err), convertOutput{}, nil
	}

	result, err := converter.ConvertParsed(p, input.Target)
	if err != nil {
		return errResult(err), convertOutput{}, nil
	}

	output := convertOutput{
		SourceStandard: result.SourceStandard,
		TargetStandard: result.TargetStandard,
		Success:        result.Success,
		Carried:        result.Carried,
		Dropped:        result.Dropped,
	}

	output.Issues = makeSlice[convertIssue](len(result.Issues))
	for _, issue := range result.Issues {
		output.Issues = append(output.Issues, convertIssue{
			Severity: issue.Severity.String(),
			Path:     issue.Path,
			Message:  issue.Message,
		})
	}

	data, err := result.Serialize()
	if err != nil {
		return errResult(err), convertOutput{}, nil
	}

	if input.Output != "" {
		if err := os.WriteFile(input.Output, data, fileutil.ReadableByAll); err != nil {
			return errResult(fmt.Errorf("failed to write output file: %w", err)), convertOutput{}, nil
		}
		output.WrittenTo = input.Output
	} else {
		output.Document = string(data)
	}

	return nil, output, nil
}
