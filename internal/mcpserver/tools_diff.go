package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/consbio/gis-metadata-parser/differ"
)

type diffInput struct {
	Source     recordInput `json:"source"               jsonschema:"The source metadata record"`
	Target     recordInput `json:"target"               jsonschema:"The target metadata record"`
	Properties []string    `json:"properties,omitempty" jsonschema:"Canonical properties to compare. When omitted every property is compared."`
}

type diffChange struct {
	Property string `json:"property"`
	Type     string `json:"type"`
	OldValue any    `json:"old_value,omitempty"`
	NewValue any    `json:"new_value,omitempty"`
	Message  string `json:"message"`
}

type diffOutput struct {
	SourceStandard string       `json:"source_standard"`
	TargetStandard string       `json:"target_standard"`
	Identical      bool         `json:"identical"`
	AddedCount     int          `json:"added_count"`
	RemovedCount   int          `json:"removed_count"`
	ModifiedCount  int          `json:"modified_count"`
	Changes        []diffChange `json:"changes,omitempty"`
}

func handleDiff(_ context.Context, _ *mcp.CallToolRequest, input diffInput) (*mcp.CallToolResult, diffOutput, error) {
	source, err := input.Source.resolve()
	if err != nil {
		return errResult(err), diffOutput{}, nil
	}
	target, err := input.Target.resolve()
	if err != nil {
		return errResult(err), diffOutput{}, nil
	}

	d := differ.New()
	d.Properties = input.Properties

	result, err := d.DiffParsed(source, target)
	if err != nil {
		return errResult(err), diffOutput{}, nil
	}

	output := diffOutput{
		SourceStandard: result.SourceStandard,
		TargetStandard: result.TargetStandard,
		Identical:      result.Identical,
		AddedCount:     result.AddedCount,
		RemovedCount:   result.RemovedCount,
		ModifiedCount:  result.ModifiedCount,
	}

	output.Changes = makeSlice[diffChange](len(result.Changes))
	for _, change := range result.Changes {
		c := diffChange{
			Property: change.Property,
			Type:     string(change.Type),
			Message:  change.Message,
		}
		if !change.OldValue.IsEmpty() {
			c.OldValue = valueJSON(change.OldValue)
		}
		if !change.NewValue.IsEmpty() {
			c.NewValue = valueJSON(change.NewValue)
		}
		output.Changes = append(output.Changes, c)
	}

	return nil, output, nil
}
