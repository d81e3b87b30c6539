// Package jsonrepair provides a tool that parses a JSON string into a
// map, falling back to github.com/kaptinlin/jsonrepair when the string is
// malformed — the shape LLM output routinely comes back in (trailing
// commas, single quotes, unquoted keys).
package jsonrepair

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonrepair"
)

// ParseTool repairs and parses a JSON string from state into a map.
//
// Input: "content" (string, required). Output: "value" (map[string]any),
// "repaired" (bool, true if the input needed repair).
type ParseTool struct{}

// NewParseTool creates a ParseTool.
func NewParseTool() *ParseTool { return &ParseTool{} }

// Name implements tool.Tool.
func (p *ParseTool) Name() string { return "json_repair_parse" }

// Call implements tool.Tool.
func (p *ParseTool) Call(ctx context.Context, input map[string]any) (map[string]any, error) {
	content, ok := input["content"].(string)
	if !ok {
		return nil, fmt.Errorf("json_repair_parse: content parameter required (string)")
	}

	var value map[string]any
	if err := json.Unmarshal([]byte(content), &value); err == nil {
		return map[string]any{"value": value, "repaired": false}, nil
	}

	repaired, err := jsonrepair.JSONRepair(content)
	if err != nil {
		return nil, fmt.Errorf("json_repair_parse: could not repair: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), &value); err != nil {
		return nil, fmt.Errorf("json_repair_parse: repaired JSON still invalid: %w", err)
	}
	return map[string]any{"value": value, "repaired": true}, nil
}
