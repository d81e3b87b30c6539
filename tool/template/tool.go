// Package template provides a tool that interpolates "{{key}}"-style
// placeholders in a string against the current state.
package template

import (
	"context"
	"fmt"
	"io"

	"github.com/valyala/fasttemplate"
)

const startTag, endTag = "{{", "}}"

// RenderTool substitutes placeholders of the form "{{key}}" in a template
// string with values taken from its "vars" input, falling back to the
// empty string for keys that are not present.
//
// Input: "template" (string, required), "vars" (map[string]any, optional).
// Output: "result" (string).
type RenderTool struct{}

// NewRenderTool creates a RenderTool.
func NewRenderTool() *RenderTool { return &RenderTool{} }

// Name implements tool.Tool.
func (r *RenderTool) Name() string { return "template_render" }

// Call implements tool.Tool.
func (r *RenderTool) Call(ctx context.Context, input map[string]any) (map[string]any, error) {
	tpl, ok := input["template"].(string)
	if !ok {
		return nil, fmt.Errorf("template_render: template parameter required (string)")
	}

	vars, _ := input["vars"].(map[string]any)

	t, err := fasttemplate.NewTemplate(tpl, startTag, endTag)
	if err != nil {
		return nil, fmt.Errorf("template_render: invalid template: %w", err)
	}

	result := t.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
		v, ok := vars[tag]
		if !ok || v == nil {
			return 0, nil
		}
		return io.WriteString(w, fmt.Sprint(v))
	})

	return map[string]any{"result": result}, nil
}
