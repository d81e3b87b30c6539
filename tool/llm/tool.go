package llm

import (
	"context"
	"fmt"

	"github.com/flowkit-go/flowkit/tool"
)

// ChatTool adapts a ChatModel to the tool.Tool contract so it can be wired
// into a Flow via tool.Then/tool.Branch/tool.Switch like any other tool.
//
// Call's input accepts "messages" ([]Message) and, alternatively, a bare
// "prompt" string that's wrapped as a single user message. Output carries
// "text" and, when the model requested tool use, "tool_calls".
type ChatTool struct {
	ToolName string
	Model    ChatModel
	Tools    []ToolSpec
}

// NewChatTool wraps model as a named tool.Tool.
func NewChatTool(name string, model ChatModel, tools ...ToolSpec) tool.Tool {
	return &tool.LLMTool{Tool: &ChatTool{ToolName: name, Model: model, Tools: tools}}
}

// Name implements tool.Tool.
func (t *ChatTool) Name() string { return t.ToolName }

// Call implements tool.Tool.
func (t *ChatTool) Call(ctx context.Context, input map[string]any) (map[string]any, error) {
	messages, err := inputMessages(input)
	if err != nil {
		return nil, err
	}

	out, err := t.Model.Chat(ctx, messages, t.Tools)
	if err != nil {
		return nil, fmt.Errorf("llm tool %s: %w", t.ToolName, err)
	}

	result := map[string]any{"text": out.Text}
	if len(out.ToolCalls) > 0 {
		calls := make([]map[string]any, len(out.ToolCalls))
		for i, c := range out.ToolCalls {
			calls[i] = map[string]any{"name": c.Name, "input": c.Input}
		}
		result["tool_calls"] = calls
	}
	return result, nil
}

func inputMessages(input map[string]any) ([]Message, error) {
	if raw, ok := input["messages"]; ok {
		switch v := raw.(type) {
		case []Message:
			return v, nil
		default:
			return nil, fmt.Errorf("llm tool: messages must be []llm.Message, got %T", raw)
		}
	}
	if prompt, ok := input["prompt"].(string); ok {
		return []Message{{Role: RoleUser, Content: prompt}}, nil
	}
	return nil, fmt.Errorf("llm tool: input must set \"messages\" or \"prompt\"")
}
