package memory

import (
	"context"
	"fmt"
)

// StoreTool exposes a Backend as a Tool with "get"/"set"/"delete" operations,
// so a flow node can read and write agent memory without depending on the
// storage package directly.
//
// Input: "op" (one of "get", "set", "delete"), "key" (string, required),
// "value" (string, required for "set").
// Output for "get": "value" (string), "found" (bool). "set"/"delete" return
// an empty map on success.
type StoreTool struct {
	backend Backend
}

// NewStoreTool wraps backend as a Tool.
func NewStoreTool(backend Backend) *StoreTool {
	return &StoreTool{backend: backend}
}

// Name implements tool.Tool.
func (s *StoreTool) Name() string { return "memory_store" }

// Call implements tool.Tool.
func (s *StoreTool) Call(ctx context.Context, input map[string]any) (map[string]any, error) {
	op, _ := input["op"].(string)
	key, ok := input["key"].(string)
	if !ok || key == "" {
		return nil, fmt.Errorf("memory_store: key parameter required (string)")
	}

	switch op {
	case "get":
		value, found, err := s.backend.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		return map[string]any{"value": value, "found": found}, nil
	case "set":
		value, ok := input["value"].(string)
		if !ok {
			return nil, fmt.Errorf("memory_store: value parameter required (string) for set")
		}
		if err := s.backend.Set(ctx, key, value); err != nil {
			return nil, err
		}
		return map[string]any{}, nil
	case "delete":
		if err := s.backend.Delete(ctx, key); err != nil {
			return nil, err
		}
		return map[string]any{}, nil
	default:
		return nil, fmt.Errorf("memory_store: unknown op %q (want get, set, or delete)", op)
	}
}
