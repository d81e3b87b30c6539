package jsonrepair

import (
	"context"
	"testing"
)

func TestParseTool_ValidJSON(t *testing.T) {
	out, err := NewParseTool().Call(context.Background(), map[string]any{
		"content": `{"name":"John","age":30}`,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["repaired"] != false {
		t.Error("valid JSON should not be marked repaired")
	}
	value := out["value"].(map[string]any)
	if value["name"] != "John" {
		t.Errorf("name = %v, want John", value["name"])
	}
}

func TestParseTool_RepairsMalformedJSON(t *testing.T) {
	out, err := NewParseTool().Call(context.Background(), map[string]any{
		"content": `{name: 'John', age: 30,}`,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["repaired"] != true {
		t.Error("malformed JSON should be marked repaired")
	}
	value := out["value"].(map[string]any)
	if value["name"] != "John" {
		t.Errorf("name = %v, want John", value["name"])
	}
}

func TestParseTool_MissingContent(t *testing.T) {
	_, err := NewParseTool().Call(context.Background(), map[string]any{})
	if err == nil {
		t.Fatal("expected error for missing content")
	}
}
