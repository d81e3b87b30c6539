// Package chunker provides a tool that splits text into token-bounded
// chunks using a tiktoken-compatible codec, so chunks stay under an LLM's
// context window regardless of how the text is worded.
package chunker

import (
	"context"
	"fmt"

	"github.com/tiktoken-go/tokenizer"
)

const defaultMaxTokens = 512

// SplitTool splits a string into chunks of at most "max_tokens" tokens
// each, measured with the cl100k_base encoding.
//
// Input: "text" (string, required), "max_tokens" (int, optional, default 512).
// Output: "chunks" ([]string), "count" (int).
type SplitTool struct {
	codec tokenizer.Codec
}

// NewSplitTool creates a SplitTool using the cl100k_base encoding (the one
// shared by GPT-3.5/GPT-4-era models).
func NewSplitTool() (*SplitTool, error) {
	codec, err := tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		return nil, fmt.Errorf("chunker: failed to load codec: %w", err)
	}
	return &SplitTool{codec: codec}, nil
}

// Name implements tool.Tool.
func (s *SplitTool) Name() string { return "text_chunk" }

// Call implements tool.Tool.
func (s *SplitTool) Call(ctx context.Context, input map[string]any) (map[string]any, error) {
	text, ok := input["text"].(string)
	if !ok {
		return nil, fmt.Errorf("text_chunk: text parameter required (string)")
	}

	maxTokens := defaultMaxTokens
	if mt, ok := input["max_tokens"].(int); ok && mt > 0 {
		maxTokens = mt
	}

	tokens, _, err := s.codec.Encode(text)
	if err != nil {
		return nil, fmt.Errorf("text_chunk: failed to encode text: %w", err)
	}

	var chunks []string
	for start := 0; start < len(tokens); start += maxTokens {
		end := start + maxTokens
		if end > len(tokens) {
			end = len(tokens)
		}
		chunk, err := s.codec.Decode(tokens[start:end])
		if err != nil {
			return nil, fmt.Errorf("text_chunk: failed to decode chunk: %w", err)
		}
		chunks = append(chunks, chunk)
	}
	if chunks == nil {
		chunks = []string{}
	}

	return map[string]any{"chunks": chunks, "count": len(chunks)}, nil
}
