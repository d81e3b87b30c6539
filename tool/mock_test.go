package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockTool_ReturnsResponsesInOrderThenRepeatsLast(t *testing.T) {
	m := &MockTool{
		ToolName: "seq",
		Responses: []map[string]any{
			{"n": 1},
			{"n": 2},
		},
	}

	out, err := m.Call(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, out["n"])

	out, err = m.Call(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, out["n"])

	out, err = m.Call(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, out["n"], "should repeat the last response once exhausted")
}

func TestMockTool_InjectedError(t *testing.T) {
	m := &MockTool{ToolName: "flaky", Err: errors.New("boom")}
	_, err := m.Call(context.Background(), map[string]any{"x": 1})
	require.Error(t, err)
	assert.Equal(t, 1, m.CallCount())
}

func TestMockTool_RecordsCallHistory(t *testing.T) {
	m := &MockTool{ToolName: "tracker"}
	_, _ = m.Call(context.Background(), map[string]any{"a": 1})
	_, _ = m.Call(context.Background(), map[string]any{"b": 2})

	require.Len(t, m.Calls, 2)
	assert.Equal(t, 1, m.Calls[0].Input["a"])
	assert.Equal(t, 2, m.Calls[1].Input["b"])
}

func TestMockTool_Reset(t *testing.T) {
	m := &MockTool{ToolName: "tracker", Responses: []map[string]any{{"a": 1}, {"b": 2}}}
	_, _ = m.Call(context.Background(), nil)
	_, _ = m.Call(context.Background(), nil)
	require.Equal(t, 2, m.CallCount())

	m.Reset()
	assert.Equal(t, 0, m.CallCount())

	out, err := m.Call(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, out["a"], "response index should restart from the beginning after Reset")
}

func TestMockTool_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := &MockTool{ToolName: "cancelled"}
	_, err := m.Call(ctx, nil)
	require.Error(t, err)
	assert.Equal(t, 0, m.CallCount(), "a cancelled context should short-circuit before recording the call")
}
