package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowkit-go/flowkit/flow"
)

func TestMapReduce_WithReducer(t *testing.T) {
	items := []any{1, 2, 3, 4, 5}
	double := func(ctx context.Context, item any) (any, error) {
		return item.(int) * 2, nil
	}
	sumReduce := func(results []any, state flow.State) flow.State {
		out := make([]any, len(results))
		copy(out, results)
		state["rs"] = out
		return state
	}

	fn := MapReduce(items, double, sumReduce, MapReduceOptions{Concurrency: 2})
	result, err := fn(context.Background(), flow.State{"init": true})
	require.NoError(t, err)

	assert.Equal(t, true, result.Delta["init"])
	assert.Equal(t, []any{2, 4, 6, 8, 10}, result.Delta["rs"])
}

func TestMapReduce_WithoutReducerStoresPositionalResults(t *testing.T) {
	items := []any{"a", "b", "c"}
	upper := func(ctx context.Context, item any) (any, error) {
		s := item.(string)
		if s == "b" {
			return "B", nil
		}
		return s, nil
	}

	fn := MapReduce(items, upper, nil, MapReduceOptions{})
	result, err := fn(context.Background(), flow.State{})
	require.NoError(t, err)

	results := MapReduceResults(flow.State(result.Delta))
	require.Len(t, results, 3)
	assert.Equal(t, "a", results[0])
	assert.Equal(t, "B", results[1])
	assert.Equal(t, "c", results[2])
}

func TestMapReduce_PropagatesMapError(t *testing.T) {
	items := []any{1, 2, 3}
	failing := func(ctx context.Context, item any) (any, error) {
		if item.(int) == 2 {
			return nil, errors.New("boom")
		}
		return item, nil
	}

	fn := MapReduce(items, failing, nil, MapReduceOptions{})
	_, err := fn(context.Background(), flow.State{})
	require.Error(t, err)
}
