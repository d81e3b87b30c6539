package tool

import (
	"context"
	"sync"

	"github.com/flowkit-go/flowkit/flow"
)

// MapFunc transforms a single item. ReduceFunc folds the positional results
// of a MapReduce node into the outgoing state.
type MapFunc func(ctx context.Context, item any) (any, error)
type ReduceFunc func(results []any, state flow.State) flow.State

// mapReduceResultsKey is the reserved state key MapReduce writes its
// positional results array under when no ReduceFunc is supplied — mirrors
// Flow.All's fanOutResultsKey for the same reason (Go's State has no
// dynamic "whole value" slot).
const mapReduceResultsKey = "_mapReduceResults"

// MapReduceResults extracts a MapReduce node's results array, for callers
// that ran it without a ReduceFunc.
func MapReduceResults(state flow.State) []any {
	v, _ := state[mapReduceResultsKey].([]any)
	return v
}

// MapReduceOptions configures MapReduce's concurrency.
type MapReduceOptions struct {
	// Concurrency bounds in-flight mapFn calls. Zero or negative means
	// unbounded.
	Concurrency int
}

// MapReduce returns a NodeFunc that runs mapFn over items with at most
// opts.Concurrency calls in flight, collects their results positionally
// (regardless of completion order), and either folds them through reduceFn
// into the outgoing state or, when reduceFn is nil, stores the raw results
// array under the reserved key retrievable via MapReduceResults.
func MapReduce(items []any, mapFn MapFunc, reduceFn ReduceFunc, opts MapReduceOptions) flow.NodeFunc {
	return func(ctx context.Context, state flow.State) (flow.Result, error) {
		results := make([]any, len(items))
		errs := make([]error, len(items))

		var sem chan struct{}
		if opts.Concurrency > 0 {
			sem = make(chan struct{}, opts.Concurrency)
		}

		var wg sync.WaitGroup
		for i, item := range items {
			wg.Add(1)
			go func(i int, item any) {
				defer wg.Done()
				if sem != nil {
					sem <- struct{}{}
					defer func() { <-sem }()
				}
				r, err := mapFn(ctx, item)
				results[i] = r
				errs[i] = err
			}(i, item)
		}
		wg.Wait()

		for _, err := range errs {
			if err != nil {
				return flow.Result{}, err
			}
		}

		if reduceFn != nil {
			return flow.Merge(reduceFn(results, state)), nil
		}
		return flow.Merge(flow.State{mapReduceResultsKey: results}), nil
	}
}
