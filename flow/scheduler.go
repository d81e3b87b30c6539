package flow

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/flowkit-go/flowkit/flow/emit"
)

// Run executes the flow from its start node. Each call is an
// independent run: state begins at initial, and every node reachable from
// the start is first reset to runCount 0 — concurrent runs over the same
// graph must synchronize externally or clone the graph; Run does not
// deep-clone.
//
// Run never panics on a workflow-level failure: hitting the step cap is
// not an error, so reaching it returns the current state with a nil error.
// An unhandled node error — one with no catch handler installed on that
// node — is returned as the error value, wrapped in a *NodeError.
func (f *Flow) Run(ctx context.Context, initial State) (State, error) {
	runID := uuid.NewString()

	if f.startNode == nil {
		return initial.clone(), nil
	}
	resetRunCounts(f.startNode)

	state := initial.clone()
	current := f.startNode
	steps := 0

	for current != nil {
		if steps >= f.maxSteps {
			if f.metrics != nil {
				f.metrics.RecordMaxStepsReached()
			}
			return state, nil
		}

		hopStart := time.Now()
		result, err := current.Run(ctx, state)
		if err != nil {
			if f.metrics != nil {
				f.metrics.RecordHop(current.name, "catch", time.Since(hopStart), "error")
			}
			if current.catch != nil {
				state = current.catch(err, state)
				next, ok := current.successor(DefaultLabel)
				f.emitHop(runID, steps, current.name, "catch", successorName(next), nil)
				steps++
				if !ok {
					return state, nil
				}
				current = next
				continue
			}
			if f.metrics != nil {
				f.metrics.RecordRunError(current.name)
			}
			return state, &NodeError{NodeName: current.name, Cause: err}
		}

		label := result.outcomeLabel()
		if f.metrics != nil {
			f.metrics.RecordHop(current.name, label, time.Since(hopStart), "success")
		}
		changed := deltaKeys(result.Delta)
		state = state.merge(result.Delta)

		if seg, ok := state.gotoSegment(); ok {
			target, rerr := defaultRegistry.resolveNode(seg)
			if rerr != nil {
				return state, rerr
			}
			state = state.withoutGoto()
			f.emitHop(runID, steps, current.name, "_goto:"+seg, successorName(target), changed)
			current = target
			steps++
			continue
		}

		next, _ := current.successor(label)
		f.emitHop(runID, steps, current.name, label, successorName(next), changed)
		current = next
		steps++
	}

	return state, nil
}

func successorName(n *Node) string {
	if n == nil {
		return ""
	}
	return n.name
}

// deltaKeys lists the keys a node's returned delta touches, for the
// stateKeysChanged field of a debug event.
func deltaKeys(delta State) []string {
	keys := make([]string, 0, len(delta))
	for k := range delta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (f *Flow) emitHop(runID string, step int, from, label, to string, changed []string) {
	if f.emitter == nil {
		return
	}
	if _, isNull := f.emitter.(emit.NullEmitter); isNull {
		return
	}
	f.emitter.Emit(emit.Event{
		RunID:  runID,
		Step:   step,
		NodeID: from,
		Msg:    "hop",
		Meta: map[string]any{
			"label":              label,
			"to_node":            to,
			"state_keys_changed": changed,
		},
	})
}

// resetRunCounts walks every node reachable from start (over a possibly
// cyclic graph) and zeroes its invocation counter, resetting it for the
// new run.
func resetRunCounts(start *Node) {
	visited := make(map[*Node]bool)
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil || visited[n] {
			return
		}
		visited[n] = true
		n.resetRunCount()
		n.mu.Lock()
		successors := make([]*Node, 0, len(n.outcomes))
		for _, s := range n.outcomes {
			successors = append(successors, s)
		}
		n.mu.Unlock()
		for _, s := range successors {
			walk(s)
		}
	}
	walk(start)
}

// runFanOut runs branches concurrently against the same incoming state and
// returns their merged outputs in the same order as branches, positional
// regardless of completion order.
func runFanOut(ctx context.Context, branches []*Node, state State, onInflightChange func(int)) ([]State, error) {
	results := make([]State, len(branches))
	errs := make([]error, len(branches))

	var inflight int64
	reportInflight := func(delta int64) {
		if onInflightChange == nil {
			return
		}
		n := atomic.AddInt64(&inflight, delta)
		onInflightChange(int(n))
	}

	var wg sync.WaitGroup
	wg.Add(len(branches))
	for i, n := range branches {
		go func(i int, n *Node) {
			defer wg.Done()
			reportInflight(1)
			defer reportInflight(-1)
			result, err := n.Run(ctx, state)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = state.merge(result.Delta)
		}(i, n)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
