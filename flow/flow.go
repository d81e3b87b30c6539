package flow

import (
	"context"
	"fmt"

	"github.com/flowkit-go/flowkit/flow/emit"
	"github.com/flowkit-go/flowkit/flow/metrics"
)

// defaultMaxSteps is the step cap a Flow uses when SetMaxSteps is never
// called.
const defaultMaxSteps = 100

// Flow is a fluent builder over a graph of Nodes plus the Scheduler that
// executes it. Building is eager: every builder call mutates the graph
// immediately and returns the same *Flow for chaining. Execution (Run) may
// happen any number of times; each run is independent except for the
// per-node run counters, which reset at the start of every Run.
type Flow struct {
	startNode *Node
	lastNode  *Node

	maxSteps int
	tools    []any
	debug    bool
	emitter  emit.Emitter
	metrics  *metrics.Metrics
}

// Start creates a Flow whose start (and current cursor) node wraps fn.
// Start() with no argument returns an empty Flow — its first Next/On call
// sets the start node (startNode is nil iff the flow has never had a node
// appended).
func Start(fn ...NodeFunc) *Flow {
	f := &Flow{maxSteps: defaultMaxSteps, emitter: emit.NullEmitter{}}
	if len(fn) == 0 {
		return f
	}
	n := NodeFromFunc(fn[0])
	f.startNode = n
	f.lastNode = n
	return f
}

// Next appends target (a *Node, *Flow, or NodeFunc) and redirects the
// cursor's default outcome to it. The new node becomes the cursor. If the
// flow is empty, target becomes the start node directly (no edge to draw).
func (f *Flow) Next(target any) *Flow {
	n := asNode(target)
	if f.startNode == nil {
		f.startNode = n
		f.lastNode = n
		return f
	}
	f.lastNode.Next(n)
	f.lastNode = n
	return f
}

// On adds a labelled outcome edge from the cursor to target. Unlike Next,
// this does not advance the cursor, so a chain of On calls attaches several
// labelled edges to the same node. Panics with ErrNoCursor if the flow has
// no nodes yet (mirrors the source behavior of throwing synchronously at
// the offending builder call).
func (f *Flow) On(label string, target any) *Flow {
	if f.lastNode == nil {
		panic(ErrNoCursor)
	}
	f.lastNode.On(label, asNode(target))
	return f
}

// fanOutResultsKey is the reserved state key under which Flow.All stores its
// positional results array. Go's State is a map, not a dynamically-typed
// value, so unlike the source language a node downstream of All cannot
// receive the result array as its entire state argument — see
// FanOutResults and DESIGN.md's entry for this Open Question.
const fanOutResultsKey = "_fanOutResults"

// FanOutResults extracts the positional result array a Flow.All hop wrote
// into state, for use inside the node that follows it.
func FanOutResults(state State) []State {
	v, _ := state[fanOutResultsKey].([]State)
	return v
}

// All appends a single synthetic fan-out node that runs every node in nodes
// concurrently against the state as it stood when the fan-out node was
// entered, and collects their individual merged outputs into a positional
// array. The join step — what a subsequent Next does with that array — is
// the caller's responsibility; retrieve it with FanOutResults.
func (f *Flow) All(nodes ...any) *Flow {
	branches := make([]*Node, len(nodes))
	for i, nd := range nodes {
		branches[i] = asNode(nd)
	}
	fanOut := NewNode("fan-out", func(ctx context.Context, state State) (Result, error) {
		var onInflight func(int)
		if f.metrics != nil {
			onInflight = f.metrics.SetFanOutInflight
		}
		results, err := runFanOut(ctx, branches, state, onInflight)
		if err != nil {
			return Result{}, err
		}
		return Merge(State{fanOutResultsKey: results}), nil
	})
	return f.Next(fanOut)
}

// Branch appends a synthetic node that evaluates predicate(state) and
// forwards to ifNode when true, elseNode when false.
func (f *Flow) Branch(predicate func(State) bool, ifNode, elseNode any) *Flow {
	if f.lastNode == nil {
		panic(ErrNoCursor)
	}
	br := NewNode("branch", func(_ context.Context, state State) (Result, error) {
		if predicate(state) {
			return Label("true"), nil
		}
		return Label("false"), nil
	})
	br.On("true", asNode(ifNode))
	br.On("false", asNode(elseNode))
	return f.Next(br)
}

// Switch appends a synthetic node that selects a successor from
// cases[fmt.Sprint(state[key])], falling back to defaultCase when the
// computed label has no matching entry.
func (f *Flow) Switch(key string, cases map[string]any, defaultCase any) *Flow {
	if f.lastNode == nil {
		panic(ErrNoCursor)
	}
	sw := NewNode("switch", func(_ context.Context, state State) (Result, error) {
		label := fmt.Sprint(state[key])
		return Label(label), nil
	})
	for label, target := range cases {
		sw.On(label, asNode(target))
	}
	if defaultCase != nil {
		sw.On(DefaultLabel, asNode(defaultCase))
	}
	return f.Next(sw)
}

// CatchHandler receives the error raised by a node and the state as it
// stood when the node failed, and returns the state execution resumes with.
type CatchHandler func(err error, state State) State

// Catch attaches handler to the current cursor node. If that node's Run
// returns an error, the Scheduler invokes handler instead of propagating
// the error, replaces state with its return value, and resumes execution
// from the cursor's default edge.
func (f *Flow) Catch(handler CatchHandler) *Flow {
	if f.lastNode == nil {
		panic(ErrNoCursor)
	}
	f.lastNode.catch = handler
	return f
}

// Tools extends the flow's tool registry — an ordered list of tool
// references available for discovery by nodes.
func (f *Flow) Tools(tools ...any) *Flow {
	f.tools = append(f.tools, tools...)
	return f
}

// ToolRegistry returns the flow's accumulated tool references in
// registration order.
func (f *Flow) ToolRegistry() []any {
	return append([]any(nil), f.tools...)
}

// SetMaxSteps overrides the default step cap (100) enforced by the
// Scheduler.
func (f *Flow) SetMaxSteps(n int) *Flow {
	f.maxSteps = n
	return f
}

// Debug records the debug flag. Debug(true) with no emitter set via
// SetEmitter installs a line-oriented log emitter, so per-hop events are
// printed. Debug(false) does not remove an emitter that is already
// installed: once Debug(true) has installed the log emitter, events keep
// going to it.
func (f *Flow) Debug(on bool) *Flow {
	f.debug = on
	if on {
		if _, isNull := f.emitter.(emit.NullEmitter); isNull {
			f.emitter = emit.NewLogEmitter(nil, false)
		}
	}
	return f
}

// SetEmitter installs a custom observability backend, used regardless of
// Debug's on/off setting whenever it is not the NullEmitter default.
func (f *Flow) SetEmitter(e emit.Emitter) *Flow {
	f.emitter = e
	return f
}

// SetMetrics installs a Prometheus-backed metrics collector. Unset by
// default — no metrics are recorded unless a Flow opts in; observability is
// debug-event based by default, not metrics-based.
func (f *Flow) SetMetrics(m *metrics.Metrics) *Flow {
	f.metrics = m
	return f
}

// StartNode exposes the flow's entry node — used when a Flow is itself used
// as an On/Next target (its start node substitutes for the flow).
func (f *Flow) StartNode() *Node { return f.startNode }
