package flow

import (
	"context"
	"reflect"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
)

// NodeFunc is the async unary callable every Node wraps. It receives the
// current state and returns a Result describing the outcome label and/or
// state delta for this hop, or an error.
//
// NodeFunc is always invoked through Node.Run, which the Scheduler awaits —
// implementations may block or return immediately; both are "awaited" the
// same way from the caller's perspective.
type NodeFunc func(ctx context.Context, state State) (Result, error)

// Result is the outcome of a single node invocation. It models the four
// return shapes a node's underlying function can produce:
//
//   - Merge(delta)            -> partial state, label "default"
//   - Label(l)                -> label l, state unchanged
//   - LabelMerge(l, delta)     -> label l, partial state
//   - Default()                -> label "default", state unchanged
//
// A Result whose Delta carries a non-empty GotoKey is a goto signal: the
// scheduler resolves it against the Registry regardless of Label.
type Result struct {
	// Label is the outcome label used to pick the next edge. Empty is
	// treated as DefaultLabel.
	Label string

	// Delta is the partial state to shallow-merge over the incoming state.
	// Nil means "no change".
	Delta State
}

// Default returns a Result that leaves state unchanged and routes along the
// default edge.
func Default() Result { return Result{} }

// Merge returns a Result that shallow-merges delta into state and routes
// along the default edge.
func Merge(delta State) Result { return Result{Delta: delta} }

// Label returns a Result that leaves state unchanged and routes along the
// edge registered for label.
func Label(label string) Result { return Result{Label: label} }

// LabelMerge returns a Result that shallow-merges delta into state and
// routes along the edge registered for label.
func LabelMerge(label string, delta State) Result {
	return Result{Label: label, Delta: delta}
}

// Goto returns a Result that reroutes execution to the named Registry
// segment. Any Label on the result is ignored once a goto signal is present.
func Goto(segment string) Result {
	return Result{Delta: State{GotoKey: segment}}
}

// outcomeLabel normalizes r.Label to DefaultLabel when empty.
func (r Result) outcomeLabel() string {
	if r.Label == "" {
		return DefaultLabel
	}
	return r.Label
}

// Node is a named wrapper over a NodeFunc plus its outgoing labelled edges
// and a run cap.
//
// Node is safe for concurrent Run calls (needed by Flow.All's fan-out); the
// run counter and outcome table are both guarded.
type Node struct {
	name string
	fn   NodeFunc

	mu       sync.Mutex
	outcomes map[string]*Node

	maxRuns  int64 // 0 means unbounded
	runCount int64

	catch CatchHandler
}

// NewNode creates a node with an explicit name. The explicit name always
// wins over any name that could be derived from fn.
func NewNode(name string, fn NodeFunc) *Node {
	return &Node{
		name:     name,
		fn:       fn,
		outcomes: make(map[string]*Node),
	}
}

// NodeFromFunc creates a node named after fn's declared identifier, falling
// back to "anonymous" for closures and other unnamed functions. Go gives no
// runtime access to a closure's source name, so this only recovers a
// meaningful name for a function declared at package scope or as a method
// value — the common case of a named function turned into a node.
func NodeFromFunc(fn NodeFunc) *Node {
	return NewNode(funcDisplayName(fn), fn)
}

func funcDisplayName(fn NodeFunc) string {
	ptr := reflect.ValueOf(fn).Pointer()
	rf := runtime.FuncForPC(ptr)
	if rf == nil {
		return "anonymous"
	}
	full := rf.Name()
	if idx := strings.LastIndex(full, "."); idx >= 0 {
		full = full[idx+1:]
	}
	if full == "" || strings.Contains(full, "func") {
		return "anonymous"
	}
	return full
}

// Name returns the node's stable identifier.
func (n *Node) Name() string { return n.name }

// On registers that outcome label routes to target. target may be a *Node,
// a *Flow (its start node is used), or a bare NodeFunc (auto-wrapped via
// NodeFromFunc). Re-registering the same label replaces the prior edge.
func (n *Node) On(label string, target any) *Node {
	t := asNode(target)
	n.mu.Lock()
	n.outcomes[label] = t
	n.mu.Unlock()
	return n
}

// Next registers target as the default ("default") outcome.
func (n *Node) Next(target any) *Node {
	return n.On(DefaultLabel, target)
}

// successor returns the node registered for label, or the default edge if
// label has no edge of its own.
func (n *Node) successor(label string) (*Node, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if t, ok := n.outcomes[label]; ok {
		return t, true
	}
	if t, ok := n.outcomes[DefaultLabel]; ok {
		return t, true
	}
	return nil, false
}

// SetCatch attaches handler to n directly, the node-scoped equivalent of
// Flow.Catch — used by the tool package's combinators, which build bare
// Nodes outside of a Flow builder chain.
func (n *Node) SetCatch(handler CatchHandler) *Node {
	n.catch = handler
	return n
}

// SetMaxRuns sets the per-run invocation cap. n must be positive; a
// non-positive value is a programmer error and panics immediately, the same
// way a misuse of a fixed-size channel or slice capacity would.
func (n *Node) SetMaxRuns(maxRuns int) *Node {
	if maxRuns <= 0 {
		panic("flow: SetMaxRuns requires a positive value")
	}
	atomic.StoreInt64(&n.maxRuns, int64(maxRuns))
	return n
}

// resetRunCount zeroes the invocation counter; called by the scheduler at
// the start of every Flow.Run, so runCount resets per run.
func (n *Node) resetRunCount() {
	atomic.StoreInt64(&n.runCount, 0)
}

// Run invokes fn(state), incrementing runCount, and returns the result
// unmerged — merging state belongs to the Scheduler, not the Node.
func (n *Node) Run(ctx context.Context, state State) (Result, error) {
	maxRuns := atomic.LoadInt64(&n.maxRuns)
	if maxRuns > 0 {
		next := atomic.AddInt64(&n.runCount, 1)
		if next > maxRuns {
			return Result{}, ErrMaxRunsExceeded
		}
	} else {
		atomic.AddInt64(&n.runCount, 1)
	}
	return n.fn(ctx, state)
}

// asNode normalizes a builder/edge target to a *Node: a *Node passes
// through, a *Flow contributes its start node, and a bare NodeFunc is
// wrapped via NodeFromFunc — every builder call ends up working with a
// single callable Node shape.
func asNode(target any) *Node {
	switch t := target.(type) {
	case *Node:
		return t
	case *Flow:
		return t.startNode
	case NodeFunc:
		return NodeFromFunc(t)
	case func(ctx context.Context, state State) (Result, error):
		return NodeFromFunc(NodeFunc(t))
	default:
		panic("flow: target must be a *Node, *Flow, or NodeFunc")
	}
}
