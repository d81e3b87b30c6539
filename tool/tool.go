// Package tool defines the minimal shape a tool must present to be callable
// from a Flow, plus the chainable combinators (then, catch, branch, switch)
// that mirror the Flow builder's own at tool scope, the MapReduce node
// factory, and RegisterTool for turning a bare function into a Tool.
package tool

import (
	"context"
	"fmt"
	"os"

	"github.com/flowkit-go/flowkit/flow"
)

// Tool is the contract every adapter in this module implements: a stable
// Name plus a unary, context-aware Call.
//
// Implementations should validate their own input, respect ctx cancellation,
// and return a descriptive error rather than panicking.
type Tool interface {
	// Name returns the tool's unique identifier.
	Name() string

	// Call executes the tool against input and returns its structured
	// output, or an error.
	Call(ctx context.Context, input map[string]any) (map[string]any, error)
}

// FuncTool adapts a bare function plus a name into a Tool, the way
// RegisterTool and WithExecute build ad-hoc tools without a dedicated type.
type FuncTool struct {
	ToolName string
	Fn       func(ctx context.Context, input map[string]any) (map[string]any, error)
}

// Name implements Tool.
func (f *FuncTool) Name() string { return f.ToolName }

// Call implements Tool.
func (f *FuncTool) Call(ctx context.Context, input map[string]any) (map[string]any, error) {
	return f.Fn(ctx, input)
}

// APITool marks a tool whose Call performs an outbound network request. The
// core does not treat it differently from any other Tool; the marker exists
// so embedding code can type-switch on intent.
type APITool struct {
	Tool
}

// LLMTool marks a tool whose Call invokes a language model. Same role as
// APITool.
type LLMTool struct {
	Tool
}

// RegisterTool attaches name to fn, returning a Tool that wraps it
// unchanged — the callable's behavior is not altered, only annotated with a
// name so it satisfies the Tool contract.
func RegisterTool(name string, fn func(ctx context.Context, input map[string]any) (map[string]any, error)) Tool {
	return &FuncTool{ToolName: name, Fn: fn}
}

// WithExecute returns a Tool with t's name but fn as its Call body, letting
// callers build ad-hoc variants without subclassing.
func WithExecute(t Tool, fn func(ctx context.Context, input map[string]any) (map[string]any, error)) Tool {
	return &FuncTool{ToolName: t.Name(), Fn: fn}
}

// WithApiKey wraps t so its first Call asserts envVar is set, returning a
// descriptive error instead of calling through when it is missing.
func WithApiKey(t Tool, envVar string) Tool {
	return &FuncTool{
		ToolName: t.Name(),
		Fn: func(ctx context.Context, input map[string]any) (map[string]any, error) {
			if os.Getenv(envVar) == "" {
				return nil, fmt.Errorf("tool %s: required environment variable %s is not set", t.Name(), envVar)
			}
			return t.Call(ctx, input)
		},
	}
}

// toolInput builds the map a Tool.Call expects from the flow State the node
// it's wrapped in receives. Call converts its own output back with
// toolOutput.
func toolInput(state flow.State) map[string]any {
	return map[string]any(state)
}

func toolOutput(output map[string]any) flow.State {
	return flow.State(output)
}

// Then returns a Node whose body calls t, merges its output into state, and
// then hands that merged state to next (a *flow.Node, *flow.Flow, or
// flow.NodeFunc) by wiring next as the node's default successor.
func Then(t Tool, next any) *flow.Node {
	n := flow.NewNode(t.Name(), func(ctx context.Context, state flow.State) (flow.Result, error) {
		out, err := t.Call(ctx, toolInput(state))
		if err != nil {
			return flow.Result{}, err
		}
		return flow.Merge(toolOutput(out)), nil
	})
	n.Next(next)
	return n
}

// CatchHandler receives the error t.Call raised and the state at the time of
// failure, and returns the state execution resumes with.
type CatchHandler func(err error, state flow.State) flow.State

// Catch returns a Node wrapping t whose failures are trapped by handler
// instead of propagating — equivalent to Flow.Catch applied to a single
// tool-backed node.
func Catch(t Tool, handler CatchHandler) *flow.Node {
	n := flow.NewNode(t.Name(), func(ctx context.Context, state flow.State) (flow.Result, error) {
		out, err := t.Call(ctx, toolInput(state))
		if err != nil {
			return flow.Result{}, err
		}
		return flow.Merge(toolOutput(out)), nil
	})
	n.SetCatch(func(err error, state flow.State) flow.State {
		return handler(err, state)
	})
	return n
}

// Branch returns a Node that calls t, then evaluates predicate against t's
// merged output and forwards to ifNode or elseNode.
func Branch(t Tool, predicate func(flow.State) bool, ifNode, elseNode any) *flow.Node {
	n := flow.NewNode(t.Name(), func(ctx context.Context, state flow.State) (flow.Result, error) {
		out, err := t.Call(ctx, toolInput(state))
		if err != nil {
			return flow.Result{}, err
		}
		merged := make(flow.State, len(state)+len(out))
		for k, v := range state {
			merged[k] = v
		}
		for k, v := range toolOutput(out) {
			merged[k] = v
		}
		if predicate(merged) {
			return flow.LabelMerge("true", merged), nil
		}
		return flow.LabelMerge("false", merged), nil
	})
	n.On("true", ifNode)
	n.On("false", elseNode)
	return n
}

// Switch returns a Node that calls t, then selects a successor from
// cases[fmt.Sprint(mergedState[key])], falling back to defaultCase.
func Switch(t Tool, key string, cases map[string]any, defaultCase any) *flow.Node {
	n := flow.NewNode(t.Name(), func(ctx context.Context, state flow.State) (flow.Result, error) {
		out, err := t.Call(ctx, toolInput(state))
		if err != nil {
			return flow.Result{}, err
		}
		merged := make(flow.State, len(state)+len(out))
		for k, v := range state {
			merged[k] = v
		}
		for k, v := range toolOutput(out) {
			merged[k] = v
		}
		label := fmt.Sprint(merged[key])
		return flow.LabelMerge(label, merged), nil
	})
	for label, target := range cases {
		n.On(label, target)
	}
	if defaultCase != nil {
		n.On(flow.DefaultLabel, defaultCase)
	}
	return n
}
