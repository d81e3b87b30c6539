package flow

import (
	"context"
	"testing"

	"github.com/flowkit-go/flowkit/flow/emit"
)

func TestRun_EmptyFlowReturnsClonedInitialState(t *testing.T) {
	f := Start()
	initial := State{"a": 1}
	state, err := f.Run(context.Background(), initial)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	state["a"] = 2
	if initial["a"] != 1 {
		t.Errorf("Run must return a clone, mutating the caller's initial state")
	}
}

func TestRun_ShallowMergePreservesUntouchedKeys(t *testing.T) {
	f := Start(func(ctx context.Context, s State) (Result, error) {
		return Merge(State{"b": 2}), nil
	})
	state, err := f.Run(context.Background(), State{"a": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state["a"] != 1 || state["b"] != 2 {
		t.Errorf("state = %+v, want a=1 b=2", state)
	}
}

func TestRun_UnhandledErrorWrapsNodeName(t *testing.T) {
	f := Start(func(ctx context.Context, s State) (Result, error) {
		return Result{}, errTestBoom
	}).Next(func(ctx context.Context, s State) (Result, error) {
		return Default(), nil
	})
	f.StartNode()

	_, err := f.Run(context.Background(), State{})
	nerr, ok := err.(*NodeError)
	if !ok {
		t.Fatalf("err = %v (%T), want *NodeError", err, err)
	}
	if nerr.Cause != errTestBoom {
		t.Errorf("Cause = %v, want errTestBoom", nerr.Cause)
	}
}

type countingEmitter struct {
	count int
}

func (c *countingEmitter) Emit(emit.Event)                                { c.count++ }
func (c *countingEmitter) EmitBatch(context.Context, []emit.Event) error   { return nil }
func (c *countingEmitter) Flush(context.Context) error                    { return nil }

func TestRun_EmitsOneHopEventPerTransition(t *testing.T) {
	counter := &countingEmitter{}
	f := Start(func(ctx context.Context, s State) (Result, error) {
		return Merge(State{"x": 1}), nil
	}).Next(func(ctx context.Context, s State) (Result, error) {
		return Default(), nil
	}).SetEmitter(counter)

	_, err := f.Run(context.Background(), State{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counter.count != 2 {
		t.Errorf("emitted %d hop events, want 2", counter.count)
	}
}

func TestRun_GotoResolvesAgainstRegistry(t *testing.T) {
	target := NewNode("target", func(ctx context.Context, s State) (Result, error) {
		return Merge(State{"arrived": true}), nil
	})
	DefaultRegistry().CreateSegment("test-jump-target", target)

	f := Start(func(ctx context.Context, s State) (Result, error) {
		return Goto("test-jump-target"), nil
	})

	state, err := f.Run(context.Background(), State{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state["arrived"] != true {
		t.Errorf("state = %+v, want arrived=true", state)
	}
	if _, ok := state[GotoKey]; ok {
		t.Errorf("goto key should be stripped from state after resolution")
	}
}

func TestRun_GotoUnknownSegmentErrors(t *testing.T) {
	f := Start(func(ctx context.Context, s State) (Result, error) {
		return Goto("does-not-exist"), nil
	})
	_, err := f.Run(context.Background(), State{})
	if err != ErrUnknownSegment {
		t.Errorf("err = %v, want ErrUnknownSegment", err)
	}
}

func TestRun_ResetsPerNodeRunCountAcrossRuns(t *testing.T) {
	n := NewNode("capped", func(ctx context.Context, s State) (Result, error) {
		return Default(), nil
	}).SetMaxRuns(1)
	f := Start(n)

	if _, err := f.Run(context.Background(), State{}); err != nil {
		t.Fatalf("first run: unexpected error %v", err)
	}
	if _, err := f.Run(context.Background(), State{}); err != nil {
		t.Fatalf("second run: expected runCount reset, got error %v", err)
	}
}
