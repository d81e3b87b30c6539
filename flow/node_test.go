package flow

import (
	"context"
	"errors"
	"testing"
)

func echoNode(name string) *Node {
	return NewNode(name, func(_ context.Context, s State) (Result, error) {
		return Default(), nil
	})
}

func TestNewNode_ExplicitNameWinsOverFuncName(t *testing.T) {
	n := NewNode("custom", func(ctx context.Context, s State) (Result, error) {
		return Default(), nil
	})
	if n.Name() != "custom" {
		t.Errorf("Name() = %q, want %q", n.Name(), "custom")
	}
}

func someNamedNode(ctx context.Context, s State) (Result, error) {
	return Default(), nil
}

func TestNodeFromFunc_RecoversDeclaredName(t *testing.T) {
	n := NodeFromFunc(someNamedNode)
	if n.Name() != "someNamedNode" {
		t.Errorf("Name() = %q, want %q", n.Name(), "someNamedNode")
	}
}

func TestNodeFromFunc_ClosureFallsBackToAnonymous(t *testing.T) {
	n := NodeFromFunc(func(ctx context.Context, s State) (Result, error) {
		return Default(), nil
	})
	if n.Name() != "anonymous" {
		t.Errorf("Name() = %q, want %q", n.Name(), "anonymous")
	}
}

func TestNode_OnAndSuccessor(t *testing.T) {
	a := echoNode("a")
	b := echoNode("b")
	c := echoNode("c")

	a.On("ok", b)
	a.Next(c)

	if s, _ := a.successor("ok"); s != b {
		t.Errorf("successor(ok) = %v, want b", s)
	}
	if s, _ := a.successor(DefaultLabel); s != c {
		t.Errorf("successor(default) = %v, want c", s)
	}
	// Unregistered label falls back to default.
	if s, ok := a.successor("missing"); !ok || s != c {
		t.Errorf("successor(missing) = %v,%v, want c,true", s, ok)
	}
}

func TestNode_SetMaxRuns_PanicsOnNonPositive(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for non-positive maxRuns")
		}
	}()
	echoNode("a").SetMaxRuns(0)
}

func TestNode_Run_EnforcesMaxRuns(t *testing.T) {
	n := echoNode("a").SetMaxRuns(2)
	ctx := context.Background()

	if _, err := n.Run(ctx, State{}); err != nil {
		t.Fatalf("run 1: unexpected error %v", err)
	}
	if _, err := n.Run(ctx, State{}); err != nil {
		t.Fatalf("run 2: unexpected error %v", err)
	}
	if _, err := n.Run(ctx, State{}); !errors.Is(err, ErrMaxRunsExceeded) {
		t.Fatalf("run 3: err = %v, want ErrMaxRunsExceeded", err)
	}
}

func TestNode_ResetRunCount(t *testing.T) {
	n := echoNode("a").SetMaxRuns(1)
	ctx := context.Background()

	if _, err := n.Run(ctx, State{}); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	n.resetRunCount()
	if _, err := n.Run(ctx, State{}); err != nil {
		t.Fatalf("after reset: unexpected error %v", err)
	}
}

func TestAsNode_PanicsOnUnsupportedType(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unsupported target type")
		}
	}()
	asNode(42)
}

func TestResult_Constructors(t *testing.T) {
	if got := Default().outcomeLabel(); got != DefaultLabel {
		t.Errorf("Default().outcomeLabel() = %q, want %q", got, DefaultLabel)
	}
	if got := Label("x").outcomeLabel(); got != "x" {
		t.Errorf("Label(x).outcomeLabel() = %q, want x", got)
	}
	m := Merge(State{"a": 1})
	if m.Delta["a"] != 1 {
		t.Errorf("Merge delta = %v", m.Delta)
	}
	g := Goto("seg")
	if seg, ok := g.Delta.gotoSegment(); !ok || seg != "seg" {
		t.Errorf("Goto delta = %v", g.Delta)
	}
}
