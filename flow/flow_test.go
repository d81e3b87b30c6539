package flow

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errTestBoom = errors.New("boom")

func TestFlow_Start_Empty(t *testing.T) {
	f := Start()
	if f.StartNode() != nil {
		t.Errorf("StartNode() = %v, want nil", f.StartNode())
	}
}

func TestFlow_NextBuildsChain(t *testing.T) {
	f := Start(func(ctx context.Context, s State) (Result, error) {
		return Merge(State{"step": 1}), nil
	}).Next(func(ctx context.Context, s State) (Result, error) {
		return Merge(State{"step": 2}), nil
	})

	state, err := f.Run(context.Background(), State{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state["step"] != 2 {
		t.Errorf("state[step] = %v, want 2", state["step"])
	}
}

func TestFlow_On_PanicsWithoutCursor(t *testing.T) {
	defer func() {
		if r := recover(); r != ErrNoCursor {
			t.Fatalf("recover() = %v, want ErrNoCursor", r)
		}
	}()
	Start().On("label", echoNode("x"))
}

func TestFlow_Branch(t *testing.T) {
	trueN := NewNode("true-branch", func(ctx context.Context, s State) (Result, error) {
		return Merge(State{"picked": "true"}), nil
	})
	falseN := NewNode("false-branch", func(ctx context.Context, s State) (Result, error) {
		return Merge(State{"picked": "false"}), nil
	})

	f := Start(func(ctx context.Context, s State) (Result, error) {
		return Default(), nil
	}).Branch(func(s State) bool {
		return s["flag"] == true
	}, trueN, falseN)

	state, err := f.Run(context.Background(), State{"flag": true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state["picked"] != "true" {
		t.Errorf("picked = %v, want true", state["picked"])
	}

	state, err = f.Run(context.Background(), State{"flag": false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state["picked"] != "false" {
		t.Errorf("picked = %v, want false", state["picked"])
	}
}

func TestFlow_Switch(t *testing.T) {
	a := NewNode("case-a", func(ctx context.Context, s State) (Result, error) {
		return Merge(State{"out": "a"}), nil
	})
	b := NewNode("case-b", func(ctx context.Context, s State) (Result, error) {
		return Merge(State{"out": "b"}), nil
	})
	def := NewNode("case-default", func(ctx context.Context, s State) (Result, error) {
		return Merge(State{"out": "default"}), nil
	})

	f := Start(func(ctx context.Context, s State) (Result, error) {
		return Default(), nil
	}).Switch("kind", map[string]any{"a": a, "b": b}, def)

	state, _ := f.Run(context.Background(), State{"kind": "b"})
	if state["out"] != "b" {
		t.Errorf("out = %v, want b", state["out"])
	}

	state, _ = f.Run(context.Background(), State{"kind": "nope"})
	if state["out"] != "default" {
		t.Errorf("out = %v, want default", state["out"])
	}
}

func TestFlow_All_PositionalResultsRegardlessOfCompletionOrder(t *testing.T) {
	slow := NewNode("slow", func(ctx context.Context, s State) (Result, error) {
		time.Sleep(20 * time.Millisecond)
		return Merge(State{"who": "slow"}), nil
	})
	fast := NewNode("fast", func(ctx context.Context, s State) (Result, error) {
		return Merge(State{"who": "fast"}), nil
	})

	f := Start(func(ctx context.Context, s State) (Result, error) {
		return Default(), nil
	}).All(slow, fast)

	state, err := f.Run(context.Background(), State{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	results := FanOutResults(state)
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0]["who"] != "slow" || results[1]["who"] != "fast" {
		t.Errorf("results = %+v, want positional [slow, fast]", results)
	}
}

func TestFlow_Catch_TrapsErrorAndResumes(t *testing.T) {
	failing := NewNode("failing", func(ctx context.Context, s State) (Result, error) {
		return Result{}, errTestBoom
	})
	f := Start(failing).Catch(func(err error, s State) State {
		return s.merge(State{"recovered": true})
	}).Next(func(ctx context.Context, s State) (Result, error) {
		return Merge(State{"final": true}), nil
	})

	state, err := f.Run(context.Background(), State{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state["recovered"] != true || state["final"] != true {
		t.Errorf("state = %+v", state)
	}
}

func TestFlow_SetMaxSteps_SoftBound(t *testing.T) {
	loop := NewNode("loop", func(ctx context.Context, s State) (Result, error) {
		return Default(), nil
	})
	loop.Next(loop)

	f := Start(loop).SetMaxSteps(3)
	state, err := f.Run(context.Background(), State{"seen": true})
	if err != nil {
		t.Fatalf("maxSteps should not produce an error, got %v", err)
	}
	if state["seen"] != true {
		t.Errorf("state lost across step cap: %+v", state)
	}
}

func TestFlow_ToolsRegistry(t *testing.T) {
	f := Start().Tools("a", "b")
	f.Tools("c")
	got := f.ToolRegistry()
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Errorf("ToolRegistry() = %v", got)
	}
}
