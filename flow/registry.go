package flow

import (
	"context"
	"sync"
)

// Registry is a process-wide mapping from segment name to a *Node or *Flow,
// enabling cross-flow jumps via a goto signal.
//
// Entries are added at module load and never evicted. Access is guarded by
// a RWMutex: writes take the exclusive lock, and every read takes the shared
// read lock, so reads do not block each other but are not lock-free.
type Registry struct {
	mu       sync.RWMutex
	segments map[string]any
}

// NewRegistry creates an empty Registry. Most programs share the package
// singleton returned by DefaultRegistry instead of creating their own.
func NewRegistry() *Registry {
	return &Registry{segments: make(map[string]any)}
}

// defaultRegistry backs the package-level FlowRegistry used by goto
// resolution and by user code that does not need isolation between
// independent registries.
var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide Registry singleton.
func DefaultRegistry() *Registry { return defaultRegistry }

// FlowRegistry is the package-wide registry singleton most programs embed
// against directly (CreateSegment/Execute on one shared instance).
var FlowRegistry = defaultRegistry

// CreateSegment registers target (a *Node or *Flow) under name. Idempotent:
// re-registering the same name replaces the prior entry (last registration
// wins).
func (r *Registry) CreateSegment(name string, target any) {
	switch target.(type) {
	case *Node, *Flow:
	default:
		panic("flow: CreateSegment target must be a *Node or *Flow")
	}
	r.mu.Lock()
	r.segments[name] = target
	r.mu.Unlock()
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.segments[name]
	return ok
}

// List returns the registered segment names in no particular order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.segments))
	for name := range r.segments {
		names = append(names, name)
	}
	return names
}

// resolveNode looks up name and normalizes it to the *Node execution should
// continue at: the entry itself if it's a *Node, or its start node if it's
// a *Flow.
func (r *Registry) resolveNode(name string) (*Node, error) {
	r.mu.RLock()
	entry, ok := r.segments[name]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownSegment
	}
	switch t := entry.(type) {
	case *Node:
		return t, nil
	case *Flow:
		return t.startNode, nil
	default:
		return nil, ErrInvalidSegment
	}
}

// Execute looks up name and runs it with the Scheduler, starting from
// initial state. A bare *Node entry behaves exactly like a throwaway *Flow
// built around it and Run, so callers can register either a *Node or a
// *Flow under the same name without changing how Execute is called.
func (r *Registry) Execute(ctx context.Context, name string, initial State) (State, error) {
	r.mu.RLock()
	entry, ok := r.segments[name]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownSegment
	}

	switch t := entry.(type) {
	case *Flow:
		return t.Run(ctx, initial)
	case *Node:
		f := &Flow{startNode: t, lastNode: t, maxSteps: defaultMaxSteps}
		return f.Run(ctx, initial)
	default:
		return nil, ErrInvalidSegment
	}
}
