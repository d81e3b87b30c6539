package emit

import "context"

// Emitter receives observability events from flow execution.
//
// Implementations should be non-blocking and thread-safe: Emit may be
// called concurrently from goroutines launched by Flow.All's fan-out.
type Emitter interface {
	// Emit sends a single event to the configured backend. Emit should
	// never panic; backend errors should be swallowed or logged
	// internally rather than propagated to the caller.
	Emit(event Event)

	// EmitBatch sends multiple events in one operation, preserving order.
	EmitBatch(ctx context.Context, events []Event) error

	// Flush blocks until all buffered events have been sent, or ctx is
	// cancelled. Safe to call more than once.
	Flush(ctx context.Context) error
}
