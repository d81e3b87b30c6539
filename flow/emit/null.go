package emit

import "context"

// NullEmitter discards every event. It is the Flow default when Debug is
// off and no emitter has been set explicitly.
type NullEmitter struct{}

// Emit is a no-op.
func (NullEmitter) Emit(Event) {}

// EmitBatch is a no-op.
func (NullEmitter) EmitBatch(context.Context, []Event) error { return nil }

// Flush is a no-op.
func (NullEmitter) Flush(context.Context) error { return nil }
