// Package emit provides event emission and observability for flow execution.
package emit

// Event is the structured record the Scheduler emits once per hop when a
// Flow's debug mode is on: step, fromNode (NodeID here), label and toNode
// (carried in Meta), and the keys the hop's delta touched.
//
// Event carries a couple of extra fields beyond that minimal per-hop record
// so the same type can also serve tool adapters that want to report their
// own internal steps through the same Emitter a Flow is wired to.
type Event struct {
	// RunID identifies the flow execution that emitted this event.
	RunID string

	// Step is the sequential hop number (0-indexed).
	Step int

	// NodeID identifies which node emitted this event.
	NodeID string

	// Msg is a short, human-readable description of the event ("hop",
	// "error", ...).
	Msg string

	// Meta carries the rest of the per-hop record: "label", "to_node", and
	// "state_keys_changed", plus whatever else a tool adapter wants to
	// report.
	Meta map[string]any
}
