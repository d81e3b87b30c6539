package flow

// State is the open record threaded through a flow's execution: a mapping
// from string keys to arbitrary values with no fixed schema.
//
// State is passed by value at every component boundary. A node that returns
// a partial record never mutates the state it received — the scheduler
// merges the partial record over a fresh copy of the incoming state (see
// merge), so the caller's fields survive unless a key collides, in
// which case the returned value wins.
type State map[string]any

// DefaultLabel is the reserved outcome label used for the unlabelled edge
// registered by Node.Next / Flow.Next.
const DefaultLabel = "default"

// GotoKey is the reserved state field a node sets to request a jump to a
// segment registered in the Registry.
const GotoKey = "_goto"

// clone returns a shallow copy of s. A nil State clones to an empty, non-nil
// State so downstream merges never have to special-case a nil map.
func (s State) clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// merge returns the shallow union of s and delta: every key in delta
// overwrites the same key in s, and every other key of s is preserved.
// Neither s nor delta is mutated.
func (s State) merge(delta State) State {
	out := s.clone()
	for k, v := range delta {
		out[k] = v
	}
	return out
}

// gotoSegment reports whether s carries a non-empty goto signal and, if so,
// returns the target segment name.
func (s State) gotoSegment() (string, bool) {
	v, ok := s[GotoKey]
	if !ok {
		return "", false
	}
	name, ok := v.(string)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// withoutGoto returns a copy of s with the goto key removed, so the segment
// it named is not re-resolved on the next hop.
func (s State) withoutGoto() State {
	out := s.clone()
	delete(out, GotoKey)
	return out
}
