package graph

// CanConnect reports whether proposed may join current without breaking the
// single-outgoing-edge rule. Shared targets and cycles are accepted.
func CanConnect(proposed Edge, current []Edge) bool {
	for _, e := range current {
		if e.Source == proposed.Source {
			return false
		}
	}
	return true
}

// ConnectionPolicy gates edge creation.
// The zero value applies only the single-outgoing-edge rule.
type ConnectionPolicy struct {
	// RejectSelfLoops refuses edges whose source equals their target.
	RejectSelfLoops bool
}

// Check returns the reason proposed is refused, or nil when it may be added
func (p ConnectionPolicy) Check(proposed Edge, current []Edge) error {
	if err := proposed.Validate(); err != nil {
		return err
	}
	if p.RejectSelfLoops && proposed.IsSelfLoop() {
		return ErrSelfLoop
	}
	if !CanConnect(proposed, current) {
		return ErrSourceHasOutgoingEdge
	}
	return nil
}
