// Package graph provides edge definitions
package graph

import "fmt"

// Edge represents a directed connection between two nodes
// PRINCIPLES:
// - KISS: Simple edge representation
// - SRP: Only responsible for edge data
type Edge struct {
	ID     string `json:"id" msgpack:"id"`
	Source string `json:"source" msgpack:"source"` // Source node ID
	Target string `json:"target" msgpack:"target"` // Target node ID
}

// EdgeID derives the identifier of the edge from source to target.
// A source has at most one outgoing edge, so the id is unique among live edges.
func EdgeID(source, target string) string {
	return fmt.Sprintf("edge_%s-%s", source, target)
}

// NewEdge builds an edge with its derived identifier
func NewEdge(source, target string) Edge {
	return Edge{ID: EdgeID(source, target), Source: source, Target: target}
}

// Validate ensures edge integrity
// PRINCIPLES:
// - SRP: Single responsibility - validation only
// - KISS: Simple validation, <10 lines
func (e Edge) Validate() error {
	if e.Source == "" {
		return ErrInvalidSource
	}
	if e.Target == "" {
		return ErrInvalidTarget
	}
	return nil
}

// IsSelfLoop reports whether the edge starts and ends at the same node
func (e Edge) IsSelfLoop() bool {
	return e.Source == e.Target
}
