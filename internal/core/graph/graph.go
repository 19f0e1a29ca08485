// Package graph provides the core flow domain entities: message nodes, the
// directed edges between them, and the store that applies editor mutations.
// It has no dependencies outside the standard library.
package graph

import (
	"time"
)

// Snapshot is a read-only copy of the nodes and edges of a flow
type Snapshot struct {
	Nodes []Node `json:"nodes" msgpack:"nodes"`
	Edges []Edge `json:"edges" msgpack:"edges"`
}

// Node returns the node with the given id
func (s Snapshot) Node(id string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// OutgoingEdge returns the edge leaving the given node, if any
func (s Snapshot) OutgoingEdge(nodeID string) (Edge, bool) {
	for _, e := range s.Edges {
		if e.Source == nodeID {
			return e, true
		}
	}
	return Edge{}, false
}

// Flow is a snapshot handed to the persistence collaborator after a successful save
// PRINCIPLES:
// - KISS: Simple struct, no complex hierarchies
// - SRP: Only responsible for flow structure, not validation
type Flow struct {
	ID      string    `json:"id" msgpack:"id"`
	Nodes   []Node    `json:"nodes" msgpack:"nodes"`
	Edges   []Edge    `json:"edges" msgpack:"edges"`
	SavedAt time.Time `json:"saved_at" msgpack:"saved_at"`
}

// NewFlow wraps a snapshot for persistence
func NewFlow(id string, s Snapshot, savedAt time.Time) *Flow {
	return &Flow{ID: id, Nodes: s.Nodes, Edges: s.Edges, SavedAt: savedAt}
}

// Snapshot returns the nodes and edges of the flow
func (f *Flow) Snapshot() Snapshot {
	return Snapshot{Nodes: f.Nodes, Edges: f.Edges}
}
