package graph

import (
	"fmt"
	"sync/atomic"
)

// IDAllocator issues node identifiers. Identifiers are never reused, even
// after the node they named has been removed.
type IDAllocator struct {
	last atomic.Uint64
}

// NewIDAllocator returns an allocator whose first identifier is node_1
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

// Next returns a fresh node id together with its ordinal
func (a *IDAllocator) Next() (string, uint64) {
	n := a.last.Add(1)
	return NodeID(n), n
}

// Skip advances the allocator so that ordinals up to n are never issued.
func (a *IDAllocator) Skip(n uint64) {
	for {
		cur := a.last.Load()
		if cur >= n || a.last.CompareAndSwap(cur, n) {
			return
		}
	}
}

// NodeID formats the identifier for an ordinal
func NodeID(ordinal uint64) string {
	return fmt.Sprintf("node_%d", ordinal)
}

// ParseNodeOrdinal extracts the ordinal from an id produced by NodeID
func ParseNodeOrdinal(id string) (uint64, bool) {
	var n uint64
	if _, err := fmt.Sscanf(id, "node_%d", &n); err != nil {
		return 0, false
	}
	if NodeID(n) != id {
		return 0, false
	}
	return n, true
}
