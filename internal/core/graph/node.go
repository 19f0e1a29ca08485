// Package graph provides node definitions
package graph

import (
	"fmt"
	"sync"
)

// NodeKind identifies the behavior of a node on the canvas
type NodeKind string

const (
	// KindMessage represents a node that sends a single text message
	KindMessage NodeKind = "message"
)

// Position is a canvas coordinate. The rendering layer owns it; the flow only stores it.
type Position struct {
	X float64 `json:"x" msgpack:"x" yaml:"x"`
	Y float64 `json:"y" msgpack:"y" yaml:"y"`
}

// Payload holds the variant-specific data of a node.
// Message nodes only use Text.
type Payload struct {
	Text string `json:"text" msgpack:"text" yaml:"text"`
}

// Node represents a vertex in the flow
// PRINCIPLES:
// - KISS: Simple node representation
// - SRP: Only responsible for node data
type Node struct {
	ID       string   `json:"id" msgpack:"id"`
	Kind     NodeKind `json:"kind" msgpack:"kind"`
	Position Position `json:"position" msgpack:"position"`
	Payload  Payload  `json:"payload" msgpack:"payload"`
}

// PayloadFactory builds the default payload for the n-th node created in a flow
type PayloadFactory func(ordinal uint64) Payload

var (
	kindsMu sync.RWMutex
	kinds   = map[NodeKind]PayloadFactory{
		KindMessage: func(ordinal uint64) Payload {
			return Payload{Text: fmt.Sprintf("Message %d", ordinal)}
		},
	}
)

// RegisterKind makes a node kind available to the palette.
// Registering an existing kind replaces its default payload.
func RegisterKind(kind NodeKind, factory PayloadFactory) {
	kindsMu.Lock()
	defer kindsMu.Unlock()
	kinds[kind] = factory
}

// IsKnownKind reports whether kind has been registered
func IsKnownKind(kind NodeKind) bool {
	_, ok := lookupKind(kind)
	return ok
}

// Kinds returns the registered node kinds
func Kinds() []NodeKind {
	kindsMu.RLock()
	defer kindsMu.RUnlock()
	out := make([]NodeKind, 0, len(kinds))
	for k := range kinds {
		out = append(out, k)
	}
	return out
}

func lookupKind(kind NodeKind) (PayloadFactory, bool) {
	kindsMu.RLock()
	defer kindsMu.RUnlock()
	f, ok := kinds[kind]
	return f, ok
}
