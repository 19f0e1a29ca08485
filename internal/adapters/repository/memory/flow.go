// Package memory provides an in-memory flow repository
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/core/graph"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/pkg/validation"
)

// FlowRepository keeps saved flows in memory, keyed by flow ID
// PRINCIPLES:
// - KISS: Simple map-based storage
// - SRP: Only responsible for flow persistence
// - Thread-safe
type FlowRepository struct {
	mu    sync.RWMutex
	flows map[string]*graph.Flow
}

// NewFlowRepository creates an empty repository
func NewFlowRepository() *FlowRepository {
	return &FlowRepository{
		flows: make(map[string]*graph.Flow),
	}
}

// Save stores a copy of f, replacing any flow with the same ID
func (r *FlowRepository) Save(ctx context.Context, f *graph.Flow) error {
	if f == nil {
		return graph.ErrNilFlow
	}
	if f.ID == "" {
		return graph.ErrInvalidFlowID
	}
	// Structural check only: terminal rules belong to the editor
	if err := validation.ValidateSnapshot(f.Snapshot()); err != nil {
		return fmt.Errorf("invalid flow: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.flows[f.ID] = cloneFlow(f)
	return nil
}

// Get returns a copy of the flow with the given ID
func (r *FlowRepository) Get(ctx context.Context, id string) (*graph.Flow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.flows[id]
	if !ok {
		return nil, graph.ErrFlowNotFound
	}
	return cloneFlow(f), nil
}

// List returns copies of all flows ordered by ID
func (r *FlowRepository) List(ctx context.Context) ([]*graph.Flow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*graph.Flow, 0, len(r.flows))
	for _, f := range r.flows {
		out = append(out, cloneFlow(f))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Delete removes a flow
func (r *FlowRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.flows[id]; !ok {
		return graph.ErrFlowNotFound
	}
	delete(r.flows, id)
	return nil
}

func cloneFlow(f *graph.Flow) *graph.Flow {
	c := *f
	c.Nodes = append([]graph.Node(nil), f.Nodes...)
	c.Edges = append([]graph.Edge(nil), f.Edges...)
	return &c
}
