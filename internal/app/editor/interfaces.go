package editor

import (
	"context"

	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/core/graph"
)

// FlowSink receives a flow once it has passed save validation
// PRINCIPLES:
// - SRP: Only responsible for flow persistence
// - DIP: Used for dependency injection
type FlowSink interface {
	Save(ctx context.Context, f *graph.Flow) error
}

// FlowRepository is a FlowSink that can also read flows back
type FlowRepository interface {
	FlowSink
	Get(ctx context.Context, id string) (*graph.Flow, error)
	List(ctx context.Context) ([]*graph.Flow, error)
}

// Listener receives the outbound notifications of a session.
// Calls happen synchronously on the goroutine that dispatched the event.
type Listener interface {
	ConnectionRejected(reason string)
	SaveResult(valid bool, message string)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	OnConnectionRejected func(reason string)
	OnSaveResult         func(valid bool, message string)
}

func (l ListenerFuncs) ConnectionRejected(reason string) {
	if l.OnConnectionRejected != nil {
		l.OnConnectionRejected(reason)
	}
}

func (l ListenerFuncs) SaveResult(valid bool, message string) {
	if l.OnSaveResult != nil {
		l.OnSaveResult(valid, message)
	}
}
