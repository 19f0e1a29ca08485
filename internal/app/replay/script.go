// Package replay drives an editor session from a scripted list of boundary
// events, for reproducing editor behavior outside a browser.
package replay

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/core/graph"
)

// EventName identifies a scripted boundary event
type EventName string

const (
	EventDrop       EventName = "drop"
	EventMove       EventName = "move"
	EventConnect    EventName = "connect"
	EventClick      EventName = "click"
	EventCanvas     EventName = "canvas"
	EventBack       EventName = "back"
	EventEdit       EventName = "edit"
	EventRemoveNode EventName = "remove_node"
	EventRemoveEdge EventName = "remove_edge"
	EventSave       EventName = "save"
)

var (
	ErrUnknownEvent = errors.New("unknown event")
	ErrMissingField = errors.New("missing field")
)

// Step is one scripted event. Only the fields used by Event are read.
type Step struct {
	Event    EventName      `yaml:"event"`
	Kind     graph.NodeKind `yaml:"kind,omitempty"`
	Node     string         `yaml:"node,omitempty"`
	Edge     string         `yaml:"edge,omitempty"`
	Source   string         `yaml:"source,omitempty"`
	Target   string         `yaml:"target,omitempty"`
	Text     *string        `yaml:"text,omitempty"`
	Position graph.Position `yaml:"position,omitempty"`
}

// check reports missing fields for the step's event
func (s Step) check() error {
	switch s.Event {
	case EventDrop, EventCanvas, EventBack, EventSave:
		return nil
	case EventMove, EventClick, EventRemoveNode:
		if s.Node == "" {
			return fmt.Errorf("%w: node", ErrMissingField)
		}
	case EventEdit:
		if s.Node == "" {
			return fmt.Errorf("%w: node", ErrMissingField)
		}
		if s.Text == nil {
			return fmt.Errorf("%w: text", ErrMissingField)
		}
	case EventConnect:
		if s.Source == "" || s.Target == "" {
			return fmt.Errorf("%w: source and target", ErrMissingField)
		}
	case EventRemoveEdge:
		if s.Edge == "" {
			return fmt.Errorf("%w: edge", ErrMissingField)
		}
	default:
		return fmt.Errorf("%w %q", ErrUnknownEvent, s.Event)
	}
	return nil
}

// Decode reads a YAML list of steps
func Decode(r io.Reader) ([]Step, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var steps []Step
	if err := dec.Decode(&steps); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode script: %w", err)
	}

	for i, s := range steps {
		if err := s.check(); err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
	}
	return steps, nil
}

// LoadFile reads a script from path
func LoadFile(path string) ([]Step, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(data))
}
