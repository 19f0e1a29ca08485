// Package dto holds the request and response bodies of the HTTP host
package dto

import (
	"time"

	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/core/graph"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/core/notice"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/core/selection"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/pkg/validation"
)

// DropNodeRequest asks for a new node of Kind at Position
type DropNodeRequest struct {
	Kind     graph.NodeKind `json:"kind" validate:"required,node_kind"`
	Position graph.Position `json:"position"`
}

// MoveNodeRequest reports the position of a node after a drag
type MoveNodeRequest struct {
	Position graph.Position `json:"position"`
}

// EditTextRequest replaces the text of a message node. An empty text is allowed.
type EditTextRequest struct {
	Text *string `json:"text" validate:"required,max=4096"`
}

// ConnectRequest asks for an edge from Source to Target
type ConnectRequest struct {
	Source string `json:"source" validate:"required,node_id"`
	Target string `json:"target" validate:"required,node_id"`
}

// LoadFlowRequest replaces the session's flow with a saved one
type LoadFlowRequest struct {
	FlowID string `json:"flow_id" validate:"required,max=100"`
}

// SessionResponse is returned when a session is created
type SessionResponse struct {
	SessionID string `json:"session_id"`
}

// GraphResponse is the render view of a session
type GraphResponse struct {
	SessionID string          `json:"session_id"`
	Nodes     []graph.Node    `json:"nodes"`
	Edges     []graph.Edge    `json:"edges"`
	Selection selection.State `json:"selection"`
}

// NewGraphResponse builds a GraphResponse. Nil slices are rendered as empty lists.
func NewGraphResponse(sessionID string, snap graph.Snapshot, sel selection.State) GraphResponse {
	resp := GraphResponse{SessionID: sessionID, Nodes: snap.Nodes, Edges: snap.Edges, Selection: sel}
	if resp.Nodes == nil {
		resp.Nodes = []graph.Node{}
	}
	if resp.Edges == nil {
		resp.Edges = []graph.Edge{}
	}
	return resp
}

// SelectionResponse is the settings panel state. Node is set in EDIT mode.
type SelectionResponse struct {
	selection.State
	Node *graph.Node `json:"node,omitempty"`
}

// ConnectionRejectedResponse carries the user-facing reason of a rejected connection
type ConnectionRejectedResponse struct {
	Rejected bool   `json:"rejected"`
	Reason   string `json:"reason"`
}

// SaveResponse reports the outcome of a save request
type SaveResponse struct {
	Valid     bool     `json:"valid"`
	Message   string   `json:"message"`
	Terminals []string `json:"terminals,omitempty"`
}

// NewSaveResponse converts a validation result
func NewSaveResponse(res validation.Result) SaveResponse {
	return SaveResponse{Valid: res.Valid, Message: res.Message, Terminals: res.Terminals}
}

// NoticeResponse is the notice visible now. Visible is false when none is shown.
type NoticeResponse struct {
	Visible   bool         `json:"visible"`
	Level     notice.Level `json:"level,omitempty"`
	Message   string       `json:"message,omitempty"`
	ExpiresAt *time.Time   `json:"expires_at,omitempty"`
}

// NewNoticeResponse converts the current notice of a session
func NewNoticeResponse(n notice.Notice, ok bool) NoticeResponse {
	if !ok {
		return NoticeResponse{}
	}
	exp := n.ExpiresAt
	return NoticeResponse{Visible: true, Level: n.Level, Message: n.Message, ExpiresAt: &exp}
}

// FlowSummary describes a saved flow in listings
type FlowSummary struct {
	ID        string    `json:"id"`
	NodeCount int       `json:"node_count"`
	EdgeCount int       `json:"edge_count"`
	SavedAt   time.Time `json:"saved_at"`
}

// NewFlowSummary summarizes a saved flow
func NewFlowSummary(f *graph.Flow) FlowSummary {
	return FlowSummary{ID: f.ID, NodeCount: len(f.Nodes), EdgeCount: len(f.Edges), SavedAt: f.SavedAt}
}
