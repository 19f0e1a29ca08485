// Package graph defines domain-specific errors
package graph

import "errors"

// Domain errors - DRY principle: defined once, used everywhere
var (
	// Node errors
	ErrUnknownNodeKind = errors.New("unknown node kind")
	ErrInvalidNodeID   = errors.New("invalid node ID")
	ErrNodeNotFound    = errors.New("node not found")

	// Edge errors
	ErrEdgeNotFound          = errors.New("edge not found")
	ErrInvalidSource         = errors.New("invalid source node")
	ErrInvalidTarget         = errors.New("invalid target node")
	ErrSourceNodeNotFound    = errors.New("source node not found")
	ErrTargetNodeNotFound    = errors.New("target node not found")
	ErrSourceHasOutgoingEdge = errors.New("each node can only have one outgoing connection")
	ErrSelfLoop              = errors.New("self-loops are not allowed")

	// Flow errors
	ErrDuplicateNode = errors.New("duplicate node ID")
	ErrInvalidFlowID = errors.New("invalid flow ID")
	ErrFlowNotFound  = errors.New("flow not found")
	ErrNilFlow       = errors.New("flow is nil")
)

// RejectionReason returns the user-facing text for a rejected connection.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrSourceHasOutgoingEdge):
		return "Each node can only have one outgoing connection"
	case errors.Is(err, ErrSelfLoop):
		return "A node cannot connect to itself"
	case errors.Is(err, ErrSourceNodeNotFound), errors.Is(err, ErrInvalidSource):
		return "Source node does not exist"
	case errors.Is(err, ErrTargetNodeNotFound), errors.Is(err, ErrInvalidTarget):
		return "Target node does not exist"
	default:
		return "Connection rejected"
	}
}
