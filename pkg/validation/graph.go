package validation

import (
	"errors"
	"fmt"

	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/core/graph"
)

// Messages reported to the user by ValidateFlow
const (
	MsgFlowSaved         = "Flow saved successfully!"
	MsgEmptyFlow         = "Cannot save empty flow"
	MsgMultipleTerminals = "Cannot save Flow. More than one node has empty target handles."
	MsgCyclicFlow        = "Cannot save Flow. The flow contains a cycle."
)

var (
	ErrEmptyFlow         = errors.New("flow has no nodes")
	ErrMultipleTerminals = errors.New("more than one node has no outgoing edge")
	ErrCyclicFlow        = errors.New("cyclic flow detected")
)

// Result is the outcome of a save-time check
type Result struct {
	Valid     bool     `json:"valid"`
	Message   string   `json:"message"`
	Terminals []string `json:"terminals,omitempty"` // nodes without an outgoing edge
	Err       error    `json:"-"`
}

// GraphValidationOptions controls optional validation checks.
type GraphValidationOptions struct {
	// CheckCycles enables detection of directed cycles.
	CheckCycles bool
	// RejectSelfLoops reports edges whose source equals their target.
	RejectSelfLoops bool
}

func options(opts []GraphValidationOptions) GraphValidationOptions {
	if len(opts) > 0 {
		return opts[0]
	}
	return GraphValidationOptions{}
}

// ValidateFlow decides whether a flow may be saved.
// A flow with one node is always valid. Otherwise at most one node may lack an
// outgoing edge. Reachability and connectivity are not checked.
func ValidateFlow(nodes []graph.Node, edges []graph.Edge, opts ...GraphValidationOptions) Result {
	if len(nodes) == 0 {
		return Result{Message: MsgEmptyFlow, Err: ErrEmptyFlow}
	}
	if len(nodes) == 1 {
		return Result{Valid: true, Message: MsgFlowSaved, Terminals: []string{nodes[0].ID}}
	}

	terminals := TerminalNodes(nodes, edges)
	if len(terminals) > 1 {
		return Result{Message: MsgMultipleTerminals, Terminals: terminals, Err: ErrMultipleTerminals}
	}

	if options(opts).CheckCycles && hasCycle(nodes, edges) {
		return Result{Message: MsgCyclicFlow, Terminals: terminals, Err: ErrCyclicFlow}
	}

	return Result{Valid: true, Message: MsgFlowSaved, Terminals: terminals}
}

// TerminalNodes returns the ids of nodes that are the source of no edge
func TerminalNodes(nodes []graph.Node, edges []graph.Edge) []string {
	hasOutgoing := make(map[string]bool, len(edges))
	for _, e := range edges {
		hasOutgoing[e.Source] = true
	}
	var out []string
	for _, n := range nodes {
		if !hasOutgoing[n.ID] {
			out = append(out, n.ID)
		}
	}
	return out
}

// ValidateSnapshot performs structural validation on a flow snapshot.
// It is intended for flows loaded from external sources where the store's
// guards (AddNode/AddEdge) may have been bypassed. All problems are reported.
func ValidateSnapshot(s graph.Snapshot, opts ...GraphValidationOptions) error {
	cfg := options(opts)
	var errs ValidationErrors

	ids := make(map[string]bool, len(s.Nodes))
	for i, n := range s.Nodes {
		field := fmt.Sprintf("nodes[%d]", i)
		switch {
		case n.ID == "":
			errs = append(errs, ValidationError{Field: field + ".id", Value: n.ID, Message: "node ID is required"})
		case ids[n.ID]:
			errs = append(errs, ValidationError{Field: field + ".id", Value: n.ID, Message: "duplicate node ID"})
		default:
			ids[n.ID] = true
		}
		if !graph.IsKnownKind(n.Kind) {
			errs = append(errs, ValidationError{Field: field + ".kind", Value: n.Kind, Message: "unknown node kind"})
		}
	}

	// Track sources to detect a second outgoing edge
	sources := make(map[string]bool, len(s.Edges))
	for i, e := range s.Edges {
		field := fmt.Sprintf("edges[%d]", i)
		if !ids[e.Source] {
			errs = append(errs, ValidationError{Field: field + ".source", Value: e.Source, Message: "source node does not exist"})
		}
		if !ids[e.Target] {
			errs = append(errs, ValidationError{Field: field + ".target", Value: e.Target, Message: "target node does not exist"})
		}
		if sources[e.Source] {
			errs = append(errs, ValidationError{Field: field + ".source", Value: e.Source, Message: "node already has an outgoing edge"})
		}
		sources[e.Source] = true
		if cfg.RejectSelfLoops && e.IsSelfLoop() {
			errs = append(errs, ValidationError{Field: field, Value: e.ID, Message: "self-loops are not allowed"})
		}
	}

	if cfg.CheckCycles && hasCycle(s.Nodes, s.Edges) {
		errs = append(errs, ValidationError{Field: "edges", Value: len(s.Edges), Message: ErrCyclicFlow.Error()})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// hasCycle detects any cycle in a directed graph using DFS with coloring.
func hasCycle(nodes []graph.Node, edges []graph.Edge) bool {
	const (
		white = 0 // unvisited
		gray  = 1 // visiting
		black = 2 // visited
	)
	color := make(map[string]int, len(nodes))
	adj := make(map[string][]string, len(nodes))
	for _, e := range edges {
		adj[e.Source] = append(adj[e.Source], e.Target)
	}
	var dfs func(string) bool
	dfs = func(u string) bool {
		color[u] = gray
		for _, v := range adj[u] {
			if color[v] == gray {
				return true // back-edge
			}
			if color[v] == white {
				if dfs(v) {
					return true
				}
			}
		}
		color[u] = black
		return false
	}
	for _, n := range nodes {
		if color[n.ID] == white {
			if dfs(n.ID) {
				return true
			}
		}
	}
	return false
}
