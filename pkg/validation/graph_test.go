package validation

import (
	"errors"
	"testing"

	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/core/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func msgNode(id string) graph.Node {
	return graph.Node{ID: id, Kind: graph.KindMessage, Payload: graph.Payload{Text: id}}
}

func TestValidateFlow(t *testing.T) {
	a, b, c := msgNode("A"), msgNode("B"), msgNode("C")

	tests := []struct {
		name      string
		nodes     []graph.Node
		edges     []graph.Edge
		valid     bool
		message   string
		wantErr   error
		terminals []string
	}{
		{
			name:    "empty flow",
			valid:   false,
			message: "Cannot save empty flow",
			wantErr: ErrEmptyFlow,
		},
		{
			name:      "single node",
			nodes:     []graph.Node{a},
			valid:     true,
			message:   "Flow saved successfully!",
			terminals: []string{"A"},
		},
		{
			name:      "two unconnected nodes",
			nodes:     []graph.Node{a, b},
			valid:     false,
			message:   "Cannot save Flow. More than one node has empty target handles.",
			wantErr:   ErrMultipleTerminals,
			terminals: []string{"A", "B"},
		},
		{
			name:      "two connected nodes",
			nodes:     []graph.Node{a, b},
			edges:     []graph.Edge{graph.NewEdge("A", "B")},
			valid:     true,
			message:   "Flow saved successfully!",
			terminals: []string{"B"},
		},
		{
			name:      "three nodes one edge",
			nodes:     []graph.Node{a, b, c},
			edges:     []graph.Edge{graph.NewEdge("A", "B")},
			valid:     false,
			message:   MsgMultipleTerminals,
			wantErr:   ErrMultipleTerminals,
			terminals: []string{"B", "C"},
		},
		{
			name:      "converging chain",
			nodes:     []graph.Node{a, b, c},
			edges:     []graph.Edge{graph.NewEdge("A", "C"), graph.NewEdge("B", "C")},
			valid:     true,
			message:   MsgFlowSaved,
			terminals: []string{"C"},
		},
		{
			name:    "cycle without terminal is not detected by default",
			nodes:   []graph.Node{a, b},
			edges:   []graph.Edge{graph.NewEdge("A", "B"), graph.NewEdge("B", "A")},
			valid:   true,
			message: MsgFlowSaved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateFlow(tt.nodes, tt.edges)
			assert.Equal(t, tt.valid, res.Valid)
			assert.Equal(t, tt.message, res.Message)
			assert.Equal(t, tt.terminals, res.Terminals)
			if tt.wantErr != nil {
				assert.ErrorIs(t, res.Err, tt.wantErr)
			} else {
				assert.NoError(t, res.Err)
			}
		})
	}
}

func TestValidateFlow_CheckCycles(t *testing.T) {
	nodes := []graph.Node{msgNode("A"), msgNode("B"), msgNode("C")}
	edges := []graph.Edge{graph.NewEdge("A", "B"), graph.NewEdge("B", "A"), graph.NewEdge("C", "A")}

	assert.True(t, ValidateFlow(nodes, edges).Valid)

	res := ValidateFlow(nodes, edges, GraphValidationOptions{CheckCycles: true})
	assert.False(t, res.Valid)
	assert.Equal(t, MsgCyclicFlow, res.Message)
	assert.ErrorIs(t, res.Err, ErrCyclicFlow)
}

func TestValidateSnapshot(t *testing.T) {
	t.Run("valid snapshot", func(t *testing.T) {
		s := graph.Snapshot{
			Nodes: []graph.Node{msgNode("n1"), msgNode("n2")},
			Edges: []graph.Edge{graph.NewEdge("n1", "n2")},
		}
		assert.NoError(t, ValidateSnapshot(s))
	})

	t.Run("collects every problem", func(t *testing.T) {
		s := graph.Snapshot{
			Nodes: []graph.Node{
				msgNode("n1"),
				msgNode("n1"),
				{ID: "n2", Kind: "video"},
				{Kind: graph.KindMessage},
			},
			Edges: []graph.Edge{
				graph.NewEdge("n1", "missing"),
				graph.NewEdge("n1", "n2"),
			},
		}
		err := ValidateSnapshot(s)
		require.Error(t, err)

		var errs ValidationErrors
		require.True(t, errors.As(err, &errs))
		assert.Equal(t, []string{
			"nodes[1].id",
			"nodes[2].kind",
			"nodes[3].id",
			"edges[0].target",
			"edges[1].source",
		}, errs.Fields())
	})

	t.Run("optional self-loop and cycle checks", func(t *testing.T) {
		s := graph.Snapshot{
			Nodes: []graph.Node{msgNode("n1")},
			Edges: []graph.Edge{graph.NewEdge("n1", "n1")},
		}
		assert.NoError(t, ValidateSnapshot(s))

		err := ValidateSnapshot(s, GraphValidationOptions{RejectSelfLoops: true, CheckCycles: true})
		var errs ValidationErrors
		require.True(t, errors.As(err, &errs))
		assert.Equal(t, []string{"edges[0]", "edges"}, errs.Fields())
	})
}

func TestTerminalNodes(t *testing.T) {
	nodes := []graph.Node{msgNode("A"), msgNode("B"), msgNode("C")}
	assert.Equal(t, []string{"A", "B", "C"}, TerminalNodes(nodes, nil))
	assert.Equal(t, []string{"B", "C"}, TerminalNodes(nodes, []graph.Edge{graph.NewEdge("A", "B")}))
	assert.Nil(t, TerminalNodes(nil, nil))
}
