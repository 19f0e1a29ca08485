package editor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/adapters/repository/memory"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/core/graph"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/core/notice"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/core/selection"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/infrastructure/metrics"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/pkg/validation"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type failingSink struct{ err error }

func (s failingSink) Save(context.Context, *graph.Flow) error { return s.err }

type recorder struct {
	rejections []string
	saves      []string
	valid      []bool
}

func (r *recorder) listener() ListenerFuncs {
	return ListenerFuncs{
		OnConnectionRejected: func(reason string) { r.rejections = append(r.rejections, reason) },
		OnSaveResult: func(valid bool, message string) {
			r.valid = append(r.valid, valid)
			r.saves = append(r.saves, message)
		},
	}
}

// counterValue sums the samples of a counter family matching the label value
func counterValue(t *testing.T, reg *prometheus.Registry, name, label string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if label != "" {
				match := false
				for _, lp := range m.GetLabel() {
					if lp.GetValue() == label {
						match = true
					}
				}
				if !match {
					continue
				}
			}
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func newTestSession(t *testing.T, cfg Config) (*Session, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	if cfg.ID == "" {
		cfg.ID = "session-1"
	}
	cfg.Now = clock.Now
	return New(cfg), clock
}

func dropMessages(t *testing.T, s *Session, n int) []graph.Node {
	t.Helper()
	nodes := make([]graph.Node, 0, n)
	for i := 0; i < n; i++ {
		node, err := s.OnDropNewNode(graph.KindMessage, graph.Position{X: float64(i * 100)})
		require.NoError(t, err)
		nodes = append(nodes, node)
	}
	return nodes
}

func TestSession_New(t *testing.T) {
	s := New(Config{})
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, selection.State{Mode: selection.ModeBrowse}, s.Selection())
	assert.Empty(t, s.CurrentGraphSnapshot().Nodes)
	_, ok := s.Notice()
	assert.False(t, ok)
}

func TestSession_DropNewNode(t *testing.T) {
	s, _ := newTestSession(t, Config{})

	nodes := dropMessages(t, s, 2)
	assert.Equal(t, "node_1", nodes[0].ID)
	assert.Equal(t, "Message 1", nodes[0].Payload.Text)
	assert.Equal(t, "node_2", nodes[1].ID)
	assert.Equal(t, graph.Position{X: 100}, nodes[1].Position)

	_, err := s.OnDropNewNode("carousel", graph.Position{})
	assert.ErrorIs(t, err, graph.ErrUnknownNodeKind)
	assert.Len(t, s.CurrentGraphSnapshot().Nodes, 2)
}

func TestSession_ConnectRejected(t *testing.T) {
	rec := &recorder{}
	m := metrics.NewCollector("chatflow")
	s, clock := newTestSession(t, Config{Listener: rec.listener(), Metrics: m})
	dropMessages(t, s, 3)

	e, err := s.OnConnectRequested("node_1", "node_2")
	require.NoError(t, err)
	assert.Equal(t, "edge_node_1-node_2", e.ID)

	_, err = s.OnConnectRequested("node_1", "node_3")
	assert.ErrorIs(t, err, graph.ErrSourceHasOutgoingEdge)
	assert.Equal(t, []string{"Each node can only have one outgoing connection"}, rec.rejections)
	assert.Len(t, s.CurrentGraphSnapshot().Edges, 1)

	n, ok := s.Notice()
	require.True(t, ok)
	assert.Equal(t, notice.LevelWarning, n.Level)
	assert.Equal(t, "Each node can only have one outgoing connection", n.Message)

	clock.Advance(notice.DefaultTTL)
	_, ok = s.Notice()
	assert.False(t, ok)

	_, err = s.OnConnectRequested("node_1", "node_9")
	assert.Error(t, err)

	assert.Equal(t, 1.0, counterValue(t, m.Registry(), "chatflow_edges_added_total", ""))
	assert.Equal(t, 1.0, counterValue(t, m.Registry(), "chatflow_connections_rejected_total", "outgoing_edge_exists"))
	assert.Equal(t, 1.0, counterValue(t, m.Registry(), "chatflow_connections_rejected_total", "missing_endpoint"))
}

func TestSession_SelfLoopPolicy(t *testing.T) {
	s, _ := newTestSession(t, Config{})
	dropMessages(t, s, 1)
	_, err := s.OnConnectRequested("node_1", "node_1")
	assert.NoError(t, err)

	strict, _ := newTestSession(t, Config{Policy: graph.ConnectionPolicy{RejectSelfLoops: true}})
	dropMessages(t, strict, 1)
	_, err = strict.OnConnectRequested("node_1", "node_1")
	assert.ErrorIs(t, err, graph.ErrSelfLoop)
	n, ok := strict.Notice()
	require.True(t, ok)
	assert.Equal(t, "A node cannot connect to itself", n.Message)
}

func TestSession_SelectionAndEditing(t *testing.T) {
	s, _ := newTestSession(t, Config{})
	dropMessages(t, s, 2)

	st, err := s.OnNodeClicked("node_2")
	require.NoError(t, err)
	assert.Equal(t, selection.State{Mode: selection.ModeEdit, SelectedNodeID: "node_2"}, st)

	require.NoError(t, s.OnTextEdited("node_2", "Welcome!"))
	n, ok := s.SelectedNode()
	require.True(t, ok)
	assert.Equal(t, "Welcome!", n.Payload.Text)

	// Clicking a missing node keeps the current selection
	st, err = s.OnNodeClicked("node_9")
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)
	assert.Equal(t, "node_2", st.SelectedNodeID)

	assert.Equal(t, selection.ModeBrowse, s.OnBackToList().Mode)
	_, ok = s.SelectedNode()
	assert.False(t, ok)

	_, err = s.OnNodeClicked("node_1")
	require.NoError(t, err)
	assert.Equal(t, selection.ModeBrowse, s.OnCanvasClicked().Mode)

	assert.ErrorIs(t, s.OnTextEdited("node_9", "x"), graph.ErrNodeNotFound)
	require.NoError(t, s.OnNodeMoved("node_1", graph.Position{X: 5, Y: 6}))
	moved, _ := s.CurrentGraphSnapshot().Node("node_1")
	assert.Equal(t, graph.Position{X: 5, Y: 6}, moved.Position)
}

func TestSession_RemoveSelectedNode(t *testing.T) {
	m := metrics.NewCollector("chatflow")
	s, _ := newTestSession(t, Config{Metrics: m})
	dropMessages(t, s, 3)
	_, err := s.OnConnectRequested("node_1", "node_2")
	require.NoError(t, err)
	_, err = s.OnConnectRequested("node_2", "node_3")
	require.NoError(t, err)
	_, err = s.OnNodeClicked("node_2")
	require.NoError(t, err)

	require.NoError(t, s.OnNodesRemoved("node_2"))
	assert.Equal(t, selection.State{Mode: selection.ModeBrowse}, s.Selection())
	snap := s.CurrentGraphSnapshot()
	assert.Len(t, snap.Nodes, 2)
	assert.Empty(t, snap.Edges)
	assert.Equal(t, 2.0, counterValue(t, m.Registry(), "chatflow_edges_removed_total", ""))

	err = s.OnNodesRemoved("node_1", "node_9")
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)
	assert.Len(t, s.CurrentGraphSnapshot().Nodes, 1)
}

func TestSession_RemoveEdges(t *testing.T) {
	s, _ := newTestSession(t, Config{})
	dropMessages(t, s, 2)
	e, err := s.OnConnectRequested("node_1", "node_2")
	require.NoError(t, err)

	require.NoError(t, s.OnEdgesRemoved(e.ID))
	assert.ErrorIs(t, s.OnEdgesRemoved(e.ID), graph.ErrEdgeNotFound)

	// The source may connect again
	_, err = s.OnConnectRequested("node_1", "node_2")
	assert.NoError(t, err)
}

func TestSession_Save(t *testing.T) {
	tests := []struct {
		name    string
		nodes   int
		edges   [][2]string
		valid   bool
		message string
	}{
		{name: "empty flow", nodes: 0, valid: false, message: validation.MsgEmptyFlow},
		{name: "single node", nodes: 1, valid: true, message: validation.MsgFlowSaved},
		{name: "two unconnected nodes", nodes: 2, valid: false, message: validation.MsgMultipleTerminals},
		{name: "chain", nodes: 3, edges: [][2]string{{"node_1", "node_2"}, {"node_2", "node_3"}}, valid: true, message: validation.MsgFlowSaved},
		{name: "fan in", nodes: 3, edges: [][2]string{{"node_1", "node_3"}, {"node_2", "node_3"}}, valid: true, message: validation.MsgFlowSaved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			repo := memory.NewFlowRepository()
			s, _ := newTestSession(t, Config{Sink: repo, Listener: rec.listener()})
			dropMessages(t, s, tt.nodes)
			for _, e := range tt.edges {
				_, err := s.OnConnectRequested(e[0], e[1])
				require.NoError(t, err)
			}

			res, err := s.OnSaveRequested(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.valid, res.Valid)
			assert.Equal(t, tt.message, res.Message)
			assert.Equal(t, []string{tt.message}, rec.saves)
			assert.Equal(t, []bool{tt.valid}, rec.valid)

			n, ok := s.Notice()
			require.True(t, ok)
			assert.Equal(t, tt.message, n.Message)

			saved, err := repo.Get(context.Background(), s.ID())
			if tt.valid {
				require.NoError(t, err)
				assert.Len(t, saved.Nodes, tt.nodes)
				assert.Equal(t, notice.LevelSuccess, n.Level)
			} else {
				assert.ErrorIs(t, err, graph.ErrFlowNotFound)
				assert.Equal(t, notice.LevelError, n.Level)
			}
		})
	}
}

func TestSession_SaveCycleCheck(t *testing.T) {
	build := func(checkCycles bool) *Session {
		s, _ := newTestSession(t, Config{CheckCycles: checkCycles})
		dropMessages(t, s, 3)
		for _, e := range [][2]string{{"node_1", "node_2"}, {"node_2", "node_1"}} {
			_, err := s.OnConnectRequested(e[0], e[1])
			require.NoError(t, err)
		}
		return s
	}

	res, err := build(false).OnSaveRequested(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Valid)

	res, err = build(true).OnSaveRequested(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, validation.MsgCyclicFlow, res.Message)
}

func TestSession_SaveSinkFailure(t *testing.T) {
	rec := &recorder{}
	m := metrics.NewCollector("chatflow")
	boom := errors.New("disk full")
	s, _ := newTestSession(t, Config{Sink: failingSink{err: boom}, Listener: rec.listener(), Metrics: m})
	dropMessages(t, s, 1)

	res, err := s.OnSaveRequested(context.Background())
	assert.ErrorIs(t, err, ErrSaveFailed)
	assert.ErrorIs(t, err, boom)
	assert.False(t, res.Valid)
	assert.Equal(t, "Failed to save flow", res.Message)
	assert.Equal(t, []bool{false}, rec.valid)
	assert.Equal(t, 1.0, counterValue(t, m.Registry(), "chatflow_saves_total", metrics.SaveFailed))

	// The flow itself is untouched
	assert.Len(t, s.CurrentGraphSnapshot().Nodes, 1)
}

func TestSession_Restore(t *testing.T) {
	s, _ := newTestSession(t, Config{})
	dropMessages(t, s, 1)
	_, err := s.OnNodeClicked("node_1")
	require.NoError(t, err)

	snap := graph.Snapshot{
		Nodes: []graph.Node{
			{ID: "node_4", Kind: graph.KindMessage, Payload: graph.Payload{Text: "a"}},
			{ID: "node_7", Kind: graph.KindMessage, Payload: graph.Payload{Text: "b"}},
		},
		Edges: []graph.Edge{graph.NewEdge("node_4", "node_7")},
	}
	require.NoError(t, s.Restore(snap))
	assert.Equal(t, selection.ModeBrowse, s.Selection().Mode)
	assert.Equal(t, snap, s.CurrentGraphSnapshot())

	// Ids continue after the highest restored ordinal
	n, err := s.OnDropNewNode(graph.KindMessage, graph.Position{})
	require.NoError(t, err)
	assert.Equal(t, "node_8", n.ID)

	bad := graph.Snapshot{Edges: []graph.Edge{graph.NewEdge("node_1", "node_2")}}
	assert.Error(t, s.Restore(bad))
	assert.Len(t, s.CurrentGraphSnapshot().Nodes, 3)
}
