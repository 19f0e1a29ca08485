// Package editor dispatches the events of one flow-building session into the
// graph store and the selection controller, and reports connection rejections
// and save results back to the host.
package editor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/core/graph"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/core/notice"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/core/selection"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/infrastructure/logging"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/infrastructure/metrics"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/pkg/validation"
)

// Config carries the collaborators and settings of a session.
// Every field is optional.
type Config struct {
	ID          string
	NoticeTTL   time.Duration
	Policy      graph.ConnectionPolicy
	CheckCycles bool
	Sink        FlowSink
	Listener    Listener
	Logger      *zap.Logger
	Metrics     *metrics.Collector
	Now         func() time.Time
}

// Session is the state of one editor: the flow, the selection and the last notice.
// It is not safe for concurrent use; hosts serving several goroutines must
// serialize calls per session.
type Session struct {
	id          string
	store       *graph.Store
	selection   *selection.Controller
	notices     *notice.Board
	checkCycles bool
	sink        FlowSink
	listener    Listener
	logger      *zap.Logger
	metrics     *metrics.Collector
	now         func() time.Time
}

// New creates an empty session in BROWSE mode
func New(cfg Config) *Session {
	if cfg.ID == "" {
		cfg.ID = uuid.New().String()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Listener == nil {
		cfg.Listener = ListenerFuncs{}
	}
	return &Session{
		id:          cfg.ID,
		store:       graph.NewStore(graph.WithConnectionPolicy(cfg.Policy)),
		selection:   selection.NewController(),
		notices:     notice.NewBoard(cfg.NoticeTTL),
		checkCycles: cfg.CheckCycles,
		sink:        cfg.Sink,
		listener:    cfg.Listener,
		logger:      logging.OrNop(cfg.Logger).With(zap.String("session", cfg.ID)),
		metrics:     cfg.Metrics,
		now:         cfg.Now,
	}
}

// ID returns the session identifier, also used as the id of the saved flow
func (s *Session) ID() string {
	return s.id
}

// OnDropNewNode adds a node of kind at the canvas position computed by the renderer
func (s *Session) OnDropNewNode(kind graph.NodeKind, pos graph.Position) (graph.Node, error) {
	n, err := s.store.AddNode(kind, pos)
	if err != nil {
		s.logger.Debug("Drop ignored", zap.String("kind", string(kind)), zap.Error(err))
		return graph.Node{}, err
	}
	s.metrics.NodeAdded()
	s.logger.Debug("Node added", zap.String("nodeID", n.ID), zap.String("kind", string(kind)))
	return n, nil
}

// OnNodeMoved stores the position reported after a drag
func (s *Session) OnNodeMoved(nodeID string, pos graph.Position) error {
	return s.store.MoveNode(nodeID, pos)
}

// OnConnectRequested adds an edge from source to target.
// A rejected connection leaves the flow unchanged and is reported to the listener.
func (s *Session) OnConnectRequested(source, target string) (graph.Edge, error) {
	e, err := s.store.AddEdge(source, target)
	if err != nil {
		reason := graph.RejectionReason(err)
		s.metrics.ConnectionRejected(rejectionLabel(err))
		s.notices.Post(notice.LevelWarning, reason, s.now())
		s.logger.Info("Connection rejected",
			zap.String("sourceID", source),
			zap.String("targetID", target),
			zap.Error(err),
		)
		s.listener.ConnectionRejected(reason)
		return graph.Edge{}, err
	}
	s.metrics.EdgeAdded()
	s.logger.Debug("Edge added", zap.String("edgeID", e.ID))
	return e, nil
}

// OnNodeClicked selects an existing node and opens its settings
func (s *Session) OnNodeClicked(nodeID string) (selection.State, error) {
	if _, ok := s.store.Node(nodeID); !ok {
		return s.selection.State(), graph.ErrNodeNotFound
	}
	s.selection.NodeClicked(nodeID)
	return s.selection.State(), nil
}

// OnCanvasClicked clears the selection
func (s *Session) OnCanvasClicked() selection.State {
	s.selection.CanvasClicked()
	return s.selection.State()
}

// OnBackToList clears the selection from the settings panel
func (s *Session) OnBackToList() selection.State {
	s.selection.BackToList()
	return s.selection.State()
}

// OnTextEdited replaces the text of a message node
func (s *Session) OnTextEdited(nodeID, text string) error {
	n, ok := s.store.Node(nodeID)
	if !ok {
		return graph.ErrNodeNotFound
	}
	p := n.Payload
	p.Text = text
	return s.store.UpdateNodePayload(nodeID, p)
}

// OnNodesRemoved removes nodes deleted by the renderer, with their edges.
// Missing ids are reported but do not stop the remaining removals.
func (s *Session) OnNodesRemoved(nodeIDs ...string) error {
	var errs []error
	for _, id := range nodeIDs {
		dropped, err := s.store.RemoveNode(id)
		if err != nil {
			errs = append(errs, fmt.Errorf("remove node %s: %w", id, err))
			continue
		}
		s.selection.NodeRemoved(id)
		s.metrics.NodeRemoved()
		s.metrics.EdgesRemoved(len(dropped))
		s.logger.Debug("Node removed", zap.String("nodeID", id), zap.Int("edgesDropped", len(dropped)))
	}
	return errors.Join(errs...)
}

// OnEdgesRemoved removes edges deleted by the renderer
func (s *Session) OnEdgesRemoved(edgeIDs ...string) error {
	var errs []error
	for _, id := range edgeIDs {
		if err := s.store.RemoveEdge(id); err != nil {
			errs = append(errs, fmt.Errorf("remove edge %s: %w", id, err))
			continue
		}
		s.metrics.EdgesRemoved(1)
	}
	return errors.Join(errs...)
}

// OnSaveRequested validates the flow and, when valid, hands it to the sink.
// An invalid flow is not an error: it is reported through the result.
// The returned error is only set when the sink fails.
func (s *Session) OnSaveRequested(ctx context.Context) (validation.Result, error) {
	snap := s.store.Snapshot()
	res := validation.ValidateFlow(snap.Nodes, snap.Edges, validation.GraphValidationOptions{CheckCycles: s.checkCycles})

	var saveErr error
	if res.Valid && s.sink != nil {
		if err := s.sink.Save(ctx, graph.NewFlow(s.id, snap, s.now())); err != nil {
			saveErr = fmt.Errorf("%w: %w", ErrSaveFailed, err)
			res = validation.Result{Message: "Failed to save flow", Terminals: res.Terminals, Err: saveErr}
		}
	}

	switch {
	case saveErr != nil:
		s.metrics.Save(metrics.SaveFailed)
		s.logger.Error("Flow save failed", zap.Error(saveErr))
	case res.Valid:
		s.metrics.Save(metrics.SaveValid)
		s.logger.Info("Flow saved", zap.Int("nodeCount", len(snap.Nodes)), zap.Int("edgeCount", len(snap.Edges)))
	default:
		s.metrics.Save(metrics.SaveInvalid)
		s.logger.Info("Flow rejected", zap.String("reason", res.Message), zap.Strings("terminals", res.Terminals))
	}

	level := notice.LevelSuccess
	if !res.Valid {
		level = notice.LevelError
	}
	s.notices.Post(level, res.Message, s.now())
	s.listener.SaveResult(res.Valid, res.Message)
	return res, saveErr
}

// Restore replaces the flow with a saved one and returns to BROWSE mode
func (s *Session) Restore(snap graph.Snapshot) error {
	if err := s.store.Restore(snap); err != nil {
		return err
	}
	s.selection.CanvasClicked()
	s.notices.Clear()
	return nil
}

// CurrentGraphSnapshot returns the nodes and edges for rendering
func (s *Session) CurrentGraphSnapshot() graph.Snapshot {
	return s.store.Snapshot()
}

// Selection returns the current panel mode and selected node id
func (s *Session) Selection() selection.State {
	return s.selection.State()
}

// SelectedNode returns the node shown in the settings panel
func (s *Session) SelectedNode() (graph.Node, bool) {
	id, ok := s.selection.Selected()
	if !ok {
		return graph.Node{}, false
	}
	return s.store.Node(id)
}

// Notice returns the notice visible now, if any
func (s *Session) Notice() (notice.Notice, bool) {
	return s.notices.Current(s.now())
}

func rejectionLabel(err error) string {
	switch {
	case errors.Is(err, graph.ErrSourceHasOutgoingEdge):
		return "outgoing_edge_exists"
	case errors.Is(err, graph.ErrSelfLoop):
		return "self_loop"
	case errors.Is(err, graph.ErrSourceNodeNotFound), errors.Is(err, graph.ErrTargetNodeNotFound):
		return "missing_endpoint"
	default:
		return "invalid"
	}
}
