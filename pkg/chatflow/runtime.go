package chatflow

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/adapters/repository/memory"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/app/editor"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/core/graph"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/core/selection"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/pkg/validation"
)

// Re-export core types for convenience
type (
	Node           = graph.Node
	Edge           = graph.Edge
	NodeKind       = graph.NodeKind
	Position       = graph.Position
	Payload        = graph.Payload
	Snapshot       = graph.Snapshot
	Flow           = graph.Flow
	Editor         = editor.Session
	Listener       = editor.Listener
	ListenerFuncs  = editor.ListenerFuncs
	SelectionState = selection.State
	SaveResult     = validation.Result
)

const (
	KindMessage = graph.KindMessage
	ModeBrowse  = selection.ModeBrowse
	ModeEdit    = selection.ModeEdit
)

// CanConnect reports whether proposed may be added to a flow with the current edges
func CanConnect(proposed Edge, current []Edge) bool {
	return graph.CanConnect(proposed, current)
}

// ValidateFlow applies the save rules to a set of nodes and edges
func ValidateFlow(nodes []Node, edges []Edge) SaveResult {
	return validation.ValidateFlow(nodes, edges)
}

// Option customizes editors opened by a Runtime
type Option func(*editor.Config)

// WithListener receives connection rejections and save results
func WithListener(l Listener) Option {
	return func(c *editor.Config) { c.Listener = l }
}

// WithNoticeTTL sets how long notices stay visible
func WithNoticeTTL(d time.Duration) Option {
	return func(c *editor.Config) { c.NoticeTTL = d }
}

// WithSelfLoopsRejected refuses edges from a node to itself
func WithSelfLoopsRejected() Option {
	return func(c *editor.Config) { c.Policy.RejectSelfLoops = true }
}

// WithCycleCheck refuses to save flows containing a cycle
func WithCycleCheck() Option {
	return func(c *editor.Config) { c.CheckCycles = true }
}

// WithLogger sets the editor logger
func WithLogger(l *zap.Logger) Option {
	return func(c *editor.Config) { c.Logger = l }
}

// Runtime opens editors whose valid saves land in a shared in-memory store.
// It is suitable for local usage and tests.
type Runtime struct {
	repo *memory.FlowRepository
}

// NewRuntime constructs a runtime with an empty flow store
func NewRuntime() *Runtime {
	return &Runtime{repo: memory.NewFlowRepository()}
}

// NewEditor opens an empty editor in BROWSE mode
func (rt *Runtime) NewEditor(opts ...Option) *Editor {
	cfg := editor.Config{Sink: rt.repo}
	for _, opt := range opts {
		opt(&cfg)
	}
	return editor.New(cfg)
}

// Open opens an editor on a previously saved flow. Saving it replaces that flow.
func (rt *Runtime) Open(ctx context.Context, flowID string, opts ...Option) (*Editor, error) {
	f, err := rt.repo.Get(ctx, flowID)
	if err != nil {
		return nil, err
	}
	e := rt.NewEditor(append(opts, func(c *editor.Config) { c.ID = flowID })...)
	if err := e.Restore(f.Snapshot()); err != nil {
		return nil, err
	}
	return e, nil
}

// Flow returns a saved flow
func (rt *Runtime) Flow(ctx context.Context, id string) (*Flow, error) {
	return rt.repo.Get(ctx, id)
}

// Flows returns all saved flows
func (rt *Runtime) Flows(ctx context.Context) ([]*Flow, error) {
	return rt.repo.List(ctx)
}
