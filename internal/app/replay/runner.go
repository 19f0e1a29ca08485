package replay

import (
	"context"
	"fmt"

	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/app/dto"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/app/editor"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/core/graph"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/core/selection"
)

// Outcome is what the session reported for one step
type Outcome struct {
	Index     int               `json:"index"`
	Event     EventName         `json:"event"`
	Node      *graph.Node       `json:"node,omitempty"`
	Edge      *graph.Edge       `json:"edge,omitempty"`
	Rejected  string            `json:"rejected,omitempty"`
	Selection *selection.State  `json:"selection,omitempty"`
	Save      *dto.SaveResponse `json:"save,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// Report is the result of a replay
type Report struct {
	Outcomes []Outcome      `json:"outcomes"`
	Final    graph.Snapshot `json:"final"`
}

// Run applies steps to s in order. Step errors are recorded in the outcome and
// do not stop the replay, as a user would keep editing after a failed action.
// Only a cancelled context stops early.
func Run(ctx context.Context, s *editor.Session, steps []Step) (Report, error) {
	report := Report{Outcomes: make([]Outcome, 0, len(steps))}
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("replay stopped at event %d: %w", i, err)
		}
		out := apply(ctx, s, step)
		out.Index = i
		out.Event = step.Event
		report.Outcomes = append(report.Outcomes, out)
	}
	report.Final = s.CurrentGraphSnapshot()
	return report, nil
}

func apply(ctx context.Context, s *editor.Session, step Step) Outcome {
	var (
		out Outcome
		err error
	)
	switch step.Event {
	case EventDrop:
		kind := step.Kind
		if kind == "" {
			kind = graph.KindMessage
		}
		var n graph.Node
		if n, err = s.OnDropNewNode(kind, step.Position); err == nil {
			out.Node = &n
		}
	case EventMove:
		err = s.OnNodeMoved(step.Node, step.Position)
	case EventConnect:
		var e graph.Edge
		if e, err = s.OnConnectRequested(step.Source, step.Target); err != nil {
			out.Rejected = graph.RejectionReason(err)
			return out
		}
		out.Edge = &e
	case EventClick:
		var st selection.State
		st, err = s.OnNodeClicked(step.Node)
		out.Selection = &st
	case EventCanvas:
		st := s.OnCanvasClicked()
		out.Selection = &st
	case EventBack:
		st := s.OnBackToList()
		out.Selection = &st
	case EventEdit:
		err = s.OnTextEdited(step.Node, *step.Text)
	case EventRemoveNode:
		err = s.OnNodesRemoved(step.Node)
		st := s.Selection()
		out.Selection = &st
	case EventRemoveEdge:
		err = s.OnEdgesRemoved(step.Edge)
	case EventSave:
		res, saveErr := s.OnSaveRequested(ctx)
		resp := dto.NewSaveResponse(res)
		out.Save = &resp
		err = saveErr
	default:
		err = fmt.Errorf("%w %q", ErrUnknownEvent, step.Event)
	}
	if err != nil {
		out.Error = err.Error()
	}
	return out
}
