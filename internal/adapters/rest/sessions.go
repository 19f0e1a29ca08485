package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/app/dto"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/app/editor"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/core/graph"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/pkg/validation"
)

// sessionHandler translates HTTP requests into session boundary events
type sessionHandler struct {
	sessions *editor.Manager
	flows    editor.FlowRepository
	logger   *zap.Logger
}

func newSessionHandler(sessions *editor.Manager, flows editor.FlowRepository, logger *zap.Logger) *sessionHandler {
	return &sessionHandler{sessions: sessions, flows: flows, logger: logger}
}

// do runs fn against the session named in the URL
func (h *sessionHandler) do(r *http.Request, fn func(*editor.Session) error) error {
	return h.sessions.Do(chi.URLParam(r, "sessionID"), fn)
}

// Create handles POST /api/sessions
func (h *sessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	id := h.sessions.Create()
	h.logger.Info("Session created", zap.String("session", id))
	respondJSON(h.logger, w, http.StatusCreated, dto.SessionResponse{SessionID: id})
}

// List handles GET /api/sessions
func (h *sessionHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{"sessions": h.sessions.IDs()})
}

// Close handles DELETE /api/sessions/{sessionID}
func (h *sessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Close(chi.URLParam(r, "sessionID")); err != nil {
		respondError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Graph handles GET /api/sessions/{sessionID}/graph
func (h *sessionHandler) Graph(w http.ResponseWriter, r *http.Request) {
	var resp dto.GraphResponse
	err := h.do(r, func(s *editor.Session) error {
		resp = dto.NewGraphResponse(s.ID(), s.CurrentGraphSnapshot(), s.Selection())
		return nil
	})
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, resp)
}

// DropNode handles POST /api/sessions/{sessionID}/nodes
func (h *sessionHandler) DropNode(w http.ResponseWriter, r *http.Request) {
	var req dto.DropNodeRequest
	if err := validation.DecodeJSON(r, &req); err != nil {
		respondError(h.logger, w, err)
		return
	}

	var node graph.Node
	err := h.do(r, func(s *editor.Session) error {
		var err error
		node, err = s.OnDropNewNode(req.Kind, req.Position)
		return err
	})
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	respondJSON(h.logger, w, http.StatusCreated, node)
}

// MoveNode handles PUT /api/sessions/{sessionID}/nodes/{nodeID}/position
func (h *sessionHandler) MoveNode(w http.ResponseWriter, r *http.Request) {
	var req dto.MoveNodeRequest
	if err := validation.DecodeJSON(r, &req); err != nil {
		respondError(h.logger, w, err)
		return
	}
	h.updateNode(w, r, func(s *editor.Session, id string) error {
		return s.OnNodeMoved(id, req.Position)
	})
}

// EditText handles PUT /api/sessions/{sessionID}/nodes/{nodeID}/text
func (h *sessionHandler) EditText(w http.ResponseWriter, r *http.Request) {
	var req dto.EditTextRequest
	if err := validation.DecodeJSON(r, &req); err != nil {
		respondError(h.logger, w, err)
		return
	}
	h.updateNode(w, r, func(s *editor.Session, id string) error {
		return s.OnTextEdited(id, *req.Text)
	})
}

// updateNode applies fn to the node named in the URL and responds with the node
func (h *sessionHandler) updateNode(w http.ResponseWriter, r *http.Request, fn func(*editor.Session, string) error) {
	nodeID := chi.URLParam(r, "nodeID")
	var node graph.Node
	err := h.do(r, func(s *editor.Session) error {
		if err := fn(s, nodeID); err != nil {
			return err
		}
		node, _ = s.CurrentGraphSnapshot().Node(nodeID)
		return nil
	})
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, node)
}

// ClickNode handles POST /api/sessions/{sessionID}/nodes/{nodeID}/click
func (h *sessionHandler) ClickNode(w http.ResponseWriter, r *http.Request) {
	var resp dto.SelectionResponse
	err := h.do(r, func(s *editor.Session) error {
		if _, err := s.OnNodeClicked(chi.URLParam(r, "nodeID")); err != nil {
			return err
		}
		resp = selectionResponse(s)
		return nil
	})
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, resp)
}

// RemoveNode handles DELETE /api/sessions/{sessionID}/nodes/{nodeID}
func (h *sessionHandler) RemoveNode(w http.ResponseWriter, r *http.Request) {
	err := h.do(r, func(s *editor.Session) error {
		return s.OnNodesRemoved(chi.URLParam(r, "nodeID"))
	})
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Connect handles POST /api/sessions/{sessionID}/edges.
// A rejected connection answers 409 with the user-facing reason.
func (h *sessionHandler) Connect(w http.ResponseWriter, r *http.Request) {
	var req dto.ConnectRequest
	if err := validation.DecodeJSON(r, &req); err != nil {
		respondError(h.logger, w, err)
		return
	}

	var (
		edge     graph.Edge
		rejected error
	)
	err := h.do(r, func(s *editor.Session) error {
		edge, rejected = s.OnConnectRequested(req.Source, req.Target)
		return nil
	})
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	if rejected != nil {
		respondJSON(h.logger, w, http.StatusConflict, dto.ConnectionRejectedResponse{
			Rejected: true,
			Reason:   graph.RejectionReason(rejected),
		})
		return
	}
	respondJSON(h.logger, w, http.StatusCreated, edge)
}

// RemoveEdge handles DELETE /api/sessions/{sessionID}/edges/{edgeID}
func (h *sessionHandler) RemoveEdge(w http.ResponseWriter, r *http.Request) {
	err := h.do(r, func(s *editor.Session) error {
		return s.OnEdgesRemoved(chi.URLParam(r, "edgeID"))
	})
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClickCanvas handles POST /api/sessions/{sessionID}/canvas/click
func (h *sessionHandler) ClickCanvas(w http.ResponseWriter, r *http.Request) {
	h.respondSelection(w, r, func(s *editor.Session) { s.OnCanvasClicked() })
}

// BackToList handles DELETE /api/sessions/{sessionID}/selection
func (h *sessionHandler) BackToList(w http.ResponseWriter, r *http.Request) {
	h.respondSelection(w, r, func(s *editor.Session) { s.OnBackToList() })
}

// Selection handles GET /api/sessions/{sessionID}/selection
func (h *sessionHandler) Selection(w http.ResponseWriter, r *http.Request) {
	h.respondSelection(w, r, func(*editor.Session) {})
}

func (h *sessionHandler) respondSelection(w http.ResponseWriter, r *http.Request, fn func(*editor.Session)) {
	var resp dto.SelectionResponse
	err := h.do(r, func(s *editor.Session) error {
		fn(s)
		resp = selectionResponse(s)
		return nil
	})
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, resp)
}

func selectionResponse(s *editor.Session) dto.SelectionResponse {
	resp := dto.SelectionResponse{State: s.Selection()}
	if n, ok := s.SelectedNode(); ok {
		resp.Node = &n
	}
	return resp
}

// Save handles POST /api/sessions/{sessionID}/save.
// An invalid flow is a normal outcome and answers 200 with valid=false.
func (h *sessionHandler) Save(w http.ResponseWriter, r *http.Request) {
	var (
		resp    dto.SaveResponse
		saveErr error
	)
	err := h.do(r, func(s *editor.Session) error {
		res, err := s.OnSaveRequested(r.Context())
		resp, saveErr = dto.NewSaveResponse(res), err
		return nil
	})
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	status := http.StatusOK
	if saveErr != nil {
		status = http.StatusInternalServerError
	}
	respondJSON(h.logger, w, status, resp)
}

// Notice handles GET /api/sessions/{sessionID}/notice
func (h *sessionHandler) Notice(w http.ResponseWriter, r *http.Request) {
	var resp dto.NoticeResponse
	err := h.do(r, func(s *editor.Session) error {
		resp = dto.NewNoticeResponse(s.Notice())
		return nil
	})
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, resp)
}

// Load handles POST /api/sessions/{sessionID}/load
func (h *sessionHandler) Load(w http.ResponseWriter, r *http.Request) {
	var req dto.LoadFlowRequest
	if err := validation.DecodeJSON(r, &req); err != nil {
		respondError(h.logger, w, err)
		return
	}

	f, err := h.flows.Get(r.Context(), req.FlowID)
	if err != nil {
		respondError(h.logger, w, err)
		return
	}

	var resp dto.GraphResponse
	err = h.do(r, func(s *editor.Session) error {
		if err := s.Restore(f.Snapshot()); err != nil {
			return err
		}
		resp = dto.NewGraphResponse(s.ID(), s.CurrentGraphSnapshot(), s.Selection())
		return nil
	})
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, resp)
}
