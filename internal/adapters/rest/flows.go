package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/app/dto"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/app/editor"
)

// flowHandler serves saved flows
type flowHandler struct {
	flows  editor.FlowRepository
	logger *zap.Logger
}

func newFlowHandler(flows editor.FlowRepository, logger *zap.Logger) *flowHandler {
	return &flowHandler{flows: flows, logger: logger}
}

// List handles GET /api/flows
func (h *flowHandler) List(w http.ResponseWriter, r *http.Request) {
	flows, err := h.flows.List(r.Context())
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	out := make([]dto.FlowSummary, 0, len(flows))
	for _, f := range flows {
		out = append(out, dto.NewFlowSummary(f))
	}
	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{"flows": out})
}

// Get handles GET /api/flows/{flowID}
func (h *flowHandler) Get(w http.ResponseWriter, r *http.Request) {
	f, err := h.flows.Get(r.Context(), chi.URLParam(r, "flowID"))
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, f)
}
