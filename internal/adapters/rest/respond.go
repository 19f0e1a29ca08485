package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/app/editor"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/core/graph"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/pkg/validation"
)

func respondJSON(logger *zap.Logger, w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

func respondError(logger *zap.Logger, w http.ResponseWriter, err error) {
	status := statusFor(err)

	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		validation.WriteErrorResponse(w, status, verrs)
		return
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.Error(err))
	}
	respondJSON(logger, w, status, map[string]interface{}{
		"error":   true,
		"message": err.Error(),
		"code":    status,
	})
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	var verrs validation.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return http.StatusBadRequest
	case errors.Is(err, editor.ErrSessionNotFound),
		errors.Is(err, graph.ErrNodeNotFound),
		errors.Is(err, graph.ErrEdgeNotFound),
		errors.Is(err, graph.ErrFlowNotFound):
		return http.StatusNotFound
	case errors.Is(err, graph.ErrUnknownNodeKind),
		errors.Is(err, graph.ErrInvalidNodeID),
		errors.Is(err, graph.ErrInvalidFlowID):
		return http.StatusBadRequest
	case errors.Is(err, graph.ErrDuplicateNode),
		errors.Is(err, graph.ErrSourceHasOutgoingEdge),
		errors.Is(err, graph.ErrSelfLoop),
		errors.Is(err, graph.ErrSourceNodeNotFound),
		errors.Is(err, graph.ErrTargetNodeNotFound):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
