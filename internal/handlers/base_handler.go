package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/proshop/user-service/internal/apperrors"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, map[string]string{"error": message})
}

// RespondAppError translates a service error into a JSON error body with the
// matching status code. This is the single boundary where error values become
// HTTP responses; internal failures are logged and masked.
func (h *BaseHandler) RespondAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.Status(err)
	if status == http.StatusInternalServerError {
		h.Logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		h.RespondError(w, status, "internal server error")
		return
	}

	h.RespondError(w, status, err.Error())
}
