package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/RafcikJ/10x-memo/internal/service"
)

// errorBody is the JSON error envelope returned by every API endpoint
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	ResetAt string `json:"reset_at,omitempty"`
}

// respondJSON writes a JSON response with the given status
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// respondError writes a JSON error envelope
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorBody{Error: code, Message: message})
}

// respondServiceError maps service-layer errors onto API error codes.
// Unknown errors are logged and surfaced as a generic 500.
func respondServiceError(w http.ResponseWriter, err error) {
	var quotaErr *service.QuotaExceededError
	var validationErr service.ValidationError

	switch {
	case errors.Is(err, service.ErrListNotFound), errors.Is(err, service.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, service.ErrListLocked):
		respondError(w, http.StatusForbidden, "list_locked",
			"Cannot modify items after first test. The list is locked to preserve test history integrity.")
	case errors.Is(err, service.ErrInsufficientItems):
		respondError(w, http.StatusBadRequest, "insufficient_items",
			"The list has too few items to start a test.")
	case errors.Is(err, service.ErrNoActiveSession):
		respondError(w, http.StatusNotFound, "no_active_session", err.Error())
	case errors.Is(err, service.ErrSessionNotCompleted):
		respondError(w, http.StatusConflict, "session_not_completed", err.Error())
	case errors.Is(err, service.ErrAINotConfigured):
		respondError(w, http.StatusServiceUnavailable, "ai_service_error", "AI generation is not configured")
	case errors.As(err, &quotaErr):
		respondJSON(w, http.StatusTooManyRequests, errorBody{
			Error:   "rate_limit_exceeded",
			Message: quotaErr.Error(),
			ResetAt: quotaErr.ResetAt.Format(time.RFC3339),
		})
	case errors.As(err, &validationErr):
		respondError(w, http.StatusBadRequest, "validation_error", validationErr.Error())
	default:
		log.Printf("Internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "Something went wrong")
	}
}
