package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/RafcikJ/10x-memo/internal/service"
)

// AIHandler exposes AI-assisted word list generation. Quota is consumed
// before the provider call, so a generation that fails downstream still
// costs the user a slot.
type AIHandler struct {
	aiService    *service.AIService
	quotaService *service.QuotaService
}

// NewAIHandler creates a new AI handler
func NewAIHandler(aiService *service.AIService, quotaService *service.QuotaService) *AIHandler {
	return &AIHandler{aiService: aiService, quotaService: quotaService}
}

// Generate handles POST /api/ai/generate
func (h *AIHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())

	var req struct {
		Category string `json:"category"`
		Count    int    `json:"count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_json", "Invalid request body")
		return
	}

	quota, err := h.quotaService.Consume(userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	items, err := h.aiService.Generate(r.Context(), req.Category, req.Count)
	if err != nil {
		if errors.Is(err, service.ErrAINotConfigured) {
			respondError(w, http.StatusServiceUnavailable, "ai_service_error", "AI generation is not available")
			return
		}
		var vErr service.ValidationError
		if errors.As(err, &vErr) {
			respondServiceError(w, vErr)
			return
		}
		// Slot already spent; the client shows remaining quota with the error
		respondJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error":   "ai_service_error",
			"message": "Word generation failed. Your daily allowance was still used.",
			"quota":   quota,
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"quota": quota,
	})
}

// GetQuota handles GET /api/ai/quota
func (h *AIHandler) GetQuota(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())

	quota, err := h.quotaService.Peek(userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"quota": quota})
}
