package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/RafcikJ/10x-memo/internal/service"
)

// TestHandler drives test sessions over HTTP. The session state machine
// itself lives in the quiz package; this handler only translates requests
// into state transitions and snapshots the session back to the client.
type TestHandler struct {
	testService *service.TestService
}

// NewTestHandler creates a new test handler
func NewTestHandler(testService *service.TestService) *TestHandler {
	return &TestHandler{testService: testService}
}

// StartTest handles POST /api/lists/{id}/tests/start
func (h *TestHandler) StartTest(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())
	listID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	session, err := h.testService.StartTest(listID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{"session": toSessionView(session)})
}

// CurrentSession handles GET /api/tests/current
func (h *TestHandler) CurrentSession(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())

	session, err := h.testService.CurrentSession(userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"session": toSessionView(session)})
}

// SubmitAnswer handles POST /api/tests/answer. Answers sent while the
// feedback flash is showing are rejected with a conflict.
func (h *TestHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())

	var req struct {
		IsSlotA *bool `json:"is_slot_a"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsSlotA == nil {
		respondError(w, http.StatusBadRequest, "invalid_json", "Body must contain is_slot_a")
		return
	}

	session, isCorrect, err := h.testService.SubmitAnswer(userID, *req.IsSlotA)
	if err != nil {
		if err == service.ErrNoActiveSession {
			respondServiceError(w, err)
			return
		}
		respondError(w, http.StatusConflict, "not_awaiting_answer", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"session":    toSessionView(session),
		"is_correct": isCorrect,
	})
}

// AdvanceFeedback handles POST /api/tests/next. Moving past the last
// question's feedback completes the session and persists the result; a
// failed write keeps the completed session for a retry via CompleteTest.
func (h *TestHandler) AdvanceFeedback(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())

	session, record, err := h.testService.AdvanceFeedback(userID)
	if err != nil {
		if session != nil && session.Completed() {
			// Quiz finished but the write failed; the client keeps its
			// result and may retry the completion call
			respondJSON(w, http.StatusBadGateway, map[string]interface{}{
				"session": toSessionView(session),
				"error":   "persistence_failed",
				"message": "The test finished but could not be recorded. Retry the completion.",
			})
			return
		}
		respondServiceError(w, err)
		return
	}

	payload := map[string]interface{}{"session": toSessionView(session)}
	if record != nil {
		payload["test"] = toTestView(record)
	}
	respondJSON(w, http.StatusOK, payload)
}

// CompleteTest handles POST /api/tests/complete, the retry path for a
// completed session whose first persistence attempt failed
func (h *TestHandler) CompleteTest(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())

	record, err := h.testService.CompleteTest(userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{"test": toTestView(record)})
}

// GetListTests handles GET /api/lists/{id}/tests
func (h *TestHandler) GetListTests(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())
	listID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	tests, err := h.testService.GetListTests(listID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	views := make([]testView, len(tests))
	for i := range tests {
		views[i] = toTestView(&tests[i])
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"tests": views})
}
