package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/RafcikJ/10x-memo/internal/models"
	"github.com/RafcikJ/10x-memo/internal/service"
)

// ListHandler handles word list HTTP requests
type ListHandler struct {
	listService *service.ListService
}

// NewListHandler creates a new list handler
func NewListHandler(listService *service.ListService) *ListHandler {
	return &ListHandler{listService: listService}
}

type createListRequest struct {
	Name     string  `json:"name"`
	Source   string  `json:"source"`
	Category *string `json:"category"`
	Items    []struct {
		Position int    `json:"position"`
		Display  string `json:"display"`
	} `json:"items"`
}

// CreateList handles POST /api/lists
func (h *ListHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())

	var req createListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_json", "Request body must be valid JSON")
		return
	}

	items := make([]service.NewItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.NewItem{Position: item.Position, Display: item.Display}
	}

	created, err := h.listService.CreateList(userID, req.Name, models.ListSource(req.Source), req.Category, items)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"list":  toListView(&created.List),
		"items": toItemViews(created.Items),
	})
}

// GetLists handles GET /api/lists
func (h *ListHandler) GetLists(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	lists, err := h.listService.GetUserLists(userID, limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	views := make([]listView, len(lists))
	for i := range lists {
		views[i] = toListView(&lists[i])
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"lists": views})
}

// GetList handles GET /api/lists/{id}
func (h *ListHandler) GetList(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())
	listID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	list, err := h.listService.GetListWithItems(listID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"list":  toListView(&list.List),
		"items": toItemViews(list.Items),
	})
}

// RenameList handles PATCH /api/lists/{id}
func (h *ListHandler) RenameList(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())
	listID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_json", "Request body must be valid JSON")
		return
	}

	list, err := h.listService.RenameList(listID, userID, req.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"list": toListView(list)})
}

// DeleteList handles DELETE /api/lists/{id}
func (h *ListHandler) DeleteList(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())
	listID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.listService.DeleteList(listID, userID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// TouchList handles POST /api/lists/{id}/touch
func (h *ListHandler) TouchList(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())
	listID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.listService.TouchList(listID, userID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// AddItem handles POST /api/lists/{id}/items
func (h *ListHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())
	listID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Display string `json:"display"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_json", "Request body must be valid JSON")
		return
	}

	item, err := h.listService.AddItem(listID, userID, req.Display)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"item": itemView{ID: item.ID, Position: item.Position, Display: item.Display},
	})
}

// UpdateItem handles PATCH /api/lists/{listId}/items/{itemId}
func (h *ListHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())
	listID, ok := pathID(w, r, "listId")
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemId")
	if !ok {
		return
	}

	var req struct {
		Display string `json:"display"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_json", "Request body must be valid JSON")
		return
	}

	item, err := h.listService.UpdateItem(listID, itemID, userID, req.Display)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"item": itemView{ID: item.ID, Position: item.Position, Display: item.Display},
	})
}

// DeleteItem handles DELETE /api/lists/{listId}/items/{itemId}
func (h *ListHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())
	listID, ok := pathID(w, r, "listId")
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemId")
	if !ok {
		return
	}

	if err := h.listService.DeleteItem(listID, itemID, userID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// pathID parses a numeric path value, responding with 400 on garbage
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "Invalid "+name)
		return 0, false
	}
	return id, true
}
