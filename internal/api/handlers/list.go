package handlers

import (
	"net/http"

	"github.com/amaumene/mediatrakker/internal/controllers"
	"github.com/amaumene/mediatrakker/internal/models"
	"github.com/sirupsen/logrus"
)

// ListHandler serves the user list and its statistics
type ListHandler struct {
	listCtrl *controllers.ListController
	userID   string
	logger   *logrus.Logger
}

// NewListHandler creates a new list handler acting for userID
func NewListHandler(listCtrl *controllers.ListController, userID string, logger *logrus.Logger) *ListHandler {
	return &ListHandler{listCtrl: listCtrl, userID: userID, logger: logger}
}

// List handles GET /api/user-list?status=&media_type=
func (h *ListHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.ListFilter{
		Status:    models.Status(q.Get("status")),
		MediaType: models.MediaType(q.Get("media_type")),
	}

	entries, err := h.listCtrl.List(h.userID, filter)
	if err != nil {
		writeError(w, h.logger, err, "Item not found", "Failed to get user list")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Add handles POST /api/user-list
func (h *ListHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req models.AddRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.listCtrl.Add(h.userID, req)
	if err != nil {
		writeError(w, h.logger, err, "Media not found", "Failed to add item to list")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Update handles PUT /api/user-list/{id}
func (h *ListHandler) Update(w http.ResponseWriter, r *http.Request) {
	var update models.ListItemUpdate
	if !decodeBody(w, r, &update) {
		return
	}

	item, err := h.listCtrl.Update(h.userID, r.PathValue("id"), update)
	if err != nil {
		writeError(w, h.logger, err, "Item not found", "Failed to update item")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Remove handles DELETE /api/user-list/{id}
func (h *ListHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.listCtrl.Remove(h.userID, r.PathValue("id")); err != nil {
		writeError(w, h.logger, err, "Item not found", "Failed to remove item")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Item removed from list"})
}

// Stats handles GET /api/stats
func (h *ListHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.listCtrl.Stats(h.userID)
	if err != nil {
		writeError(w, h.logger, err, "Item not found", "Failed to get stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
