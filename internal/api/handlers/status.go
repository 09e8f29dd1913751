package handlers

import (
	"net/http"

	"github.com/amaumene/mediatrakker/internal/models"
	"github.com/sirupsen/logrus"
)

// StatusHandler reports catalog and list sizes
type StatusHandler struct {
	db     *models.Database
	userID string
	logger *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(db *models.Database, userID string, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		db:     db,
		userID: userID,
		logger: logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	TotalMedias     int            `json:"total_medias"`
	MediasByType    map[string]int `json:"medias_by_type"`
	TotalListItems  int            `json:"total_list_items"`
	ListItemsByType map[string]int `json:"list_items_by_type"`
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	medias, err := h.db.GetAllMedias()
	if err != nil {
		writeError(w, h.logger, err, "Not found", "Failed to get medias")
		return
	}
	items, err := h.db.GetListItems(h.userID, models.ListFilter{})
	if err != nil {
		writeError(w, h.logger, err, "Not found", "Failed to get list items")
		return
	}

	response := StatusResponse{
		TotalMedias:     len(medias),
		MediasByType:    make(map[string]int),
		TotalListItems:  len(items),
		ListItemsByType: make(map[string]int),
	}
	for _, media := range medias {
		response.MediasByType[string(media.MediaType)]++
	}
	for _, item := range items {
		response.ListItemsByType[string(item.MediaType)]++
	}

	writeJSON(w, http.StatusOK, response)
}
