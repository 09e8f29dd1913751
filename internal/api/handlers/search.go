package handlers

import (
	"net/http"
	"strconv"

	"github.com/amaumene/mediatrakker/internal/controllers"
	"github.com/amaumene/mediatrakker/internal/models"
	"github.com/sirupsen/logrus"
)

// SearchHandler serves catalog searches and catalog item lookups
type SearchHandler struct {
	searchCtrl *controllers.SearchController
	logger     *logrus.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchCtrl *controllers.SearchController, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{searchCtrl: searchCtrl, logger: logger}
}

// Search handles GET /api/search?query=&media_type=&page=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := 1
	if raw := q.Get("page"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 1 {
			writeDetail(w, http.StatusBadRequest, "Page must be a positive integer")
			return
		}
		page = p
	}

	resp, err := h.searchCtrl.Search(r.Context(), q.Get("query"), models.MediaType(q.Get("media_type")), page)
	if err != nil {
		writeError(w, h.logger, err, "No results found", "An error occurred while searching")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetMedia handles GET /api/media/{id}
func (h *SearchHandler) GetMedia(w http.ResponseWriter, r *http.Request) {
	media, err := h.searchCtrl.GetMedia(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err, "Media not found", "Failed to get media")
		return
	}
	writeJSON(w, http.StatusOK, media)
}
