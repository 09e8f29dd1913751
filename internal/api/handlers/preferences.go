package handlers

import (
	"net/http"

	"github.com/amaumene/mediatrakker/internal/controllers"
	"github.com/amaumene/mediatrakker/internal/models"
	"github.com/sirupsen/logrus"
)

// PreferencesHandler serves the user's UI settings
type PreferencesHandler struct {
	prefsCtrl *controllers.PreferencesController
	userID    string
	logger    *logrus.Logger
}

// NewPreferencesHandler creates a new preferences handler acting for userID
func NewPreferencesHandler(prefsCtrl *controllers.PreferencesController, userID string, logger *logrus.Logger) *PreferencesHandler {
	return &PreferencesHandler{prefsCtrl: prefsCtrl, userID: userID, logger: logger}
}

// Get handles GET /api/user-preferences
func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.prefsCtrl.Get(h.userID)
	if err != nil {
		writeError(w, h.logger, err, "Preferences not found", "Failed to get preferences")
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

// Update handles PUT /api/user-preferences
func (h *PreferencesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var update models.PreferencesUpdate
	if !decodeBody(w, r, &update) {
		return
	}

	prefs, err := h.prefsCtrl.Update(h.userID, update)
	if err != nil {
		writeError(w, h.logger, err, "Preferences not found", "Failed to update preferences")
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}
