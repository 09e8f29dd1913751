package controllers

import (
	"fmt"
	"strings"

	"github.com/amaumene/mediatrakker/internal/models"
	"github.com/sirupsen/logrus"
)

// PreferencesController reads and updates per-user settings
type PreferencesController struct {
	db     *models.Database
	logger *logrus.Logger
}

// NewPreferencesController creates a new preferences controller
func NewPreferencesController(db *models.Database, logger *logrus.Logger) *PreferencesController {
	return &PreferencesController{db: db, logger: logger}
}

// Get returns the user's preferences, creating defaults on first access
func (c *PreferencesController) Get(userID string) (*models.Preferences, error) {
	return c.db.GetPreferences(userID)
}

// Update applies the provided fields and saves
func (c *PreferencesController) Update(userID string, update models.PreferencesUpdate) (*models.Preferences, error) {
	if update.Theme != nil && !models.ValidTheme(*update.Theme) {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidTheme, *update.Theme)
	}

	prefs, err := c.db.GetPreferences(userID)
	if err != nil {
		return nil, err
	}

	if update.Theme != nil {
		prefs.Theme = models.ThemeName(*update.Theme)
	}
	if update.Language != nil {
		if lang := strings.TrimSpace(*update.Language); lang != "" {
			prefs.Language = lang
		}
	}
	if update.NotificationsEnabled != nil {
		prefs.NotificationsEnabled = *update.NotificationsEnabled
	}

	if err := c.db.SavePreferences(prefs); err != nil {
		return nil, fmt.Errorf("failed to save preferences: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"theme":   prefs.Theme,
	}).Info("Preferences updated")
	return prefs, nil
}
