package tracker

import (
	"context"
	"fmt"
	"sync"

	"github.com/amaumene/mediatrakker/internal/models"
	"github.com/sirupsen/logrus"
)

// Preferences holds the user's settings for the session. Load it once on
// start; SetTheme saves on change.
type Preferences struct {
	backend Backend
	logger  *logrus.Logger

	mu    sync.RWMutex
	prefs models.Preferences
}

// NewPreferences creates preferences holding the defaults until Load
func NewPreferences(backend Backend, logger *logrus.Logger) *Preferences {
	return &Preferences{
		backend: backend,
		logger:  logger,
		prefs:   models.DefaultPreferences(models.DefaultUserID),
	}
}

// Load fetches the stored preferences. An unknown stored theme falls back
// to the default.
func (p *Preferences) Load(ctx context.Context) error {
	prefs, err := p.backend.Preferences(ctx)
	if err != nil {
		p.logger.WithError(err).Warn("Failed to load preferences, using defaults")
		return err
	}

	if !models.ValidTheme(string(prefs.Theme)) {
		p.logger.WithField("theme", prefs.Theme).Warn("Stored theme is unknown, using default")
		prefs.Theme = models.DefaultTheme
	}

	p.mu.Lock()
	p.prefs = *prefs
	p.mu.Unlock()
	return nil
}

// Theme returns the active theme
func (p *Preferences) Theme() models.ThemeName {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.prefs.Theme
}

// Get returns a copy of the current preferences
func (p *Preferences) Get() models.Preferences {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.prefs
}

// SetTheme validates name, saves it and applies it. Nothing changes when
// the name is unknown or the save fails.
func (p *Preferences) SetTheme(ctx context.Context, name string) error {
	if !models.ValidTheme(name) {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, name)
	}

	saved, err := p.backend.UpdatePreferences(ctx, models.PreferencesUpdate{Theme: &name})
	if err != nil {
		p.logger.WithError(err).WithField("theme", name).Error("Failed to save theme")
		return err
	}

	p.mu.Lock()
	p.prefs = *saved
	p.prefs.Theme = models.ThemeName(name)
	p.mu.Unlock()

	p.logger.WithField("theme", name).Info("Theme changed")
	return nil
}
