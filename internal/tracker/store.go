package tracker

import (
	"context"
	"sync"

	"github.com/amaumene/mediatrakker/internal/models"
	"github.com/sirupsen/logrus"
)

// Store holds the latest list and stats snapshot fetched from the backend.
// The mutex only guards memory; concurrent reloads are not ordered and the
// last one to finish wins.
type Store struct {
	backend Backend
	logger  *logrus.Logger

	mu      sync.RWMutex
	entries []models.UserListEntry
	stats   models.StatsSummary
}

// NewStore creates an empty store
func NewStore(backend Backend, logger *logrus.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logger,
		entries: []models.UserListEntry{},
		stats:   models.StatsSummary{},
	}
}

// ReloadList replaces the entries with the backend's full list. On failure
// the previous entries are kept and the error is logged and returned.
func (s *Store) ReloadList(ctx context.Context) error {
	entries, err := s.backend.ListEntries(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to reload user list, keeping previous snapshot")
		return err
	}
	if entries == nil {
		entries = []models.UserListEntry{}
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()

	s.logger.WithField("count", len(entries)).Debug("User list reloaded")
	return nil
}

// ReloadStats replaces the stats with the backend's summary. On failure
// the previous stats are kept and the error is logged and returned.
func (s *Store) ReloadStats(ctx context.Context) error {
	stats, err := s.backend.Stats(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to reload stats, keeping previous snapshot")
		return err
	}
	if stats == nil {
		stats = models.StatsSummary{}
	}

	s.mu.Lock()
	s.stats = stats
	s.mu.Unlock()

	s.logger.WithField("total", TotalItems(stats)).Debug("Stats reloaded")
	return nil
}

// Reload refreshes the list and then the stats. Both are attempted; the
// first error is returned.
func (s *Store) Reload(ctx context.Context) error {
	listErr := s.ReloadList(ctx)
	statsErr := s.ReloadStats(ctx)
	if listErr != nil {
		return listErr
	}
	return statsErr
}

// Entries returns a copy of the current list
func (s *Store) Entries() []models.UserListEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.UserListEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Stats returns a copy of the current stats
func (s *Store) Stats() models.StatsSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats.Clone()
}
