package models

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// Database wraps the bolthold store
type Database struct {
	store *bolthold.Store
	now   func() time.Time
}

// NewDatabase creates a new database connection
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store, now: time.Now}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

func notFound(err error) error {
	if errors.Is(err, bolthold.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// Media operations

// UpsertMedia stores a catalog item unless one with the same external id and
// media type already exists. The stored item is returned either way.
func (db *Database) UpsertMedia(media *MediaItem) (*MediaItem, bool, error) {
	existing, err := db.GetMediaByExternalID(media.ExternalID, media.MediaType)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	now := db.now()
	media.ID = uuid.New().String()
	media.CreatedAt = now
	media.UpdatedAt = now
	if err := db.store.Insert(media.ID, media); err != nil {
		return nil, false, fmt.Errorf("failed to insert media: %w", err)
	}
	return media, true, nil
}

// GetMediaByID retrieves a media item by ID
func (db *Database) GetMediaByID(id string) (*MediaItem, error) {
	var media MediaItem
	if err := db.store.Get(id, &media); err != nil {
		return nil, notFound(err)
	}
	return &media, nil
}

// GetMediaByExternalID retrieves a media item by provider id and type
func (db *Database) GetMediaByExternalID(externalID string, mediaType MediaType) (*MediaItem, error) {
	var media MediaItem
	err := db.store.FindOne(&media, bolthold.Where("ExternalID").Eq(externalID).And("MediaType").Eq(mediaType))
	if err != nil {
		return nil, notFound(err)
	}
	return &media, nil
}

// GetMediasByType retrieves every catalog item of a media type
func (db *Database) GetMediasByType(mediaType MediaType) ([]*MediaItem, error) {
	var medias []*MediaItem
	err := db.store.Find(&medias, bolthold.Where("MediaType").Eq(mediaType))
	return medias, err
}

// GetAllMedias retrieves all media items
func (db *Database) GetAllMedias() ([]*MediaItem, error) {
	var medias []*MediaItem
	err := db.store.Find(&medias, nil)
	return medias, err
}

// DeleteMedia deletes a media item by ID
func (db *Database) DeleteMedia(id string) error {
	return notFound(db.store.Delete(id, &MediaItem{}))
}

// List operations

// CreateListItem adds a media item to the user's list. The duplicate check
// and the insert run in one bolt transaction.
func (db *Database) CreateListItem(item *ListItem) error {
	now := db.now()
	item.ID = uuid.New().String()
	item.CreatedAt = now
	item.UpdatedAt = now

	return db.store.Bolt().Update(func(tx *bbolt.Tx) error {
		var existing []ListItem
		query := bolthold.Where("UserID").Eq(item.UserID).And("MediaID").Eq(item.MediaID)
		if err := db.store.TxFind(tx, &existing, query); err != nil {
			return err
		}
		if len(existing) > 0 {
			return ErrDuplicate
		}
		return db.store.TxInsert(tx, item.ID, item)
	})
}

// ListFilter narrows a list query. Empty fields match everything.
type ListFilter struct {
	Status    Status
	MediaType MediaType
}

// GetListItems retrieves the user's list items ordered by creation time
func (db *Database) GetListItems(userID string, filter ListFilter) ([]*ListItem, error) {
	query := bolthold.Where("UserID").Eq(userID)
	if filter.Status != "" {
		query = query.And("Status").Eq(filter.Status)
	}
	if filter.MediaType != "" {
		query = query.And("MediaType").Eq(filter.MediaType)
	}

	var items []*ListItem
	if err := db.store.Find(&items, query); err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

// GetListItem retrieves one of the user's list items
func (db *Database) GetListItem(userID, id string) (*ListItem, error) {
	var item ListItem
	if err := db.store.Get(id, &item); err != nil {
		return nil, notFound(err)
	}
	if item.UserID != userID {
		return nil, ErrNotFound
	}
	return &item, nil
}

// UpdateListItem persists changes to an existing list item
func (db *Database) UpdateListItem(item *ListItem) error {
	item.UpdatedAt = db.now()
	return notFound(db.store.Update(item.ID, item))
}

// DeleteListItem removes one of the user's list items
func (db *Database) DeleteListItem(userID, id string) error {
	if _, err := db.GetListItem(userID, id); err != nil {
		return err
	}
	return notFound(db.store.Delete(id, &ListItem{}))
}

// CountListItemsForMedia counts list items, across users, that reference a media item
func (db *Database) CountListItemsForMedia(mediaID string) (int, error) {
	var items []ListItem
	if err := db.store.Find(&items, bolthold.Where("MediaID").Eq(mediaID)); err != nil {
		return 0, err
	}
	return len(items), nil
}

// GetStats counts the user's list items grouped by media type and status
func (db *Database) GetStats(userID string) (StatsSummary, error) {
	groups, err := db.store.FindAggregate(&ListItem{}, bolthold.Where("UserID").Eq(userID), "MediaType", "Status")
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate list items: %w", err)
	}

	stats := make(StatsSummary)
	for _, group := range groups {
		var mediaType MediaType
		var status Status
		group.Group(&mediaType, &status)
		stats.Add(mediaType, status, int(group.Count()))
	}
	return stats, nil
}

// Preferences operations

// GetPreferences returns the user's preferences, creating the defaults on first read
func (db *Database) GetPreferences(userID string) (*Preferences, error) {
	var prefs Preferences
	err := db.store.FindOne(&prefs, bolthold.Where("UserID").Eq(userID))
	if err == nil {
		return &prefs, nil
	}
	if !errors.Is(err, bolthold.ErrNotFound) {
		return nil, err
	}

	prefs = DefaultPreferences(userID)
	now := db.now()
	prefs.ID = uuid.New().String()
	prefs.CreatedAt = now
	prefs.UpdatedAt = now
	if err := db.store.Insert(prefs.ID, &prefs); err != nil {
		return nil, fmt.Errorf("failed to create preferences: %w", err)
	}
	return &prefs, nil
}

// SavePreferences persists the user's preferences
func (db *Database) SavePreferences(prefs *Preferences) error {
	prefs.UpdatedAt = db.now()
	return notFound(db.store.Update(prefs.ID, prefs))
}
