package tracker

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/amaumene/mediatrakker/internal/client"
	"github.com/amaumene/mediatrakker/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	MessageDuplicate = "Item already in your list!"
	MessageAddFailed = "Failed to add item to list. Please try again."
)

// SearchState is the latest search outcome for one media type
type SearchState struct {
	Query        string
	Results      []models.MediaItem
	Source       string
	TotalResults int
	Loading      bool
}

// AddResult reports the outcome of AddToList with user-facing copy
type AddResult struct {
	Item      *models.ListItem
	Duplicate bool
	Message   string
	Err       error
}

// Added reports whether the item was put on the list
func (r AddResult) Added() bool {
	return r.Item != nil && r.Err == nil
}

// Coordinator runs searches and list mutations. Each mutation is followed
// by a reload of the list and then the stats.
type Coordinator struct {
	backend Backend
	store   *Store
	logger  *logrus.Logger

	mu       sync.Mutex
	searches map[models.MediaType]*SearchState
}

// NewCoordinator creates a coordinator reloading into store
func NewCoordinator(backend Backend, store *Store, logger *logrus.Logger) *Coordinator {
	return &Coordinator{
		backend:  backend,
		store:    store,
		logger:   logger,
		searches: make(map[models.MediaType]*SearchState),
	}
}

// Store returns the snapshot the coordinator reloads into
func (c *Coordinator) Store() *Store {
	return c.store
}

// Search runs one query for mediaType. On success the type's results are
// replaced; on failure they are left as they were. Loading is cleared
// either way.
func (c *Coordinator) Search(ctx context.Context, query string, mediaType models.MediaType) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return ErrEmptyQuery
	}
	if !mediaType.Valid() {
		return ErrInvalidMediaType
	}

	c.setLoading(mediaType, true)

	resp, err := c.backend.Search(ctx, query, mediaType)

	c.mu.Lock()
	defer c.mu.Unlock()
	state := c.state(mediaType)
	state.Loading = false
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"query":      query,
			"media_type": mediaType,
		}).Error("Search failed")
		return err
	}

	if resp == nil {
		resp = &client.SearchResponse{}
	}
	results := resp.Results
	if results == nil {
		results = []models.MediaItem{}
	}
	state.Query = query
	state.Results = results
	state.Source = resp.Source
	state.TotalResults = resp.TotalResults
	return nil
}

// SearchState returns a copy of the search state for mediaType
func (c *Coordinator) SearchState(mediaType models.MediaType) SearchState {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.searches[mediaType]
	if !ok {
		return SearchState{}
	}
	out := *s
	out.Results = make([]models.MediaItem, len(s.Results))
	copy(out.Results, s.Results)
	return out
}

// StatusOptions returns the statuses offered for mediaType, in order
func (c *Coordinator) StatusOptions(mediaType models.MediaType) []models.Status {
	return models.StatusesFor(mediaType)
}

// AddToList puts item on the list with status, then reloads the list and
// stats whether or not the add succeeded.
func (c *Coordinator) AddToList(ctx context.Context, item models.MediaItem, status models.Status) AddResult {
	req := models.AddRequest{
		MediaID:       item.ID,
		MediaType:     item.MediaType,
		Status:        status,
		DisplayFields: item.Display(),
	}

	created, err := c.backend.AddItem(ctx, req)
	c.reload(ctx)

	if err != nil {
		result := AddResult{Err: err, Message: MessageAddFailed}
		if client.IsDuplicate(err) {
			result.Duplicate = true
			result.Message = MessageDuplicate
		}
		c.logger.WithError(err).WithFields(logrus.Fields{
			"media_id":  item.ID,
			"title":     item.Title,
			"duplicate": result.Duplicate,
		}).Warn("Failed to add item to list")
		return result
	}

	return AddResult{
		Item:    created,
		Message: fmt.Sprintf("Added %s to your list", item.Title),
	}
}

// UpdateItem applies a partial update, then reloads the list and stats
func (c *Coordinator) UpdateItem(ctx context.Context, listItemID string, update models.ListItemUpdate) error {
	_, err := c.backend.UpdateItem(ctx, listItemID, update)
	if err != nil {
		c.logger.WithError(err).WithField("list_item_id", listItemID).Error("Failed to update item")
	}
	c.reload(ctx)
	return err
}

// RemoveItem deletes a list item, then reloads the list and stats
func (c *Coordinator) RemoveItem(ctx context.Context, listItemID string) error {
	err := c.backend.RemoveItem(ctx, listItemID)
	if err != nil {
		c.logger.WithError(err).WithField("list_item_id", listItemID).Error("Failed to remove item")
	}
	c.reload(ctx)
	return err
}

// reload refreshes list then stats. Failures are logged by the store and
// leave the previous snapshot.
func (c *Coordinator) reload(ctx context.Context) {
	c.store.Reload(ctx)
}

func (c *Coordinator) setLoading(mediaType models.MediaType, loading bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state(mediaType).Loading = loading
}

// state returns the mutable state for mediaType. Callers hold c.mu.
func (c *Coordinator) state(mediaType models.MediaType) *SearchState {
	s, ok := c.searches[mediaType]
	if !ok {
		s = &SearchState{Results: []models.MediaItem{}}
		c.searches[mediaType] = s
	}
	return s
}
