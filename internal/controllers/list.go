package controllers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amaumene/mediatrakker/internal/metrics"
	"github.com/amaumene/mediatrakker/internal/models"
	"github.com/sirupsen/logrus"
)

// ListController manages a user's tracked items and their statistics
type ListController struct {
	db      *models.Database
	metrics *metrics.Metrics
	logger  *logrus.Logger
}

// NewListController creates a new list controller
func NewListController(db *models.Database, m *metrics.Metrics, logger *logrus.Logger) *ListController {
	return &ListController{
		db:      db,
		metrics: m,
		logger:  logger,
	}
}

// Add puts a media item on the user's list. The display snapshot comes from
// the request when present, otherwise from the stored catalog item.
func (c *ListController) Add(userID string, req models.AddRequest) (*models.ListItem, error) {
	req.MediaID = strings.TrimSpace(req.MediaID)
	if req.MediaID == "" {
		return nil, models.ErrMissingMediaID
	}
	if !req.MediaType.Valid() {
		return nil, models.ErrInvalidMediaType
	}
	if !models.ValidStatus(req.MediaType, req.Status) {
		return nil, fmt.Errorf("%w: %q for %s", models.ErrInvalidStatus, req.Status, req.MediaType)
	}
	if req.Rating != nil && !models.ValidRating(*req.Rating) {
		return nil, models.ErrInvalidRating
	}

	display := req.DisplayFields
	if display.Empty() {
		media, err := c.db.GetMediaByID(req.MediaID)
		if err != nil {
			return nil, fmt.Errorf("failed to load media %s: %w", req.MediaID, err)
		}
		display = media.Display()
	}

	item := &models.ListItem{
		UserID:    userID,
		MediaID:   req.MediaID,
		MediaType: req.MediaType,
		Status:    req.Status,
		Rating:    req.Rating,
		Notes:     req.Notes,
		Media:     display.Snapshot(req.MediaID, req.MediaType),
	}

	if err := c.db.CreateListItem(item); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			c.logger.WithFields(logrus.Fields{
				"user_id":  userID,
				"media_id": req.MediaID,
			}).Info("Media already on list")
			return nil, err
		}
		return nil, fmt.Errorf("failed to create list item: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"list_item_id": item.ID,
		"media_id":     item.MediaID,
		"title":        item.Media.Title,
		"status":       item.Status,
	}).Info("Added item to list")
	c.observe("add")
	return item, nil
}

// List returns the user's entries, oldest first
func (c *ListController) List(userID string, filter models.ListFilter) ([]models.UserListEntry, error) {
	if filter.MediaType != "" && !filter.MediaType.Valid() {
		return nil, models.ErrInvalidMediaType
	}

	items, err := c.db.GetListItems(userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get list items: %w", err)
	}

	entries := make([]models.UserListEntry, 0, len(items))
	for _, item := range items {
		media := item.Media
		if media.ID == "" {
			media.ID = item.MediaID
			media.MediaType = item.MediaType
		}
		entries = append(entries, models.UserListEntry{ListItem: *item, MediaItem: media})
	}
	return entries, nil
}

// Update applies a partial change to one of the user's items
func (c *ListController) Update(userID, id string, update models.ListItemUpdate) (*models.ListItem, error) {
	item, err := c.db.GetListItem(userID, id)
	if err != nil {
		return nil, err
	}

	if update.Status != nil {
		if !models.ValidStatus(item.MediaType, *update.Status) {
			return nil, fmt.Errorf("%w: %q for %s", models.ErrInvalidStatus, *update.Status, item.MediaType)
		}
		item.Status = *update.Status
	}
	if update.Rating != nil {
		if !models.ValidRating(*update.Rating) {
			return nil, models.ErrInvalidRating
		}
		item.Rating = update.Rating
	}
	if update.Notes != nil {
		item.Notes = *update.Notes
	}

	if err := c.db.UpdateListItem(item); err != nil {
		return nil, fmt.Errorf("failed to update list item: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"list_item_id": item.ID,
		"status":       item.Status,
	}).Info("Updated list item")
	c.observe("update")
	return item, nil
}

// Remove deletes one of the user's items
func (c *ListController) Remove(userID, id string) error {
	if err := c.db.DeleteListItem(userID, id); err != nil {
		return err
	}
	c.logger.WithField("list_item_id", id).Info("Removed list item")
	c.observe("remove")
	return nil
}

// Stats counts the user's items by media type and status
func (c *ListController) Stats(userID string) (models.StatsSummary, error) {
	return c.db.GetStats(userID)
}

func (c *ListController) observe(operation string) {
	if c.metrics != nil {
		c.metrics.ListMutations.WithLabelValues(operation).Inc()
	}
}
