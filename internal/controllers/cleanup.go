package controllers

import (
	"context"
	"fmt"
	"time"

	"github.com/amaumene/mediatrakker/internal/models"
	"github.com/sirupsen/logrus"
)

// CleanupController prunes catalog items nobody tracks
type CleanupController struct {
	db     *models.Database
	maxAge time.Duration
	now    func() time.Time
	logger *logrus.Logger
}

// NewCleanupController creates a new cleanup controller. Unreferenced
// catalog items older than maxAge are removed.
func NewCleanupController(db *models.Database, maxAge time.Duration, logger *logrus.Logger) *CleanupController {
	return &CleanupController{
		db:     db,
		maxAge: maxAge,
		now:    time.Now,
		logger: logger,
	}
}

// CleanupOrphanMedia deletes catalog items that are not on any list and
// were fetched before the retention window. Returns how many were removed.
func (c *CleanupController) CleanupOrphanMedia(ctx context.Context) (int, error) {
	c.logger.Info("Starting cleanup of orphan catalog items")

	medias, err := c.db.GetAllMedias()
	if err != nil {
		return 0, fmt.Errorf("failed to get medias: %w", err)
	}

	cutoff := c.now().Add(-c.maxAge)
	removed := 0
	for _, media := range medias {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if media.CreatedAt.After(cutoff) {
			continue
		}

		refs, err := c.db.CountListItemsForMedia(media.ID)
		if err != nil {
			c.logger.WithError(err).WithField("media_id", media.ID).Error("Failed to count list references")
			continue
		}
		if refs > 0 {
			continue
		}

		if err := c.db.DeleteMedia(media.ID); err != nil {
			c.logger.WithError(err).WithField("media_id", media.ID).Error("Failed to delete media")
			continue
		}
		c.logger.WithFields(logrus.Fields{
			"media_id": media.ID,
			"title":    media.Title,
		}).Debug("Removed orphan media")
		removed++
	}

	c.logger.WithFields(logrus.Fields{
		"checked": len(medias),
		"removed": removed,
	}).Info("Cleanup of orphan catalog items completed")
	return removed, nil
}
