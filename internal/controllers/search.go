package controllers

import (
	"context"
	"fmt"
	"strings"

	"github.com/amaumene/mediatrakker/internal/metrics"
	"github.com/amaumene/mediatrakker/internal/models"
	"github.com/amaumene/mediatrakker/internal/utils"
	"github.com/sirupsen/logrus"
)

const (
	maxLocalResults = 10

	SourceLocal    = "local"
	SourceExternal = "external"
)

// Catalog searches the external providers
type Catalog interface {
	Search(ctx context.Context, query string, mediaType models.MediaType, page int) ([]models.MediaItem, error)
}

// SearchResponse is the result of a catalog search
type SearchResponse struct {
	Results      []models.MediaItem `json:"results"`
	Source       string             `json:"source"`
	TotalResults int                `json:"total_results"`
}

// SearchController handles catalog searches. Titles already stored locally
// are served first; providers are only called when too few match.
type SearchController struct {
	db        *models.Database
	catalog   Catalog
	blocklist *utils.Blocklist
	threshold int
	metrics   *metrics.Metrics
	logger    *logrus.Logger
}

// NewSearchController creates a new search controller
func NewSearchController(db *models.Database, catalog Catalog, blocklist *utils.Blocklist, threshold int, m *metrics.Metrics, logger *logrus.Logger) *SearchController {
	if threshold < 1 {
		threshold = 1
	}
	return &SearchController{
		db:        db,
		catalog:   catalog,
		blocklist: blocklist,
		threshold: threshold,
		metrics:   m,
		logger:    logger,
	}
}

// Search finds media of one type matching query
func (c *SearchController) Search(ctx context.Context, query string, mediaType models.MediaType, page int) (*SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.ErrEmptyQuery
	}
	if !mediaType.Valid() {
		return nil, models.ErrInvalidMediaType
	}
	if page < 1 {
		page = 1
	}

	log := c.logger.WithFields(logrus.Fields{
		"query":      query,
		"media_type": mediaType,
		"page":       page,
	})

	local, err := c.searchLocal(query, mediaType)
	if err != nil {
		log.WithError(err).Warn("Local catalog lookup failed, falling back to providers")
	} else if len(local) >= c.threshold {
		log.WithField("count", len(local)).Debug("Serving search from local catalog")
		c.observe(mediaType, SourceLocal)
		return &SearchResponse{Results: local, Source: SourceLocal, TotalResults: len(local)}, nil
	}

	found, err := c.catalog.Search(ctx, query, mediaType, page)
	if err != nil {
		return nil, fmt.Errorf("catalog search failed: %w", err)
	}

	results := make([]models.MediaItem, 0, len(found))
	for i := range found {
		item := found[i]
		if term, blocked := c.blocklist.Match(item.Title, item.Genres); blocked {
			log.WithFields(logrus.Fields{
				"title": item.Title,
				"term":  term,
			}).Debug("Search result blocklisted")
			continue
		}

		stored, created, err := c.db.UpsertMedia(&item)
		if err != nil {
			log.WithError(err).WithField("external_id", item.ExternalID).Error("Failed to store search result")
			continue
		}
		if created {
			log.WithFields(logrus.Fields{
				"media_id": stored.ID,
				"title":    stored.Title,
			}).Debug("Stored new catalog item")
		}
		results = append(results, *stored)
	}

	results = utils.RankByTitle(query, results, func(m models.MediaItem) string { return m.Title })

	log.WithField("count", len(results)).Info("Search completed")
	c.observe(mediaType, SourceExternal)
	return &SearchResponse{Results: results, Source: SourceExternal, TotalResults: len(results)}, nil
}

// searchLocal returns up to maxLocalResults stored items whose title matches
func (c *SearchController) searchLocal(query string, mediaType models.MediaType) ([]models.MediaItem, error) {
	medias, err := c.db.GetMediasByType(mediaType)
	if err != nil {
		return nil, err
	}

	var matches []models.MediaItem
	for _, m := range medias {
		if utils.MatchesQuery(query, m.Title) {
			matches = append(matches, *m)
		}
	}

	matches = utils.RankByTitle(query, matches, func(m models.MediaItem) string { return m.Title })
	if len(matches) > maxLocalResults {
		matches = matches[:maxLocalResults]
	}
	return matches, nil
}

// GetMedia returns a stored catalog item
func (c *SearchController) GetMedia(id string) (*models.MediaItem, error) {
	return c.db.GetMediaByID(id)
}

func (c *SearchController) observe(mediaType models.MediaType, source string) {
	if c.metrics != nil {
		c.metrics.SearchResults.WithLabelValues(string(mediaType), source).Inc()
	}
}
