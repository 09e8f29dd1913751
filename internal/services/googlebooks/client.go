package googlebooks

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/amaumene/mediatrakker/internal/config"
	"github.com/amaumene/mediatrakker/internal/metrics"
	"github.com/amaumene/mediatrakker/internal/models"
	"github.com/amaumene/mediatrakker/internal/services/catalog"
	"github.com/amaumene/mediatrakker/internal/utils"
	"github.com/sirupsen/logrus"
)

const maxResults = 10

type volumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

type volume struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title               string   `json:"title"`
		Authors             []string `json:"authors"`
		Publisher           string   `json:"publisher"`
		PublishedDate       string   `json:"publishedDate"`
		Description         string   `json:"description"`
		PageCount           *int     `json:"pageCount"`
		Categories          []string `json:"categories"`
		AverageRating       *float64 `json:"averageRating"`
		IndustryIdentifiers []struct {
			Type       string `json:"type"`
			Identifier string `json:"identifier"`
		} `json:"industryIdentifiers"`
		ImageLinks struct {
			Thumbnail      string `json:"thumbnail"`
			SmallThumbnail string `json:"smallThumbnail"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}

// Client searches books through the Google Books volumes API
type Client struct {
	apiURL    string
	requester *catalog.Requester
	logger    *logrus.Logger
}

// NewClient creates a new Google Books client
func NewClient(cfg *config.Config, m *metrics.Metrics, logger *logrus.Logger) (*Client, error) {
	if cfg.GoogleBooksAPIURL == "" {
		return nil, fmt.Errorf("Google Books API URL is required")
	}
	return &Client{
		apiURL:    cfg.GoogleBooksAPIURL,
		requester: catalog.NewRequester("googlebooks", nil, cfg.ProviderRateLimit, m, logger),
		logger:    logger,
	}, nil
}

// Name implements catalog.Provider
func (c *Client) Name() string { return "googlebooks" }

// MediaTypes implements catalog.Provider
func (c *Client) MediaTypes() []models.MediaType {
	return []models.MediaType{models.MediaTypeBook}
}

// Search implements catalog.Provider
func (c *Client) Search(ctx context.Context, query string, mediaType models.MediaType, page int) ([]models.MediaItem, error) {
	if mediaType != models.MediaTypeBook {
		return nil, fmt.Errorf("googlebooks does not serve %q", mediaType)
	}
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("startIndex", strconv.Itoa((page-1)*maxResults))
	params.Set("maxResults", strconv.Itoa(maxResults))
	endpoint := c.apiURL + "?" + params.Encode()

	var resp volumesResponse
	err := c.requester.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("google books search failed: %w", err)
	}

	items := make([]models.MediaItem, 0, len(resp.Items))
	for _, v := range resp.Items {
		items = append(items, convert(v))
	}
	return items, nil
}

func convert(v volume) models.MediaItem {
	info := v.VolumeInfo

	poster := info.ImageLinks.Thumbnail
	if poster == "" {
		poster = info.ImageLinks.SmallThumbnail
	}

	var isbn string
	if len(info.IndustryIdentifiers) > 0 {
		isbn = info.IndustryIdentifiers[0].Identifier
	}

	genres := info.Categories
	if genres == nil {
		genres = []string{}
	}

	return models.MediaItem{
		ExternalID:  v.ID,
		MediaType:   models.MediaTypeBook,
		Title:       info.Title,
		Year:        utils.ExtractYear(info.PublishedDate),
		Genres:      genres,
		PosterPath:  poster,
		Overview:    info.Description,
		VoteAverage: info.AverageRating,
		ReleaseDate: info.PublishedDate,
		Authors:     info.Authors,
		Publisher:   info.Publisher,
		ISBN:        isbn,
		PageCount:   info.PageCount,
	}
}
