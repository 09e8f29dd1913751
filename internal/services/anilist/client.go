package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/amaumene/mediatrakker/internal/config"
	"github.com/amaumene/mediatrakker/internal/metrics"
	"github.com/amaumene/mediatrakker/internal/models"
	"github.com/amaumene/mediatrakker/internal/services/catalog"
	"github.com/sirupsen/logrus"
)

const perPage = 10

const searchQuery = `
query ($search: String, $type: MediaType, $page: Int, $perPage: Int) {
  Page(page: $page, perPage: $perPage) {
    media(search: $search, type: $type) {
      id
      title { romaji english native }
      format
      status
      episodes
      chapters
      volumes
      genres
      averageScore
      startDate { year month day }
      endDate { year month day }
      coverImage { large medium }
      bannerImage
      description
      studios { nodes { name } }
    }
  }
}`

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type searchResponse struct {
	Data struct {
		Page *struct {
			Media []media `json:"media"`
		} `json:"Page"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type fuzzyDate struct {
	Year  *int `json:"year"`
	Month *int `json:"month"`
	Day   *int `json:"day"`
}

type media struct {
	ID    int `json:"id"`
	Title struct {
		Romaji  string `json:"romaji"`
		English string `json:"english"`
		Native  string `json:"native"`
	} `json:"title"`
	Status       string    `json:"status"`
	Episodes     *int      `json:"episodes"`
	Chapters     *int      `json:"chapters"`
	Volumes      *int      `json:"volumes"`
	Genres       []string  `json:"genres"`
	AverageScore *int      `json:"averageScore"`
	StartDate    fuzzyDate `json:"startDate"`
	CoverImage   struct {
		Large  string `json:"large"`
		Medium string `json:"medium"`
	} `json:"coverImage"`
	BannerImage string `json:"bannerImage"`
	Description string `json:"description"`
	Studios     struct {
		Nodes []struct {
			Name string `json:"name"`
		} `json:"nodes"`
	} `json:"studios"`
}

// Client searches anime and manga through the AniList GraphQL API
type Client struct {
	apiURL    string
	requester *catalog.Requester
	logger    *logrus.Logger
}

// NewClient creates a new AniList client
func NewClient(cfg *config.Config, m *metrics.Metrics, logger *logrus.Logger) (*Client, error) {
	if cfg.AniListAPIURL == "" {
		return nil, fmt.Errorf("AniList API URL is required")
	}
	return &Client{
		apiURL:    cfg.AniListAPIURL,
		requester: catalog.NewRequester("anilist", nil, cfg.ProviderRateLimit, m, logger),
		logger:    logger,
	}, nil
}

// Name implements catalog.Provider
func (c *Client) Name() string { return "anilist" }

// MediaTypes implements catalog.Provider
func (c *Client) MediaTypes() []models.MediaType {
	return []models.MediaType{models.MediaTypeAnime, models.MediaTypeManga}
}

// Search implements catalog.Provider
func (c *Client) Search(ctx context.Context, query string, mediaType models.MediaType, page int) ([]models.MediaItem, error) {
	if mediaType != models.MediaTypeAnime && mediaType != models.MediaTypeManga {
		return nil, fmt.Errorf("anilist does not serve %q", mediaType)
	}

	body, err := json.Marshal(graphQLRequest{
		Query: searchQuery,
		Variables: map[string]interface{}{
			"search":  query,
			"type":    strings.ToUpper(string(mediaType)),
			"page":    page,
			"perPage": perPage,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal graphql request: %w", err)
	}

	var resp searchResponse
	err = c.requester.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("anilist search failed: %w", err)
	}

	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("anilist returned errors: %s", resp.Errors[0].Message)
	}
	if resp.Data.Page == nil {
		return []models.MediaItem{}, nil
	}

	items := make([]models.MediaItem, 0, len(resp.Data.Page.Media))
	for _, m := range resp.Data.Page.Media {
		items = append(items, convert(m, mediaType))
	}
	return items, nil
}

func convert(m media, mediaType models.MediaType) models.MediaItem {
	title := m.Title.English
	if title == "" {
		title = m.Title.Romaji
	}
	if title == "" {
		title = m.Title.Native
	}

	var vote *float64
	if m.AverageScore != nil && *m.AverageScore > 0 {
		v := float64(*m.AverageScore) / 10
		vote = &v
	}

	studios := make([]string, 0, len(m.Studios.Nodes))
	for _, s := range m.Studios.Nodes {
		studios = append(studios, s.Name)
	}

	genres := m.Genres
	if genres == nil {
		genres = []string{}
	}

	item := models.MediaItem{
		ExternalID:    strconv.Itoa(m.ID),
		MediaType:     mediaType,
		Title:         title,
		Year:          m.StartDate.Year,
		Genres:        genres,
		PosterPath:    m.CoverImage.Large,
		BackdropPath:  m.BannerImage,
		Overview:      m.Description,
		VoteAverage:   vote,
		ReleaseDate:   releaseDate(m.StartDate),
		ReleaseStatus: m.Status,
		Episodes:      m.Episodes,
		Chapters:      m.Chapters,
		Volumes:       m.Volumes,
	}

	// Studios are credited as developers for anime and authors for manga
	if mediaType == models.MediaTypeAnime {
		item.Developers = studios
	} else {
		item.Authors = studios
	}
	return item
}

// releaseDate formats a fuzzy date as YYYY-MM-DD, defaulting month and day to 1
func releaseDate(d fuzzyDate) string {
	if d.Year == nil {
		return ""
	}
	month, day := 1, 1
	if d.Month != nil {
		month = *d.Month
	}
	if d.Day != nil {
		day = *d.Day
	}
	return fmt.Sprintf("%04d-%02d-%02d", *d.Year, month, day)
}
