package tmdb

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

// searchResponse is the paged result of /search/movie and /search/tv
type searchResponse struct {
	Page         int            `json:"page"`
	Results      []searchResult `json:"results"`
	TotalResults int            `json:"total_results"`
}

type searchResult struct {
	ID int `json:"id"`
}

type genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// movieDetails is the subset of /movie/{id} we keep
type movieDetails struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	ReleaseDate  string   `json:"release_date"`
	Genres       []genre  `json:"genres"`
	PosterPath   string   `json:"poster_path"`
	BackdropPath string   `json:"backdrop_path"`
	Overview     string   `json:"overview"`
	VoteAverage  *float64 `json:"vote_average"`
}

// tvDetails is the subset of /tv/{id} we keep
type tvDetails struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	OriginalName     string   `json:"original_name"`
	FirstAirDate     string   `json:"first_air_date"`
	Genres           []genre  `json:"genres"`
	PosterPath       string   `json:"poster_path"`
	BackdropPath     string   `json:"backdrop_path"`
	Overview         string   `json:"overview"`
	VoteAverage      *float64 `json:"vote_average"`
	NumberOfSeasons  *int     `json:"number_of_seasons"`
	NumberOfEpisodes *int     `json:"number_of_episodes"`
}

// Client searches movies and TV shows on The Movie Database
type Client struct {
	baseURL      string
	imageBaseURL string
	apiKey       string
	requester    *catalog.Requester
	logger       *logrus.Logger
}

// NewClient creates a new TMDB client
func NewClient(cfg *config.Config, m *metrics.Metrics, logger *logrus.Logger) (*Client, error) {
	if cfg.TMDBAPIKey == "" {
		return nil, fmt.Errorf("TMDB API key is required")
	}

	return &Client{
		baseURL:      cfg.TMDBBaseURL,
		imageBaseURL: cfg.TMDBImageBaseURL,
		apiKey:       cfg.TMDBAPIKey,
		requester:    catalog.NewRequester("tmdb", nil, cfg.ProviderRateLimit, m, logger),
		logger:       logger,
	}, nil
}

// Name implements catalog.Provider
func (c *Client) Name() string { return "tmdb" }

// MediaTypes implements catalog.Provider
func (c *Client) MediaTypes() []models.MediaType {
	return []models.MediaType{models.MediaTypeMovie, models.MediaTypeTV}
}

// Search finds titles, then fetches each hit's details for genres and
// season counts. A hit whose details fail is skipped.
func (c *Client) Search(ctx context.Context, query string, mediaType models.MediaType, page int) ([]models.MediaItem, error) {
	kind, err := pathKind(mediaType)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))

	var resp searchResponse
	if err := c.get(ctx, "/search/"+kind, params, &resp); err != nil {
		return nil, fmt.Errorf("tmdb %s search failed: %w", kind, err)
	}

	items := make([]models.MediaItem, 0, len(resp.Results))
	for _, result := range resp.Results {
		item, err := c.details(ctx, mediaType, result.ID)
		if err != nil {
			c.logger.WithError(err).WithFields(logrus.Fields{
				"tmdb_id":    result.ID,
				"media_type": mediaType,
			}).Warn("Failed to fetch TMDB details, skipping result")
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

func (c *Client) details(ctx context.Context, mediaType models.MediaType, id int) (models.MediaItem, error) {
	if mediaType == models.MediaTypeMovie {
		var movie movieDetails
		if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), nil, &movie); err != nil {
			return models.MediaItem{}, err
		}
		return c.convertMovie(movie), nil
	}

	var tv tvDetails
	if err := c.get(ctx, fmt.Sprintf("/tv/%d", id), nil, &tv); err != nil {
		return models.MediaItem{}, err
	}
	return c.convertTV(tv), nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	endpoint := c.baseURL + path + "?" + params.Encode()

	return c.requester.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	}, out)
}

func (c *Client) convertMovie(m movieDetails) models.MediaItem {
	return models.MediaItem{
		ExternalID:   strconv.Itoa(m.ID),
		MediaType:    models.MediaTypeMovie,
		Title:        m.Title,
		Year:         utils.ExtractYear(m.ReleaseDate),
		Genres:       genreNames(m.Genres),
		PosterPath:   c.imageURL(m.PosterPath),
		BackdropPath: c.imageURL(m.BackdropPath),
		Overview:     m.Overview,
		VoteAverage:  m.VoteAverage,
		ReleaseDate:  m.ReleaseDate,
	}
}

func (c *Client) convertTV(tv tvDetails) models.MediaItem {
	title := tv.Name
	if title == "" {
		title = tv.OriginalName
	}
	return models.MediaItem{
		ExternalID:   strconv.Itoa(tv.ID),
		MediaType:    models.MediaTypeTV,
		Title:        title,
		Year:         utils.ExtractYear(tv.FirstAirDate),
		Genres:       genreNames(tv.Genres),
		PosterPath:   c.imageURL(tv.PosterPath),
		BackdropPath: c.imageURL(tv.BackdropPath),
		Overview:     tv.Overview,
		VoteAverage:  tv.VoteAverage,
		ReleaseDate:  tv.FirstAirDate,
		Seasons:      tv.NumberOfSeasons,
		Episodes:     tv.NumberOfEpisodes,
	}
}

// imageURL turns a TMDB file path into a full image URL
func (c *Client) imageURL(path string) string {
	if path == "" {
		return ""
	}
	return c.imageBaseURL + path
}

func genreNames(genres []genre) []string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return names
}

func pathKind(mediaType models.MediaType) (string, error) {
	switch mediaType {
	case models.MediaTypeMovie:
		return "movie", nil
	case models.MediaTypeTV:
		return "tv", nil
	default:
		return "", fmt.Errorf("tmdb does not serve %q", mediaType)
	}
}
