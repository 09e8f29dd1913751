package igdb

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/amaumene/mediatrakker/internal/config"
	"github.com/amaumene/mediatrakker/internal/metrics"
	"github.com/amaumene/mediatrakker/internal/models"
	"github.com/amaumene/mediatrakker/internal/services/catalog"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	pageSize       = 10
	requestTimeout = 30 * time.Second
	searchFields   = "name,first_release_date,cover.url,genres.name,platforms.name," +
		"involved_companies.company.name,involved_companies.developer,involved_companies.publisher," +
		"game_modes.name,summary,total_rating"
)

type named struct {
	Name string `json:"name"`
}

type game struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	FirstReleaseDate *int64   `json:"first_release_date"`
	Summary          string   `json:"summary"`
	TotalRating      *float64 `json:"total_rating"`
	Cover            *struct {
		URL string `json:"url"`
	} `json:"cover"`
	Genres            []named `json:"genres"`
	Platforms         []named `json:"platforms"`
	GameModes         []named `json:"game_modes"`
	InvolvedCompanies []struct {
		Company   named `json:"company"`
		Developer bool  `json:"developer"`
		Publisher bool  `json:"publisher"`
	} `json:"involved_companies"`
}

// Client searches games on IGDB. Requests carry a Twitch app token that
// is fetched and refreshed through the client credentials flow.
type Client struct {
	apiURL    string
	clientID  string
	requester *catalog.Requester
	logger    *logrus.Logger
}

// NewClient creates a new IGDB client
func NewClient(cfg *config.Config, m *metrics.Metrics, logger *logrus.Logger) (*Client, error) {
	if cfg.IGDBClientID == "" || cfg.IGDBClientSecret == "" {
		return nil, fmt.Errorf("IGDB client ID and secret are required")
	}

	creds := &clientcredentials.Config{
		ClientID:     cfg.IGDBClientID,
		ClientSecret: cfg.IGDBClientSecret,
		TokenURL:     cfg.IGDBTokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: requestTimeout})
	httpClient := creds.Client(ctx)
	httpClient.Timeout = requestTimeout

	return &Client{
		apiURL:    strings.TrimSuffix(cfg.IGDBAPIURL, "/"),
		clientID:  cfg.IGDBClientID,
		requester: catalog.NewRequester("igdb", httpClient, cfg.ProviderRateLimit, m, logger),
		logger:    logger,
	}, nil
}

// Name implements catalog.Provider
func (c *Client) Name() string { return "igdb" }

// MediaTypes implements catalog.Provider
func (c *Client) MediaTypes() []models.MediaType {
	return []models.MediaType{models.MediaTypeGame}
}

// Search implements catalog.Provider
func (c *Client) Search(ctx context.Context, query string, mediaType models.MediaType, page int) ([]models.MediaItem, error) {
	if mediaType != models.MediaTypeGame {
		return nil, fmt.Errorf("igdb does not serve %q", mediaType)
	}
	if page < 1 {
		page = 1
	}

	body := fmt.Sprintf("search %s; fields %s; limit %d; offset %d;",
		strconv.Quote(query), searchFields, pageSize, (page-1)*pageSize)

	var games []game
	err := c.requester.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/games", strings.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Client-ID", c.clientID)
		req.Header.Set("Content-Type", "text/plain")
		return req, nil
	}, &games)
	if err != nil {
		return nil, fmt.Errorf("igdb search failed: %w", err)
	}

	items := make([]models.MediaItem, 0, len(games))
	for _, g := range games {
		items = append(items, convert(g))
	}
	return items, nil
}

func convert(g game) models.MediaItem {
	item := models.MediaItem{
		ExternalID: strconv.Itoa(g.ID),
		MediaType:  models.MediaTypeGame,
		Title:      g.Name,
		Genres:     names(g.Genres),
		Overview:   g.Summary,
		Platforms:  names(g.Platforms),
		GameModes:  names(g.GameModes),
	}

	if g.FirstReleaseDate != nil {
		released := time.Unix(*g.FirstReleaseDate, 0).UTC()
		year := released.Year()
		item.Year = &year
		item.ReleaseDate = released.Format("2006-01-02")
	}

	if g.Cover != nil && g.Cover.URL != "" {
		item.PosterPath = coverURL(g.Cover.URL)
	}

	// IGDB rates out of 100
	if g.TotalRating != nil {
		v := *g.TotalRating / 10
		item.VoteAverage = &v
	}

	for _, ic := range g.InvolvedCompanies {
		if ic.Developer {
			item.Developers = append(item.Developers, ic.Company.Name)
		}
		if ic.Publisher {
			item.Publishers = append(item.Publishers, ic.Company.Name)
		}
	}
	return item
}

// coverURL upgrades IGDB's protocol-relative thumbnail to the large cover size
func coverURL(raw string) string {
	u := strings.Replace(raw, "t_thumb", "t_cover_big", 1)
	if strings.HasPrefix(u, "//") {
		u = "https:" + u
	}
	return u
}

func names(in []named) []string {
	out := make([]string, 0, len(in))
	for _, n := range in {
		out = append(out, n.Name)
	}
	return out
}
