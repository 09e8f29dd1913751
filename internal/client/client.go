// Package client talks to the Media Trakker HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/amaumene/mediatrakker/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	defaultTimeout = 30 * time.Second
	maxErrorBody   = 4 * 1024

	duplicateMarker = "already in your list"
)

// APIError is returned for non-2xx responses
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api returned status %d: %s", e.StatusCode, e.Detail)
}

// IsDuplicate reports whether err is the server refusing an item already on the list
func IsDuplicate(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return strings.Contains(strings.ToLower(apiErr.Detail), duplicateMarker)
}

// IsNotFound reports whether err is a 404 from the server
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// SearchResponse is the body of GET /api/search
type SearchResponse struct {
	Results      []models.MediaItem `json:"results"`
	Source       string             `json:"source"`
	TotalResults int                `json:"total_results"`
}

// Client is an HTTP client for the backend API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a client for the backend at baseURL. A zero timeout
// uses the default.
func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/") + "/api",
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Search queries the catalog for one media type
func (c *Client) Search(ctx context.Context, query string, mediaType models.MediaType) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("media_type", string(mediaType))
	params.Set("page", strconv.Itoa(1))

	var resp SearchResponse
	if err := c.do(ctx, http.MethodGet, "/search?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListEntries fetches the full user list
func (c *Client) ListEntries(ctx context.Context) ([]models.UserListEntry, error) {
	var entries []models.UserListEntry
	if err := c.do(ctx, http.MethodGet, "/user-list", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Stats fetches the per type and status counts
func (c *Client) Stats(ctx context.Context) (models.StatsSummary, error) {
	stats := make(models.StatsSummary)
	if err := c.do(ctx, http.MethodGet, "/stats", nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// AddItem puts a media item on the list
func (c *Client) AddItem(ctx context.Context, req models.AddRequest) (*models.ListItem, error) {
	var item models.ListItem
	if err := c.do(ctx, http.MethodPost, "/user-list", req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem applies a partial update to a list item
func (c *Client) UpdateItem(ctx context.Context, id string, update models.ListItemUpdate) (*models.ListItem, error) {
	var item models.ListItem
	if err := c.do(ctx, http.MethodPut, "/user-list/"+url.PathEscape(id), update, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveItem deletes a list item
func (c *Client) RemoveItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/user-list/"+url.PathEscape(id), nil, nil)
}

// Preferences fetches the user's preferences
func (c *Client) Preferences(ctx context.Context) (*models.Preferences, error) {
	var prefs models.Preferences
	if err := c.do(ctx, http.MethodGet, "/user-preferences", nil, &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

// UpdatePreferences saves a partial preferences change
func (c *Client) UpdatePreferences(ctx context.Context, update models.PreferencesUpdate) (*models.Preferences, error) {
	var prefs models.Preferences
	if err := c.do(ctx, http.MethodPut, "/user-preferences", update, &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
	}).Debug("Calling backend")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeError reads the {"detail": ...} body, falling back to the raw text
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body struct {
		Detail string `json:"detail"`
	}
	detail := strings.TrimSpace(string(raw))
	if err := json.Unmarshal(raw, &body); err == nil && body.Detail != "" {
		detail = body.Detail
	}
	if detail == "" {
		detail = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Detail: detail}
}
