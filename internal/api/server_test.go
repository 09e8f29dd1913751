package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amaumene/mediatrakker/internal/config"
	"github.com/amaumene/mediatrakker/internal/controllers"
	"github.com/amaumene/mediatrakker/internal/metrics"
	"github.com/amaumene/mediatrakker/internal/models"
	"github.com/sirupsen/logrus"
)

type stubCatalog struct {
	items []models.MediaItem
}

func (s *stubCatalog) Search(ctx context.Context, query string, mediaType models.MediaType, page int) ([]models.MediaItem, error) {
	out := make([]models.MediaItem, len(s.items))
	copy(out, s.items)
	return out, nil
}

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db, err := models.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	m := metrics.New()
	catalog := &stubCatalog{items: []models.MediaItem{
		{ExternalID: "603", MediaType: models.MediaTypeMovie, Title: "The Matrix", Genres: []string{"Action"}},
	}}

	s := NewServer(&config.Config{ServerPort: "0"}, Dependencies{
		DB:          db,
		Search:      controllers.NewSearchController(db, catalog, nil, 5, m, logger),
		List:        controllers.NewListController(db, m, logger),
		Preferences: controllers.NewPreferencesController(db, logger),
		Metrics:     m,
	}, logger)

	server := httptest.NewServer(s.Handler())
	t.Cleanup(server.Close)
	return server
}

func do(t *testing.T, method, url string, body interface{}, out interface{}) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding %s %s: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

type detail struct {
	Detail string `json:"detail"`
}

func TestServer_SearchValidation(t *testing.T) {
	server := setupTestServer(t)

	tests := []struct {
		name   string
		query  string
		status int
		detail string
	}{
		{"empty query", "/api/search?query=&media_type=movie", http.StatusBadRequest, "Search query cannot be empty"},
		{"bad media type", "/api/search?query=x&media_type=podcast", http.StatusBadRequest, "Media type must be one of: movie, tv, anime, manga, book, game"},
		{"bad page", "/api/search?query=x&media_type=movie&page=zero", http.StatusBadRequest, "Page must be a positive integer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got detail
			if status := do(t, http.MethodGet, server.URL+tt.query, nil, &got); status != tt.status {
				t.Errorf("status = %d, want %d", status, tt.status)
			}
			if got.Detail != tt.detail {
				t.Errorf("detail = %q, want %q", got.Detail, tt.detail)
			}
		})
	}
}

func TestServer_ListLifecycle(t *testing.T) {
	server := setupTestServer(t)

	var index map[string]string
	if status := do(t, http.MethodGet, server.URL+"/api/", nil, &index); status != http.StatusOK || index["message"] != "Media Trakker API" {
		t.Fatalf("GET /api/ = %d %v", status, index)
	}

	var search controllers.SearchResponse
	if status := do(t, http.MethodGet, server.URL+"/api/search?query=matrix&media_type=movie", nil, &search); status != http.StatusOK {
		t.Fatalf("search status = %d", status)
	}
	if search.Source != "external" || len(search.Results) != 1 {
		t.Fatalf("search = %+v", search)
	}
	media := search.Results[0]

	var fetched models.MediaItem
	if status := do(t, http.MethodGet, server.URL+"/api/media/"+media.ID, nil, &fetched); status != http.StatusOK || fetched.Title != "The Matrix" {
		t.Errorf("GET media = %d %+v", status, fetched)
	}
	var missing detail
	if status := do(t, http.MethodGet, server.URL+"/api/media/nope", nil, &missing); status != http.StatusNotFound || missing.Detail != "Media not found" {
		t.Errorf("GET missing media = %d %+v", status, missing)
	}

	add := map[string]interface{}{
		"media_id":   media.ID,
		"media_type": "movie",
		"status":     "watching",
		"title":      media.Title,
	}
	var item models.ListItem
	if status := do(t, http.MethodPost, server.URL+"/api/user-list", add, &item); status != http.StatusOK {
		t.Fatalf("add status = %d", status)
	}
	if item.ID == "" || item.Status != models.StatusWatching {
		t.Fatalf("added item = %+v", item)
	}

	var dup detail
	if status := do(t, http.MethodPost, server.URL+"/api/user-list", add, &dup); status != http.StatusBadRequest || dup.Detail != "Item already in your list" {
		t.Errorf("duplicate add = %d %q", status, dup.Detail)
	}

	var badStatus detail
	if status := do(t, http.MethodPut, server.URL+"/api/user-list/"+item.ID, map[string]string{"status": "reading"}, &badStatus); status != http.StatusBadRequest {
		t.Errorf("invalid status update = %d", status)
	}

	var updated models.ListItem
	if status := do(t, http.MethodPut, server.URL+"/api/user-list/"+item.ID, map[string]interface{}{"status": "completed", "rating": 9}, &updated); status != http.StatusOK {
		t.Fatalf("update status = %d", status)
	}
	if updated.Status != models.StatusCompleted || updated.Rating == nil || *updated.Rating != 9 {
		t.Errorf("updated = %+v", updated)
	}

	var notFound detail
	if status := do(t, http.MethodPut, server.URL+"/api/user-list/missing", map[string]string{"notes": "x"}, &notFound); status != http.StatusNotFound || notFound.Detail != "Item not found" {
		t.Errorf("update missing = %d %q", status, notFound.Detail)
	}

	var entries []models.UserListEntry
	if status := do(t, http.MethodGet, server.URL+"/api/user-list?status=completed", nil, &entries); status != http.StatusOK || len(entries) != 1 {
		t.Fatalf("list = %d %d entries", status, len(entries))
	}
	if entries[0].MediaItem.Title != "The Matrix" || entries[0].ListItem.ID != item.ID {
		t.Errorf("entry = %+v", entries[0])
	}

	var stats models.StatsSummary
	if status := do(t, http.MethodGet, server.URL+"/api/stats", nil, &stats); status != http.StatusOK {
		t.Fatalf("stats status = %d", status)
	}
	if stats[models.MediaTypeMovie][models.StatusCompleted] != 1 {
		t.Errorf("stats = %v", stats)
	}

	var removed map[string]string
	if status := do(t, http.MethodDelete, server.URL+"/api/user-list/"+item.ID, nil, &removed); status != http.StatusOK || removed["message"] != "Item removed from list" {
		t.Errorf("delete = %d %v", status, removed)
	}
	if status := do(t, http.MethodDelete, server.URL+"/api/user-list/"+item.ID, nil, nil); status != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", status)
	}
}

func TestServer_Preferences(t *testing.T) {
	server := setupTestServer(t)

	var prefs models.Preferences
	if status := do(t, http.MethodGet, server.URL+"/api/user-preferences", nil, &prefs); status != http.StatusOK || prefs.Theme != models.ThemeDark {
		t.Fatalf("GET preferences = %d %+v", status, prefs)
	}

	var bad detail
	if status := do(t, http.MethodPut, server.URL+"/api/user-preferences", map[string]string{"theme": "neon"}, &bad); status != http.StatusBadRequest {
		t.Errorf("invalid theme = %d", status)
	}

	if status := do(t, http.MethodPut, server.URL+"/api/user-preferences", map[string]string{"theme": "purple"}, &prefs); status != http.StatusOK || prefs.Theme != models.ThemePurple {
		t.Errorf("PUT preferences = %d %+v", status, prefs)
	}
}

func TestServer_OperationalEndpoints(t *testing.T) {
	server := setupTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("health = %d, CORS header %q", resp.StatusCode, resp.Header.Get("Access-Control-Allow-Origin"))
	}

	req, _ := http.NewRequest(http.MethodOptions, server.URL+"/api/user-list", nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("preflight = %d, want 204", resp.StatusCode)
	}

	var status map[string]interface{}
	if code := do(t, http.MethodGet, server.URL+"/status", nil, &status); code != http.StatusOK {
		t.Errorf("status endpoint = %d", code)
	}

	resp, err = http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), `mediatrakker_http_requests_total{method="GET",route="GET /health",status="200"}`) {
		t.Errorf("metrics output missing request counter:\n%s", body)
	}
}
