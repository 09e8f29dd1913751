package anilist

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amaumene/mediatrakker/internal/config"
	"github.com/amaumene/mediatrakker/internal/models"
	"github.com/sirupsen/logrus"
)

const sampleResponse = `{
  "data": {
    "Page": {
      "media": [
        {
          "id": 16498,
          "title": {"romaji": "Shingeki no Kyojin", "english": "Attack on Titan", "native": "進撃の巨人"},
          "status": "FINISHED",
          "episodes": 25,
          "genres": ["Action", "Drama"],
          "averageScore": 84,
          "startDate": {"year": 2013, "month": 4, "day": null},
          "coverImage": {"large": "https://img.anili.st/large.jpg"},
          "description": "Humanity fights titans.",
          "studios": {"nodes": [{"name": "Wit Studio"}]}
        },
        {
          "id": 1,
          "title": {"romaji": "", "english": "", "native": "ネイティブ"},
          "startDate": {"year": null}
        }
      ]
    }
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	client, err := NewClient(&config.Config{AniListAPIURL: server.URL, ProviderRateLimit: 1000}, nil, logger)
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func TestSearchAnime(t *testing.T) {
	var got graphQLRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method", http.StatusMethodNotAllowed)
			return
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(sampleResponse))
	})

	items, err := client.Search(context.Background(), "attack on titan", models.MediaTypeAnime, 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if got.Variables["type"] != "ANIME" || got.Variables["search"] != "attack on titan" {
		t.Errorf("unexpected variables: %v", got.Variables)
	}
	if page, _ := got.Variables["page"].(float64); page != 2 {
		t.Errorf("page variable = %v, want 2", got.Variables["page"])
	}

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	aot := items[0]
	if aot.Title != "Attack on Titan" || aot.ExternalID != "16498" {
		t.Errorf("unexpected item: %+v", aot)
	}
	if aot.VoteAverage == nil || *aot.VoteAverage != 8.4 {
		t.Errorf("VoteAverage = %v, want 8.4", aot.VoteAverage)
	}
	if aot.ReleaseDate != "2013-04-01" {
		t.Errorf("ReleaseDate = %q, want 2013-04-01", aot.ReleaseDate)
	}
	if len(aot.Developers) != 1 || aot.Developers[0] != "Wit Studio" || len(aot.Authors) != 0 {
		t.Errorf("studios should be credited as developers for anime: %+v", aot)
	}

	native := items[1]
	if native.Title != "ネイティブ" {
		t.Errorf("Title = %q, want native fallback", native.Title)
	}
	if native.Year != nil || native.ReleaseDate != "" || native.VoteAverage != nil {
		t.Errorf("missing dates and score should stay empty: %+v", native)
	}
}

func TestSearchMangaCreditsAuthors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleResponse))
	})

	items, err := client.Search(context.Background(), "x", models.MediaTypeManga, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(items[0].Authors) != 1 || len(items[0].Developers) != 0 {
		t.Errorf("studios should be credited as authors for manga: %+v", items[0])
	}
}

func TestSearchGraphQLError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"Page": null}, "errors": [{"message": "rate limited"}]}`))
	})

	if _, err := client.Search(context.Background(), "x", models.MediaTypeAnime, 1); err == nil {
		t.Error("expected graphql error to surface")
	}
}
