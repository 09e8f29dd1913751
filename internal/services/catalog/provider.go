// Package catalog routes media searches to the external catalog providers
// (TMDB, AniList, Google Books, IGDB) and caches their responses.
package catalog

import (
	"context"
	"errors"

	"github.com/amaumene/mediatrakker/internal/models"
)

// ErrNoProvider is returned when no provider serves a media type
var ErrNoProvider = errors.New("no catalog provider configured for media type")

// Provider searches one external catalog. Returned items carry no local id;
// ExternalID identifies them within the provider.
type Provider interface {
	Name() string
	MediaTypes() []models.MediaType
	Search(ctx context.Context, query string, mediaType models.MediaType, page int) ([]models.MediaItem, error)
}
