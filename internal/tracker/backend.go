// Package tracker keeps a client-side snapshot of the user's list and
// statistics in step with the backend. Every mutation is followed by a
// full reload of the list and then the stats; nothing is patched locally.
package tracker

import (
	"context"

	"github.com/amaumene/mediatrakker/internal/client"
	"github.com/amaumene/mediatrakker/internal/models"
)

// Backend is the subset of the HTTP API the tracker depends on.
// *client.Client implements it.
type Backend interface {
	Search(ctx context.Context, query string, mediaType models.MediaType) (*client.SearchResponse, error)
	ListEntries(ctx context.Context) ([]models.UserListEntry, error)
	Stats(ctx context.Context) (models.StatsSummary, error)
	AddItem(ctx context.Context, req models.AddRequest) (*models.ListItem, error)
	UpdateItem(ctx context.Context, id string, update models.ListItemUpdate) (*models.ListItem, error)
	RemoveItem(ctx context.Context, id string) error
	Preferences(ctx context.Context) (*models.Preferences, error)
	UpdatePreferences(ctx context.Context, update models.PreferencesUpdate) (*models.Preferences, error)
}

var _ Backend = (*client.Client)(nil)

var (
	ErrEmptyQuery       = models.ErrEmptyQuery
	ErrInvalidMediaType = models.ErrInvalidMediaType
	ErrInvalidTheme     = models.ErrInvalidTheme
)
