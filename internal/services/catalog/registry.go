package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/amaumene/mediatrakker/internal/metrics"
	"github.com/amaumene/mediatrakker/internal/models"
	"github.com/amaumene/mediatrakker/internal/utils"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Registry dispatches searches to the provider registered for each media type
type Registry struct {
	providers map[models.MediaType]Provider
	cache     *gocache.Cache
	tracer    trace.Tracer
	metrics   *metrics.Metrics
	logger    *logrus.Logger
}

// NewRegistry creates a registry caching provider responses for ttl.
// A zero ttl disables caching.
func NewRegistry(ttl time.Duration, m *metrics.Metrics, logger *logrus.Logger) *Registry {
	r := &Registry{
		providers: make(map[models.MediaType]Provider),
		tracer:    otel.Tracer("github.com/amaumene/mediatrakker/internal/services/catalog"),
		metrics:   m,
		logger:    logger,
	}
	if ttl > 0 {
		r.cache = gocache.New(ttl, 2*ttl)
	}
	return r
}

// Register makes p the provider for every media type it declares
func (r *Registry) Register(p Provider) {
	for _, mt := range p.MediaTypes() {
		r.providers[mt] = p
		r.logger.WithFields(logrus.Fields{
			"provider":   p.Name(),
			"media_type": mt,
		}).Debug("Registered catalog provider")
	}
}

// Supports reports whether a provider serves the media type
func (r *Registry) Supports(mediaType models.MediaType) bool {
	_, ok := r.providers[mediaType]
	return ok
}

// Search queries the provider for mediaType, serving repeated queries from cache
func (r *Registry) Search(ctx context.Context, query string, mediaType models.MediaType, page int) ([]models.MediaItem, error) {
	provider, ok := r.providers[mediaType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoProvider, mediaType)
	}

	key := cacheKey(query, mediaType, page)
	if r.cache != nil {
		if cached, found := r.cache.Get(key); found {
			r.observeCache("hit")
			return cloneItems(cached.([]models.MediaItem)), nil
		}
		r.observeCache("miss")
	}

	ctx, span := r.tracer.Start(ctx, "catalog.Search", trace.WithAttributes(
		attribute.String("catalog.provider", provider.Name()),
		attribute.String("catalog.media_type", string(mediaType)),
		attribute.Int("catalog.page", page),
	))
	defer span.End()

	start := time.Now()
	items, err := provider.Search(ctx, query, mediaType, page)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider search failed")
		return nil, fmt.Errorf("%s search failed: %w", provider.Name(), err)
	}
	span.SetAttributes(attribute.Int("catalog.results", len(items)))

	r.logger.WithFields(logrus.Fields{
		"provider":    provider.Name(),
		"media_type":  mediaType,
		"results":     len(items),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Catalog provider search completed")

	if r.cache != nil {
		r.cache.SetDefault(key, cloneItems(items))
	}
	return items, nil
}

func (r *Registry) observeCache(result string) {
	if r.metrics != nil {
		r.metrics.SearchCache.WithLabelValues(result).Inc()
	}
}

func cacheKey(query string, mediaType models.MediaType, page int) string {
	return fmt.Sprintf("%s|%d|%s", mediaType, page, utils.NormalizeTitle(query))
}

func cloneItems(items []models.MediaItem) []models.MediaItem {
	out := make([]models.MediaItem, len(items))
	copy(out, items)
	return out
}
