package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/amaumene/mediatrakker/internal/api/handlers"
	"github.com/amaumene/mediatrakker/internal/api/middleware"
	"github.com/amaumene/mediatrakker/internal/config"
	"github.com/amaumene/mediatrakker/internal/controllers"
	"github.com/amaumene/mediatrakker/internal/metrics"
	"github.com/amaumene/mediatrakker/internal/models"
	"github.com/sirupsen/logrus"
)

// Dependencies groups what the HTTP layer needs
type Dependencies struct {
	DB          *models.Database
	Search      *controllers.SearchController
	List        *controllers.ListController
	Preferences *controllers.PreferencesController
	Metrics     *metrics.Metrics
}

// Server represents the HTTP server
type Server struct {
	server *http.Server
	deps   Dependencies
	logger *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, deps Dependencies, logger *logrus.Logger) *Server {
	s := &Server{
		deps:   deps,
		logger: logger,
	}

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // provider searches fan out to detail calls
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.setupRoutes(mux)
	return middleware.CORS(middleware.Logging(mux, s.deps.Metrics, s.logger))
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux) {
	userID := models.DefaultUserID

	healthHandler := handlers.NewHealthHandler(s.logger)
	mux.Handle("GET /health", healthHandler)
	mux.HandleFunc("GET /api/{$}", healthHandler.Root)

	statusHandler := handlers.NewStatusHandler(s.deps.DB, userID, s.logger)
	mux.Handle("GET /status", statusHandler)

	searchHandler := handlers.NewSearchHandler(s.deps.Search, s.logger)
	mux.HandleFunc("GET /api/search", searchHandler.Search)
	mux.HandleFunc("GET /api/media/{id}", searchHandler.GetMedia)

	listHandler := handlers.NewListHandler(s.deps.List, userID, s.logger)
	mux.HandleFunc("GET /api/user-list", listHandler.List)
	mux.HandleFunc("POST /api/user-list", listHandler.Add)
	mux.HandleFunc("PUT /api/user-list/{id}", listHandler.Update)
	mux.HandleFunc("DELETE /api/user-list/{id}", listHandler.Remove)
	mux.HandleFunc("GET /api/stats", listHandler.Stats)

	prefsHandler := handlers.NewPreferencesHandler(s.deps.Preferences, userID, s.logger)
	mux.HandleFunc("GET /api/user-preferences", prefsHandler.Get)
	mux.HandleFunc("PUT /api/user-preferences", prefsHandler.Update)

	if s.deps.Metrics != nil {
		mux.Handle("GET /metrics", s.deps.Metrics.Handler())
	}
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
