package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/amaumene/mediatrakker/internal/api"
	"github.com/amaumene/mediatrakker/internal/config"
	"github.com/amaumene/mediatrakker/internal/controllers"
	"github.com/amaumene/mediatrakker/internal/metrics"
	"github.com/amaumene/mediatrakker/internal/models"
	"github.com/amaumene/mediatrakker/internal/scheduler"
	"github.com/amaumene/mediatrakker/internal/services/anilist"
	"github.com/amaumene/mediatrakker/internal/services/catalog"
	"github.com/amaumene/mediatrakker/internal/services/googlebooks"
	"github.com/amaumene/mediatrakker/internal/services/igdb"
	"github.com/amaumene/mediatrakker/internal/services/tmdb"
	"github.com/amaumene/mediatrakker/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger and tracing
	logger := utils.NewLogger(cfg.LogLevel)
	logger.Info("Starting Media Trakker")
	logger.WithField("config_dir", filepath.Dir(cfg.DatabaseFile)).Info("Configuration loaded")

	tp := utils.NewTracerProvider(cfg.TracingSampleRatio, logger)
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Warn("Failed to flush traces")
		}
	}()

	// 3. Initialize database
	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	logger.Info("Database initialized")

	// 4. Load blocklist
	blocklist, err := utils.LoadBlocklist(cfg.BlocklistFile)
	if err != nil {
		logger.WithError(err).Warn("Failed to load blocklist, continuing without it")
		blocklist = &utils.Blocklist{}
	} else {
		logger.WithField("terms", blocklist.Len()).Info("Blocklist loaded")
	}

	// 5. Initialize catalog providers
	m := metrics.New()
	registry := catalog.NewRegistry(cfg.SearchCacheTTL, m, logger)
	registerProviders(cfg, registry, m, logger)

	// 6. Initialize controllers
	searchCtrl := controllers.NewSearchController(db, registry, blocklist, cfg.LocalResultsThreshold, m, logger)
	listCtrl := controllers.NewListController(db, m, logger)
	prefsCtrl := controllers.NewPreferencesController(db, logger)
	cleanupCtrl := controllers.NewCleanupController(db, cfg.OrphanMediaAge, logger)
	logger.Info("Controllers initialized")

	// 7. Initialize scheduler
	sched := scheduler.NewScheduler(cfg.CleanupSchedule, cleanupCtrl, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// 8. Initialize HTTP server
	server := api.NewServer(cfg, api.Dependencies{
		DB:          db,
		Search:      searchCtrl,
		List:        listCtrl,
		Preferences: prefsCtrl,
		Metrics:     m,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 9. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Media Trakker is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("Media Trakker stopped")
	return nil
}

// registerProviders adds every provider whose configuration is present.
// Searches for the types of a skipped provider fail with ErrNoProvider.
func registerProviders(cfg *config.Config, registry *catalog.Registry, m *metrics.Metrics, logger *logrus.Logger) {
	constructors := []struct {
		name string
		new  func() (catalog.Provider, error)
	}{
		{"tmdb", func() (catalog.Provider, error) { return tmdb.NewClient(cfg, m, logger) }},
		{"anilist", func() (catalog.Provider, error) { return anilist.NewClient(cfg, m, logger) }},
		{"googlebooks", func() (catalog.Provider, error) { return googlebooks.NewClient(cfg, m, logger) }},
		{"igdb", func() (catalog.Provider, error) { return igdb.NewClient(cfg, m, logger) }},
	}

	for _, c := range constructors {
		provider, err := c.new()
		if err != nil {
			logger.WithError(err).WithField("provider", c.name).Warn("Catalog provider disabled")
			continue
		}
		registry.Register(provider)
		logger.WithField("provider", c.name).Info("Catalog provider initialized")
	}
}
