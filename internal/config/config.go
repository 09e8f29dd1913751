package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Server
	ServerPort string

	// Client
	BackendURL    string
	ClientTimeout time.Duration

	// TMDB (movies, tv)
	TMDBAPIKey       string
	TMDBBaseURL      string
	TMDBImageBaseURL string

	// AniList (anime, manga)
	AniListAPIURL string

	// Google Books
	GoogleBooksAPIURL string

	// IGDB (games, authenticated through Twitch)
	IGDBClientID     string
	IGDBClientSecret string
	IGDBAPIURL       string
	IGDBTokenURL     string

	// Catalog search
	ProviderRateLimit     float64       // Requests per second per provider (default: 4)
	SearchCacheTTL        time.Duration // Provider response cache lifetime (default: 15m)
	LocalResultsThreshold int           // Local hits needed to skip providers (default: 5)

	// Maintenance
	CleanupSchedule string // Cron spec for orphan catalog pruning
	OrphanMediaAge  time.Duration

	// Tracing
	TracingSampleRatio float64

	// Paths
	DatabaseFile  string // $CONFIG_DIR/mediatrakker.db
	BlocklistFile string // $CONFIG_DIR/blocklist.txt

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = v.ReadInConfig()

	v.SetDefault("SERVER_PORT", "8001")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("BACKEND_URL", "http://localhost:8001")
	v.SetDefault("CLIENT_TIMEOUT_SECONDS", 30)
	v.SetDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3")
	v.SetDefault("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p/w500")
	v.SetDefault("ANILIST_API_URL", "https://graphql.anilist.co")
	v.SetDefault("GOOGLE_BOOKS_API_URL", "https://www.googleapis.com/books/v1/volumes")
	v.SetDefault("IGDB_API_URL", "https://api.igdb.com/v4")
	v.SetDefault("IGDB_TOKEN_URL", "https://id.twitch.tv/oauth2/token")
	v.SetDefault("PROVIDER_RATE_LIMIT", 4)
	v.SetDefault("SEARCH_CACHE_MINUTES", 15)
	v.SetDefault("LOCAL_RESULTS_THRESHOLD", 5)
	v.SetDefault("CLEANUP_SCHEDULE", "0 */6 * * *")
	v.SetDefault("ORPHAN_MEDIA_DAYS", 30)
	v.SetDefault("TRACING_SAMPLE_RATIO", 0)

	configDir, err := resolveConfigDir(v.GetString("CONFIG_DIR"))
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		ServerPort: v.GetString("SERVER_PORT"),

		BackendURL:    v.GetString("BACKEND_URL"),
		ClientTimeout: time.Duration(v.GetInt("CLIENT_TIMEOUT_SECONDS")) * time.Second,

		TMDBAPIKey:       v.GetString("TMDB_API_KEY"),
		TMDBBaseURL:      v.GetString("TMDB_BASE_URL"),
		TMDBImageBaseURL: v.GetString("TMDB_IMAGE_BASE_URL"),

		AniListAPIURL: v.GetString("ANILIST_API_URL"),

		GoogleBooksAPIURL: v.GetString("GOOGLE_BOOKS_API_URL"),

		IGDBClientID:     v.GetString("IGDB_CLIENT_ID"),
		IGDBClientSecret: v.GetString("IGDB_CLIENT_SECRET"),
		IGDBAPIURL:       v.GetString("IGDB_API_URL"),
		IGDBTokenURL:     v.GetString("IGDB_TOKEN_URL"),

		ProviderRateLimit:     v.GetFloat64("PROVIDER_RATE_LIMIT"),
		SearchCacheTTL:        time.Duration(v.GetInt("SEARCH_CACHE_MINUTES")) * time.Minute,
		LocalResultsThreshold: v.GetInt("LOCAL_RESULTS_THRESHOLD"),

		CleanupSchedule: v.GetString("CLEANUP_SCHEDULE"),
		OrphanMediaAge:  time.Duration(v.GetInt("ORPHAN_MEDIA_DAYS")) * 24 * time.Hour,

		TracingSampleRatio: v.GetFloat64("TRACING_SAMPLE_RATIO"),

		DatabaseFile:  filepath.Join(configDir, "mediatrakker.db"),
		BlocklistFile: filepath.Join(configDir, "blocklist.txt"),

		LogLevel: v.GetString("LOG_LEVEL"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks values that have no usable fallback
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}
	if c.ClientTimeout <= 0 {
		return fmt.Errorf("CLIENT_TIMEOUT_SECONDS must be positive")
	}
	if c.ProviderRateLimit <= 0 {
		return fmt.Errorf("PROVIDER_RATE_LIMIT must be positive")
	}
	if c.LocalResultsThreshold < 1 {
		return fmt.Errorf("LOCAL_RESULTS_THRESHOLD must be at least 1")
	}
	if c.TracingSampleRatio < 0 || c.TracingSampleRatio > 1 {
		return fmt.Errorf("TRACING_SAMPLE_RATIO must be between 0 and 1")
	}
	// IGDB needs both halves of the Twitch credential pair
	if (c.IGDBClientID == "") != (c.IGDBClientSecret == "") {
		return fmt.Errorf("IGDB_CLIENT_ID and IGDB_CLIENT_SECRET must be set together")
	}
	return nil
}

func resolveConfigDir(configDir string) (string, error) {
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", "mediatrakker"), nil
	}

	// Convert relative path to absolute path
	absPath, err := filepath.Abs(configDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
	}
	return absPath, nil
}
