package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{
			name:    "defaults only",
			env:     map[string]string{},
			wantErr: false,
		},
		{
			name: "igdb credentials set together",
			env: map[string]string{
				"IGDB_CLIENT_ID":     "id",
				"IGDB_CLIENT_SECRET": "secret",
			},
			wantErr: false,
		},
		{
			name: "igdb client id without secret",
			env: map[string]string{
				"IGDB_CLIENT_ID": "id",
			},
			wantErr: true,
		},
		{
			name: "zero rate limit",
			env: map[string]string{
				"PROVIDER_RATE_LIMIT": "0",
			},
			wantErr: true,
		},
		{
			name: "sample ratio out of range",
			env: map[string]string{
				"TRACING_SAMPLE_RATIO": "1.5",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Setenv("CONFIG_DIR", dir)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if cfg.DatabaseFile != filepath.Join(dir, "mediatrakker.db") {
				t.Errorf("DatabaseFile = %q", cfg.DatabaseFile)
			}
			if cfg.ServerPort != "8001" {
				t.Errorf("ServerPort = %q, want 8001", cfg.ServerPort)
			}
			if cfg.ClientTimeout != 30*time.Second {
				t.Errorf("ClientTimeout = %v, want 30s", cfg.ClientTimeout)
			}
			if cfg.SearchCacheTTL != 15*time.Minute {
				t.Errorf("SearchCacheTTL = %v, want 15m", cfg.SearchCacheTTL)
			}
			if cfg.OrphanMediaAge != 30*24*time.Hour {
				t.Errorf("OrphanMediaAge = %v", cfg.OrphanMediaAge)
			}
			if cfg.LocalResultsThreshold != 5 {
				t.Errorf("LocalResultsThreshold = %d, want 5", cfg.LocalResultsThreshold)
			}
		})
	}
}

func TestLoad_BackendURLFromEnv(t *testing.T) {
	t.Setenv("CONFIG_DIR", t.TempDir())
	t.Setenv("BACKEND_URL", "http://tracker.local:9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BackendURL != "http://tracker.local:9000" {
		t.Errorf("BackendURL = %q", cfg.BackendURL)
	}
}
