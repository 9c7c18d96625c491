package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8081" {
		t.Errorf("Port = %s, want 8081", cfg.Port)
	}
	if cfg.DataBackend != "file" {
		t.Errorf("DataBackend = %s, want file", cfg.DataBackend)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v, want 24h", cfg.SessionTTL)
	}
	if cfg.RememberTTL != 7*24*time.Hour {
		t.Errorf("RememberTTL = %v, want 168h", cfg.RememberTTL)
	}
	if cfg.RateLimitPerMinute != 60 {
		t.Errorf("RateLimitPerMinute = %d, want 60", cfg.RateLimitPerMinute)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "10")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %s, want 9090", cfg.Port)
	}
	if cfg.DataBackend != "sqlite" {
		t.Errorf("DataBackend = %s, want sqlite", cfg.DataBackend)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("SessionTTL = %v, want 1h", cfg.SessionTTL)
	}
	if cfg.RateLimitPerMinute != 10 {
		t.Errorf("RateLimitPerMinute = %d, want 10", cfg.RateLimitPerMinute)
	}
}

func TestValidate(t *testing.T) {
	base := func(t *testing.T) *Config {
		dir := t.TempDir()
		return &Config{
			Port:               "8081",
			DataBackend:        "file",
			DataDir:            dir,
			SQLiteDBPath:       filepath.Join(dir, "app.db"),
			SessionTTL:         24 * time.Hour,
			RememberTTL:        7 * 24 * time.Hour,
			RateLimitPerMinute: 60,
			DashboardCacheTTL:  5 * time.Minute,
		}
	}

	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(cfg *Config) {}, wantErr: false},
		{name: "non-numeric port", mutate: func(cfg *Config) { cfg.Port = "abc" }, wantErr: true},
		{name: "port out of range", mutate: func(cfg *Config) { cfg.Port = "70000" }, wantErr: true},
		{name: "unknown backend", mutate: func(cfg *Config) { cfg.DataBackend = "sheets" }, wantErr: true},
		{name: "sqlite backend valid", mutate: func(cfg *Config) { cfg.DataBackend = "sqlite" }, wantErr: false},
		{name: "empty sqlite path", mutate: func(cfg *Config) { cfg.DataBackend = "sqlite"; cfg.SQLiteDBPath = "" }, wantErr: true},
		{name: "session TTL too small", mutate: func(cfg *Config) { cfg.SessionTTL = time.Second }, wantErr: true},
		{name: "remember below session", mutate: func(cfg *Config) { cfg.RememberTTL = time.Hour }, wantErr: true},
		{name: "zero rate limit", mutate: func(cfg *Config) { cfg.RateLimitPerMinute = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base(t)
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
