// Pawtrek - Pet-Friendly Travel Analytics and Recommendations
// Copyright 2026 Pawtrek Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pawtrek/pawtrek

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 4326 {
		t.Errorf("expected default port 4326, got %d", cfg.Server.Port)
	}
	if cfg.Database.Path != "/data/pawtrek.duckdb" {
		t.Errorf("unexpected default database path %q", cfg.Database.Path)
	}
	if cfg.Recommend.ListSize != 10 {
		t.Errorf("expected default list size 10, got %d", cfg.Recommend.ListSize)
	}
	if cfg.Reports.WeeklyDays != 7 || cfg.Reports.MonthlyDays != 30 {
		t.Errorf("unexpected report windows: weekly=%d monthly=%d",
			cfg.Reports.WeeklyDays, cfg.Reports.MonthlyDays)
	}
	if len(cfg.Recommend.SeasonCategories["summer"]) == 0 {
		t.Error("expected default summer categories")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("PAWTREK_SERVER_PORT", "8080")
	t.Setenv("PAWTREK_LOG_LEVEL", "debug")
	t.Setenv("PAWTREK_DUCKDB_PATH", "/tmp/test.duckdb")
	t.Setenv("PAWTREK_RECOMMEND_LIST_SIZE", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080 from env, got %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug log level, got %q", cfg.Logging.Level)
	}
	if cfg.Database.Path != "/tmp/test.duckdb" {
		t.Errorf("expected env database path, got %q", cfg.Database.Path)
	}
	if cfg.Recommend.ListSize != 5 {
		t.Errorf("expected list size 5 from env, got %d", cfg.Recommend.ListSize)
	}
}

func TestLoadIgnoresUnmappedEnvVars(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("PAWTREK_NONSENSE_KEY", "surprise")

	if _, err := Load(); err != nil {
		t.Fatalf("Load failed with unmapped env var present: %v", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 9000\nlogging:\n  level: warn\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000 from file, got %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected warn level from file, got %q", cfg.Logging.Level)
	}
	// Defaults survive where the file is silent.
	if cfg.Database.MaxMemory != "2GB" {
		t.Errorf("expected default max memory, got %q", cfg.Database.MaxMemory)
	}
}

func TestEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("PAWTREK_SERVER_PORT", "7000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("expected env to beat file, got port %d", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := defaultConfig()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(*Config) {}, false},
		{"port too low", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"empty db path", func(c *Config) { c.Database.Path = "" }, true},
		{"zero list size", func(c *Config) { c.Recommend.ListSize = 0 }, true},
		{"zero weekly days", func(c *Config) { c.Reports.WeeklyDays = 0 }, true},
		{"contentapi enabled without url", func(c *Config) { c.ContentAPI.Enabled = true }, true},
		{"contentapi enabled with url", func(c *Config) {
			c.ContentAPI.Enabled = true
			c.ContentAPI.URL = "https://api.example.com"
		}, false},
		{"unknown season", func(c *Config) {
			c.Recommend.SeasonCategories["monsoon"] = []string{"cave"}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"PAWTREK_SERVER_PORT", "server.port"},
		{"PAWTREK_DUCKDB_MAX_MEMORY", "database.max_memory"},
		{"PAWTREK_CONTENTAPI_API_KEY", "contentapi.api_key"},
		{"PAWTREK_REPORTS_MONTHLY_DAYS", "reports.monthly_days"},
		{"PAWTREK_UNKNOWN", ""},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
