// Pawtrek - Pet-Friendly Travel Analytics and Recommendations
// Copyright 2026 Pawtrek Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pawtrek/pawtrek

// Package config loads and validates Pawtrek configuration.
//
// Configuration is loaded via Koanf v2 with layered sources, highest
// priority last:
//
//  1. Built-in defaults
//  2. Config file (config.yaml, /etc/pawtrek/config.yaml, or CONFIG_PATH)
//  3. Environment variables prefixed with PAWTREK_ (PAWTREK_SERVER_PORT, ...)
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration structure.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Logging    LoggingConfig    `koanf:"logging"`
	ContentAPI ContentAPIConfig `koanf:"contentapi"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Reports    ReportsConfig    `koanf:"reports"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the DuckDB database file. ":memory:" is accepted for tests.
	Path string `koanf:"path"`

	// MaxMemory is the DuckDB memory limit (e.g. "2GB").
	MaxMemory string `koanf:"max_memory"`

	// Threads is the DuckDB thread count. 0 means runtime.NumCPU().
	Threads int `koanf:"threads"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// ContentAPIConfig holds settings for the third-party catalog content API.
type ContentAPIConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url"`
	APIKey  string `koanf:"api_key"`

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `koanf:"timeout"`

	// RequestsPerSecond is the client-side rate limit toward the API.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	// ListSize caps each of the three recommendation lists.
	ListSize int `koanf:"list_size"`

	// SeasonCategories maps a season name (spring, summer, autumn, winter)
	// to the entity categories considered a good fit for it. The engine
	// treats this table as opaque configuration.
	SeasonCategories map[string][]string `koanf:"season_categories"`
}

// ReportsConfig holds report aggregator settings.
type ReportsConfig struct {
	// CategoryTimeout bounds each statistic subsystem call.
	CategoryTimeout time.Duration `koanf:"category_timeout"`

	// WeeklyDays and MonthlyDays are the rolling window lengths for the
	// weekly and monthly report types.
	WeeklyDays  int `koanf:"weekly_days"`
	MonthlyDays int `koanf:"monthly_days"`
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Recommend.ListSize <= 0 {
		return fmt.Errorf("recommend.list_size must be positive, got %d", c.Recommend.ListSize)
	}
	if c.Reports.WeeklyDays <= 0 || c.Reports.MonthlyDays <= 0 {
		return fmt.Errorf("reports window lengths must be positive (weekly=%d, monthly=%d)",
			c.Reports.WeeklyDays, c.Reports.MonthlyDays)
	}
	if c.ContentAPI.Enabled {
		if c.ContentAPI.URL == "" {
			return fmt.Errorf("contentapi.url is required when contentapi.enabled is true")
		}
		if c.ContentAPI.RequestsPerSecond <= 0 {
			return fmt.Errorf("contentapi.requests_per_second must be positive, got %g",
				c.ContentAPI.RequestsPerSecond)
		}
	}
	for season := range c.Recommend.SeasonCategories {
		switch season {
		case "spring", "summer", "autumn", "winter":
		default:
			return fmt.Errorf("recommend.season_categories: unknown season %q", season)
		}
	}
	return nil
}
