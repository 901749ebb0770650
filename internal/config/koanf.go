// Pawtrek - Pet-Friendly Travel Analytics and Recommendations
// Copyright 2026 Pawtrek Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pawtrek/pawtrek

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/pawtrek/config.yaml",
	"/etc/pawtrek/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix is the prefix for Pawtrek environment variables.
const envPrefix = "PAWTREK_"

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    4326, // EPSG:4326, the coordinate system the projector outputs
			Timeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Path:      "/data/pawtrek.duckdb",
			MaxMemory: "2GB",
			Threads:   0, // 0 = runtime.NumCPU()
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		ContentAPI: ContentAPIConfig{
			Enabled:           false,
			URL:               "",
			APIKey:            "",
			Timeout:           15 * time.Second,
			RequestsPerSecond: 5,
		},
		Recommend: RecommendConfig{
			ListSize: 10,
			SeasonCategories: map[string][]string{
				"spring": {"park", "garden", "trail"},
				"summer": {"beach", "valley", "campground"},
				"autumn": {"mountain", "forest", "trail"},
				"winter": {"hot-spring", "museum", "cafe"},
			},
		},
		Reports: ReportsConfig{
			CategoryTimeout: 30 * time.Second,
			WeeklyDays:      7,
			MonthlyDays:     30,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//
//  1. Defaults: built-in values from defaultConfig
//  2. Config file: optional YAML file (if one exists)
//  3. Environment variables: PAWTREK_SERVER_PORT=8080 -> server.port
//
// Precedence: ENV > file > defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// PAWTREK_CONTENTAPI_API_KEY -> contentapi.api_key requires special
	// handling since underscores are both word and section separators;
	// envTransformFunc maps the known keys explicitly.
	envProvider := env.Provider(envPrefix, ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file, checking CONFIG_PATH first
// and then the default paths. Returns empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envTransformFunc maps PAWTREK_* environment variable names to koanf
// config paths. Unmapped keys return empty string and are skipped, so
// unrelated environment variables never pollute the config.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))

	envMappings := map[string]string{
		// Server mappings
		"server_host":    "server.host",
		"server_port":    "server.port",
		"server_timeout": "server.timeout",

		// Database mappings
		"duckdb_path":       "database.path",
		"duckdb_max_memory": "database.max_memory",
		"duckdb_threads":    "database.threads",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",

		// Content API mappings
		"contentapi_enabled": "contentapi.enabled",
		"contentapi_url":     "contentapi.url",
		"contentapi_api_key": "contentapi.api_key",
		"contentapi_timeout": "contentapi.timeout",
		"contentapi_rps":     "contentapi.requests_per_second",

		// Recommendation engine mappings
		"recommend_list_size": "recommend.list_size",

		// Report aggregator mappings
		"reports_category_timeout": "reports.category_timeout",
		"reports_weekly_days":      "reports.weekly_days",
		"reports_monthly_days":     "reports.monthly_days",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	return ""
}
