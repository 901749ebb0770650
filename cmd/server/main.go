// Pawtrek - Pet-Friendly Travel Analytics and Recommendations
// Copyright 2026 Pawtrek Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pawtrek/pawtrek

// Package main is the entry point for the Pawtrek analytics server.
//
// Pawtrek aggregates engagement data for pet-friendly travel destinations
// and serves popularity scores, map coordinates, recommendations, and
// composite analytics reports over a REST API.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered loading via Koanf v2 (defaults, file, env)
//  2. Database: DuckDB storage for the catalog and analytics counters
//  3. Content API client (optional): rate-limited catalog sync with a
//     circuit breaker toward the upstream content service
//  4. Recommendation engine and report aggregator
//  5. HTTP server: chi router with the REST API and /metrics
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops
// accepting new connections, waits up to 10 seconds for in-flight
// requests, then closes the database.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pawtrek/pawtrek/internal/api"
	"github.com/pawtrek/pawtrek/internal/config"
	"github.com/pawtrek/pawtrek/internal/contentapi"
	"github.com/pawtrek/pawtrek/internal/database"
	"github.com/pawtrek/pawtrek/internal/logging"
	"github.com/pawtrek/pawtrek/internal/recommend"
	"github.com/pawtrek/pawtrek/internal/reports"
)

// version is set at build time via -ldflags.
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use the default logger for config errors (config not yet available).
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("db_path", cfg.Database.Path).
		Bool("contentapi_enabled", cfg.ContentAPI.Enabled).
		Msg("Starting Pawtrek")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.ContentAPI.Enabled {
		client, err := contentapi.NewClient(&cfg.ContentAPI)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize content API client")
		}
		go func() {
			if _, err := client.SyncCatalog(ctx, db); err != nil {
				logging.Error().Err(err).Msg("Initial catalog sync failed")
			}
		}()
	}

	engine, err := recommend.NewEngine(&recommend.Config{
		ListSize:         cfg.Recommend.ListSize,
		SeasonCategories: cfg.Recommend.SeasonCategories,
	}, db, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
	}

	aggregator, err := reports.NewAggregator(&reports.Config{
		CategoryTimeout: cfg.Reports.CategoryTimeout,
		WeeklyDays:      cfg.Reports.WeeklyDays,
		MonthlyDays:     cfg.Reports.MonthlyDays,
	}, db.ReportSources(), db, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize report aggregator")
	}

	handler := api.NewHandler(db, engine, aggregator, version)
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(handler),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		serverErr <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("HTTP server error")
		}
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("HTTP server shutdown error")
	}

	logging.Info().Msg("Application stopped gracefully")
}
