// Pawtrek - Pet-Friendly Travel Analytics and Recommendations
// Copyright 2026 Pawtrek Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pawtrek/pawtrek

// Package database provides DuckDB-backed storage for the catalog,
// engagement counters, reviews, bookmarks, activity events, and
// generated reports.
//
// The DB type implements recommend.DataProvider and reports.Store, and
// exposes one query method per statistic subsystem. All aggregation
// queries are single-pass over stored rows.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/pawtrek/pawtrek/internal/config"
	"github.com/pawtrek/pawtrek/internal/logging"
)

// defaultQueryTimeout bounds queries whose callers pass a context
// without a deadline.
const defaultQueryTimeout = 30 * time.Second

// DB wraps the DuckDB connection and provides data access methods.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig
}

// New opens the database and initializes the schema.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// Ensure the parent directory exists for file-backed databases.
	if cfg.Path != ":memory:" {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s",
		cfg.Path, numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn, cfg: cfg}

	if err := db.initSchema(context.Background()); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Int("threads", numThreads).
		Msg("database initialized")

	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping verifies the connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	return db.conn.PingContext(ctx)
}

// ensureContext attaches the default query timeout when the caller's
// context has no deadline.
func (db *DB) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// initSchema creates the tables if they do not exist.
func (db *DB) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS entities (
			id INTEGER PRIMARY KEY,
			title VARCHAR NOT NULL,
			region VARCHAR NOT NULL,
			category VARCHAR NOT NULL,
			image VARCHAR,
			pet_friendly BOOLEAN NOT NULL DEFAULT false,
			map_x BIGINT,
			map_y BIGINT,
			tags VARCHAR,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS engagement_counters (
			entity_id INTEGER PRIMARY KEY,
			view_count INTEGER NOT NULL DEFAULT 0,
			bookmark_count INTEGER NOT NULL DEFAULT 0,
			share_count INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS reviews (
			id INTEGER,
			entity_id INTEGER NOT NULL,
			rating INTEGER NOT NULL,
			pet_friendly_experience BOOLEAN NOT NULL DEFAULT false,
			pet_friendly_rating INTEGER,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS bookmarks (
			user_id INTEGER NOT NULL,
			entity_id INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS visit_events (
			entity_id INTEGER NOT NULL,
			region VARCHAR NOT NULL,
			category VARCHAR NOT NULL,
			occurred_at TIMESTAMP NOT NULL,
			duration_minutes INTEGER NOT NULL DEFAULT 0,
			satisfaction DOUBLE
		)`,
		`CREATE TABLE IF NOT EXISTS expense_records (
			entity_id INTEGER NOT NULL,
			category VARCHAR NOT NULL,
			amount DOUBLE NOT NULL,
			spent_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS reports (
			id VARCHAR PRIMARY KEY,
			report_type VARCHAR NOT NULL,
			title VARCHAR NOT NULL,
			period_start TIMESTAMP NOT NULL,
			period_end TIMESTAMP NOT NULL,
			generated_at TIMESTAMP NOT NULL,
			payload VARCHAR NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}

	return nil
}
