// Pawtrek - Pet-Friendly Travel Analytics and Recommendations
// Copyright 2026 Pawtrek Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pawtrek/pawtrek

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/pawtrek/pawtrek/internal/metrics"
	"github.com/pawtrek/pawtrek/internal/reports"
)

// ErrReportNotFound is returned when a report lookup misses.
var ErrReportNotFound = errors.New("report not found")

// ReportSummary is the listing view of a stored report, without the
// metric payload.
type ReportSummary struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	GeneratedAt time.Time `json:"generated_at"`
}

// InsertReport persists a generated report. Reports are insert-only.
func (db *DB) InsertReport(ctx context.Context, doc *reports.Document) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal report %s: %w", doc.ID, err)
	}

	start := time.Now()
	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO reports (id, report_type, title, period_start, period_end, generated_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Type, doc.Title,
		doc.Period.Start, doc.Period.End, doc.GeneratedAt, string(payload))
	metrics.ObserveDBQuery("insert_report", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to insert report %s: %w", doc.ID, err)
	}
	return nil
}

// GetReport returns a stored report by ID.
func (db *DB) GetReport(ctx context.Context, reportID string) (*reports.Document, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var payload string
	start := time.Now()
	err := db.conn.QueryRowContext(ctx, `
		SELECT payload FROM reports WHERE id = ?`, reportID).Scan(&payload)
	metrics.ObserveDBQuery("get_report", time.Since(start), err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report %s: %w", reportID, err)
	}

	var doc reports.Document
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", reportID, err)
	}
	return &doc, nil
}

// ListReports returns stored report summaries, newest first.
func (db *DB) ListReports(ctx context.Context, limit int) ([]ReportSummary, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 50
	}

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, report_type, title, period_start, period_end, generated_at
		FROM reports
		ORDER BY generated_at DESC
		LIMIT ?`, limit)
	metrics.ObserveDBQuery("list_reports", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	summaries := []ReportSummary{}
	for rows.Next() {
		var s ReportSummary
		if err := rows.Scan(&s.ID, &s.Type, &s.Title, &s.PeriodStart, &s.PeriodEnd, &s.GeneratedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("report rows iteration failed: %w", err)
	}
	return summaries, nil
}
