// Pawtrek - Pet-Friendly Travel Analytics and Recommendations
// Copyright 2026 Pawtrek Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pawtrek/pawtrek

package database

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/pawtrek/pawtrek/internal/metrics"
	"github.com/pawtrek/pawtrek/internal/models"
	"github.com/pawtrek/pawtrek/internal/reports"
)

// ReportSources maps each report category to its statistic query so the
// aggregator can gather them concurrently.
func (db *DB) ReportSources() map[reports.Category]reports.Source {
	return map[reports.Category]reports.Source{
		reports.CategoryTimeSeries: reports.SourceFunc(func(ctx context.Context, p reports.Period) (interface{}, error) {
			return db.VisitTimeSeries(ctx, p.Start, p.End)
		}),
		reports.CategoryRegionType: reports.SourceFunc(func(ctx context.Context, p reports.Period) (interface{}, error) {
			return db.RegionTypeDistribution(ctx, p.Start, p.End)
		}),
		reports.CategoryPerformance: reports.SourceFunc(func(ctx context.Context, p reports.Period) (interface{}, error) {
			return db.PerformanceSummary(ctx, p.Start, p.End)
		}),
		reports.CategoryCost: reports.SourceFunc(func(ctx context.Context, p reports.Period) (interface{}, error) {
			return db.CostSummary(ctx, p.Start, p.End)
		}),
		reports.CategoryUserBehavior: reports.SourceFunc(func(ctx context.Context, p reports.Period) (interface{}, error) {
			return db.UserBehaviorSummary(ctx, p.Start, p.End)
		}),
		reports.CategoryPrediction: reports.SourceFunc(func(ctx context.Context, p reports.Period) (interface{}, error) {
			return db.VisitPrediction(ctx, p.Start, p.End)
		}),
	}
}

// VisitTimeSeries returns daily visit counts within [start, end].
func (db *DB) VisitTimeSeries(ctx context.Context, start, end time.Time) ([]models.TimeSeriesPoint, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	queryStart := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT strftime(date_trunc('day', occurred_at), '%Y-%m-%d') AS day,
		       COUNT(*) AS visits
		FROM visit_events
		WHERE occurred_at >= ? AND occurred_at <= ?
		GROUP BY day
		ORDER BY day`, start, end)
	metrics.ObserveDBQuery("visit_time_series", time.Since(queryStart), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query visit time-series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	points := []models.TimeSeriesPoint{}
	for rows.Next() {
		var p models.TimeSeriesPoint
		if err := rows.Scan(&p.Date, &p.Visits); err != nil {
			return nil, fmt.Errorf("failed to scan time-series row: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("time-series rows iteration failed: %w", err)
	}
	return points, nil
}

// RegionTypeDistribution returns visit counts grouped by region and
// entity category within [start, end].
func (db *DB) RegionTypeDistribution(ctx context.Context, start, end time.Time) ([]models.RegionTypeStat, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	queryStart := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT region, category, COUNT(*) AS visits
		FROM visit_events
		WHERE occurred_at >= ? AND occurred_at <= ?
		GROUP BY region, category
		ORDER BY visits DESC, region, category`, start, end)
	metrics.ObserveDBQuery("region_type_distribution", time.Since(queryStart), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query region/type distribution: %w", err)
	}
	defer func() { _ = rows.Close() }()

	stats := []models.RegionTypeStat{}
	for rows.Next() {
		var s models.RegionTypeStat
		if err := rows.Scan(&s.Region, &s.Category, &s.Visits); err != nil {
			return nil, fmt.Errorf("failed to scan distribution row: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("distribution rows iteration failed: %w", err)
	}
	return stats, nil
}

// PerformanceSummary returns aggregate visit quality for [start, end].
func (db *DB) PerformanceSummary(ctx context.Context, start, end time.Time) (*models.PerformanceStats, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var stats models.PerformanceStats
	queryStart := time.Now()
	err := db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(AVG(duration_minutes), 0),
		       COALESCE(AVG(satisfaction), 0)
		FROM visit_events
		WHERE occurred_at >= ? AND occurred_at <= ?`, start, end).
		Scan(&stats.TotalVisits, &stats.AvgDurationMinutes, &stats.AvgSatisfaction)
	metrics.ObserveDBQuery("performance_summary", time.Since(queryStart), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query performance summary: %w", err)
	}
	return &stats, nil
}

// CostSummary returns total and per-category spend for [start, end].
func (db *DB) CostSummary(ctx context.Context, start, end time.Time) (*models.CostStats, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	queryStart := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT category, SUM(amount), AVG(amount)
		FROM expense_records
		WHERE spent_at >= ? AND spent_at <= ?
		GROUP BY category
		ORDER BY SUM(amount) DESC`, start, end)
	metrics.ObserveDBQuery("cost_summary", time.Since(queryStart), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query cost summary: %w", err)
	}
	defer func() { _ = rows.Close() }()

	stats := &models.CostStats{ByCategory: []models.CostBreakdown{}}
	for rows.Next() {
		var b models.CostBreakdown
		if err := rows.Scan(&b.Category, &b.Total, &b.Average); err != nil {
			return nil, fmt.Errorf("failed to scan cost row: %w", err)
		}
		stats.ByCategory = append(stats.ByCategory, b)
		stats.TotalSpend += b.Total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cost rows iteration failed: %w", err)
	}
	return stats, nil
}

// UserBehaviorSummary returns engagement activity for [start, end].
func (db *DB) UserBehaviorSummary(ctx context.Context, start, end time.Time) (*models.UserBehaviorStats, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var stats models.UserBehaviorStats
	queryStart := time.Now()
	err := db.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM bookmarks WHERE created_at >= ? AND created_at <= ?),
			(SELECT COUNT(*) FROM reviews WHERE created_at >= ? AND created_at <= ?),
			(SELECT COUNT(DISTINCT user_id) FROM bookmarks WHERE created_at >= ? AND created_at <= ?)`,
		start, end, start, end, start, end).
		Scan(&stats.NewBookmarks, &stats.NewReviews, &stats.ActiveUsers)
	metrics.ObserveDBQuery("user_behavior_summary", time.Since(queryStart), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query user behavior summary: %w", err)
	}
	return &stats, nil
}

// VisitPrediction projects visit volume for the period immediately
// following [start, end]. The projection is average daily volume scaled
// to the same horizon, with a trend label comparing the two halves of
// the observed window.
func (db *DB) VisitPrediction(ctx context.Context, start, end time.Time) (*models.PredictionStats, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	mid := start.Add(end.Sub(start) / 2)

	var total, firstHalf, secondHalf int64
	queryStart := time.Now()
	err := db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE occurred_at < ?),
		       COUNT(*) FILTER (WHERE occurred_at >= ?)
		FROM visit_events
		WHERE occurred_at >= ? AND occurred_at <= ?`,
		mid, mid, start, end).
		Scan(&total, &firstHalf, &secondHalf)
	metrics.ObserveDBQuery("visit_prediction", time.Since(queryStart), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query visit prediction: %w", err)
	}

	horizonDays := int(end.Sub(start).Hours()/24) + 1
	if horizonDays < 1 {
		horizonDays = 1
	}
	avgDaily := float64(total) / float64(horizonDays)

	trend := "flat"
	switch {
	case secondHalf > firstHalf:
		trend = "rising"
	case secondHalf < firstHalf:
		trend = "falling"
	}

	return &models.PredictionStats{
		AvgDailyVisits:  math.Round(avgDaily*100) / 100,
		ProjectedVisits: int64(math.Round(avgDaily * float64(horizonDays))),
		HorizonDays:     horizonDays,
		Trend:           trend,
	}, nil
}
