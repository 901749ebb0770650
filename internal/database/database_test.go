// Pawtrek - Pet-Friendly Travel Analytics and Recommendations
// Copyright 2026 Pawtrek Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pawtrek/pawtrek

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pawtrek/pawtrek/internal/config"
	"github.com/pawtrek/pawtrek/internal/models"
	"github.com/pawtrek/pawtrek/internal/reports"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(&config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "512MB",
		Threads:   2,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedCatalog(t *testing.T, db *DB) {
	t.Helper()
	ctx := context.Background()

	entities := []models.Entity{
		{ID: 1, Title: "Riverside Camp", Region: "gangwon", Category: "campground", PetFriendly: true, MapX: 1275000000, MapY: 379000000, Tags: []string{"river", "summer"}},
		{ID: 2, Title: "Sunny Beach", Region: "jeju", Category: "beach", PetFriendly: true, MapX: 1265000000, MapY: 334000000},
		{ID: 3, Title: "City Museum", Region: "seoul", Category: "museum", PetFriendly: false},
	}
	for i := range entities {
		if err := db.UpsertEntity(ctx, &entities[i]); err != nil {
			t.Fatalf("failed to seed entity %d: %v", entities[i].ID, err)
		}
	}

	if err := db.RecordEngagement(ctx, 1, 100, 5, 0); err != nil {
		t.Fatalf("failed to seed counters: %v", err)
	}
	if err := db.RecordEngagement(ctx, 2, 50, 20, 10); err != nil {
		t.Fatalf("failed to seed counters: %v", err)
	}
}

func TestGetEntity(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	entity, err := db.GetEntity(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetEntity failed: %v", err)
	}
	if entity.Title != "Riverside Camp" {
		t.Errorf("expected title Riverside Camp, got %q", entity.Title)
	}
	if !entity.PetFriendly {
		t.Error("expected entity 1 to be pet-friendly")
	}
	if len(entity.Tags) != 2 || entity.Tags[0] != "river" {
		t.Errorf("expected tags [river summer], got %v", entity.Tags)
	}
}

func TestGetEntityNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetEntity(context.Background(), 999)
	if !errors.Is(err, ErrEntityNotFound) {
		t.Errorf("expected ErrEntityNotFound, got %v", err)
	}
}

func TestGetPetFriendlyEntities(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	entities, err := db.GetPetFriendlyEntities(context.Background())
	if err != nil {
		t.Fatalf("GetPetFriendlyEntities failed: %v", err)
	}
	if len(entities) != 2 {
		t.Fatalf("expected 2 pet-friendly entities, got %d", len(entities))
	}
	for _, e := range entities {
		if !e.PetFriendly {
			t.Errorf("entity %d is not pet-friendly", e.ID)
		}
	}
}

func TestUpsertEntityReplaces(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	updated := models.Entity{ID: 1, Title: "Riverside Camp & Lodge", Region: "gangwon", Category: "campground", PetFriendly: true}
	if err := db.UpsertEntity(ctx, &updated); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	entity, err := db.GetEntity(ctx, 1)
	if err != nil {
		t.Fatalf("GetEntity failed: %v", err)
	}
	if entity.Title != "Riverside Camp & Lodge" {
		t.Errorf("expected updated title, got %q", entity.Title)
	}
}

func TestEngagementCounters(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	// Second delta accumulates onto the existing row.
	if err := db.RecordEngagement(ctx, 1, 10, 1, 2); err != nil {
		t.Fatalf("RecordEngagement failed: %v", err)
	}

	counters, err := db.GetEngagementCounters(ctx)
	if err != nil {
		t.Fatalf("GetEngagementCounters failed: %v", err)
	}
	var c models.EngagementCounters
	for _, candidate := range counters {
		if candidate.EntityID == 1 {
			c = candidate
		}
	}
	if c.EntityID != 1 {
		t.Fatal("expected counters for entity 1")
	}
	if c.ViewCount != 110 || c.BookmarkCount != 6 || c.ShareCount != 2 {
		t.Errorf("unexpected counters: %+v", c)
	}

	single, err := db.GetEngagementCountersFor(ctx, 1)
	if err != nil {
		t.Fatalf("GetEngagementCountersFor failed: %v", err)
	}
	if single != c {
		t.Errorf("single lookup mismatch: %+v vs %+v", single, c)
	}
}

func TestGetEngagementCountersForMissing(t *testing.T) {
	db := newTestDB(t)

	c, err := db.GetEngagementCountersFor(context.Background(), 42)
	if err != nil {
		t.Fatalf("expected zero counters for missing entity, got error: %v", err)
	}
	if c.ViewCount != 0 || c.BookmarkCount != 0 || c.ShareCount != 0 {
		t.Errorf("expected zero counters, got %+v", c)
	}
}

func TestReviewsAndBookmarks(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	mustExec(t, db, `INSERT INTO reviews (id, entity_id, rating, pet_friendly_experience, pet_friendly_rating, created_at)
		VALUES (1, 1, 5, true, 4, '2025-01-02 10:00:00'),
		       (2, 1, 3, false, NULL, '2025-01-03 10:00:00')`)
	mustExec(t, db, `INSERT INTO bookmarks (user_id, entity_id, created_at)
		VALUES (7, 1, '2025-01-02 09:00:00'),
		       (7, 2, '2025-01-04 09:00:00'),
		       (8, 2, '2025-01-05 09:00:00')`)

	reviews, err := db.GetReviews(ctx)
	if err != nil {
		t.Fatalf("GetReviews failed: %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(reviews))
	}
	if !reviews[0].PetFriendlyExperience || reviews[0].PetFriendlyRating != 4 {
		t.Errorf("unexpected first review: %+v", reviews[0])
	}

	bookmarks, err := db.GetUserBookmarks(ctx, 7)
	if err != nil {
		t.Fatalf("GetUserBookmarks failed: %v", err)
	}
	if len(bookmarks) != 2 || bookmarks[0] != 1 || bookmarks[1] != 2 {
		t.Errorf("expected bookmarks [1 2], got %v", bookmarks)
	}

	none, err := db.GetUserBookmarks(ctx, 99)
	if err != nil {
		t.Fatalf("GetUserBookmarks for unknown user failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no bookmarks, got %v", none)
	}
}

func seedActivity(t *testing.T, db *DB) {
	t.Helper()
	mustExec(t, db, `INSERT INTO visit_events (entity_id, region, category, occurred_at, duration_minutes, satisfaction)
		VALUES (1, 'gangwon', 'campground', '2025-01-01 10:00:00', 120, 4.0),
		       (1, 'gangwon', 'campground', '2025-01-01 14:00:00', 60, 5.0),
		       (2, 'jeju', 'beach', '2025-01-02 11:00:00', 90, 3.0),
		       (2, 'jeju', 'beach', '2025-01-03 11:00:00', 30, 4.0)`)
	mustExec(t, db, `INSERT INTO expense_records (entity_id, category, amount, spent_at)
		VALUES (1, 'lodging', 100.0, '2025-01-01 12:00:00'),
		       (1, 'food', 20.0, '2025-01-01 13:00:00'),
		       (2, 'food', 40.0, '2025-01-02 12:00:00')`)
}

func periodDays(start, end string) (time.Time, time.Time) {
	s, _ := time.Parse("2006-01-02", start)
	e, _ := time.Parse("2006-01-02", end)
	return s, e.Add(24*time.Hour - time.Nanosecond)
}

func TestVisitTimeSeries(t *testing.T) {
	db := newTestDB(t)
	seedActivity(t, db)

	start, end := periodDays("2025-01-01", "2025-01-03")
	points, err := db.VisitTimeSeries(context.Background(), start, end)
	if err != nil {
		t.Fatalf("VisitTimeSeries failed: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 daily buckets, got %d: %v", len(points), points)
	}
	if points[0].Date != "2025-01-01" || points[0].Visits != 2 {
		t.Errorf("unexpected first bucket: %+v", points[0])
	}
	if points[2].Date != "2025-01-03" || points[2].Visits != 1 {
		t.Errorf("unexpected last bucket: %+v", points[2])
	}
}

func TestRegionTypeDistribution(t *testing.T) {
	db := newTestDB(t)
	seedActivity(t, db)

	start, end := periodDays("2025-01-01", "2025-01-03")
	stats, err := db.RegionTypeDistribution(context.Background(), start, end)
	if err != nil {
		t.Fatalf("RegionTypeDistribution failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(stats))
	}
	for _, s := range stats {
		if s.Visits != 2 {
			t.Errorf("expected 2 visits per cell, got %+v", s)
		}
	}
}

func TestPerformanceSummary(t *testing.T) {
	db := newTestDB(t)
	seedActivity(t, db)

	start, end := periodDays("2025-01-01", "2025-01-03")
	stats, err := db.PerformanceSummary(context.Background(), start, end)
	if err != nil {
		t.Fatalf("PerformanceSummary failed: %v", err)
	}
	if stats.TotalVisits != 4 {
		t.Errorf("expected 4 visits, got %d", stats.TotalVisits)
	}
	if stats.AvgDurationMinutes != 75 {
		t.Errorf("expected avg duration 75, got %v", stats.AvgDurationMinutes)
	}
	if stats.AvgSatisfaction != 4 {
		t.Errorf("expected avg satisfaction 4, got %v", stats.AvgSatisfaction)
	}
}

func TestPerformanceSummaryEmptyPeriod(t *testing.T) {
	db := newTestDB(t)

	start, end := periodDays("2025-06-01", "2025-06-30")
	stats, err := db.PerformanceSummary(context.Background(), start, end)
	if err != nil {
		t.Fatalf("PerformanceSummary failed on empty period: %v", err)
	}
	if stats.TotalVisits != 0 || stats.AvgSatisfaction != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}

func TestCostSummary(t *testing.T) {
	db := newTestDB(t)
	seedActivity(t, db)

	start, end := periodDays("2025-01-01", "2025-01-03")
	stats, err := db.CostSummary(context.Background(), start, end)
	if err != nil {
		t.Fatalf("CostSummary failed: %v", err)
	}
	if stats.TotalSpend != 160 {
		t.Errorf("expected total spend 160, got %v", stats.TotalSpend)
	}
	if len(stats.ByCategory) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(stats.ByCategory))
	}
	// Ordered by total spend descending.
	if stats.ByCategory[0].Category != "lodging" || stats.ByCategory[0].Total != 100 {
		t.Errorf("unexpected top category: %+v", stats.ByCategory[0])
	}
	if stats.ByCategory[1].Category != "food" || stats.ByCategory[1].Average != 30 {
		t.Errorf("unexpected second category: %+v", stats.ByCategory[1])
	}
}

func TestUserBehaviorSummary(t *testing.T) {
	db := newTestDB(t)
	mustExec(t, db, `INSERT INTO bookmarks (user_id, entity_id, created_at)
		VALUES (7, 1, '2025-01-02 09:00:00'),
		       (7, 2, '2025-01-03 09:00:00'),
		       (8, 1, '2025-01-04 09:00:00'),
		       (9, 1, '2024-12-01 09:00:00')`)
	mustExec(t, db, `INSERT INTO reviews (id, entity_id, rating, pet_friendly_experience, created_at)
		VALUES (1, 1, 5, true, '2025-01-02 10:00:00'),
		       (2, 1, 4, false, '2024-12-15 10:00:00')`)

	start, end := periodDays("2025-01-01", "2025-01-07")
	stats, err := db.UserBehaviorSummary(context.Background(), start, end)
	if err != nil {
		t.Fatalf("UserBehaviorSummary failed: %v", err)
	}
	if stats.NewBookmarks != 3 {
		t.Errorf("expected 3 new bookmarks, got %d", stats.NewBookmarks)
	}
	if stats.NewReviews != 1 {
		t.Errorf("expected 1 new review, got %d", stats.NewReviews)
	}
	if stats.ActiveUsers != 2 {
		t.Errorf("expected 2 active users, got %d", stats.ActiveUsers)
	}
}

func TestVisitPrediction(t *testing.T) {
	db := newTestDB(t)
	mustExec(t, db, `INSERT INTO visit_events (entity_id, region, category, occurred_at, duration_minutes)
		VALUES (1, 'gangwon', 'campground', '2025-01-01 10:00:00', 60),
		       (1, 'gangwon', 'campground', '2025-01-03 10:00:00', 60),
		       (1, 'gangwon', 'campground', '2025-01-04 10:00:00', 60),
		       (1, 'gangwon', 'campground', '2025-01-04 12:00:00', 60)`)

	start, end := periodDays("2025-01-01", "2025-01-04")
	stats, err := db.VisitPrediction(context.Background(), start, end)
	if err != nil {
		t.Fatalf("VisitPrediction failed: %v", err)
	}
	if stats.HorizonDays != 4 {
		t.Errorf("expected horizon 4 days, got %d", stats.HorizonDays)
	}
	if stats.AvgDailyVisits != 1 {
		t.Errorf("expected avg daily 1, got %v", stats.AvgDailyVisits)
	}
	if stats.ProjectedVisits != 4 {
		t.Errorf("expected projection 4, got %d", stats.ProjectedVisits)
	}
	if stats.Trend != "rising" {
		t.Errorf("expected rising trend, got %q", stats.Trend)
	}
}

func TestReportStoreRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	doc := &reports.Document{
		ID:    "report-abc",
		Type:  reports.TypeWeekly.String(),
		Title: "Weekly Report — 2025-01-01 ~ 2025-01-07",
		Period: reports.Period{
			Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 1, 7, 23, 59, 59, 0, time.UTC),
		},
		GeneratedAt: time.Date(2025, 1, 8, 10, 30, 0, 0, time.UTC),
		MetricsByCategory: map[reports.Category]interface{}{
			reports.CategoryPerformance: map[string]interface{}{"total_visits": float64(4)},
		},
		Failed: map[reports.Category]string{
			reports.CategoryCost: "source unavailable",
		},
	}

	if err := db.InsertReport(ctx, doc); err != nil {
		t.Fatalf("InsertReport failed: %v", err)
	}

	got, err := db.GetReport(ctx, "report-abc")
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if got.Title != doc.Title {
		t.Errorf("expected title %q, got %q", doc.Title, got.Title)
	}
	if got.Failed[reports.CategoryCost] != "source unavailable" {
		t.Errorf("expected failure reason preserved, got %v", got.Failed)
	}
	if _, ok := got.MetricsByCategory[reports.CategoryPerformance]; !ok {
		t.Error("expected performance metrics preserved")
	}

	summaries, err := db.ListReports(ctx, 10)
	if err != nil {
		t.Fatalf("ListReports failed: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != "report-abc" {
		t.Errorf("unexpected summaries: %+v", summaries)
	}
}

func TestInsertReportDuplicateFails(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	doc := &reports.Document{
		ID:          "dup",
		Type:        reports.TypeDaily.String(),
		Title:       "Daily Report — 2025-01-01",
		Period:      reports.Period{Start: time.Now(), End: time.Now()},
		GeneratedAt: time.Now(),
	}
	if err := db.InsertReport(ctx, doc); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	if err := db.InsertReport(ctx, doc); err == nil {
		t.Error("expected duplicate insert to fail")
	}
}

func TestGetReportNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetReport(context.Background(), "missing")
	if !errors.Is(err, ErrReportNotFound) {
		t.Errorf("expected ErrReportNotFound, got %v", err)
	}
}

func TestReportSourcesCoverAllCategories(t *testing.T) {
	db := newTestDB(t)

	sources := db.ReportSources()
	for _, category := range reports.AllCategories {
		if _, ok := sources[category]; !ok {
			t.Errorf("missing source for category %s", category)
		}
	}
	if len(sources) != len(reports.AllCategories) {
		t.Errorf("expected %d sources, got %d", len(reports.AllCategories), len(sources))
	}
}

func mustExec(t *testing.T, db *DB, query string) {
	t.Helper()
	if _, err := db.conn.ExecContext(context.Background(), query); err != nil {
		t.Fatalf("exec failed: %v\nquery: %s", err, query)
	}
}
