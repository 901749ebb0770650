// Pawtrek - Pet-Friendly Travel Analytics and Recommendations
// Copyright 2026 Pawtrek Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pawtrek/pawtrek

package models

// TimeSeriesPoint is one bucket of the visit time-series statistic.
type TimeSeriesPoint struct {
	Date   string `json:"date"`
	Visits int64  `json:"visits"`
}

// RegionTypeStat is one cell of the region/type distribution statistic.
type RegionTypeStat struct {
	Region   string `json:"region"`
	Category string `json:"category"`
	Visits   int64  `json:"visits"`
}

// PerformanceStats summarizes visit quality over a period.
type PerformanceStats struct {
	TotalVisits        int64   `json:"total_visits"`
	AvgDurationMinutes float64 `json:"avg_duration_minutes"`
	AvgSatisfaction    float64 `json:"avg_satisfaction"`
}

// CostBreakdown is per-category spend within a cost statistic.
type CostBreakdown struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Average  float64 `json:"average"`
}

// CostStats summarizes spend over a period.
type CostStats struct {
	TotalSpend float64         `json:"total_spend"`
	ByCategory []CostBreakdown `json:"by_category"`
}

// UserBehaviorStats summarizes engagement activity over a period.
type UserBehaviorStats struct {
	NewBookmarks int64 `json:"new_bookmarks"`
	NewReviews   int64 `json:"new_reviews"`
	ActiveUsers  int64 `json:"active_users"`
}

// PredictionStats is a naive projection of visit volume for the
// period immediately following the reported one.
type PredictionStats struct {
	AvgDailyVisits  float64 `json:"avg_daily_visits"`
	ProjectedVisits int64   `json:"projected_visits"`
	HorizonDays     int     `json:"horizon_days"`
	Trend           string  `json:"trend"`
}
