// Pawtrek - Pet-Friendly Travel Analytics and Recommendations
// Copyright 2026 Pawtrek Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pawtrek/pawtrek

package reports

import (
	"context"
	"fmt"
	"time"
)

// ReportType selects how the report period is resolved.
type ReportType int

const (
	// TypeDaily covers today, midnight to 23:59:59.
	TypeDaily ReportType = iota
	// TypeWeekly covers a rolling window of days ending now.
	TypeWeekly
	// TypeMonthly covers a longer rolling window of days ending now.
	TypeMonthly
	// TypeCustom uses the caller-supplied period, normalized to day
	// boundaries.
	TypeCustom
)

// String returns a human-readable report type name.
func (t ReportType) String() string {
	switch t {
	case TypeDaily:
		return "daily"
	case TypeWeekly:
		return "weekly"
	case TypeMonthly:
		return "monthly"
	case TypeCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// titleWord returns the capitalized form used in synthesized titles.
func (t ReportType) titleWord() string {
	switch t {
	case TypeDaily:
		return "Daily"
	case TypeWeekly:
		return "Weekly"
	case TypeMonthly:
		return "Monthly"
	case TypeCustom:
		return "Custom"
	default:
		return "Unknown"
	}
}

// ParseReportType converts a string to a ReportType.
func ParseReportType(s string) (ReportType, error) {
	switch s {
	case "daily":
		return TypeDaily, nil
	case "weekly":
		return TypeWeekly, nil
	case "monthly":
		return TypeMonthly, nil
	case "custom":
		return TypeCustom, nil
	default:
		return 0, fmt.Errorf("unknown report type %q", s)
	}
}

// Category names one statistic subsystem's contribution to a report.
type Category string

// The six report categories.
const (
	CategoryTimeSeries   Category = "timeseries"
	CategoryRegionType   Category = "regiontype"
	CategoryPerformance  Category = "performance"
	CategoryCost         Category = "cost"
	CategoryUserBehavior Category = "userbehavior"
	CategoryPrediction   Category = "prediction"
)

// AllCategories lists every known category in presentation order.
var AllCategories = []Category{
	CategoryTimeSeries,
	CategoryRegionType,
	CategoryPerformance,
	CategoryCost,
	CategoryUserBehavior,
	CategoryPrediction,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Period is a report time window, inclusive on both ends.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Request describes one report generation.
type Request struct {
	// Type determines how the period is resolved.
	Type ReportType `json:"type"`

	// Period is required for TypeCustom and ignored otherwise.
	Period *Period `json:"period,omitempty"`

	// Categories selects which statistic subsystems contribute. Empty
	// means all registered categories.
	Categories []Category `json:"categories,omitempty"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// Document is one generated report. Once persisted it is immutable;
// re-generation always creates a new document with a new ID.
type Document struct {
	// ID is the document's unique identifier.
	ID string `json:"id"`

	// Type is the report type name.
	Type string `json:"type"`

	// Title is synthesized from the type and the resolved period,
	// e.g. "Weekly Report — 2025-01-01 ~ 2025-01-07".
	Title string `json:"title"`

	// Period is the resolved report window.
	Period Period `json:"period"`

	// GeneratedAt is when the document was assembled.
	GeneratedAt time.Time `json:"generated_at"`

	// MetricsByCategory holds each successful subsystem's payload.
	// A category absent from the map failed or was not requested;
	// absence is never fatal to the document.
	MetricsByCategory map[Category]interface{} `json:"metrics_by_category"`

	// Failed records the failure reason for each requested category
	// that could not contribute.
	Failed map[Category]string `json:"failed,omitempty"`
}

// Source is one statistic subsystem. Each source queries its own stored
// counters for the period and returns a JSON-serializable payload.
type Source interface {
	Fetch(ctx context.Context, period Period) (interface{}, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, period Period) (interface{}, error)

// Fetch implements Source.
func (f SourceFunc) Fetch(ctx context.Context, period Period) (interface{}, error) {
	return f(ctx, period)
}

// Store persists finished documents. Implemented by the database layer.
type Store interface {
	InsertReport(ctx context.Context, doc *Document) error
}
