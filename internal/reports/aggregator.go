// Pawtrek - Pet-Friendly Travel Analytics and Recommendations
// Copyright 2026 Pawtrek Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pawtrek/pawtrek

package reports

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pawtrek/pawtrek/internal/metrics"
)

// ErrInvalidRequest marks request validation failures so callers can
// distinguish them from gather or persistence errors.
var ErrInvalidRequest = errors.New("invalid report request")

// Config holds report aggregator configuration.
type Config struct {
	// CategoryTimeout bounds each statistic subsystem call.
	CategoryTimeout time.Duration

	// WeeklyDays and MonthlyDays are the rolling window lengths for
	// the weekly and monthly report types.
	WeeklyDays  int
	MonthlyDays int
}

// DefaultConfig returns the default aggregator configuration.
func DefaultConfig() *Config {
	return &Config{
		CategoryTimeout: 30 * time.Second,
		WeeklyDays:      7,
		MonthlyDays:     30,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.CategoryTimeout <= 0 {
		return fmt.Errorf("category timeout must be positive, got %v", c.CategoryTimeout)
	}
	if c.WeeklyDays <= 0 || c.MonthlyDays <= 0 {
		return fmt.Errorf("window lengths must be positive (weekly=%d, monthly=%d)",
			c.WeeklyDays, c.MonthlyDays)
	}
	return nil
}

// Aggregator assembles composite reports from independent statistic
// subsystems and persists them. Safe for concurrent use.
type Aggregator struct {
	config  *Config
	logger  zerolog.Logger
	sources map[Category]Source
	store   Store

	// now is swappable for tests.
	now func() time.Time
}

// NewAggregator creates a report aggregator. Sources maps each category
// to its statistic subsystem; categories without a source simply cannot
// be requested successfully.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAggregator(cfg *Config, sources map[Category]Source, store Store, logger zerolog.Logger) (*Aggregator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if store == nil {
		return nil, fmt.Errorf("report store not set")
	}

	for category := range sources {
		if !category.Valid() {
			return nil, fmt.Errorf("unknown category %q in sources", category)
		}
	}

	return &Aggregator{
		config:  cfg,
		logger:  logger.With().Str("component", "reports").Logger(),
		sources: sources,
		store:   store,
		now:     time.Now,
	}, nil
}

// Generate builds one report document and persists it.
//
// Each requested category's subsystem is invoked independently; a
// failing subsystem is omitted from MetricsByCategory and recorded in
// Failed, never fatal to the document. Persistence failure is fatal:
// the in-memory document is discarded and an error returned.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (a *Aggregator) Generate(ctx context.Context, req Request) (*Document, error) {
	req = a.prepareRequest(req)
	logger := a.logger.With().
		Str("request_id", req.RequestID).
		Str("type", req.Type.String()).
		Logger()

	period, err := a.resolvePeriod(req)
	if err != nil {
		return nil, err
	}

	categories, err := a.resolveCategories(req.Categories)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Time("start", period.Start).
		Time("end", period.End).
		Int("categories", len(categories)).
		Msg("generating report")

	results := a.gather(ctx, categories, period)

	doc := a.buildDocument(req.Type, period, categories, results)

	if err := a.store.InsertReport(ctx, doc); err != nil {
		return nil, fmt.Errorf("persist report: %w", err)
	}

	logger.Info().
		Str("report_id", doc.ID).
		Int("succeeded", len(doc.MetricsByCategory)).
		Int("failed", len(doc.Failed)).
		Msg("report generated")

	return doc, nil
}

// prepareRequest applies defaults.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (a *Aggregator) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}
	return req
}

// resolvePeriod computes the report window for the request type.
func (a *Aggregator) resolvePeriod(req Request) (Period, error) {
	now := a.now()

	switch req.Type {
	case TypeDaily:
		return Period{Start: startOfDay(now), End: endOfDay(now)}, nil
	case TypeWeekly:
		return Period{Start: now.AddDate(0, 0, -a.config.WeeklyDays), End: now}, nil
	case TypeMonthly:
		return Period{Start: now.AddDate(0, 0, -a.config.MonthlyDays), End: now}, nil
	case TypeCustom:
		if req.Period == nil {
			return Period{}, fmt.Errorf("%w: custom report requires a period", ErrInvalidRequest)
		}
		if req.Period.End.Before(req.Period.Start) {
			return Period{}, fmt.Errorf("%w: period end %v before start %v",
				ErrInvalidRequest, req.Period.End, req.Period.Start)
		}
		return Period{
			Start: startOfDay(req.Period.Start),
			End:   endOfDay(req.Period.End),
		}, nil
	default:
		return Period{}, fmt.Errorf("%w: unknown report type %d", ErrInvalidRequest, req.Type)
	}
}

// resolveCategories validates the requested categories, defaulting to
// every registered category when none are named.
func (a *Aggregator) resolveCategories(requested []Category) ([]Category, error) {
	if len(requested) == 0 {
		all := make([]Category, 0, len(a.sources))
		for _, category := range AllCategories {
			if _, ok := a.sources[category]; ok {
				all = append(all, category)
			}
		}
		return all, nil
	}

	for _, category := range requested {
		if !category.Valid() {
			return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidRequest, category)
		}
	}
	return requested, nil
}

// categoryResult captures one subsystem's outcome so a failing category
// can never cancel or corrupt another's result.
type categoryResult struct {
	category Category
	payload  interface{}
	err      error
}

// gather invokes every requested category's source concurrently and
// collects per-category results.
func (a *Aggregator) gather(ctx context.Context, categories []Category, period Period) []categoryResult {
	results := make([]categoryResult, len(categories))
	var wg sync.WaitGroup

	for i, category := range categories {
		wg.Add(1)
		go func(idx int, cat Category) {
			defer wg.Done()
			results[idx] = a.fetchCategory(ctx, cat, period)

			outcome := "success"
			if results[idx].err != nil {
				outcome = "failure"
			}
			metrics.ReportCategoryOutcomes.WithLabelValues(string(cat), outcome).Inc()
		}(i, category)
	}

	wg.Wait()
	return results
}

// fetchCategory runs a single subsystem with the configured timeout,
// converting panics into failures so one category cannot take down the
// whole report.
func (a *Aggregator) fetchCategory(ctx context.Context, category Category, period Period) (result categoryResult) {
	result.category = category

	defer func() {
		if r := recover(); r != nil {
			result.err = fmt.Errorf("subsystem panic: %v", r)
		}
	}()

	source, ok := a.sources[category]
	if !ok {
		result.err = fmt.Errorf("no source registered")
		return result
	}

	fetchCtx, cancel := context.WithTimeout(ctx, a.config.CategoryTimeout)
	defer cancel()

	result.payload, result.err = source.Fetch(fetchCtx, period)
	return result
}

// buildDocument assembles the report from the gathered results.
func (a *Aggregator) buildDocument(reportType ReportType, period Period, categories []Category, results []categoryResult) *Document {
	doc := &Document{
		ID:                uuid.New().String(),
		Type:              reportType.String(),
		Title:             synthesizeTitle(reportType, period),
		Period:            period,
		GeneratedAt:       a.now(),
		MetricsByCategory: make(map[Category]interface{}, len(categories)),
	}

	for _, result := range results {
		if result.err != nil {
			a.logger.Warn().
				Str("category", string(result.category)).
				Err(result.err).
				Msg("statistic subsystem failed, omitting category")
			if doc.Failed == nil {
				doc.Failed = make(map[Category]string)
			}
			doc.Failed[result.category] = result.err.Error()
			continue
		}
		doc.MetricsByCategory[result.category] = result.payload
	}

	return doc
}

// synthesizeTitle builds the human-readable report title from the type
// and the resolved period boundaries.
func synthesizeTitle(reportType ReportType, period Period) string {
	start := period.Start.Format("2006-01-02")
	end := period.End.Format("2006-01-02")

	if start == end {
		return fmt.Sprintf("%s Report — %s", reportType.titleWord(), start)
	}
	return fmt.Sprintf("%s Report — %s ~ %s", reportType.titleWord(), start, end)
}

// startOfDay returns midnight of t's day in t's location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// endOfDay returns 23:59:59 of t's day in t's location.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
