// Pawtrek - Pet-Friendly Travel Analytics and Recommendations
// Copyright 2026 Pawtrek Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pawtrek/pawtrek

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pawtrek/pawtrek/internal/models"
	"github.com/pawtrek/pawtrek/internal/popularity"
)

// Engine produces the three ranked recommendation lists. It is stateless
// apart from configuration: every response is a pure function of the
// data snapshot fetched for that request. Safe for concurrent use.
type Engine struct {
	config       *Config
	logger       zerolog.Logger
	dataProvider DataProvider
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, dp DataProvider, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if dp == nil {
		return nil, fmt.Errorf("data provider not set")
	}

	return &Engine{
		config:       cfg,
		logger:       logger.With().Str("component", "recommend").Logger(),
		dataProvider: dp,
	}, nil
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}

// Recommend generates the three candidate lists for a request.
//
// The three strategies are independent: a strategy that cannot run
// (no signed-in user, no bookmarks, or a failed bookmark fetch) yields
// an empty list and never affects the others. Only a failure to load
// the shared catalog snapshot fails the whole request.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	req = e.prepareRequest(req)
	logger := e.createRequestLogger(req)
	logger.Debug().Msg("processing recommendation request")

	snap, err := e.loadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog snapshot: %w", err)
	}

	season := SeasonForMonth(req.Now.Month())
	results := e.runStrategies(ctx, req, snap, season)

	resp := &Response{
		UserBased:   results[0].candidates,
		RegionBased: results[1].candidates,
		Seasonal:    results[2].candidates,
		Metadata: ResponseMetadata{
			RequestID: req.RequestID,
			UserID:    req.UserID,
			Season:    season.String(),
			LatencyMS: time.Since(start).Milliseconds(),
			Timestamp: time.Now(),
		},
	}

	logger.Debug().
		Int("user_based", len(resp.UserBased)).
		Int("region_based", len(resp.RegionBased)).
		Int("seasonal", len(resp.Seasonal)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

// prepareRequest applies defaults and generates a request ID if needed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}
	if req.K <= 0 || req.K > e.config.ListSize {
		req.K = e.config.ListSize
	}
	if req.Now.IsZero() {
		req.Now = time.Now()
	}
	return req
}

// createRequestLogger creates a logger with request context.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) createRequestLogger(req Request) zerolog.Logger {
	return e.logger.With().
		Str("request_id", req.RequestID).
		Int("user_id", req.UserID).
		Logger()
}

// snapshot is the per-request view of the catalog: entities plus the
// derived per-entity statistics every strategy ranks on.
type snapshot struct {
	entities []models.Entity

	// byID indexes entities for bookmark lookups.
	byID map[int]models.Entity

	// stats holds the derived counters/ratings per entity ID.
	stats map[int]entityStats
}

// entityStats holds the derived ranking inputs for one entity.
type entityStats struct {
	popularityScore int
	bookmarkCount   int
	reviewCount     int
	averageRating   float64
}

// loadSnapshot fetches entities, counters, and reviews in one pass so a
// single request ranks against one consistent view.
func (e *Engine) loadSnapshot(ctx context.Context) (*snapshot, error) {
	entities, err := e.dataProvider.GetPetFriendlyEntities(ctx)
	if err != nil {
		return nil, fmt.Errorf("get entities: %w", err)
	}

	counters, err := e.dataProvider.GetEngagementCounters(ctx)
	if err != nil {
		return nil, fmt.Errorf("get engagement counters: %w", err)
	}

	reviews, err := e.dataProvider.GetReviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("get reviews: %w", err)
	}

	return buildSnapshot(entities, counters, reviews), nil
}

// buildSnapshot derives the per-entity statistics from the raw collections.
func buildSnapshot(entities []models.Entity, counters []models.EngagementCounters, reviews []models.Review) *snapshot {
	snap := &snapshot{
		entities: entities,
		byID:     make(map[int]models.Entity, len(entities)),
		stats:    make(map[int]entityStats, len(entities)),
	}

	countersByID := make(map[int]models.EngagementCounters, len(counters))
	for _, c := range counters {
		countersByID[c.EntityID] = c
	}

	reviewCount := make(map[int]int)
	petRatingSum := make(map[int]int)
	petRatingCount := make(map[int]int)
	for _, r := range reviews {
		reviewCount[r.EntityID]++
		if r.PetFriendlyExperience {
			petRatingSum[r.EntityID] += r.PetFriendlyRating
			petRatingCount[r.EntityID]++
		}
	}

	for _, entity := range entities {
		snap.byID[entity.ID] = entity

		c := countersByID[entity.ID] // zero counters when absent
		stats := entityStats{
			popularityScore: popularity.Score(c.ViewCount, c.BookmarkCount, c.ShareCount),
			bookmarkCount:   c.BookmarkCount,
			reviewCount:     reviewCount[entity.ID],
		}
		if n := petRatingCount[entity.ID]; n > 0 {
			stats.averageRating = round1(float64(petRatingSum[entity.ID]) / float64(n))
		}
		snap.stats[entity.ID] = stats
	}

	return snap
}

// strategyResult captures one strategy's output so a failing strategy
// can never cancel or corrupt another's result.
type strategyResult struct {
	name       string
	candidates []Candidate
	err        error
}

// runStrategies runs the three strategies concurrently and gathers their
// results. Index order: user-based, region-based, seasonal.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) runStrategies(ctx context.Context, req Request, snap *snapshot, season Season) [3]strategyResult {
	var results [3]strategyResult
	var wg sync.WaitGroup

	run := func(idx int, name string, fn func() ([]Candidate, error)) {
		defer wg.Done()
		candidates, err := fn()
		results[idx] = strategyResult{name: name, candidates: candidates, err: err}
	}

	wg.Add(3)
	go run(0, "user_based", func() ([]Candidate, error) { return e.userBased(ctx, req, snap) })
	go run(1, "region_based", func() ([]Candidate, error) { return e.regionBased(req, snap), nil })
	go run(2, "seasonal", func() ([]Candidate, error) { return e.seasonal(req, snap, season), nil })
	wg.Wait()

	for i, result := range results {
		if result.err != nil {
			e.logger.Warn().
				Str("strategy", result.name).
				Err(result.err).
				Msg("strategy failed, returning empty list")
			results[i].candidates = []Candidate{}
		}
		if results[i].candidates == nil {
			results[i].candidates = []Candidate{}
		}
	}

	return results
}

// userBased recommends pet-friendly entities sharing a region or
// category with the user's existing pet-friendly bookmarks, excluding
// the bookmarked entities themselves.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) userBased(ctx context.Context, req Request, snap *snapshot) ([]Candidate, error) {
	if req.UserID == 0 {
		return nil, nil // anonymous: input absence, not an error
	}

	bookmarkIDs, err := e.dataProvider.GetUserBookmarks(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("get bookmarks for user %d: %w", req.UserID, err)
	}

	bookmarked := make(map[int]struct{}, len(bookmarkIDs))
	regions := make(map[string]struct{})
	categories := make(map[string]struct{})
	for _, id := range bookmarkIDs {
		bookmarked[id] = struct{}{}
		// Only bookmarks that resolve to pet-friendly entities inform
		// the affinity sets.
		if entity, ok := snap.byID[id]; ok {
			regions[entity.Region] = struct{}{}
			categories[entity.Category] = struct{}{}
		}
	}

	if len(regions) == 0 && len(categories) == 0 {
		return nil, nil
	}

	candidates := make([]Candidate, 0)
	for _, entity := range snap.entities {
		if _, ok := bookmarked[entity.ID]; ok {
			continue
		}
		_, sharesRegion := regions[entity.Region]
		_, sharesCategory := categories[entity.Category]
		if !sharesRegion && !sharesCategory {
			continue
		}
		candidates = append(candidates, makeCandidate(entity, snap.stats[entity.ID], ReasonSimilarToBookmarks))
	}

	sortByScore(candidates)
	return capList(candidates, req.K), nil
}

// regionBased ranks all pet-friendly entities by popularity score,
// breaking ties by review count. It has no personalization dependency
// and is always computable.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) regionBased(req Request, snap *snapshot) []Candidate {
	candidates := make([]Candidate, 0, len(snap.entities))
	for _, entity := range snap.entities {
		candidates = append(candidates, makeCandidate(entity, snap.stats[entity.ID], ReasonPopularInRegion))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].PopularityScore != candidates[j].PopularityScore {
			return candidates[i].PopularityScore > candidates[j].PopularityScore
		}
		return candidates[i].ReviewCount > candidates[j].ReviewCount
	})

	return capList(candidates, req.K)
}

// seasonal recommends pet-friendly entities whose category or tags match
// the configured affinity table for the current season.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) seasonal(req Request, snap *snapshot, season Season) []Candidate {
	affinity := e.config.categoriesForSeason(season)
	reason := reasonSeasonalPrefix + season.String()

	candidates := make([]Candidate, 0)
	for _, entity := range snap.entities {
		if !matchesAffinity(entity, affinity) {
			continue
		}
		candidates = append(candidates, makeCandidate(entity, snap.stats[entity.ID], reason))
	}

	sortByScore(candidates)
	return capList(candidates, req.K)
}

// matchesAffinity reports whether the entity's category or any tag is in
// the season affinity set.
func matchesAffinity(entity models.Entity, affinity map[string]struct{}) bool {
	if _, ok := affinity[entity.Category]; ok {
		return true
	}
	for _, tag := range entity.Tags {
		if _, ok := affinity[tag]; ok {
			return true
		}
	}
	return false
}

// makeCandidate assembles a candidate from an entity and its derived stats.
func makeCandidate(entity models.Entity, stats entityStats, reason string) Candidate {
	return Candidate{
		EntityID:        entity.ID,
		Title:           entity.Title,
		Image:           entity.Image,
		AverageRating:   stats.averageRating,
		ReviewCount:     stats.reviewCount,
		BookmarkCount:   stats.bookmarkCount,
		PopularityScore: stats.popularityScore,
		ReasonTag:       reason,
	}
}

// sortByScore sorts candidates by popularity score descending. The sort
// is stable so equal scores keep their catalog iteration order.
func sortByScore(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].PopularityScore > candidates[j].PopularityScore
	})
}

// capList truncates a list to at most k candidates.
func capList(candidates []Candidate, k int) []Candidate {
	if len(candidates) > k {
		return candidates[:k]
	}
	return candidates
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
