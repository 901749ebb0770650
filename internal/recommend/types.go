// Pawtrek - Pet-Friendly Travel Analytics and Recommendations
// Copyright 2026 Pawtrek Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pawtrek/pawtrek

package recommend

import (
	"context"
	"time"

	"github.com/pawtrek/pawtrek/internal/models"
)

// Season is one of the four fixed calendar seasons used by the seasonal
// recommendation strategy.
type Season int

const (
	// SeasonSpring covers March through May.
	SeasonSpring Season = iota
	// SeasonSummer covers June through August.
	SeasonSummer
	// SeasonAutumn covers September through November.
	SeasonAutumn
	// SeasonWinter covers December through February.
	SeasonWinter
)

// String returns the lowercase season name.
func (s Season) String() string {
	switch s {
	case SeasonSpring:
		return "spring"
	case SeasonSummer:
		return "summer"
	case SeasonAutumn:
		return "autumn"
	case SeasonWinter:
		return "winter"
	default:
		return "unknown"
	}
}

// SeasonForMonth maps a calendar month to its season.
func SeasonForMonth(m time.Month) Season {
	switch m {
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	case time.September, time.October, time.November:
		return SeasonAutumn
	default:
		return SeasonWinter
	}
}

// Reason tags attached to candidates, one per strategy.
const (
	ReasonSimilarToBookmarks = "similar to your bookmarks"
	ReasonPopularInRegion    = "popular in this region"
	reasonSeasonalPrefix     = "good for " // completed with the season name
)

// Candidate is one recommended entity. Candidates are ephemeral:
// recomputed per request, never persisted.
type Candidate struct {
	// EntityID is the catalog identifier.
	EntityID int `json:"entity_id"`

	// Title is the entity display name.
	Title string `json:"title"`

	// Image is the representative image URL, if any.
	Image string `json:"image,omitempty"`

	// AverageRating is the mean pet-specific rating across reviews
	// flagged as pet-friendly experiences, rounded to one decimal.
	// Zero when the entity has no such reviews.
	AverageRating float64 `json:"average_rating"`

	// ReviewCount is the total number of reviews for the entity.
	ReviewCount int `json:"review_count"`

	// BookmarkCount is the entity's bookmark counter.
	BookmarkCount int `json:"bookmark_count"`

	// PopularityScore is the bounded 0-100 engagement score.
	PopularityScore int `json:"popularity_score"`

	// ReasonTag explains which strategy produced the candidate.
	ReasonTag string `json:"reason_tag"`
}

// Request is a recommendation request.
type Request struct {
	// UserID identifies the signed-in user. Zero means anonymous; the
	// user-based list is then empty while the other lists are unaffected.
	UserID int `json:"user_id,omitempty"`

	// K caps each list. Defaults to Config.ListSize if zero.
	K int `json:"k,omitempty"`

	// Now anchors the seasonal strategy. Zero means time.Now().
	Now time.Time `json:"-"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// Response holds the three independently ranked candidate lists.
type Response struct {
	UserBased   []Candidate `json:"user_based"`
	RegionBased []Candidate `json:"region_based"`
	Seasonal    []Candidate `json:"seasonal"`

	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	RequestID string    `json:"request_id"`
	UserID    int       `json:"user_id,omitempty"`
	Season    string    `json:"season"`
	LatencyMS int64     `json:"latency_ms"`
	Timestamp time.Time `json:"timestamp"`
}

// DataProvider defines the interface for fetching the already-materialized
// collections the strategies rank. It is typically implemented by the
// database layer and handed to the engine by the caller; the engine never
// reaches for ambient state.
type DataProvider interface {
	// GetPetFriendlyEntities returns all catalog entities flagged as
	// pet-friendly.
	GetPetFriendlyEntities(ctx context.Context) ([]models.Entity, error)

	// GetEngagementCounters returns the engagement counters for all
	// entities. Entities without counters score zero.
	GetEngagementCounters(ctx context.Context) ([]models.EngagementCounters, error)

	// GetReviews returns all reviews, including those not flagged as
	// pet-friendly experiences.
	GetReviews(ctx context.Context) ([]models.Review, error)

	// GetUserBookmarks returns the entity IDs the user has bookmarked.
	GetUserBookmarks(ctx context.Context, userID int) ([]int, error)
}
