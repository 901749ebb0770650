// Pawtrek - Pet-Friendly Travel Analytics and Recommendations
// Copyright 2026 Pawtrek Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pawtrek/pawtrek

// Package api exposes the HTTP surface: entity coordinate and popularity
// lookups, recommendations, report generation and retrieval, and health.
// All endpoints return the standardized models.APIResponse envelope.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/go-playground/validator/v10"

	"github.com/pawtrek/pawtrek/internal/database"
	"github.com/pawtrek/pawtrek/internal/geo"
	"github.com/pawtrek/pawtrek/internal/logging"
	"github.com/pawtrek/pawtrek/internal/metrics"
	"github.com/pawtrek/pawtrek/internal/models"
	"github.com/pawtrek/pawtrek/internal/popularity"
	"github.com/pawtrek/pawtrek/internal/recommend"
	"github.com/pawtrek/pawtrek/internal/reports"
)

// Store is the data access surface the handlers need. *database.DB
// satisfies it.
type Store interface {
	GetEntity(ctx context.Context, entityID int) (*models.Entity, error)
	GetEngagementCountersFor(ctx context.Context, entityID int) (models.EngagementCounters, error)
	GetReport(ctx context.Context, reportID string) (*reports.Document, error)
	ListReports(ctx context.Context, limit int) ([]database.ReportSummary, error)
	Ping(ctx context.Context) error
}

// Recommender produces the three ranked candidate lists.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
}

// ReportGenerator gathers and persists reports.
type ReportGenerator interface {
	Generate(ctx context.Context, req reports.Request) (*reports.Document, error)
}

// Handler holds the dependencies shared by all endpoints.
type Handler struct {
	store      Store
	engine     Recommender
	aggregator ReportGenerator
	validate   *validator.Validate
	startTime  time.Time
	version    string
}

// NewHandler creates the endpoint handler set.
func NewHandler(store Store, engine Recommender, aggregator ReportGenerator, version string) *Handler {
	return &Handler{
		store:      store,
		engine:     engine,
		aggregator: aggregator,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		startTime:  time.Now(),
		version:    version,
	}
}

// coordinateResponse is the payload for the coordinate endpoint.
type coordinateResponse struct {
	EntityID int     `json:"entity_id"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

// EntityCoordinate handles GET /api/v1/entities/{id}/coordinate.
func (h *Handler) EntityCoordinate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	entityID, ok := h.entityIDParam(w, r)
	if !ok {
		return
	}

	entity, err := h.store.GetEntity(r.Context(), entityID)
	if errors.Is(err, database.ErrEntityNotFound) {
		respondError(w, http.StatusNotFound, codeNotFound, "entity not found", nil)
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Int("entity_id", entityID).Msg("entity lookup failed")
		respondError(w, http.StatusInternalServerError, codeDatabase, "failed to load entity", nil)
		return
	}

	coord := geo.Project(entity.MapX, entity.MapY)
	respondJSON(w, http.StatusOK, coordinateResponse{
		EntityID: entity.ID,
		Lat:      coord.Lat,
		Lng:      coord.Lng,
	}, start)
}

// popularityResponse is the payload for the popularity endpoint.
type popularityResponse struct {
	EntityID      int `json:"entity_id"`
	Score         int `json:"score"`
	ViewCount     int `json:"view_count"`
	BookmarkCount int `json:"bookmark_count"`
	ShareCount    int `json:"share_count"`
}

// EntityPopularity handles GET /api/v1/entities/{id}/popularity.
func (h *Handler) EntityPopularity(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	entityID, ok := h.entityIDParam(w, r)
	if !ok {
		return
	}

	if _, err := h.store.GetEntity(r.Context(), entityID); err != nil {
		if errors.Is(err, database.ErrEntityNotFound) {
			respondError(w, http.StatusNotFound, codeNotFound, "entity not found", nil)
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Int("entity_id", entityID).Msg("entity lookup failed")
		respondError(w, http.StatusInternalServerError, codeDatabase, "failed to load entity", nil)
		return
	}

	counters, err := h.store.GetEngagementCountersFor(r.Context(), entityID)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Int("entity_id", entityID).Msg("counter lookup failed")
		respondError(w, http.StatusInternalServerError, codeDatabase, "failed to load engagement counters", nil)
		return
	}

	respondJSON(w, http.StatusOK, popularityResponse{
		EntityID:      entityID,
		Score:         popularity.Score(counters.ViewCount, counters.BookmarkCount, counters.ShareCount),
		ViewCount:     counters.ViewCount,
		BookmarkCount: counters.BookmarkCount,
		ShareCount:    counters.ShareCount,
	}, start)
}

// Recommendations handles GET /api/v1/recommendations.
// Query parameters: user_id (optional), k (optional list cap).
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var userID int
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, codeInvalidParam, "user_id must be a non-negative integer", nil)
			return
		}
		userID = parsed
	}

	var k int
	if raw := r.URL.Query().Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, codeInvalidParam, "k must be a positive integer", nil)
			return
		}
		k = parsed
	}

	resp, err := h.engine.Recommend(r.Context(), recommend.Request{
		UserID:    userID,
		K:         k,
		RequestID: logging.RequestIDFromContext(r.Context()),
	})
	if err != nil {
		metrics.RecommendationsTotal.WithLabelValues("error").Inc()
		logging.Ctx(r.Context()).Error().Err(err).Int("user_id", userID).Msg("recommendation failed")
		respondError(w, http.StatusInternalServerError, codeService, "failed to compute recommendations", nil)
		return
	}

	metrics.RecommendationsTotal.WithLabelValues("success").Inc()
	metrics.RecommendationDuration.Observe(time.Since(start).Seconds())
	respondJSON(w, http.StatusOK, resp, start)
}

// createReportRequest is the POST /api/v1/reports body.
type createReportRequest struct {
	Type       string   `json:"type" validate:"required,oneof=daily weekly monthly custom"`
	Start      string   `json:"start,omitempty" validate:"omitempty,datetime=2006-01-02"`
	End        string   `json:"end,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Categories []string `json:"categories,omitempty" validate:"omitempty,dive,required"`
}

// CreateReport handles POST /api/v1/reports.
func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var body createReportRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "invalid JSON body", err.Error())
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "invalid report request", err.Error())
		return
	}

	reportType, err := reports.ParseReportType(body.Type)
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, err.Error(), nil)
		return
	}

	req := reports.Request{
		Type:      reportType,
		RequestID: logging.RequestIDFromContext(r.Context()),
	}
	if body.Start != "" || body.End != "" {
		if body.Start == "" || body.End == "" {
			respondError(w, http.StatusBadRequest, codeValidation, "custom periods require both start and end", nil)
			return
		}
		periodStart, err := time.Parse("2006-01-02", body.Start)
		if err != nil {
			respondError(w, http.StatusBadRequest, codeValidation, "start must be a YYYY-MM-DD date", nil)
			return
		}
		periodEnd, err := time.Parse("2006-01-02", body.End)
		if err != nil {
			respondError(w, http.StatusBadRequest, codeValidation, "end must be a YYYY-MM-DD date", nil)
			return
		}
		req.Period = &reports.Period{Start: periodStart, End: periodEnd}
	}
	for _, c := range body.Categories {
		req.Categories = append(req.Categories, reports.Category(c))
	}

	doc, err := h.aggregator.Generate(r.Context(), req)
	if err != nil {
		metrics.ReportGenerationsTotal.WithLabelValues(body.Type, "error").Inc()
		logging.Ctx(r.Context()).Error().Err(err).Str("type", body.Type).Msg("report generation failed")

		status := http.StatusInternalServerError
		code := codeService
		if errors.Is(err, reports.ErrInvalidRequest) {
			status = http.StatusBadRequest
			code = codeValidation
		}
		respondError(w, status, code, err.Error(), nil)
		return
	}

	metrics.ReportGenerationsTotal.WithLabelValues(body.Type, "success").Inc()
	metrics.ReportGenerationDuration.Observe(time.Since(start).Seconds())
	respondJSON(w, http.StatusCreated, doc, start)
}

// ListReports handles GET /api/v1/reports.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			respondError(w, http.StatusBadRequest, codeInvalidParam, "limit must be 1-500", nil)
			return
		}
		limit = parsed
	}

	summaries, err := h.store.ListReports(r.Context(), limit)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("report listing failed")
		respondError(w, http.StatusInternalServerError, codeDatabase, "failed to list reports", nil)
		return
	}
	respondJSON(w, http.StatusOK, summaries, start)
}

// GetReport handles GET /api/v1/reports/{id}.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	reportID := chi.URLParam(r, "id")
	if reportID == "" {
		respondError(w, http.StatusBadRequest, codeInvalidParam, "report id is required", nil)
		return
	}

	doc, err := h.store.GetReport(r.Context(), reportID)
	if errors.Is(err, database.ErrReportNotFound) {
		respondError(w, http.StatusNotFound, codeNotFound, "report not found", nil)
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("report_id", reportID).Msg("report lookup failed")
		respondError(w, http.StatusInternalServerError, codeDatabase, "failed to load report", nil)
		return
	}
	respondJSON(w, http.StatusOK, doc, start)
}

// healthResponse is the payload for the health endpoint.
type healthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	UptimeMS int64  `json:"uptime_ms"`
	Database string `json:"database"`
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	overall := "ok"
	dbStatus := "ok"
	status := http.StatusOK
	if err := h.store.Ping(r.Context()); err != nil {
		overall = "degraded"
		dbStatus = "unavailable"
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, status, healthResponse{
		Status:   overall,
		Version:  h.version,
		UptimeMS: time.Since(h.startTime).Milliseconds(),
		Database: dbStatus,
	}, start)
}

// entityIDParam parses the {id} route parameter.
func (h *Handler) entityIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	entityID, err := strconv.Atoi(raw)
	if err != nil || entityID < 1 {
		respondError(w, http.StatusBadRequest, codeInvalidParam, "entity id must be a positive integer", nil)
		return 0, false
	}
	return entityID, true
}
