// Pawtrek - Pet-Friendly Travel Analytics and Recommendations
// Copyright 2026 Pawtrek Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pawtrek/pawtrek

// Package contentapi fetches catalog entities from the upstream content
// service. Requests go through a client-side rate limiter and a circuit
// breaker so a degraded upstream cannot stall catalog sync.
package contentapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/pawtrek/pawtrek/internal/config"
	"github.com/pawtrek/pawtrek/internal/logging"
	"github.com/pawtrek/pawtrek/internal/metrics"
	"github.com/pawtrek/pawtrek/internal/models"
)

const (
	// defaultPageSize is the number of entities requested per sync page.
	defaultPageSize = 100

	// maxResponseBytes caps upstream response bodies.
	maxResponseBytes = 8 << 20
)

// ErrUpstreamUnavailable wraps circuit breaker rejections so callers can
// distinguish a tripped breaker from an upstream error.
var ErrUpstreamUnavailable = errors.New("content API unavailable")

// CatalogStore receives synced entities. *database.DB satisfies it.
type CatalogStore interface {
	UpsertEntity(ctx context.Context, entity *models.Entity) error
}

// Client is a rate-limited, circuit-broken content API client.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]models.Entity]
	limiter    *rate.Limiter
	baseURL    string
	apiKey     string
}

// NewClient builds a client from configuration.
func NewClient(cfg *config.ContentAPIConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("content API URL is required")
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}

	settings := gobreaker.Settings{
		Name:        "content-api",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    gobreaker.NewCircuitBreaker[[]models.Entity](settings),
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		baseURL:    cfg.URL,
		apiKey:     cfg.APIKey,
	}, nil
}

// entityPage is the upstream response envelope.
type entityPage struct {
	Items []models.Entity `json:"items"`
	Total int             `json:"total"`
}

// FetchEntities retrieves one page of catalog entities.
func (c *Client) FetchEntities(ctx context.Context, page, pageSize int) ([]models.Entity, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	entities, err := c.breaker.Execute(func() ([]models.Entity, error) {
		return c.fetchPage(ctx, page, pageSize)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.CircuitBreakerRequests.WithLabelValues("content-api", "rejected").Inc()
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if err != nil {
		metrics.CircuitBreakerRequests.WithLabelValues("content-api", "failure").Inc()
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues("content-api", "success").Inc()
	return entities, nil
}

func (c *Client) fetchPage(ctx context.Context, page, pageSize int) ([]models.Entity, error) {
	endpoint, err := url.Parse(c.baseURL + "/entities")
	if err != nil {
		return nil, fmt.Errorf("invalid content API URL: %w", err)
	}
	query := endpoint.Query()
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(pageSize))
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("content API request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, fmt.Errorf("content API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read content API response: %w", err)
	}

	var envelope entityPage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode content API response: %w", err)
	}
	return envelope.Items, nil
}

// SyncCatalog pages through the upstream catalog and upserts every
// entity into the store. Returns the number of entities synced.
func (c *Client) SyncCatalog(ctx context.Context, store CatalogStore) (int, error) {
	synced := 0
	for page := 1; ; page++ {
		entities, err := c.FetchEntities(ctx, page, defaultPageSize)
		if err != nil {
			return synced, fmt.Errorf("sync stopped at page %d: %w", page, err)
		}
		for i := range entities {
			if err := store.UpsertEntity(ctx, &entities[i]); err != nil {
				return synced, fmt.Errorf("failed to store entity %d: %w", entities[i].ID, err)
			}
			synced++
		}
		if len(entities) < defaultPageSize {
			break
		}
	}

	logging.Info().Int("entities", synced).Msg("catalog sync completed")
	return synced, nil
}

func breakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
