// Pawtrek - Pet-Friendly Travel Analytics and Recommendations
// Copyright 2026 Pawtrek Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pawtrek/pawtrek

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Rate limits per window. Report generation runs aggregation queries,
// so it is limited more tightly than the read endpoints.
const (
	readRateLimit    = 120
	reportRateLimit  = 10
	rateLimitWindow  = time.Minute
	healthRateLimit  = 60
	healthRateWindow = time.Minute
)

// NewRouter wires the endpoint handlers into a chi router with the
// shared middleware stack.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsMiddleware())
	r.Use(requestLogger)

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(rateLimit(healthRateLimit, healthRateWindow))
		r.Get("/", handler.Health)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(prometheusMetrics)

		r.Group(func(r chi.Router) {
			r.Use(rateLimit(readRateLimit, rateLimitWindow))
			r.Get("/entities/{id}/coordinate", handler.EntityCoordinate)
			r.Get("/entities/{id}/popularity", handler.EntityPopularity)
			r.Get("/recommendations", handler.Recommendations)
			r.Get("/reports", handler.ListReports)
			r.Get("/reports/{id}", handler.GetReport)
		})

		r.Group(func(r chi.Router) {
			r.Use(rateLimit(reportRateLimit, rateLimitWindow))
			r.Post("/reports", handler.CreateReport)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
