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
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/pawtrek/pawtrek/internal/logging"
	"github.com/pawtrek/pawtrek/internal/metrics"
)

// requestHeaderID is the response header carrying the request ID.
const requestHeaderID = "X-Request-ID"

// requestID attaches a request ID and a request-scoped logger to the
// context. Incoming X-Request-ID headers are honored so IDs propagate
// across services.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestHeaderID)
		if id == "" {
			id = logging.GenerateRequestID()
		}

		ctx := logging.ContextWithRequestID(r.Context(), id)
		ctx = logging.ContextWithLogger(ctx, logging.With().Str("request_id", id).Logger())
		w.Header().Set(requestHeaderID, id)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// prometheusMetrics records request counts and latency per route.
func prometheusMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		// Use the route pattern rather than the raw path to keep
		// metric cardinality bounded.
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		metrics.ObserveAPIRequest(r.Method, path, ww.Status(), time.Since(start))
	})
}

// requestLogger emits one structured log line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logging.Ctx(r.Context()).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request completed")
	})
}

// corsMiddleware allows browser clients on other origins to call the
// read-only API.
func corsMiddleware() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", requestHeaderID},
		ExposedHeaders:   []string{requestHeaderID},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

// rateLimit applies per-IP rate limiting.
func rateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
	)
}
