// Pawtrek - Pet-Friendly Travel Analytics and Recommendations
// Copyright 2026 Pawtrek Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pawtrek/pawtrek

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestGenerateRequestID(t *testing.T) {
	first := GenerateRequestID()
	second := GenerateRequestID()
	if first == "" || second == "" {
		t.Fatal("expected non-empty request IDs")
	}
	if first == second {
		t.Error("expected unique request IDs")
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-42")
	if got := RequestIDFromContext(ctx); got != "req-42" {
		t.Errorf("expected req-42, got %q", got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty ID from bare context, got %q", got)
	}
}

func TestLoggerFromContextFallsBack(t *testing.T) {
	// A bare context must still yield a usable logger.
	logger := LoggerFromContext(context.Background())
	logger.Info().Msg("fallback logger works")
}

func TestCtxCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := ContextWithLogger(context.Background(), logger)
	ctx = ContextWithRequestID(ctx, "trace-abc")

	// Chained level call on the returned logger must work directly.
	Ctx(ctx).Info().Str("step", "ranking").Msg("request in flight")

	out := buf.String()
	if !strings.Contains(out, `"request_id":"trace-abc"`) {
		t.Errorf("expected request_id field in output, got %s", out)
	}
	if !strings.Contains(out, `"step":"ranking"`) {
		t.Errorf("expected chained field in output, got %s", out)
	}
}

func TestCtxWithoutRequestID(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), zerolog.New(&buf))

	Ctx(ctx).Warn().Msg("no correlation")

	out := buf.String()
	if strings.Contains(out, "request_id") {
		t.Errorf("expected no request_id field, got %s", out)
	}
	if !strings.Contains(out, "no correlation") {
		t.Errorf("expected message in output, got %s", out)
	}
}
