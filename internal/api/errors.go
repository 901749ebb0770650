// Pawtrek - Pet-Friendly Travel Analytics and Recommendations
// Copyright 2026 Pawtrek Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pawtrek/pawtrek

package api

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/pawtrek/pawtrek/internal/logging"
	"github.com/pawtrek/pawtrek/internal/models"
)

// Error codes returned in the standardized error envelope.
const (
	codeValidation   = "VALIDATION_ERROR"
	codeNotFound     = "NOT_FOUND"
	codeDatabase     = "DATABASE_ERROR"
	codeService      = "SERVICE_ERROR"
	codeInvalidParam = "INVALID_PARAMETER"
)

// respondJSON writes a success envelope.
func respondJSON(w http.ResponseWriter, status int, data interface{}, started time.Time) {
	resp := models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(started).Milliseconds(),
		},
	}
	writeEnvelope(w, status, resp)
}

// respondError writes an error envelope.
func respondError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	resp := models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
	writeEnvelope(w, status, resp)
}

func writeEnvelope(w http.ResponseWriter, status int, resp models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("failed to encode response")
	}
}
