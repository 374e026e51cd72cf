package handler

// Response helpers shared by every handler. All success bodies are JSON
// and all error bodies have the same two-field shape:
//
//	{"error": "conflict", "message": "user already exists: alice"}
//
// so the client can always read .message regardless of status code.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/OfirNeeman/ai-stylist/internal/apperror"
)

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable error type (e.g. "conflict")
	Message string `json:"message"` // human-readable description
}

// writeJSON sends a JSON response with the given status code. Headers
// must be set before the first body write, hence the fixed order here.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already gone, all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP status and sends it.
//
// The service layer speaks apperror sentinels and knows nothing about
// HTTP; this function is the single place that translation happens:
//
//	ErrValidation   → 400
//	ErrConflict     → 400  (same status as the original API; the error type field disambiguates)
//	ErrUnauthorized → 401
//	ErrNotFound     → 404
//	ErrQuota        → 429  (hosted model out of quota; client shows a friendly message)
//	ErrAnalysis     → 502  (hosted model misbehaved; our server is fine)
//
// errors.Is walks the whole wrap chain, so services are free to annotate
// with fmt.Errorf("...: %w", err) at every boundary.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusBadRequest
			errorType = "conflict"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrQuota):
			status = http.StatusTooManyRequests
			errorType = "quota_exceeded"
		case errors.Is(err, apperror.ErrAnalysis):
			status = http.StatusBadGateway
			errorType = "analysis_failed"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	// Unknown error. Never leak internals (SQL, paths) to the client.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
