package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrQuota        = errors.New("quota exceeded")
	ErrAnalysis     = errors.New("analysis failed")
)

type AppError struct {
	Err     error  // sentinel this error wraps
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(resource, id string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s already exists: %s", resource, id),
	}
}

// Unauthorized returns an AppError for bad credentials or a bad token.
// Expired and tampered tokens both end up here on purpose: the client
// sees one fixed "Invalid token" outcome either way.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// QuotaExceeded marks a hosted-model rate-limit rejection. Handlers map
// it to 429 and clients show the friendly "too popular right now" copy.
func QuotaExceeded(message string) *AppError {
	return &AppError{
		Err:     ErrQuota,
		Message: message,
	}
}

// AnalysisFailed marks an unusable hosted-model response, either
// unreachable upstream or output that does not conform to the schema.
func AnalysisFailed(message string) *AppError {
	return &AppError{
		Err:     ErrAnalysis,
		Message: message,
	}
}
