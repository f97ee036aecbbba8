package apperrors

import (
	"fmt"
	"net/http"
)

// Error codes
const (
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeUpstream        = "UPSTREAM_ERROR"
	ErrCodeUpstreamTimeout = "UPSTREAM_TIMEOUT"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
)

// AppError represents an application error with an HTTP status and error code.
type AppError struct {
	Code    string // Error code (e.g. "NOT_FOUND", "UPSTREAM_TIMEOUT")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a NOT_FOUND error.
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: message,
		Status:  http.StatusNotFound,
	}
}

// NewValidationError creates a VALIDATION_ERROR for a specific field.
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  http.StatusBadRequest,
	}
}

// NewBadRequestError creates a BAD_REQUEST error.
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// NewUnauthorizedError creates an UNAUTHORIZED error.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthorized,
		Message: message,
		Status:  http.StatusUnauthorized,
	}
}

// NewConflictError creates a CONFLICT error.
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: message,
		Status:  http.StatusConflict,
	}
}

// NewUpstreamError creates an UPSTREAM_ERROR, carrying the upstream status
// code when one was received.
func NewUpstreamError(message string, upstreamStatus int, err error) *AppError {
	if upstreamStatus > 0 {
		message = fmt.Sprintf("%s (upstream status %d)", message, upstreamStatus)
	}
	return &AppError{
		Code:    ErrCodeUpstream,
		Message: message,
		Status:  http.StatusBadGateway,
		Err:     err,
	}
}

// NewUpstreamTimeoutError creates an UPSTREAM_TIMEOUT error.
func NewUpstreamTimeoutError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeUpstreamTimeout,
		Message: message,
		Status:  http.StatusGatewayTimeout,
		Err:     err,
	}
}

// NewInternalError creates an INTERNAL_ERROR wrapping the underlying error.
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}
