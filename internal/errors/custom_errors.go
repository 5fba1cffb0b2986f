package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents a structured application error with user-friendly and technical details.
type AppError struct {
	TechnicalMessage string
	UserMessage      string
	Code             string
	HTTPStatus       int
	OriginalError    error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %v", e.UserMessage, e.OriginalError)
}

// Unwrap returns the original error for error chaining.
func (e *AppError) Unwrap() error {
	return e.OriginalError
}

// NewAppError creates a new AppError instance.
func NewAppError(technicalMessage, userMessage, code string, status int, originalErr error) *AppError {
	return &AppError{
		TechnicalMessage: technicalMessage,
		UserMessage:      userMessage,
		Code:             code,
		HTTPStatus:       status,
		OriginalError:    originalErr,
	}
}

// Error codes for the fault categories the coordinator distinguishes.
const (
	ErrCodeValidation       = "VALIDATION_FAILED"
	ErrCodePropertyNotFound = "PROPERTY_NOT_FOUND"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeStoreFailure     = "STORE_FAILURE"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// NewValidationError marks malformed input, returned before any store access.
func NewValidationError(message string) *AppError {
	return &AppError{
		TechnicalMessage: message,
		UserMessage:      message,
		Code:             ErrCodeValidation,
		HTTPStatus:       http.StatusBadRequest,
	}
}

// NewNotFoundError marks an absent resource; absence is an expected outcome.
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		TechnicalMessage: fmt.Sprintf("%s not found", resource),
		UserMessage:      MsgPropertyNotFound,
		Code:             ErrCodePropertyNotFound,
		HTTPStatus:       http.StatusNotFound,
	}
}

// NewUnauthorizedError marks a requester that does not own the resource.
func NewUnauthorizedError() *AppError {
	return &AppError{
		TechnicalMessage: "requester is not the resource owner",
		UserMessage:      MsgUnauthorized,
		Code:             ErrCodeUnauthorized,
		HTTPStatus:       http.StatusForbidden,
	}
}

// NewStoreError wraps a failed store operation with its diagnostic message.
// Store faults are never auto-retried by this layer.
func NewStoreError(operation string, err error) *AppError {
	return &AppError{
		TechnicalMessage: fmt.Sprintf("store operation %s failed: %v", operation, err),
		UserMessage:      MsgServiceUnavailable,
		Code:             ErrCodeStoreFailure,
		HTTPStatus:       http.StatusServiceUnavailable,
		OriginalError:    err,
	}
}

func IsValidation(err error) bool   { return hasCode(err, ErrCodeValidation) }
func IsNotFound(err error) bool     { return hasCode(err, ErrCodePropertyNotFound) }
func IsUnauthorized(err error) bool { return hasCode(err, ErrCodeUnauthorized) }
func IsStoreFailure(err error) bool { return hasCode(err, ErrCodeStoreFailure) }

func hasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
