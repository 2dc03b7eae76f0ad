// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error handling framework for newsbridge.

It provides a rich error type that bridges the gap between low-level
storage/upstream errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing machine-readable ErrorCode and user-friendly messages.
  - Query errors: InvalidField, ConflictingFields, MissingRequiredField and
    InvalidDateRange are raised by the query builders on the first violated rule.
  - Upstream errors: UpstreamFailure and Timeout are raised by the remote fetcher
    and are always distinct from an empty (but valid) upstream result.
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// # Error Codes

// Machine-readable codes carried by [AppError.Code].
const (
	CodeNotFound             = "NOT_FOUND"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeForbidden            = "FORBIDDEN"
	CodeConflict             = "CONFLICT"
	CodeValidation           = "VALIDATION_ERROR"
	CodeRateLimited          = "RATE_LIMITED"
	CodeInvalidField         = "INVALID_FIELD"
	CodeConflictingFields    = "CONFLICTING_FIELDS"
	CodeMissingRequiredField = "MISSING_REQUIRED_FIELD"
	CodeInvalidDateRange     = "INVALID_DATE_RANGE"
	CodeUpstreamFailure      = "UPSTREAM_FAILURE"
	CodeTimeout              = "TIMEOUT"
	CodeInternal             = "INTERNAL_ERROR"
	CodeServiceUnavailable   = "SERVICE_UNAVAILABLE"
)

// AppError is the canonical error type for the newsbridge API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries, API keys).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "INVALID_FIELD").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field errors (the offending field of a rejected query).
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the query field name that failed validation.
	Field string `json:"field"`
	// Value is the offending input, when it is safe to echo back.
	Value string `json:"value,omitempty"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// Field returns the first offending field name, or "" when none was recorded.
func (e *AppError) Field() string {
	if len(e.Details) == 0 {
		return ""
	}
	return e.Details[0].Field
}

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Source") // Returns "Source not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// Conflict creates a 409 [AppError].
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       CodeRateLimited,
		Message:    fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// # Query Errors (4xx)

// InvalidField creates a 400 [AppError] for a value that failed resolution or
// membership validation (unknown country, category, language, source or sort method).
func InvalidField(field, value, reason string) *AppError {
	return &AppError{
		Code:       CodeInvalidField,
		Message:    fmt.Sprintf("Invalid %s %q: %s", field, value, reason),
		HTTPStatus: http.StatusBadRequest,
		Details:    []FieldError{{Field: field, Value: value, Message: reason}},
	}
}

// ConflictingFields creates a 400 [AppError] for mutually exclusive fields
// supplied together.
func ConflictingFields(fields ...string) *AppError {
	details := make([]FieldError, 0, len(fields))
	for _, field := range fields {
		details = append(details, FieldError{Field: field, Message: "Cannot be combined with " + others(fields, field)})
	}

	return &AppError{
		Code:       CodeConflictingFields,
		Message:    "Fields cannot be used together: " + strings.Join(fields, ", "),
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// MissingRequiredField creates a 400 [AppError] when none of the fields of a
// required group was supplied.
func MissingRequiredField(fields ...string) *AppError {
	details := make([]FieldError, 0, len(fields))
	for _, field := range fields {
		details = append(details, FieldError{Field: field, Message: "At least one of these fields is required"})
	}

	return &AppError{
		Code:       CodeMissingRequiredField,
		Message:    "At least one of the following fields is required: " + strings.Join(fields, ", "),
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// InvalidDateRange creates a 400 [AppError] for a violated chronological constraint.
func InvalidDateRange(field, msg string) *AppError {
	return &AppError{
		Code:       CodeInvalidDateRange,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    []FieldError{{Field: field, Message: msg}},
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// UpstreamFailure creates a 502 [AppError] for a non-success status returned
// by a third-party API. Callers should suggest retrying later.
// A zero status means the request never produced a response.
func UpstreamFailure(service string, status int, cause error) *AppError {
	message := fmt.Sprintf("The %s service is unavailable right now. Please try again later.", service)
	if status != 0 {
		message = fmt.Sprintf("The %s service is unavailable right now (status %d). Please try again later.", service, status)
	}

	return &AppError{
		Code:       CodeUpstreamFailure,
		Message:    message,
		HTTPStatus: http.StatusBadGateway,
		Cause:      cause,
	}
}

// Timeout creates a 504 [AppError] for an outbound call that exceeded its deadline.
func Timeout(service string, cause error) *AppError {
	return &AppError{
		Code:       CodeTimeout,
		Message:    fmt.Sprintf("The %s service did not respond in time. Please try again later.", service),
		HTTPStatus: http.StatusGatewayTimeout,
		Cause:      cause,
	}
}

// ServiceUnavailable creates a 503 [AppError].
func ServiceUnavailable(msg string) *AppError {
	return &AppError{
		Code:       CodeServiceUnavailable,
		Message:    msg,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// # Helpers

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// HasCode reports whether err carries an [*AppError] with the given code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}

// others joins every field but skip.
func others(fields []string, skip string) string {
	rest := make([]string, 0, len(fields))
	for _, field := range fields {
		if field != skip {
			rest = append(rest, field)
		}
	}
	return strings.Join(rest, ", ")
}
