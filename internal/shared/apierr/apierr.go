// Package apierr provides the structured error envelope shared across the
// order APIs.
package apierr

import (
	"fmt"
	"net/http"
	"time"
)

// Error codes of the shared taxonomy.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "RESOURCE_NOT_FOUND"
	CodeConflict   = "CONFLICT_ERROR"
	CodeInternal   = "INTERNAL_ERROR"
)

// Error is a typed application failure carrying the wire representation.
type Error struct {
	// Code is one of the taxonomy constants above.
	Code string `json:"errorCode"`
	// Message is a human-readable summary safe to show to callers.
	Message string `json:"message"`
	// Status is the HTTP status code for this occurrence.
	Status int `json:"status"`
	// Details holds error-specific properties (resource, id, field errors).
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithDetail returns a copy with an additional detail property.
func (e Error) WithDetail(key string, value any) Error {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	e.Details = details
	return e
}

// Response is the error body written to callers. Internal details (SQL,
// stack traces) must never reach it.
type Response struct {
	Timestamp string         `json:"timestamp"`
	ErrorCode string         `json:"errorCode"`
	Message   string         `json:"message"`
	Path      string         `json:"path,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	Status    int            `json:"status,omitempty"`
}

// ToResponse renders the error for the given request path.
func (e Error) ToResponse(path string) Response {
	return Response{
		Timestamp: time.Now().Format(time.RFC3339),
		ErrorCode: e.Code,
		Message:   e.Message,
		Path:      path,
		Details:   e.Details,
		Status:    e.Status,
	}
}

// NotFound builds a RESOURCE_NOT_FOUND error for a specific resource.
func NotFound(resource string, id any) Error {
	return Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
	}.WithDetail("resource", resource).WithDetail("id", id)
}

// Validation builds a VALIDATION_ERROR with field-level details.
func Validation(message string, fields map[string]string) Error {
	err := Error{
		Code:    CodeValidation,
		Message: message,
		Status:  http.StatusBadRequest,
	}
	if len(fields) > 0 {
		err.Details = map[string]any{"fields": fields}
	}
	return err
}

// Conflict builds a CONFLICT_ERROR.
func Conflict(message string) Error {
	return Error{
		Code:    CodeConflict,
		Message: message,
		Status:  http.StatusConflict,
	}
}

// Internal builds an INTERNAL_ERROR with a caller-safe message.
func Internal(message string) Error {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return Error{
		Code:    CodeInternal,
		Message: message,
		Status:  http.StatusInternalServerError,
	}
}
