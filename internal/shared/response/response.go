// Package response provides the success envelopes shared across the order
// APIs.
package response

import "time"

// Envelope wraps every successful payload.
type Envelope[T any] struct {
	Success   bool   `json:"success"`
	Data      T      `json:"data"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Success builds the standard success envelope.
func Success[T any](data T, message string) Envelope[T] {
	return Envelope[T]{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// Page is the paginated list payload. Page numbers are 1-based.
type Page[T any] struct {
	Items           []T   `json:"items"`
	Page            int   `json:"page"`
	PageSize        int   `json:"pageSize"`
	TotalItems      int64 `json:"totalItems"`
	TotalPages      int   `json:"totalPages"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

// NewPage computes the derived pagination fields from the raw counts.
func NewPage[T any](items []T, page, pageSize int, totalItems int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := int((totalItems + int64(pageSize) - 1) / int64(pageSize))
	return Page[T]{
		Items:           items,
		Page:            page,
		PageSize:        pageSize,
		TotalItems:      totalItems,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}
