package ports

import (
	"context"
	"errors"

	"github.com/openmarket/orders/internal/domains/orders/domain"
)

var (
	// ErrNotFound signals the order does not exist or is soft-deleted.
	ErrNotFound = errors.New("order not found")
	// ErrVersionConflict signals a concurrent update won the race.
	ErrVersionConflict = errors.New("order version conflict")
)

// ListFilter narrows list queries. Nil fields are unfiltered.
type ListFilter struct {
	UserID *int64
	Status *domain.Status
}

// PageRequest is a 1-based page of a fixed size.
type PageRequest struct {
	Page     int
	PageSize int
}

// Offset is the 0-based row offset for the request.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Repository persists the order aggregate. All reads except GetAny apply the
// soft-delete visibility predicate; lists order by creation time descending
// with id descending as tiebreak.
type Repository interface {
	// Create persists the order and its items in one transaction, assigning
	// identifiers and timestamps.
	Create(ctx context.Context, order *domain.Order, items []domain.OrderItem) (*domain.Order, []domain.OrderItem, error)
	// GetByID returns an active order or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// GetAny returns the order regardless of its soft-delete flag. Used by
	// the delete path and by direct store inspection.
	GetAny(ctx context.Context, id int64) (*domain.Order, error)
	// ListPage returns one page of active orders plus the total matching
	// count.
	ListPage(ctx context.Context, filter ListFilter, page PageRequest) ([]domain.Order, int64, error)
	// ItemsByOrderIDs returns the active items of all given orders in one
	// batched query, ordered ascending by item id.
	ItemsByOrderIDs(ctx context.Context, orderIDs []int64) ([]domain.OrderItem, error)
	// Update persists the mutable order fields guarded by the version token.
	// A stale version yields ErrVersionConflict.
	Update(ctx context.Context, order *domain.Order) (*domain.Order, error)
	// SoftDelete marks the order deleted. Repeated calls succeed.
	SoftDelete(ctx context.Context, id int64) error
}
