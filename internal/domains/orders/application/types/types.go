// Package types defines the operation inputs and projections of the orders
// application layer.
package types

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openmarket/orders/internal/domains/orders/domain"
)

// CreateOrderItemInput is one requested line item. The price is
// client-supplied and not cross-checked against the catalog.
type CreateOrderItemInput struct {
	ProductID int64
	Quantity  int
	Price     decimal.Decimal
}

// CreateOrderInput is the create command.
type CreateOrderInput struct {
	UserID          int64
	Items           []CreateOrderItemInput
	ShippingAddress string
	Notes           string
}

// UpdateOrderInput carries the partial-overwrite update command. Nil fields
// leave the stored values untouched.
type UpdateOrderInput struct {
	ID              int64
	ShippingAddress *string
	Notes           *string
	Status          *domain.Status
}

// ListInput selects one 1-based page.
type ListInput struct {
	Page     int
	PageSize int
}

// OrderItemView projects a persisted line item.
type OrderItemView struct {
	ID        int64
	ProductID int64
	Quantity  int
	Price     decimal.Decimal
}

// OrderView is the assembled aggregate returned by every operation.
type OrderView struct {
	ID              int64
	UserID          int64
	Status          domain.Status
	TotalPrice      decimal.Decimal
	Items           []OrderItemView
	ShippingAddress string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
