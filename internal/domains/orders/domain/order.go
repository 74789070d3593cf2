package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
	StatusReturned  Status = "RETURNED"
)

var (
	ErrInvalidUserID     = errors.New("user id must be greater than zero")
	ErrNoItems           = errors.New("order must contain at least one item")
	ErrInvalidProductID  = errors.New("product id must be greater than zero")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrInvalidPrice      = errors.New("price must be greater than zero")
	ErrInvalidAddress    = errors.New("shipping address must be between 5 and 255 characters")
	ErrNotesTooLong      = errors.New("notes cannot exceed 500 characters")
	ErrInvalidStatus     = errors.New("order status is invalid")
	ErrIllegalTransition = errors.New("illegal order status transition")
)

// Order models the purchase order aggregate root.
type Order struct {
	ID              int64
	UserID          int64
	Status          Status
	TotalPrice      decimal.Decimal
	ShippingAddress string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	IsDeleted       bool
	Version         int64
}

// OrderItem is a line item. Immutable once the order is created.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int
	Price     decimal.Decimal
	CreatedAt time.Time
	IsDeleted bool
}

// NewOrder validates the inputs and constructs a pending order with its
// items. TotalPrice is a snapshot taken here and never recomputed by later
// mutations.
func NewOrder(userID int64, items []OrderItem, shippingAddress, notes string) (*Order, []OrderItem, error) {
	if userID <= 0 {
		return nil, nil, ErrInvalidUserID
	}
	if len(items) == 0 {
		return nil, nil, ErrNoItems
	}
	if l := len(shippingAddress); l < 5 || l > 255 {
		return nil, nil, ErrInvalidAddress
	}
	if len(notes) > 500 {
		return nil, nil, ErrNotesTooLong
	}
	for i := range items {
		if err := items[i].validate(); err != nil {
			return nil, nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	order := &Order{
		UserID:          userID,
		Status:          StatusPending,
		TotalPrice:      TotalPrice(items),
		ShippingAddress: shippingAddress,
		Notes:           notes,
	}
	return order, items, nil
}

// TotalPrice sums unit price times quantity across items.
func TotalPrice(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].Price.Mul(decimal.NewFromInt(int64(items[i].Quantity))))
	}
	return total
}

func (it *OrderItem) validate() error {
	if it.ProductID <= 0 {
		return ErrInvalidProductID
	}
	if it.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if !it.Price.IsPositive() {
		return ErrInvalidPrice
	}
	return nil
}

// legalTransitions is the fixed transition table. Terminal states map to nil.
var legalTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
	StatusDelivered: {StatusReturned},
	StatusCancelled: nil,
	StatusReturned:  nil,
}

// ParseStatus converts a wire value into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if _, ok := legalTransitions[s]; !ok {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// Transition moves the order to the target status, enforcing the transition
// table. Re-asserting the current status is a no-op.
func (o *Order) Transition(target Status) error {
	if _, ok := legalTransitions[target]; !ok {
		return ErrInvalidStatus
	}
	if target == o.Status {
		return nil
	}
	for _, next := range legalTransitions[o.Status] {
		if next == target {
			o.Status = target
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.Status, target)
}

// OrderUpdate carries the partial-overwrite fields of an update command.
// Nil fields leave the existing values untouched.
type OrderUpdate struct {
	ShippingAddress *string
	Notes           *string
	Status          *Status
}

// Apply mutates the order in place with the supplied fields only.
func (o *Order) Apply(update OrderUpdate) error {
	if update.ShippingAddress != nil {
		if l := len(*update.ShippingAddress); l < 5 || l > 255 {
			return ErrInvalidAddress
		}
		o.ShippingAddress = *update.ShippingAddress
	}
	if update.Notes != nil {
		if len(*update.Notes) > 500 {
			return ErrNotesTooLong
		}
		o.Notes = *update.Notes
	}
	if update.Status != nil {
		if err := o.Transition(*update.Status); err != nil {
			return err
		}
	}
	return nil
}
