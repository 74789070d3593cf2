package application

import (
	"errors"

	"github.com/openmarket/orders/internal/domains/orders/domain"
	"github.com/openmarket/orders/internal/domains/orders/ports"
	"github.com/openmarket/orders/internal/shared/apierr"
)

// fieldOf names the request field a domain validation error refers to.
func fieldOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidUserID):
		return "userId"
	case errors.Is(err, domain.ErrNoItems),
		errors.Is(err, domain.ErrInvalidProductID),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidPrice):
		return "items"
	case errors.Is(err, domain.ErrInvalidAddress):
		return "shippingAddress"
	case errors.Is(err, domain.ErrNotesTooLong):
		return "notes"
	case errors.Is(err, domain.ErrInvalidStatus), errors.Is(err, domain.ErrIllegalTransition):
		return "status"
	default:
		return ""
	}
}

// mapDomainError translates a domain validation failure into the shared
// taxonomy.
func mapDomainError(err error) error {
	if err == nil {
		return nil
	}
	if field := fieldOf(err); field != "" {
		return apierr.Validation(err.Error(), map[string]string{field: err.Error()})
	}
	return err
}

// mapStoreError translates repository failures for the given order id.
func mapStoreError(err error, id int64) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ports.ErrNotFound):
		return apierr.NotFound("Order", id)
	case errors.Is(err, ports.ErrVersionConflict):
		return apierr.Conflict("Order was modified concurrently, retry with fresh state").WithDetail("id", id)
	default:
		return err
	}
}
