package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// UserSummary is the projection of a user returned by the directory.
type UserSummary struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	IsActive bool   `json:"isActive"`
}

// ProductSummary is the projection of a product returned by the catalog.
type ProductSummary struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// UserDirectory mediates lookups against the remote user service. A nil
// summary with a nil error means Absent: the user does not exist, or the
// dependency was unavailable and the guarded call fell back. Callers cannot
// tell the two apart.
type UserDirectory interface {
	FetchUser(ctx context.Context, id int64) (*UserSummary, error)
}

// Catalog mediates lookups against the remote product service, with the
// same Absent convention. Consumed by the gateway contract; order line
// prices are currently not validated against it.
type Catalog interface {
	FetchProduct(ctx context.Context, id int64) (*ProductSummary, error)
}
