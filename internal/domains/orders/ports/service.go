package ports

import (
	"context"

	types "github.com/openmarket/orders/internal/domains/orders/application/types"
	"github.com/openmarket/orders/internal/domains/orders/domain"
	"github.com/openmarket/orders/internal/shared/response"
	"github.com/openmarket/orders/internal/shared/taskpool"
)

// Service is the blocking form of the order orchestration use cases.
type Service interface {
	CreateOrder(ctx context.Context, input types.CreateOrderInput) (*types.OrderView, error)
	GetOrder(ctx context.Context, id int64) (*types.OrderView, error)
	ListOrders(ctx context.Context, input types.ListInput) (*response.Page[types.OrderView], error)
	ListOrdersByUser(ctx context.Context, userID int64, input types.ListInput) (*response.Page[types.OrderView], error)
	ListOrdersByStatus(ctx context.Context, status domain.Status, input types.ListInput) (*response.Page[types.OrderView], error)
	UpdateOrder(ctx context.Context, input types.UpdateOrderInput) (*types.OrderView, error)
	DeleteOrder(ctx context.Context, id int64) error
}

// AsyncService offers the same operations as deferred handles resolved on a
// bounded worker pool. Outcomes must never diverge from the blocking form.
type AsyncService interface {
	CreateOrderAsync(ctx context.Context, input types.CreateOrderInput) (*taskpool.Handle[*types.OrderView], error)
	GetOrderAsync(ctx context.Context, id int64) (*taskpool.Handle[*types.OrderView], error)
	ListOrdersAsync(ctx context.Context, input types.ListInput) (*taskpool.Handle[*response.Page[types.OrderView]], error)
	ListOrdersByUserAsync(ctx context.Context, userID int64, input types.ListInput) (*taskpool.Handle[*response.Page[types.OrderView]], error)
	ListOrdersByStatusAsync(ctx context.Context, status domain.Status, input types.ListInput) (*taskpool.Handle[*response.Page[types.OrderView]], error)
	UpdateOrderAsync(ctx context.Context, input types.UpdateOrderInput) (*taskpool.Handle[*types.OrderView], error)
	DeleteOrderAsync(ctx context.Context, id int64) (*taskpool.Handle[struct{}], error)
}
