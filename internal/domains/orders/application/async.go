package application

import (
	"context"

	types "github.com/openmarket/orders/internal/domains/orders/application/types"
	"github.com/openmarket/orders/internal/domains/orders/domain"
	"github.com/openmarket/orders/internal/domains/orders/ports"
	"github.com/openmarket/orders/internal/shared/response"
	"github.com/openmarket/orders/internal/shared/taskpool"
)

// Async exposes every orchestrator operation as a deferred handle resolved
// on a bounded worker pool. Each method submits the identical call the
// blocking form would make, so validation, persisted state, and error
// classification cannot diverge between the two paths.
type Async struct {
	svc  ports.Service
	pool *taskpool.Pool
}

// NewAsync wraps a service with the pool-backed execution path.
func NewAsync(svc ports.Service, pool *taskpool.Pool) *Async {
	return &Async{svc: svc, pool: pool}
}

func (a *Async) CreateOrderAsync(ctx context.Context, input types.CreateOrderInput) (*taskpool.Handle[*types.OrderView], error) {
	return taskpool.Submit(a.pool, func() (*types.OrderView, error) {
		return a.svc.CreateOrder(ctx, input)
	})
}

func (a *Async) GetOrderAsync(ctx context.Context, id int64) (*taskpool.Handle[*types.OrderView], error) {
	return taskpool.Submit(a.pool, func() (*types.OrderView, error) {
		return a.svc.GetOrder(ctx, id)
	})
}

func (a *Async) ListOrdersAsync(ctx context.Context, input types.ListInput) (*taskpool.Handle[*response.Page[types.OrderView]], error) {
	return taskpool.Submit(a.pool, func() (*response.Page[types.OrderView], error) {
		return a.svc.ListOrders(ctx, input)
	})
}

func (a *Async) ListOrdersByUserAsync(ctx context.Context, userID int64, input types.ListInput) (*taskpool.Handle[*response.Page[types.OrderView]], error) {
	return taskpool.Submit(a.pool, func() (*response.Page[types.OrderView], error) {
		return a.svc.ListOrdersByUser(ctx, userID, input)
	})
}

func (a *Async) ListOrdersByStatusAsync(ctx context.Context, status domain.Status, input types.ListInput) (*taskpool.Handle[*response.Page[types.OrderView]], error) {
	return taskpool.Submit(a.pool, func() (*response.Page[types.OrderView], error) {
		return a.svc.ListOrdersByStatus(ctx, status, input)
	})
}

func (a *Async) UpdateOrderAsync(ctx context.Context, input types.UpdateOrderInput) (*taskpool.Handle[*types.OrderView], error) {
	return taskpool.Submit(a.pool, func() (*types.OrderView, error) {
		return a.svc.UpdateOrder(ctx, input)
	})
}

func (a *Async) DeleteOrderAsync(ctx context.Context, id int64) (*taskpool.Handle[struct{}], error) {
	return taskpool.Submit(a.pool, func() (struct{}, error) {
		return struct{}{}, a.svc.DeleteOrder(ctx, id)
	})
}

var _ ports.AsyncService = (*Async)(nil)
