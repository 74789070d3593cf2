// Package application implements the order orchestration use cases. Every
// operation is expressed once here; the blocking and non-blocking entry
// points are thin adapters around this single implementation.
package application

import (
	"context"

	types "github.com/openmarket/orders/internal/domains/orders/application/types"
	"github.com/openmarket/orders/internal/domains/orders/domain"
	"github.com/openmarket/orders/internal/domains/orders/ports"
	"github.com/openmarket/orders/internal/shared/apierr"
	"github.com/openmarket/orders/internal/shared/response"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service orchestrates the order aggregate: it validates preconditions via
// the user directory gateway, computes totals, and drives the aggregate
// store. All writes go through the repository.
type Service struct {
	repo  ports.Repository
	users ports.UserDirectory
}

// NewService wires the orchestrator with its dependencies.
func NewService(repo ports.Repository, users ports.UserDirectory) *Service {
	return &Service{repo: repo, users: users}
}

// CreateOrder validates the command, checks the user exists, and persists
// the order with its items in one transaction. An Absent user lookup (a
// genuine miss or the gateway's breaker fallback) fails with
// RESOURCE_NOT_FOUND and persists nothing.
func (s *Service) CreateOrder(ctx context.Context, input types.CreateOrderInput) (*types.OrderView, error) {
	items := make([]domain.OrderItem, len(input.Items))
	for i, item := range input.Items {
		items[i] = domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}
	order, items, err := domain.NewOrder(input.UserID, items, input.ShippingAddress, input.Notes)
	if err != nil {
		return nil, mapDomainError(err)
	}

	user, err := s.users.FetchUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apierr.NotFound("User", input.UserID)
	}

	saved, savedItems, err := s.repo.Create(ctx, order, items)
	if err != nil {
		return nil, err
	}
	itemViews := make([]types.OrderItemView, len(savedItems))
	for i := range savedItems {
		itemViews[i] = itemView(savedItems[i])
	}
	view := orderView(saved, itemViews)
	return &view, nil
}

// GetOrder returns the active aggregate.
func (s *Service) GetOrder(ctx context.Context, id int64) (*types.OrderView, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, id)
	}
	return s.assembleOne(ctx, order)
}

// ListOrders pages through all active orders, newest first.
func (s *Service) ListOrders(ctx context.Context, input types.ListInput) (*response.Page[types.OrderView], error) {
	return s.list(ctx, ports.ListFilter{}, input)
}

// ListOrdersByUser pages through the active orders of one user.
func (s *Service) ListOrdersByUser(ctx context.Context, userID int64, input types.ListInput) (*response.Page[types.OrderView], error) {
	return s.list(ctx, ports.ListFilter{UserID: &userID}, input)
}

// ListOrdersByStatus pages through the active orders in one status.
func (s *Service) ListOrdersByStatus(ctx context.Context, status domain.Status, input types.ListInput) (*response.Page[types.OrderView], error) {
	return s.list(ctx, ports.ListFilter{Status: &status}, input)
}

func (s *Service) list(ctx context.Context, filter ports.ListFilter, input types.ListInput) (*response.Page[types.OrderView], error) {
	page := normalize(input)
	orders, total, err := s.repo.ListPage(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	views, err := s.assemble(ctx, orders)
	if err != nil {
		return nil, err
	}
	result := response.NewPage(views, page.Page, page.PageSize, total)
	return &result, nil
}

// normalize clamps paging input to the documented convention: 1-based page
// numbers, default page size 20, capped at 100.
func normalize(input types.ListInput) ports.PageRequest {
	page := input.Page
	if page < 1 {
		page = 1
	}
	size := input.PageSize
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return ports.PageRequest{Page: page, PageSize: size}
}

// UpdateOrder overwrites only the supplied fields. Status changes run
// through the transition table; the stored version token guards against
// concurrent writers.
func (s *Service) UpdateOrder(ctx context.Context, input types.UpdateOrderInput) (*types.OrderView, error) {
	order, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapStoreError(err, input.ID)
	}
	update := domain.OrderUpdate{
		ShippingAddress: input.ShippingAddress,
		Notes:           input.Notes,
		Status:          input.Status,
	}
	if err := order.Apply(update); err != nil {
		return nil, mapDomainError(err)
	}
	saved, err := s.repo.Update(ctx, order)
	if err != nil {
		return nil, mapStoreError(err, input.ID)
	}
	return s.assembleOne(ctx, saved)
}

// DeleteOrder sets the soft-delete flag. Deleting an already-deleted order
// succeeds again; items are not cascaded.
func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	if _, err := s.repo.GetAny(ctx, id); err != nil {
		return mapStoreError(err, id)
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return mapStoreError(err, id)
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
