package application

import (
	"context"

	types "github.com/openmarket/orders/internal/domains/orders/application/types"
	"github.com/openmarket/orders/internal/domains/orders/domain"
)

// assemble zips a page of orders with their items using one batched item
// lookup, avoiding a query per order. Items arrive ordered ascending by id
// and stay that way; orders without items get an empty slice.
func (s *Service) assemble(ctx context.Context, orders []domain.Order) ([]types.OrderView, error) {
	if len(orders) == 0 {
		return []types.OrderView{}, nil
	}
	ids := make([]int64, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
	}
	items, err := s.repo.ItemsByOrderIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	grouped := make(map[int64][]types.OrderItemView, len(orders))
	for _, item := range items {
		grouped[item.OrderID] = append(grouped[item.OrderID], itemView(item))
	}
	views := make([]types.OrderView, len(orders))
	for i := range orders {
		views[i] = orderView(&orders[i], grouped[orders[i].ID])
	}
	return views, nil
}

// assembleOne builds the aggregate view of a single order.
func (s *Service) assembleOne(ctx context.Context, order *domain.Order) (*types.OrderView, error) {
	views, err := s.assemble(ctx, []domain.Order{*order})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func itemView(item domain.OrderItem) types.OrderItemView {
	return types.OrderItemView{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Price:     item.Price,
	}
}

func orderView(order *domain.Order, items []types.OrderItemView) types.OrderView {
	if items == nil {
		items = []types.OrderItemView{}
	}
	return types.OrderView{
		ID:              order.ID,
		UserID:          order.UserID,
		Status:          order.Status,
		TotalPrice:      order.TotalPrice,
		Items:           items,
		ShippingAddress: order.ShippingAddress,
		Notes:           order.Notes,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}
