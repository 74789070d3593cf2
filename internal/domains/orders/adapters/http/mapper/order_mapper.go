// Package mapper converts between the HTTP payloads of the orders API and
// the application layer's inputs and views.
package mapper

import (
	"github.com/shopspring/decimal"

	types "github.com/openmarket/orders/internal/domains/orders/application/types"
	"github.com/openmarket/orders/internal/domains/orders/domain"
	"github.com/openmarket/orders/internal/shared/response"
)

// displayTimeLayout renders timestamps as dd.MM.yyyy HH:mm:ss.
const displayTimeLayout = "02.01.2006 15:04:05"

// OrderItemRequest is one inbound line item.
type OrderItemRequest struct {
	ProductID int64           `json:"productId" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required"`
	Price     decimal.Decimal `json:"price" binding:"required"`
}

// CreateOrderRequest is the create payload.
type CreateOrderRequest struct {
	UserID          int64              `json:"userId" binding:"required"`
	Items           []OrderItemRequest `json:"items" binding:"required"`
	ShippingAddress string             `json:"shippingAddress" binding:"required"`
	Notes           string             `json:"notes"`
}

// UpdateOrderRequest is the partial-overwrite payload. Absent fields keep
// their stored values.
type UpdateOrderRequest struct {
	ShippingAddress *string `json:"shippingAddress"`
	Notes           *string `json:"notes"`
	Status          *string `json:"status"`
}

// OrderItem is the outbound representation of a line item.
type OrderItem struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Order is the outbound representation of an order aggregate.
type Order struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"userId"`
	Status          string          `json:"status"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress string          `json:"shippingAddress"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       string          `json:"createdAt"`
	UpdatedAt       string          `json:"updatedAt"`
}

// ToCreateInput converts the create payload into the application command.
func ToCreateInput(req CreateOrderRequest) types.CreateOrderInput {
	items := make([]types.CreateOrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, types.CreateOrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return types.CreateOrderInput{
		UserID:          req.UserID,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		Notes:           req.Notes,
	}
}

// ToUpdateInput converts the update payload for the given order id,
// preserving field presence. An unknown status is rejected.
func ToUpdateInput(id int64, req UpdateOrderRequest) (types.UpdateOrderInput, error) {
	input := types.UpdateOrderInput{ID: id}
	if req.ShippingAddress != nil {
		addr := *req.ShippingAddress
		input.ShippingAddress = &addr
	}
	if req.Notes != nil {
		notes := *req.Notes
		input.Notes = &notes
	}
	if req.Status != nil {
		status, err := domain.ParseStatus(*req.Status)
		if err != nil {
			return types.UpdateOrderInput{}, err
		}
		input.Status = &status
	}
	return input, nil
}

// FromView maps an assembled order view into its transport form.
func FromView(view *types.OrderView) Order {
	items := make([]OrderItem, 0, len(view.Items))
	for _, item := range view.Items {
		items = append(items, OrderItem{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return Order{
		ID:              view.ID,
		UserID:          view.UserID,
		Status:          string(view.Status),
		TotalPrice:      view.TotalPrice,
		Items:           items,
		ShippingAddress: view.ShippingAddress,
		Notes:           view.Notes,
		CreatedAt:       view.CreatedAt.Format(displayTimeLayout),
		UpdatedAt:       view.UpdatedAt.Format(displayTimeLayout),
	}
}

// FromViewPage maps a page of views, keeping the paging metadata intact.
func FromViewPage(page *response.Page[types.OrderView]) *response.Page[Order] {
	items := make([]Order, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, FromView(&page.Items[i]))
	}
	return &response.Page[Order]{
		Items:           items,
		Page:            page.Page,
		PageSize:        page.PageSize,
		TotalItems:      page.TotalItems,
		TotalPages:      page.TotalPages,
		HasNextPage:     page.HasNextPage,
		HasPreviousPage: page.HasPreviousPage,
	}
}
