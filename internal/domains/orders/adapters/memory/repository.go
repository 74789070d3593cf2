// Package memory is an in-memory order repository used in tests and as the
// DSN-less fallback.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/openmarket/orders/internal/domains/orders/domain"
	"github.com/openmarket/orders/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps the order aggregate in process memory. It mirrors the
// postgres adapter's semantics: soft-delete visibility, creation-time
// ordering with id tiebreak, and the optimistic version guard.
type Repository struct {
	mu        sync.RWMutex
	orders    map[int64]*domain.Order
	items     map[int64][]domain.OrderItem
	nextOrder int64
	nextItem  int64
}

func NewRepository() *Repository {
	return &Repository{
		orders: map[int64]*domain.Order{},
		items:  map[int64][]domain.OrderItem{},
	}
}

func (r *Repository) Create(_ context.Context, order *domain.Order, items []domain.OrderItem) (*domain.Order, []domain.OrderItem, error) {
	if order == nil {
		return nil, nil, errors.New("order is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	clone := *order
	r.nextOrder++
	clone.ID = r.nextOrder
	clone.CreatedAt = now
	clone.UpdatedAt = now
	clone.Version = 1

	saved := make([]domain.OrderItem, len(items))
	for i, item := range items {
		r.nextItem++
		item.ID = r.nextItem
		item.OrderID = clone.ID
		item.CreatedAt = now
		saved[i] = item
	}

	r.orders[clone.ID] = &clone
	r.items[clone.ID] = saved

	out := clone
	return &out, append([]domain.OrderItem(nil), saved...), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok || order.IsDeleted {
		return nil, ports.ErrNotFound
	}
	clone := *order
	return &clone, nil
}

func (r *Repository) GetAny(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *order
	return &clone, nil
}

func (r *Repository) ListPage(_ context.Context, filter ports.ListFilter, page ports.PageRequest) ([]domain.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []domain.Order
	for _, order := range r.orders {
		if order.IsDeleted {
			continue
		}
		if filter.UserID != nil && order.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && order.Status != *filter.Status {
			continue
		}
		matched = append(matched, *order)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	offset := page.Offset()
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + page.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return append([]domain.Order(nil), matched[offset:end]...), total, nil
}

func (r *Repository) ItemsByOrderIDs(_ context.Context, orderIDs []int64) ([]domain.OrderItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.OrderItem
	for _, id := range orderIDs {
		for _, item := range r.items[id] {
			if !item.IsDeleted {
				out = append(out, item)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Repository) Update(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[order.ID]
	if !ok || stored.IsDeleted {
		return nil, ports.ErrNotFound
	}
	if stored.Version != order.Version {
		return nil, ports.ErrVersionConflict
	}
	clone := *order
	clone.CreatedAt = stored.CreatedAt
	clone.UpdatedAt = time.Now()
	clone.Version = stored.Version + 1
	r.orders[clone.ID] = &clone

	out := clone
	return &out, nil
}

func (r *Repository) SoftDelete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return ports.ErrNotFound
	}
	order.IsDeleted = true
	order.UpdatedAt = time.Now()
	return nil
}
