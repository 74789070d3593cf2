// Package postgres persists the order aggregate in PostgreSQL using GORM.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/openmarket/orders/internal/domains/orders/domain"
	"github.com/openmarket/orders/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is the PostgreSQL aggregate store. Caller manages DB lifecycle.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires the repository and applies the schema.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&orderRecord{}, &orderItemRecord{})
	}
	return repo
}

// orderRecord maps the order aggregate root to its table.
type orderRecord struct {
	ID              int64           `gorm:"primaryKey;column:id"`
	UserID          int64           `gorm:"column:user_id;index:idx_orders_user"`
	Status          string          `gorm:"column:status;type:varchar(32);index:idx_orders_status"`
	TotalPrice      decimal.Decimal `gorm:"column:total_price;type:numeric(10,2)"`
	ShippingAddress string          `gorm:"column:shipping_address;size:255"`
	Notes           string          `gorm:"column:notes;type:text"`
	CreatedAt       time.Time       `gorm:"column:created_at;index:idx_orders_created_at,sort:desc"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
	IsDeleted       bool            `gorm:"column:is_deleted"`
	Version         int64           `gorm:"column:version"`
}

func (orderRecord) TableName() string { return "orders" }

// orderItemRecord maps a line item to its table.
type orderItemRecord struct {
	ID        int64           `gorm:"primaryKey;column:id"`
	OrderID   int64           `gorm:"column:order_id;index:idx_order_items_order"`
	ProductID int64           `gorm:"column:product_id;index:idx_order_items_product"`
	Quantity  int             `gorm:"column:quantity"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(10,2)"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	IsDeleted bool            `gorm:"column:is_deleted"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// visible is the centralized soft-delete predicate. Every read path except
// GetAny goes through it.
func visible(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

// Create persists the order and its items in one transaction.
func (r *Repository) Create(ctx context.Context, order *domain.Order, items []domain.OrderItem) (*domain.Order, []domain.OrderItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, errors.New("order is nil")
	}

	now := time.Now()
	record := toRecord(order)
	record.CreatedAt = now
	record.UpdatedAt = now
	record.Version = 1

	itemRecords := make([]orderItemRecord, len(items))
	for i, item := range items {
		itemRecords[i] = orderItemRecord{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			CreatedAt: now,
		}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		for i := range itemRecords {
			itemRecords[i].OrderID = record.ID
		}
		if len(itemRecords) > 0 {
			if err := tx.Create(&itemRecords).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	saved := make([]domain.OrderItem, len(itemRecords))
	for i := range itemRecords {
		saved[i] = itemRecords[i].toDomain()
	}
	return record.toDomain(), saved, nil
}

// GetByID fetches an active order.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	err := r.db.WithContext(ctx).Scopes(visible).First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetAny fetches the order regardless of the soft-delete flag.
func (r *Repository) GetAny(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// ListPage returns one page of active orders plus the total matching count.
func (r *Repository) ListPage(ctx context.Context, filter ports.ListFilter, page ports.PageRequest) ([]domain.Order, int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, 0, err
	}

	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&orderRecord{}).Scopes(visible)
		if filter.UserID != nil {
			q = q.Where("user_id = ?", *filter.UserID)
		}
		if filter.Status != nil {
			q = q.Where("status = ?", string(*filter.Status))
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []orderRecord
	err := base().
		Order("created_at DESC, id DESC").
		Limit(page.PageSize).
		Offset(page.Offset()).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	orders := make([]domain.Order, len(records))
	for i := range records {
		orders[i] = *records[i].toDomain()
	}
	return orders, total, nil
}

// ItemsByOrderIDs batches the item lookup for one page of orders.
func (r *Repository) ItemsByOrderIDs(ctx context.Context, orderIDs []int64) ([]domain.OrderItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if len(orderIDs) == 0 {
		return nil, nil
	}
	var records []orderItemRecord
	err := r.db.WithContext(ctx).
		Scopes(visible).
		Where("order_id IN ?", orderIDs).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	items := make([]domain.OrderItem, len(records))
	for i := range records {
		items[i] = records[i].toDomain()
	}
	return items, nil
}

// Update persists the mutable fields guarded by the version token.
func (r *Repository) Update(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}

	result := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Scopes(visible).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(map[string]any{
			"status":           string(order.Status),
			"shipping_address": order.ShippingAddress,
			"notes":            order.Notes,
			"updated_at":       time.Now(),
			"version":          order.Version + 1,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, order.ID); err != nil {
			return nil, err
		}
		return nil, ports.ErrVersionConflict
	}
	return r.GetByID(ctx, order.ID)
}

// SoftDelete marks the order deleted. Rows already flagged stay flagged, so
// repeated deletes succeed.
func (r *Repository) SoftDelete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_deleted": true, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:              order.ID,
		UserID:          order.UserID,
		Status:          string(order.Status),
		TotalPrice:      order.TotalPrice,
		ShippingAddress: order.ShippingAddress,
		Notes:           order.Notes,
		IsDeleted:       order.IsDeleted,
		Version:         order.Version,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:              r.ID,
		UserID:          r.UserID,
		Status:          domain.Status(r.Status),
		TotalPrice:      r.TotalPrice,
		ShippingAddress: r.ShippingAddress,
		Notes:           r.Notes,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		IsDeleted:       r.IsDeleted,
		Version:         r.Version,
	}
}

func (r orderItemRecord) toDomain() domain.OrderItem {
	return domain.OrderItem{
		ID:        r.ID,
		OrderID:   r.OrderID,
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		Price:     r.Price,
		CreatedAt: r.CreatedAt,
		IsDeleted: r.IsDeleted,
	}
}
