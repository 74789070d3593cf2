// Package migrations applies the relational schema used by the order
// bounded context. It mirrors the GORM records of the postgres adapter so
// integration environments can migrate without constructing a repository.
package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the orders bounded context.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&orderRecord{},
		&orderItemRecord{},
	)
}

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
