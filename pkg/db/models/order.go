package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

// Order is immutable after creation except for Status. ClientOrderID is the
// client-supplied idempotency token; the sparse unique index on it is the
// arbiter that keeps retried submissions down to one persisted document.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserID          *string           `gorm:"column:user_id"`
	SessionID       *string           `gorm:"column:session_id"`
	ClientOrderID   *string           `gorm:"column:client_order_id;uniqueIndex:idx_orders_client_order_id,where:client_order_id IS NOT NULL"`
	Status          enums.OrderStatus `gorm:"column:status;not null;default:'placed'"`
	Currency        enums.Currency    `gorm:"column:currency;not null;default:'USD'"`
	ShippingAddress *types.Address    `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	TotalCents      int               `gorm:"column:total_cents;not null"`
	Lines           []OrderLine       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderLine snapshots name and price at creation time; later product edits
// must not change historical orders.
type OrderLine struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;not null"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Name           string    `gorm:"column:name;not null"`
	Quantity       int       `gorm:"column:quantity;not null"`
	UnitPriceCents int       `gorm:"column:unit_price_cents;not null"`
	LineTotalCents int       `gorm:"column:line_total_cents;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
