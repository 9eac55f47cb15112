package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart is keyed by exactly one of UserID or SessionID. The sparse unique
// indexes on both columns guarantee at most one cart per identity; the check
// constraint in the migration guarantees exactly one side is set.
type Cart struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	UserID    *string    `gorm:"column:user_id;uniqueIndex:idx_carts_user_id,where:user_id IS NOT NULL"`
	SessionID *string    `gorm:"column:session_id;uniqueIndex:idx_carts_session_id,where:session_id IS NOT NULL"`
	Lines     []CartLine `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// CartLine holds one product entry; (cart_id, product_id) is unique so the
// same product never appears on two lines of one cart.
type CartLine struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CartID    uuid.UUID `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_lines_cart_product"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_lines_cart_product"`
	Quantity  int       `gorm:"column:quantity;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
