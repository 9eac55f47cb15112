package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is plain field storage from this core's perspective; its writes
// matter only because they fan out cache invalidations.
type Product struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Slug       string     `gorm:"column:slug;not null;uniqueIndex:idx_products_slug"`
	Name       string     `gorm:"column:name;not null"`
	PriceCents int        `gorm:"column:price_cents;not null"`
	CategoryID *uuid.UUID `gorm:"column:category_id;type:uuid"`
	Available  bool       `gorm:"column:available;not null"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// Category is a flat lookup table for catalog filtering.
type Category struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex:idx_categories_slug"`
	Name      string    `gorm:"column:name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
