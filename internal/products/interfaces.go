package products

import (
	"context"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SearchParams filters the availability search. Fields are kept as strings
// because they double as cache key parameters.
type SearchParams struct {
	Query      string
	CategoryID string
	SortBy     string
	SortDir    string
}

// UpdateProductInput carries the patchable fields; nil means unchanged.
type UpdateProductInput struct {
	Name       *string
	Slug       *string
	PriceCents *int
	Available  *bool
	CategoryID *uuid.UUID
}

// Repository defines persistence operations for the product catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	ListCatalog(ctx context.Context) ([]models.Product, error)
	SearchAvailable(ctx context.Context, params SearchParams) ([]models.Product, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
}

// Service exposes cached catalog reads and the invalidating write path.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	Catalog(ctx context.Context) ([]models.Product, error)
	SearchAvailable(ctx context.Context, params SearchParams) ([]models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error)
}
