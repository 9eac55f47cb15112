package cart

import (
	"context"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for carts and cart lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	FindByIdentity(ctx context.Context, identity Identity) (*models.Cart, error)
	AddLineQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) error
	SetLineQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) (int64, error)
	DeleteLine(ctx context.Context, cartID, productID uuid.UUID) (int64, error)
	ClearLines(ctx context.Context, cartID uuid.UUID) error
}

// Service exposes cart identity resolution and mutation operations.
type Service interface {
	Resolve(ctx context.Context, identity Identity) (*models.Cart, error)
	AddItem(ctx context.Context, identity Identity, productID uuid.UUID, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, identity Identity, productID uuid.UUID) (*models.Cart, error)
	UpdateItemQuantity(ctx context.Context, identity Identity, productID uuid.UUID, quantity int) (*models.Cart, error)
	Clear(ctx context.Context, identity Identity) (*models.Cart, error)
	MergeOnLogin(ctx context.Context, userID, sessionID string) (*models.Cart, error)
}
