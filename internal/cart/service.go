package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	products productLoader
	logg     *logger.Logger
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo Repository, tx txRunner, products productLoader, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, tx: tx, products: products, logg: logg}, nil
}

// Resolve returns the cart for the identity, creating an empty one when none
// exists yet. A concurrent create racing on the identity's unique index is
// absorbed by re-fetching the winner's row.
func (s *service) Resolve(ctx context.Context, identity Identity) (*models.Cart, error) {
	if identity.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart identity is required")
	}

	cart, err := s.repo.FindByIdentity(ctx, identity)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}

	fresh := &models.Cart{}
	if userID, ok := identity.UserID(); ok {
		fresh.UserID = &userID
	}
	if sessionID, ok := identity.SessionID(); ok {
		fresh.SessionID = &sessionID
	}

	created, err := s.repo.Create(ctx, fresh)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			existing, findErr := s.repo.FindByIdentity(ctx, identity)
			if findErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, findErr, "loading cart after create race")
			}
			return existing, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating cart")
	}
	return created, nil
}

func (s *service) AddItem(ctx context.Context, identity Identity, productID uuid.UUID, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "productId is required")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if !product.Available {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}

	cart, err := s.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}

	if err := s.repo.AddLineQuantity(ctx, cart.ID, productID, quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adding cart line")
	}
	return s.reload(ctx, cart.ID)
}

// RemoveItem drops the product's line. Removing a product that is not in the
// cart is a no-op.
func (s *service) RemoveItem(ctx context.Context, identity Identity, productID uuid.UUID) (*models.Cart, error) {
	cart, err := s.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.DeleteLine(ctx, cart.ID, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing cart line")
	}
	return s.reload(ctx, cart.ID)
}

// UpdateItemQuantity sets the line's quantity. Unlike RemoveItem, targeting a
// product that is not in the cart is an error.
func (s *service) UpdateItemQuantity(ctx context.Context, identity Identity, productID uuid.UUID, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	cart, err := s.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}

	affected, err := s.repo.SetLineQuantity(ctx, cart.ID, productID, quantity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating cart line")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product is not in the cart")
	}
	return s.reload(ctx, cart.ID)
}

func (s *service) Clear(ctx context.Context, identity Identity) (*models.Cart, error) {
	cart, err := s.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}

	if err := s.repo.ClearLines(ctx, cart.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart")
	}
	return s.reload(ctx, cart.ID)
}

func (s *service) reload(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	cart, err := s.repo.FindByID(ctx, cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading cart")
	}
	return cart, nil
}
