package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	storecache "github.com/angelmondragon/storefront-backend/internal/cache"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/overview"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const clientOrderIDConstraint = "idx_orders_client_order_id"

type service struct {
	repo     Repository
	products productLoader
	carts    cartClearer
	cache    *storecache.Manager
	logg     *logger.Logger
}

// NewService builds an orders service backed by the provided stack. The cache
// manager may be nil, in which case reads go straight to the database.
func NewService(repo Repository, products productLoader, carts cartClearer, cacheManager *storecache.Manager, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart clearer required")
	}
	return &service{repo: repo, products: products, carts: carts, cache: cacheManager, logg: logg}, nil
}

// Submit creates one order per idempotency token. The check-then-insert pair
// is only a fast path: the sparse unique index on client_order_id is the real
// arbiter, and a violation during insert is treated as a replay, not an
// error. Side effects run only on the single successful insert.
func (s *service) Submit(ctx context.Context, input SubmitOrderInput) (*SubmitResult, error) {
	identity, err := submitIdentity(input)
	if err != nil {
		return nil, err
	}

	token := normalizedToken(input.ClientOrderID)
	if token != nil {
		existing, err := s.repo.FindByClientOrderID(ctx, *token)
		if err == nil {
			return &SubmitResult{Order: existing, Created: false}, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking idempotency token")
		}
	}

	order, err := s.buildOrder(ctx, input, identity, token)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		if token != nil && db.IsUniqueViolation(err, clientOrderIDConstraint) {
			existing, findErr := s.repo.FindByClientOrderID(ctx, *token)
			if findErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, findErr, "loading order after insert race")
			}
			return &SubmitResult{Order: existing, Created: false}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
	}

	s.afterCreate(ctx, identity)
	return &SubmitResult{Order: created, Created: true}, nil
}

// afterCreate clears the originating cart and drops the cached overview.
// Failures here are logged, never surfaced: the order already exists.
func (s *service) afterCreate(ctx context.Context, identity cart.Identity) {
	if !identity.IsZero() {
		if _, err := s.carts.Clear(ctx, identity); err != nil && s.logg != nil {
			s.logg.Error(ctx, "clearing cart after order creation failed", err)
		}
	}
	s.cache.Invalidate(ctx, overview.MetricsCacheKey())
}

func (s *service) buildOrder(ctx context.Context, input SubmitOrderInput, identity cart.Identity, token *string) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}

	currency := input.Currency
	if currency == "" {
		currency = enums.CurrencyUSD
	}
	if !currency.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported currency").WithDetails(map[string]string{"currency": string(input.Currency)})
	}

	lines := make([]models.OrderLine, 0, len(input.Items))
	total := 0
	for _, item := range input.Items {
		if item.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "productId is required on every item")
		}
		if item.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be at least 1")
		}

		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").WithDetails(map[string]string{"productId": item.ProductID.String()})
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
		}
		if !product.Available {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available").WithDetails(map[string]string{"productId": item.ProductID.String()})
		}

		lineTotal := product.PriceCents * item.Quantity
		total += lineTotal
		lines = append(lines, models.OrderLine{
			ProductID:      product.ID,
			Name:           product.Name,
			Quantity:       item.Quantity,
			UnitPriceCents: product.PriceCents,
			LineTotalCents: lineTotal,
		})
	}

	if input.TotalCents > 0 && input.TotalCents != total {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "totalAmount does not match line totals").
			WithDetails(map[string]int{"expected": total, "submitted": input.TotalCents})
	}

	order := &models.Order{
		ClientOrderID:   token,
		Status:          enums.OrderStatusPlaced,
		Currency:        currency,
		ShippingAddress: input.ShippingAddress,
		TotalCents:      total,
		Lines:           lines,
	}
	if userID, ok := identity.UserID(); ok {
		order.UserID = &userID
	}
	if sessionID, ok := identity.SessionID(); ok {
		order.SessionID = &sessionID
	}
	return order, nil
}

// GetByClientOrderID looks up an order by its idempotency token, serving from
// cache when possible. Status changes invalidate the token's key.
func (s *service) GetByClientOrderID(ctx context.Context, clientOrderID string) (*models.Order, error) {
	clientOrderID = strings.TrimSpace(clientOrderID)
	if clientOrderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "clientOrderId is required")
	}

	return storecache.GetOrCompute(ctx, s.cache, clientOrderKey(clientOrderID), storecache.TTLMedium,
		func(ctx context.Context) (*models.Order, error) {
			order, err := s.repo.FindByClientOrderID(ctx, clientOrderID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
				}
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
			}
			return order, nil
		})
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}

// UpdateStatus applies one step of the draft→placed→fulfilled|cancelled
// machine and drops the caches the change makes stale.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status").WithDetails(map[string]string{"status": string(status)})
	}

	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "status transition disallowed").
			WithDetails(map[string]string{"from": string(order.Status), "to": string(status)})
	}

	affected, err := s.repo.UpdateStatus(ctx, id, order.Status, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
	}
	if affected == 0 {
		// the status moved between our read and the write
		current, findErr := s.repo.FindByID(ctx, id)
		if findErr != nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "status transition disallowed").
			WithDetails(map[string]string{"from": string(current.Status), "to": string(status)})
	}

	keys := []string{overview.MetricsCacheKey()}
	if order.ClientOrderID != nil {
		keys = append(keys, clientOrderKey(*order.ClientOrderID))
	}
	s.cache.Invalidate(ctx, keys...)

	order.Status = status
	return order, nil
}

func clientOrderKey(token string) string {
	return storecache.Key("orders", "client", map[string]string{"clientOrderId": token})
}

// submitIdentity resolves who the order belongs to. Unlike cart routes, an
// order may carry no identity at all (admin-created orders); both ids at once
// is still rejected.
func submitIdentity(input SubmitOrderInput) (cart.Identity, error) {
	userID := strings.TrimSpace(input.UserID)
	sessionID := strings.TrimSpace(input.SessionID)
	if userID == "" && sessionID == "" {
		return cart.Identity{}, nil
	}
	return cart.ParseIdentity(userID, sessionID)
}

func normalizedToken(token *string) *string {
	if token == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*token)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
