package cart

import (
	"context"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_lines.created_at ASC")
		}).
		Where("id = ?", id).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *repository) FindByIdentity(ctx context.Context, identity Identity) (*models.Cart, error) {
	query := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_lines.created_at ASC")
		})

	if userID, ok := identity.UserID(); ok {
		query = query.Where("user_id = ?", userID)
	} else if sessionID, ok := identity.SessionID(); ok {
		query = query.Where("session_id = ?", sessionID)
	} else {
		return nil, gorm.ErrRecordNotFound
	}

	var cart models.Cart
	if err := query.First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddLineQuantity inserts the line or bumps its quantity in one statement.
// The ON CONFLICT path keeps concurrent adds from dropping each other's
// increments.
func (r *repository) AddLineQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) error {
	line := models.CartLine{
		ID:        uuid.New(),
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("cart_lines.quantity + excluded.quantity"),
				"updated_at": time.Now().UTC(),
			}),
		}).
		Create(&line).Error
}

func (r *repository) SetLineQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Update("quantity", quantity)
	return result.RowsAffected, result.Error
}

func (r *repository) DeleteLine(ctx context.Context, cartID, productID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&models.CartLine{})
	return result.RowsAffected, result.Error
}

func (r *repository) ClearLines(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartLine{}).Error
}
