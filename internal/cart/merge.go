package cart

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"gorm.io/gorm"
)

// MergeOnLogin folds the guest session cart into the user's cart. Quantities
// for products present in both carts are summed; the guest cart is emptied in
// the same transaction, which makes a replayed merge a no-op. A failure to
// load the guest cart aborts the merge and returns the user cart unmodified,
// so a cart hiccup never breaks login.
func (s *service) MergeOnLogin(ctx context.Context, userID, sessionID string) (*models.Cart, error) {
	userID = strings.TrimSpace(userID)
	sessionID = strings.TrimSpace(sessionID)
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "userId is required")
	}
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sessionId is required")
	}

	userCart, err := s.Resolve(ctx, ForUser(userID))
	if err != nil {
		return nil, err
	}

	guestCart, err := s.repo.FindByIdentity(ctx, ForGuest(sessionID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return userCart, nil
		}
		if s.logg != nil {
			s.logg.Error(ctx, "guest cart load failed, merge skipped", err)
		}
		return userCart, nil
	}
	if len(guestCart.Lines) == 0 {
		return userCart, nil
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		for _, line := range guestCart.Lines {
			if err := txRepo.AddLineQuantity(ctx, userCart.ID, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}
		return txRepo.ClearLines(ctx, guestCart.ID)
	})
	if err != nil {
		// Rolled back: both carts are intact and the next login retries.
		if s.logg != nil {
			s.logg.Error(ctx, "cart merge failed, guest cart preserved", err)
		}
		return userCart, nil
	}

	return s.reload(ctx, userCart.ID)
}
