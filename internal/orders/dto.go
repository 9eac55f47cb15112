package orders

import (
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/google/uuid"
)

// SubmitOrderItem names a product and quantity in an order submission. The
// persisted line snapshots name and price at creation time.
type SubmitOrderItem struct {
	ProductID uuid.UUID
	Quantity  int
}

// SubmitOrderInput carries an order submission. ClientOrderID is the
// client-generated idempotency token; submissions without one are never
// deduplicated.
type SubmitOrderInput struct {
	UserID          string
	SessionID       string
	ClientOrderID   *string
	Currency        enums.Currency
	ShippingAddress *types.Address
	// TotalCents is the client's expected total. When positive it must match
	// the server-computed sum of line totals.
	TotalCents int
	Items      []SubmitOrderItem
}

// SubmitResult distinguishes a fresh creation from an idempotent replay so
// the HTTP layer can answer 201 vs 200.
type SubmitResult struct {
	Order   *models.Order
	Created bool
}
