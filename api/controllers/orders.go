package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

type orderItemRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type orderSubmitRequest struct {
	UserID          string             `json:"userId" validate:"omitempty,max=128"`
	SessionID       string             `json:"sessionId" validate:"omitempty,max=128"`
	ClientOrderID   *string            `json:"clientOrderId" validate:"omitempty,max=128"`
	Currency        string             `json:"currency" validate:"omitempty,oneof=USD EUR GBP"`
	TotalAmount     int                `json:"totalAmount" validate:"omitempty,min=0"`
	ShippingAddress *types.Address     `json:"shippingAddress"`
	Items           []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderLineResponse is one snapshot line of an order payload.
type OrderLineResponse struct {
	ProductID      uuid.UUID `json:"productId"`
	Name           string    `json:"name"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int       `json:"unitPriceCents"`
	LineTotalCents int       `json:"lineTotalCents"`
}

// OrderResponse is the wire shape of an order.
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	UserID          *string             `json:"userId,omitempty"`
	SessionID       *string             `json:"sessionId,omitempty"`
	ClientOrderID   *string             `json:"clientOrderId,omitempty"`
	Status          enums.OrderStatus   `json:"status"`
	Currency        enums.Currency      `json:"currency"`
	ShippingAddress *types.Address      `json:"shippingAddress,omitempty"`
	TotalCents      int                 `json:"totalCents"`
	Lines           []OrderLineResponse `json:"lines"`
	CreatedAt       time.Time           `json:"createdAt"`
}

func toOrderResponse(o *models.Order) OrderResponse {
	lines := make([]OrderLineResponse, 0, len(o.Lines))
	for _, line := range o.Lines {
		lines = append(lines, OrderLineResponse{
			ProductID:      line.ProductID,
			Name:           line.Name,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			LineTotalCents: line.LineTotalCents,
		})
	}
	return OrderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		SessionID:       o.SessionID,
		ClientOrderID:   o.ClientOrderID,
		Status:          o.Status,
		Currency:        o.Currency,
		ShippingAddress: o.ShippingAddress,
		TotalCents:      o.TotalCents,
		Lines:           lines,
		CreatedAt:       o.CreatedAt,
	}
}

// OrderSubmit answers 201 for a fresh creation and 200 for an idempotent
// replay of the same client order id.
func OrderSubmit(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req orderSubmitRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]orders.SubmitOrderItem, 0, len(req.Items))
		for _, item := range req.Items {
			items = append(items, orders.SubmitOrderItem{ProductID: item.ProductID, Quantity: item.Quantity})
		}

		result, err := svc.Submit(r.Context(), orders.SubmitOrderInput{
			UserID:          req.UserID,
			SessionID:       req.SessionID,
			ClientOrderID:   req.ClientOrderID,
			Currency:        enums.Currency(req.Currency),
			ShippingAddress: req.ShippingAddress,
			TotalCents:      req.TotalAmount,
			Items:           items,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := http.StatusOK
		if result.Created {
			status = http.StatusCreated
		}
		responses.WriteSuccessStatus(w, status, toOrderResponse(result.Order))
	}
}

// OrderByClientID looks up an order by its idempotency token.
func OrderByClientID(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := svc.GetByClientOrderID(r.Context(), chi.URLParam(r, "clientOrderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOrderResponse(order))
	}
}

// OrderUpdateStatus applies one admin-driven status transition.
func OrderUpdateStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "orderId must be a uuid"))
			return
		}

		var req orderStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseOrderStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown order status"))
			return
		}

		order, err := svc.UpdateStatus(r.Context(), orderID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOrderResponse(order))
	}
}
