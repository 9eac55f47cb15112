package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// CartLineResponse is one product entry of a cart payload.
type CartLineResponse struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

// CartResponse is the wire shape of a cart.
type CartResponse struct {
	ID        uuid.UUID          `json:"id"`
	UserID    *string            `json:"userId,omitempty"`
	SessionID *string            `json:"sessionId,omitempty"`
	Lines     []CartLineResponse `json:"lines"`
}

func toCartResponse(c *models.Cart) CartResponse {
	lines := make([]CartLineResponse, 0, len(c.Lines))
	for _, line := range c.Lines {
		lines = append(lines, CartLineResponse{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return CartResponse{ID: c.ID, UserID: c.UserID, SessionID: c.SessionID, Lines: lines}
}

type cartIdentityRequest struct {
	UserID    string `json:"userId" validate:"omitempty,max=128"`
	SessionID string `json:"sessionId" validate:"omitempty,max=128"`
}

type cartItemRequest struct {
	cartIdentityRequest
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"omitempty,min=1"`
}

type cartMergeRequest struct {
	UserID    string `json:"userId" validate:"required,max=128"`
	SessionID string `json:"sessionId" validate:"required,max=128"`
}

// CartFetchByUser returns the user's cart, creating an empty one on first
// contact.
func CartFetchByUser(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resolved, err := svc.Resolve(r.Context(), cart.ForUser(chi.URLParam(r, "userId")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartResponse(resolved))
	}
}

// CartFetchBySession returns the guest session's cart.
func CartFetchBySession(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resolved, err := svc.Resolve(r.Context(), cart.ForGuest(chi.URLParam(r, "sessionId")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartResponse(resolved))
	}
}

func CartAddItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cartItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		identity, err := cart.ParseIdentity(req.UserID, req.SessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quantity := req.Quantity
		if quantity == 0 {
			quantity = 1
		}
		updated, err := svc.AddItem(r.Context(), identity, req.ProductID, quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartResponse(updated))
	}
}

func CartRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cartItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		identity, err := cart.ParseIdentity(req.UserID, req.SessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.RemoveItem(r.Context(), identity, req.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartResponse(updated))
	}
}

func CartUpdateItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cartItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		identity, err := cart.ParseIdentity(req.UserID, req.SessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if req.Quantity < 1 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1"))
			return
		}
		updated, err := svc.UpdateItemQuantity(r.Context(), identity, req.ProductID, req.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartResponse(updated))
	}
}

func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cartIdentityRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		identity, err := cart.ParseIdentity(req.UserID, req.SessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cleared, err := svc.Clear(r.Context(), identity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartResponse(cleared))
	}
}

// CartMerge is the login sync hook: it folds the guest session cart into the
// user's cart. Both ids are required here, the one place they appear together.
func CartMerge(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cartMergeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		merged, err := svc.MergeOnLogin(r.Context(), req.UserID, req.SessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartResponse(merged))
	}
}
