package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// ProductResponse is the wire shape of a product.
type ProductResponse struct {
	ID         uuid.UUID  `json:"id"`
	Slug       string     `json:"slug"`
	Name       string     `json:"name"`
	PriceCents int        `json:"priceCents"`
	CategoryID *uuid.UUID `json:"categoryId,omitempty"`
	Available  bool       `json:"available"`
}

func toProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:         p.ID,
		Slug:       p.Slug,
		Name:       p.Name,
		PriceCents: p.PriceCents,
		CategoryID: p.CategoryID,
		Available:  p.Available,
	}
}

func toProductListResponse(list []models.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(list))
	for i := range list {
		out = append(out, toProductResponse(&list[i]))
	}
	return out
}

type productUpdateRequest struct {
	Name       *string    `json:"name" validate:"omitempty,max=256"`
	Slug       *string    `json:"slug" validate:"omitempty,max=256"`
	PriceCents *int       `json:"priceCents" validate:"omitempty,min=0"`
	Available  *bool      `json:"available"`
	CategoryID *uuid.UUID `json:"categoryId"`
}

// ProductList serves the storefront listing. The default view is the
// availability-filtered search; `view=catalog` returns the full catalog.
func ProductList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		if strings.EqualFold(query.Get("view"), "catalog") {
			list, err := svc.Catalog(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, toProductListResponse(list))
			return
		}

		list, err := svc.SearchAvailable(r.Context(), products.SearchParams{
			Query:      query.Get("q"),
			CategoryID: query.Get("categoryId"),
			SortBy:     query.Get("sortBy"),
			SortDir:    query.Get("sortDir"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toProductListResponse(list))
	}
}

// ProductGet resolves the path segment as a uuid first, then as a slug.
func ProductGet(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idOrSlug := chi.URLParam(r, "idOrSlug")

		var (
			product *models.Product
			err     error
		)
		if id, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
			product, err = svc.GetByID(r.Context(), id)
		} else {
			product, err = svc.GetBySlug(r.Context(), idOrSlug)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toProductResponse(product))
	}
}

// ProductUpdate is the admin write path that fans out cache invalidations.
func ProductUpdate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuid.Parse(chi.URLParam(r, "idOrSlug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "productId must be a uuid"))
			return
		}

		var req productUpdateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), productID, products.UpdateProductInput{
			Name:       req.Name,
			Slug:       req.Slug,
			PriceCents: req.PriceCents,
			Available:  req.Available,
			CategoryID: req.CategoryID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toProductResponse(updated))
	}
}
