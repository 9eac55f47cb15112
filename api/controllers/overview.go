package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/internal/overview"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// AdminOverview serves the cached revenue/order-count snapshot.
func AdminOverview(svc overview.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metrics, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, metrics)
	}
}
