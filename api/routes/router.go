package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront-backend/api/controllers"
	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/internal/overview"
	"github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
)

// Services bundles the wired domain services consumed by the router.
type Services struct {
	Cart     cart.Service
	Orders   orders.Service
	Products products.Service
	Overview overview.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	services Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	var redisP redis.Pinger
	if redisClient != nil {
		redisP = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/user/{userId}", controllers.CartFetchByUser(services.Cart, logg))
			r.Get("/session/{sessionId}", controllers.CartFetchBySession(services.Cart, logg))
			r.Post("/items/add", controllers.CartAddItem(services.Cart, logg))
			r.Post("/items/remove", controllers.CartRemoveItem(services.Cart, logg))
			r.Post("/items/update", controllers.CartUpdateItem(services.Cart, logg))
			r.Post("/clear", controllers.CartClear(services.Cart, logg))
			r.Post("/merge", controllers.CartMerge(services.Cart, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderSubmit(services.Orders, logg))
			r.Get("/client/{clientOrderId}", controllers.OrderByClientID(services.Orders, logg))
			r.Patch("/{orderId}/status", controllers.OrderUpdateStatus(services.Orders, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(services.Products, logg))
			r.Get("/{idOrSlug}", controllers.ProductGet(services.Products, logg))
			r.Patch("/{idOrSlug}", controllers.ProductUpdate(services.Products, logg))
		})

		r.Get("/admin/overview", controllers.AdminOverview(services.Overview, logg))
	})

	return r
}
