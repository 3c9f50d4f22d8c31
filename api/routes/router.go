package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/blast-commerce/blast-backend/api/controllers"
	"github.com/blast-commerce/blast-backend/api/middleware"
	cartsvc "github.com/blast-commerce/blast-backend/internal/cart"
	notificationsvc "github.com/blast-commerce/blast-backend/internal/notifications"
	ordersvc "github.com/blast-commerce/blast-backend/internal/orders"
	productsvc "github.com/blast-commerce/blast-backend/internal/products"
	"github.com/blast-commerce/blast-backend/pkg/auth"
	"github.com/blast-commerce/blast-backend/pkg/config"
	"github.com/blast-commerce/blast-backend/pkg/db"
	"github.com/blast-commerce/blast-backend/pkg/logger"
	"github.com/blast-commerce/blast-backend/pkg/metrics"
	pkgredis "github.com/blast-commerce/blast-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            *db.Client
	Redis         pkgredis.IdempotencyStore
	Metrics       *metrics.HTTPMetrics
	Products      productsvc.Service
	Cart          cartsvc.Service
	Orders        ordersvc.Service
	Notifications notificationsvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/track/{trackingNumber}", controllers.OrdersTrack(deps.Orders, logg))
		r.Get("/products", controllers.ProductsList(deps.Products, logg))
		r.Get("/products/{idOrSlug}", controllers.ProductsGet(deps.Products, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(deps.Redis, cfg.Idempotency.TTL, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.Cart, logg))
			r.Delete("/", controllers.CartClear(deps.Cart, logg))
			r.Get("/count", controllers.CartCount(deps.Cart, logg))
			r.Post("/items", controllers.CartAddItem(deps.Cart, deps.Products, logg))
			r.Put("/items/{productId}", controllers.CartUpdateItem(deps.Cart, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(deps.Cart, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrdersCreate(deps.Orders, deps.Cart, deps.Notifications, logg))
			r.Get("/", controllers.OrdersList(deps.Orders, logg))
			r.Get("/{orderId}", controllers.OrdersGet(deps.Orders, logg))
			r.Patch("/{orderId}/cancel", controllers.OrdersCancel(deps.Orders, logg))
			r.Post("/{orderId}/refund", controllers.OrdersRequestRefund(deps.Orders, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(auth.RoleAdmin, logg))
				r.Patch("/{orderId}/status", controllers.OrdersUpdateStatus(deps.Orders, logg))
				r.Post("/{orderId}/out-for-delivery", controllers.OrdersOutForDelivery(deps.Orders, logg))
			})
		})
	})

	return r
}
