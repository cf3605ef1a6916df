package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/grocemart/grocemart-backend/api/controllers"
	"github.com/grocemart/grocemart-backend/api/middleware"
	addresssvc "github.com/grocemart/grocemart-backend/internal/addresses"
	cartsvc "github.com/grocemart/grocemart-backend/internal/cart"
	checkoutsvc "github.com/grocemart/grocemart-backend/internal/checkout"
	discountsvc "github.com/grocemart/grocemart-backend/internal/discounts"
	ordersvc "github.com/grocemart/grocemart-backend/internal/orders"
	productsvc "github.com/grocemart/grocemart-backend/internal/products"
	shippingsvc "github.com/grocemart/grocemart-backend/internal/shipping"
	storesvc "github.com/grocemart/grocemart-backend/internal/stores"
	"github.com/grocemart/grocemart-backend/pkg/auth/session"
	"github.com/grocemart/grocemart-backend/pkg/config"
	"github.com/grocemart/grocemart-backend/pkg/db"
	"github.com/grocemart/grocemart-backend/pkg/enums"
	"github.com/grocemart/grocemart-backend/pkg/logger"
	"github.com/grocemart/grocemart-backend/pkg/redis"
)

// Services bundles everything the HTTP surface depends on.
type Services struct {
	Stores    storesvc.Service
	Products  productsvc.Service
	Discounts discountsvc.Service
	Cart      cartsvc.Service
	Addresses addresssvc.Service
	Shipping  shippingsvc.Service
	Checkout  checkoutsvc.Service
	Orders    ordersvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	cacheP redis.Pinger,
	idemStore redis.IdempotencyStore,
	limiter middleware.RateLimiterStore,
	sessions session.AccessSessionChecker,
	httpMetrics *middleware.HTTPMetrics,
	metricsHandler http.Handler,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if httpMetrics != nil {
		r.Use(httpMetrics.Middleware())
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, cacheP))
	})
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/products", controllers.ProductsBrowse(svcs.Products, logg))
		r.Get("/products/{productId}", controllers.ProductGet(svcs.Products, logg))
		r.Get("/stores/{slug}", controllers.StoreBySlug(svcs.Stores, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.MemberRoleVendor.String(), enums.MemberRoleAdmin.String()))

			r.Route("/stores/me", func(r chi.Router) {
				r.Get("/", controllers.StoreMe(svcs.Stores, logg))
				r.Put("/", controllers.StoreUpdate(svcs.Stores, logg))
			})
			r.Route("/vendor/products", func(r chi.Router) {
				r.Post("/", controllers.VendorProductCreate(svcs.Products, logg))
				r.Patch("/{productId}", controllers.VendorProductUpdate(svcs.Products, logg))
				r.Delete("/{productId}", controllers.VendorProductDelete(svcs.Products, logg))
				r.Put("/{productId}/variants", controllers.VendorVariantUpsert(svcs.Products, logg))
				r.Delete("/{productId}/variants/{variantId}", controllers.VendorVariantRemove(svcs.Products, logg))
			})
			r.Route("/vendor/discounts", func(r chi.Router) {
				r.Get("/", controllers.VendorDiscountList(svcs.Discounts, logg))
				r.Post("/", controllers.VendorDiscountCreate(svcs.Discounts, logg))
				r.Get("/{discountId}", controllers.VendorDiscountGet(svcs.Discounts, logg))
				r.Patch("/{discountId}", controllers.VendorDiscountUpdate(svcs.Discounts, logg))
				r.Delete("/{discountId}", controllers.VendorDiscountDelete(svcs.Discounts, logg))
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(svcs.Cart, logg))
			r.Post("/", controllers.CartReplace(svcs.Cart, logg))
		})
		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", controllers.AddressList(svcs.Addresses, logg))
			r.Post("/", controllers.AddressCreate(svcs.Addresses, logg))
			r.Get("/suggest", controllers.AddressSuggest(svcs.Addresses, logg))
			r.Get("/resolve", controllers.AddressResolve(svcs.Addresses, logg))
			r.Get("/{addressId}", controllers.AddressGet(svcs.Addresses, logg))
			r.Patch("/{addressId}", controllers.AddressUpdate(svcs.Addresses, logg))
			r.Delete("/{addressId}", controllers.AddressDelete(svcs.Addresses, logg))
		})
		r.With(middleware.QuoteRateLimit(cfg.RateLimit, limiter, logg)).
			Post("/shipping/quote", controllers.ShippingQuote(svcs.Shipping, svcs.Cart, svcs.Addresses, svcs.Stores, logg))
		r.Route("/checkout", func(r chi.Router) {
			r.Get("/preview", controllers.CheckoutPreview(svcs.Checkout, logg))
			r.Post("/address", controllers.CheckoutSelectAddress(svcs.Checkout, logg))
			r.Post("/shipping", controllers.CheckoutSelectShipping(svcs.Checkout, logg))
			r.Post("/discounts/toggle", controllers.CheckoutToggleDiscount(svcs.Checkout, logg))
			r.Post("/submit", controllers.CheckoutSubmit(svcs.Checkout, logg))
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.OrderGet(svcs.Orders, logg))
		})
	})

	return r
}
