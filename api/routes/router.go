package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmoralesv/floreria-backend/api/controllers"
	"github.com/dmoralesv/floreria-backend/api/middleware"
	"github.com/dmoralesv/floreria-backend/internal/auth"
	"github.com/dmoralesv/floreria-backend/internal/business"
	cartsvc "github.com/dmoralesv/floreria-backend/internal/cart"
	category "github.com/dmoralesv/floreria-backend/internal/categories"
	checkoutsvc "github.com/dmoralesv/floreria-backend/internal/checkout"
	"github.com/dmoralesv/floreria-backend/internal/contact"
	"github.com/dmoralesv/floreria-backend/internal/media"
	"github.com/dmoralesv/floreria-backend/internal/orders"
	product "github.com/dmoralesv/floreria-backend/internal/products"
	"github.com/dmoralesv/floreria-backend/internal/social"
	"github.com/dmoralesv/floreria-backend/pkg/auth/session"
	"github.com/dmoralesv/floreria-backend/pkg/config"
	"github.com/dmoralesv/floreria-backend/pkg/db"
	"github.com/dmoralesv/floreria-backend/pkg/logger"
	"github.com/dmoralesv/floreria-backend/pkg/metrics"
	"github.com/dmoralesv/floreria-backend/pkg/redis"
	"github.com/dmoralesv/floreria-backend/pkg/storage/gcs"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	GCS            gcs.Pinger
	SessionManager *session.Manager
	HTTPMetrics    *metrics.HTTPMetrics
	Registry       *prometheus.Registry

	AuthService     auth.Service
	RegisterService auth.RegisterService
	ProductService  product.Service
	CategoryService category.Service
	BusinessService business.Service
	SocialService   social.Service
	MediaService    media.Service
	CartService     cartsvc.Service
	CheckoutService checkoutsvc.Service
	ContactService  contact.Service
	OrderService    orders.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis, deps.GCS))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, cfg.JWT, logg))
		if !cfg.App.IsProd() {
			r.With(middleware.Idempotency(deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.RegisterService, logg))
		}
	})

	// Public storefront surface. No auth; carts ride on the X-Cart-Token header.
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(deps.ProductService, logg))
		r.Get("/products/{slug}", controllers.GetProductBySlug(deps.ProductService, logg))
		r.Get("/categories", controllers.ListCategories(deps.CategoryService, logg))
		r.Get("/business", controllers.GetBusinessProfile(deps.BusinessService, logg))
		r.Get("/social-links", controllers.ListSocialLinks(deps.SocialService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.CartToken(logg))
			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(deps.CartService, logg))
				r.Post("/items", controllers.CartAddItem(deps.CartService, logg))
				r.Post("/items/{productID}/decrement", controllers.CartDecrementItem(deps.CartService, logg))
				r.Delete("/items/{productID}", controllers.CartRemoveItem(deps.CartService, logg))
				r.Delete("/", controllers.CartClear(deps.CartService, logg))
			})

			r.Get("/checkout/time-slots", controllers.CheckoutTimeSlots(deps.CheckoutService, logg))
			r.With(middleware.Idempotency(deps.Redis, logg)).Post("/checkout", controllers.CheckoutSubmit(deps.CheckoutService, logg))
		})

		r.With(middleware.Idempotency(deps.Redis, logg)).Post("/contact", controllers.ContactSubmit(deps.ContactService, logg))
	})

	// Back office. Every route needs a live session and an operator role.
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))
		r.Use(middleware.RequireRole(logg,
			"owner",
			"admin",
			"staff",
		))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminListProducts(deps.ProductService, logg))
			r.Post("/", controllers.AdminCreateProduct(deps.ProductService, logg))
			r.Patch("/{id}", controllers.AdminUpdateProduct(deps.ProductService, logg))
			r.Delete("/{id}", controllers.AdminDeleteProduct(deps.ProductService, logg))
			r.Post("/{id}/image", controllers.ProductAttachImage(deps.MediaService, logg))
			r.Delete("/{id}/image", controllers.ProductRemoveImage(deps.MediaService, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.AdminListCategories(deps.CategoryService, logg))
			r.Post("/", controllers.AdminCreateCategory(deps.CategoryService, logg))
			r.Patch("/{id}", controllers.AdminUpdateCategory(deps.CategoryService, logg))
			r.Delete("/{id}", controllers.AdminDeleteCategory(deps.CategoryService, logg))
		})

		r.Route("/business", func(r chi.Router) {
			r.Get("/", controllers.GetBusinessProfile(deps.BusinessService, logg))
			r.Put("/", controllers.AdminUpsertBusinessProfile(deps.BusinessService, logg))
		})

		r.Route("/social-links", func(r chi.Router) {
			r.Get("/", controllers.AdminListSocialLinks(deps.SocialService, logg))
			r.Post("/", controllers.AdminCreateSocialLink(deps.SocialService, logg))
			r.Patch("/{id}", controllers.AdminUpdateSocialLink(deps.SocialService, logg))
			r.Delete("/{id}", controllers.AdminDeleteSocialLink(deps.SocialService, logg))
		})

		r.Post("/media/presign", controllers.MediaPresign(deps.MediaService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(deps.OrderService, logg))
			r.Get("/{id}", controllers.AdminGetOrder(deps.OrderService, logg))
			r.Post("/{id}/status", controllers.AdminChangeOrderStatus(deps.OrderService, logg))
		})
	})

	return r
}
