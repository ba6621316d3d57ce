// Package http wires the storefront API's HTTP surface: routing, middleware
// order, and per-endpoint handlers.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Raman-Agnihotri/Green-cart/internal/service"
	"github.com/Raman-Agnihotri/Green-cart/pkg/health"
	"github.com/Raman-Agnihotri/Green-cart/pkg/middleware"
)

const serviceName = "greencart-api"

// RouterConfig carries everything NewRouter needs.
type RouterConfig struct {
	Products      *service.ProductService
	Reviews       *service.ReviewService
	Wishlists     *service.WishlistService
	Notifications *service.NotificationService

	Health         *health.Handler
	TokenValidator middleware.TokenValidator
	CORS           middleware.CORSConfig

	// Rate limiting applies to authenticated write endpoints only.
	RateLimitRPS   int
	RateLimitBurst int

	Logger *slog.Logger
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware. Recovery outermost so panics in the other
	// middleware still produce a 500; tracing before metrics so the
	// duration histogram covers span creation.
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.RequestLogger(cfg.Logger))

	// Operational endpoints
	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	auth := middleware.Auth(cfg.TokenValidator)
	admin := middleware.RequireRole("admin")
	writeLimit := middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Logger)

	productHandler := NewProductHandler(cfg.Products, cfg.Logger)
	reviewHandler := NewReviewHandler(cfg.Reviews, cfg.Logger)
	wishlistHandler := NewWishlistHandler(cfg.Wishlists, cfg.Logger)
	notificationHandler := NewNotificationHandler(cfg.Notifications, cfg.Logger)

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", productHandler.ListProducts)
		r.Get("/{id}", productHandler.GetProduct)
		r.Get("/{productId}/reviews", reviewHandler.ListReviews)

		r.Group(func(r chi.Router) {
			r.Use(auth, admin)
			r.Post("/", productHandler.CreateProduct)
			r.Patch("/{id}/stock", productHandler.SetStock)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth, writeLimit)
			r.Post("/{productId}/reviews", reviewHandler.CreateReview)
		})
	})

	r.Route("/api/v1/reviews", func(r chi.Router) {
		r.Use(auth, writeLimit)
		r.Put("/{reviewId}", reviewHandler.UpdateReview)
		r.Delete("/{reviewId}", reviewHandler.DeleteReview)
	})

	r.Route("/api/v1/wishlist", func(r chi.Router) {
		r.Use(auth)
		r.Get("/", wishlistHandler.List)
		r.Get("/{productId}", wishlistHandler.Contains)

		r.Group(func(r chi.Router) {
			r.Use(writeLimit)
			r.Post("/{productId}", wishlistHandler.Add)
			r.Delete("/{productId}", wishlistHandler.Remove)
		})
	})

	r.Route("/api/v1/notifications", func(r chi.Router) {
		r.Use(auth)
		r.Get("/", notificationHandler.List)
		r.Post("/{id}/read", notificationHandler.MarkRead)
		r.Post("/read-all", notificationHandler.MarkAllRead)
		r.Delete("/{id}", notificationHandler.Delete)
	})

	return r
}
