// Package pastoverde собирает HTTP API магазина: маршруты и зависимости.
package pastoverde

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	// Сгенерированная документация swagger.
	_ "github.com/magabrotheeeer/pasto-verde/docs"
	"github.com/magabrotheeeer/pasto-verde/internal/http/handlers/admin"
	"github.com/magabrotheeeer/pasto-verde/internal/http/handlers/auth"
	"github.com/magabrotheeeer/pasto-verde/internal/http/handlers/driver"
	"github.com/magabrotheeeer/pasto-verde/internal/http/handlers/health"
	"github.com/magabrotheeeer/pasto-verde/internal/http/handlers/orders"
	"github.com/magabrotheeeer/pasto-verde/internal/http/handlers/storefront"
	"github.com/magabrotheeeer/pasto-verde/internal/http/handlers/webhook"
	"github.com/magabrotheeeer/pasto-verde/internal/http/middlewarectx"
	"github.com/magabrotheeeer/pasto-verde/internal/models"
)

// Handlers обработчики, которые регистрирует RegisterRoutes.
type Handlers struct {
	Auth       *auth.Handler
	Storefront *storefront.Handler
	Orders     *orders.Handler
	Webhook    *webhook.Handler
	Driver     *driver.Handler
	Admin      *admin.Handler
	Health     *health.Handler
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, h Handlers,
	sessions middlewarectx.SessionValidator, limiter *middlewarectx.RateLimiter) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.MetricsMiddleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/callback", h.Auth.Callback)
		r.Get("/catalog/plans", h.Storefront.Plans)
		r.Get("/catalog/zones", h.Storefront.Zones)
		r.Post("/payments/webhook", h.Webhook.ServeHTTP)
		r.Get("/health", h.Health.ServeHTTP)

		// Группа с аутентификацией по сессии
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(sessions, logger))
			r.Use(middlewarectx.RateLimitMiddleware(limiter, logger))

			r.Post("/auth/logout", h.Auth.Logout)
			r.Get("/profile", h.Auth.Profile)
			r.Put("/profile", h.Auth.UpdateProfile)
			r.Get("/geocode", h.Storefront.Geocode)

			r.Post("/orders/quote", h.Orders.Quote)
			r.Post("/orders", h.Orders.Checkout)
			r.Get("/orders", h.Orders.List)
			r.Get("/orders/{id}", h.Orders.Get)
			r.Post("/orders/{id}/payment", h.Orders.ConfirmPayment)

			r.Route("/driver", func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(logger, models.RoleDriver, models.RoleAdmin))
				r.Get("/orders", h.Driver.List)
				r.Put("/orders/{id}/delivered", h.Driver.Deliver)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(logger, models.RoleAdmin))
				r.Get("/overview", h.Admin.Overview)
				r.Get("/analytics", h.Admin.Analytics)

				r.Get("/orders", h.Admin.ListOrders)
				r.Post("/orders", h.Admin.CreateOrder)
				r.Put("/orders/{id}/status", h.Admin.UpdateOrderStatus)

				r.Get("/products", h.Admin.ListProducts)
				r.Post("/products", h.Admin.CreateProduct)
				r.Put("/products/{id}", h.Admin.UpdateProduct)
				r.Delete("/products/{id}", h.Admin.RemoveProduct)

				r.Get("/users", h.Admin.ListUsers)
				r.Put("/users/{id}", h.Admin.UpdateUser)

				r.Get("/subscriptions", h.Admin.ListSubscriptions)
				r.Delete("/subscriptions/{id}", h.Admin.DeactivateSubscription)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
