package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/config"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Health       *handlers.HealthHandler
	Dashboard    *handlers.DashboardHandler
	Property     *handlers.PropertyHandler
	Tenant       *handlers.TenantHandler
	Manager      *handlers.ManagerHandler
	Payment      *handlers.PaymentHandler
	Notification *handlers.NotificationHandler
}

func Setup(app *fiber.App, cfg *config.Config, h Handlers) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// General API rate limiter per IP
	api.Use(limiter.New(limiter.Config{
		Max:               cfg.RateLimit,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)

	jwt := middleware.JWTProtected(cfg)
	id := middleware.Identity()
	staff := middleware.RoleRequired(session.RoleSuperAdmin, session.RoleManager)
	admin := middleware.RoleRequired(session.RoleSuperAdmin)

	api.Post("/auth/logout", jwt, h.Auth.Logout)
	api.Get("/auth/me", jwt, id, h.Auth.Me)

	// Everything below requires a verified identity. The group is registered
	// after the public routes so they are matched first.
	p := api.Group("", jwt, id)

	p.Get("/sync", h.Health.Sync)
	p.Get("/dashboard", h.Dashboard.Dashboard)
	p.Get("/ledger", h.Dashboard.Ledger)

	p.Get("/properties", staff, h.Property.ListProperties)
	p.Post("/properties", staff, h.Property.CreateProperty)
	p.Get("/properties/:id", staff, h.Property.GetProperty)
	p.Put("/properties/:id", staff, h.Property.UpdateProperty)
	p.Delete("/properties/:id", staff, h.Property.DeleteProperty)

	p.Get("/units", staff, h.Property.ListUnits)
	p.Post("/units", staff, h.Property.CreateUnit)
	p.Get("/units/:id", staff, h.Property.GetUnit)
	p.Put("/units/:id", staff, h.Property.UpdateUnit)
	p.Delete("/units/:id", staff, h.Property.DeleteUnit)

	p.Get("/tenants", staff, h.Tenant.List)
	p.Post("/tenants", staff, h.Tenant.Create)
	p.Get("/tenants/:id", h.Tenant.Get)
	p.Get("/tenants/:id/ledger", h.Dashboard.TenantLedger)
	p.Put("/tenants/:id", staff, h.Tenant.Update)
	p.Delete("/tenants/:id", staff, h.Tenant.Delete)
	p.Post("/tenants/:id/assign", staff, h.Tenant.Assign)
	p.Post("/tenants/:id/vacate", staff, h.Tenant.Vacate)

	p.Get("/managers", admin, h.Manager.List)
	p.Post("/managers", admin, h.Manager.Create)
	p.Get("/managers/:id", admin, h.Manager.Get)
	p.Put("/managers/:id", admin, h.Manager.Update)
	p.Delete("/managers/:id", admin, h.Manager.Delete)

	p.Get("/payments", h.Payment.List)
	p.Post("/payments", h.Payment.Submit)
	p.Put("/payments/:id/review", staff, h.Payment.Review)
	p.Delete("/payments/:id", admin, h.Payment.Delete)

	p.Get("/notifications", h.Notification.List)
	p.Post("/notifications", staff, h.Notification.Create)
	p.Put("/notifications/:id/read", h.Notification.MarkRead)
	p.Delete("/notifications/:id", h.Notification.Delete)

	p.Post("/admin/accounts", admin, h.Auth.CreateAccount)
}
