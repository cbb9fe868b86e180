package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/ticket-portal/internal/api/http/handlers"
	"github.com/spec-kit/ticket-portal/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Session *handlers.SessionHandler
	Tickets *handlers.TicketsHandler
	Metrics *observability.Metrics
}

// RegisterRoutes wires the portal routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))

	sessionGroup := app.Group("/session")
	sessionGroup.Get("", cfg.Session.State)
	sessionGroup.Post("/login", cfg.Session.Login)
	sessionGroup.Post("/register", cfg.Session.Register)
	sessionGroup.Post("/password", cfg.Session.ChangePassword)
	sessionGroup.Delete("", cfg.Session.Logout)

	tickets := app.Group("/tickets")
	tickets.Get("/my", cfg.Tickets.MyTickets)
	tickets.Get("/my/:id", cfg.Tickets.MyTicket)
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.Overview)
	tickets.Get("/:id", cfg.Tickets.Ticket)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)
}
