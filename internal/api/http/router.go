package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/repair-tracker/internal/api/http/handlers"
	"github.com/spec-kit/repair-tracker/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Sessions    *handlers.SessionHandler
	Tickets     *handlers.TicketsHandler
	SessionGate *auth.SessionGate
}

// RegisterRoutes wires HTTP routes. Ticket intake is public; everything else
// that touches tickets sits behind the session gate.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Sessions.Login)
	authGroup.Post("/logout", cfg.SessionGate.Handle, cfg.Sessions.Logout)
	authGroup.Get("/me", cfg.SessionGate.Handle, cfg.Sessions.Me)

	tickets := app.Group("/tickets")
	tickets.Post("/", cfg.Tickets.Submit)

	// literal paths before the :id wildcard
	tickets.Get("/pending", cfg.SessionGate.Handle, cfg.Tickets.ListPending)
	tickets.Get("/resolved", cfg.SessionGate.Handle, cfg.Tickets.ListResolved)
	tickets.Get("/:id", cfg.SessionGate.Handle, cfg.Tickets.Get)
	tickets.Put("/:id/status", cfg.SessionGate.Handle, cfg.Tickets.Transition)
	tickets.Delete("/:id", cfg.SessionGate.Handle, cfg.Tickets.Delete)
}
