package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Metrics        *handlers.MetricsHandler
	Users          *handlers.UsersHandler
	Dashboard      *handlers.DashboardHandler
	Tickets        *handlers.TicketsHandler
	Profile        *handlers.ProfileHandler
	Staff          *handlers.StaffTicketsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Get)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Users.Logout)
	authGroup.Get("/session", cfg.AuthMiddleware.Handle, cfg.Users.Session)

	userOnly := auth.RequireRole(domain.RoleUser)
	app.Get("/dashboard", cfg.AuthMiddleware.Handle, userOnly, cfg.Dashboard.Get)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, userOnly)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/prompt", cfg.Tickets.Prompt)
	tickets.Post("/:id/confirm-closure", cfg.Tickets.ConfirmClosure)
	tickets.Post("/:id/rating", cfg.Tickets.Rate)

	profile := app.Group("/profile", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	profile.Get("/", cfg.Profile.Get)
	profile.Put("/", cfg.Profile.Update)

	staff := app.Group("/staff/requests", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleEmployee, domain.RoleAdmin))
	staff.Get("/", cfg.Staff.ListRequests)
	staff.Post("/:id/connect", cfg.Staff.Connect)
	staff.Post("/:id/request-closure", cfg.Staff.RequestClosure)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Post("/assignments", cfg.Admin.AssignTicket)
}
