package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-account-service/internal/api/http/handlers"
	"github.com/spec-kit/user-account-service/internal/auth"
	"github.com/spec-kit/user-account-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Auth endpoints are public; everything
// under /api/users passes through the authentication filter first and a role
// guard second.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)

	users := api.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/me", auth.RequireAuthenticated(), cfg.Users.Me)
	users.Get("/", auth.RequireRole(domain.RoleAdmin), cfg.Users.List)
	users.Get("/:id", auth.RequireSelfOrRole("id", domain.RoleAdmin), cfg.Users.GetByID)
	users.Put("/:id/status", auth.RequireRole(domain.RoleAdmin), cfg.Users.UpdateStatus)
	users.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Users.Delete)
}
