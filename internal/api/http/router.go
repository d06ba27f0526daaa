package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/jwt-demo/internal/api/http/handlers"
	"github.com/spec-kit/jwt-demo/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Secret         *handlers.SecretHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/login", cfg.Auth.Login)

	app.Get("/secret", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Secret.Get)
}
