package http

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/user-service/internal/core/ports"
	"github.com/99minutos/user-service/internal/infrastructure/http/handlers"
)

// RegisterHealthRoutes mounts the liveness and readiness checks on e.
func RegisterHealthRoutes(e *echo.Echo, deps map[string]ports.Pinger, log zerolog.Logger) {
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps, log)

	// liveness: is the process alive?
	e.GET("/", healthHandler.Liveness)
	e.GET("/health", healthHandler.Liveness)

	// readiness: are dependencies up?
	e.GET("/health/ready", healthDepsHandler.Readiness)
}
