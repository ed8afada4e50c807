package api

import (
	"sync"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/user-service/docs"
	"github.com/99minutos/user-service/internal/api/handler"
	"github.com/99minutos/user-service/internal/api/middleware"
	"github.com/99minutos/user-service/internal/core/ports"
	infrahttp "github.com/99minutos/user-service/internal/infrastructure/http"
	"github.com/99minutos/user-service/internal/metrics"
)

const (
	bodyLimit   = "64K"
	metricsPath = "/metrics"
)

// httpMetrics registers the echoprometheus collectors with the default
// registry once per process; every router built afterwards shares them.
var httpMetrics = sync.OnceValue(func() echo.MiddlewareFunc {
	return echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace: metrics.Namespace,
		Skipper: func(c echo.Context) bool {
			return c.Path() == metricsPath
		},
	})
})

// Dependencies is everything the HTTP layer needs, constructed once at startup.
type Dependencies struct {
	Users ports.UserService
	// HealthChecks are pinged by the readiness endpoint, keyed by dependency name.
	HealthChecks map[string]ports.Pinger
	Log          zerolog.Logger
	// ExposeUserList mounts the diagnostic GET /user route.
	ExposeUserList bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(httpMetrics())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.BodyLimit(bodyLimit))

	// --- Health, metrics and docs ---
	infrahttp.RegisterHealthRoutes(e, deps.HealthChecks, deps.Log)
	e.GET(metricsPath, echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- User routes ---
	userHandler := handler.NewUserHandler(deps.Users)
	lookup := middleware.UserLookup(deps.Users, "userId")

	users := e.Group("/user")
	users.POST("", userHandler.Create)
	users.POST("/search", userHandler.Search)
	users.PUT("/:userId", userHandler.Update, lookup)
	users.DELETE("/:userId", userHandler.Delete, lookup)
	if deps.ExposeUserList {
		users.GET("", userHandler.List)
	}

	return e
}
