package server

import (
	"net/http"
	"time"

	"grocery-manager/internal/config"
	"grocery-manager/internal/handlers"
	"grocery-manager/internal/middleware"
	"grocery-manager/internal/repositories"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the collaborators the list backend routes need
type Dependencies struct {
	DB          handlers.HealthChecker
	ItemRepo    repositories.ItemRepositoryInterface
	TitleRepo   repositories.TitleRepositoryInterface
	RateLimiter *middleware.RateLimiter
	Gatherer    prometheus.Gatherer
}

// NewRouter builds the echo instance serving the five collections plus
// /health and /metrics.
func NewRouter(cfg *config.Config, deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler

	e.Use(middleware.RequestID())
	e.Use(middleware.PanicRecovery())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  cfg.Server.CORSAllowOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderContentType, echo.HeaderAccept, middleware.TraceIDHeader},
		ExposeHeaders: []string{middleware.TraceIDHeader},
		MaxAge:        int((12 * time.Hour).Seconds()),
	}))
	if deps.RateLimiter != nil {
		e.Use(deps.RateLimiter.Middleware())
	}

	InitializeRoutes(e, deps)

	return e
}

// InitializeRoutes registers every route on e
func InitializeRoutes(e *echo.Echo, deps Dependencies) {
	e.GET("/health", handlers.NewHealthCheckHandler(deps.DB).HealthCheck)

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	handlers.NewCollectionHandler(deps.ItemRepo, deps.TitleRepo).Register(e.Group(""))
}
