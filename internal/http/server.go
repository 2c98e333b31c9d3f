package http

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"task-manager.com/task-manager/internal/http/docs"
	middleware "task-manager.com/task-manager/internal/http/middlewares"
	"task-manager.com/task-manager/internal/limiter"
	"task-manager.com/task-manager/internal/logger"
	"task-manager.com/task-manager/internal/services"
	"task-manager.com/task-manager/internal/telemetry"
)

type ServerDeps struct {
	TaskService *services.TaskService
	Limiter     limiter.Limiter
	Metrics     *telemetry.Metrics
	Logger      *logger.Logger
	Docs        docs.Info
}

// NewServer wires the echo instance: global middleware, the central error
// handler, task routes and documentation. Limiter and Metrics are optional.
func NewServer(deps ServerDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewErrorHandler(deps.Logger)

	e.Use(echomw.Recover())
	e.Use(echo.WrapMiddleware(otelhttp.NewMiddleware("task-manager")))
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	if deps.Metrics != nil {
		e.Use(middleware.RequestMetrics(deps.Metrics))
	}
	e.Use(middleware.RequestLogger(deps.Logger))

	var apiMiddleware []echo.MiddlewareFunc
	if deps.Limiter != nil {
		apiMiddleware = append(apiMiddleware, middleware.RateLimiter(deps.Limiter, deps.Logger))
	}

	Register(e, NewHandler(deps.TaskService), deps.Docs, apiMiddleware...)

	return e
}
