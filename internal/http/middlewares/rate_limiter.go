package middleware

import (
	"github.com/labstack/echo/v4"

	apperrors "task-manager.com/task-manager/internal/errors"
	"task-manager.com/task-manager/internal/limiter"
	"task-manager.com/task-manager/internal/logger"
)

// RateLimiter rejects clients that exceed the limiter's window. When the
// limiter itself fails the request is let through.
func RateLimiter(l limiter.Limiter, log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()

			allowed, err := l.Allow(c.Request().Context(), key)
			if err != nil {
				log.Warnw("rate_limiter_unavailable", "client", key, "error", err)
				return next(c)
			}

			if !allowed {
				return apperrors.ErrRateLimited
			}

			return next(c)
		}
	}
}
