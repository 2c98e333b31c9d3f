package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"task-manager.com/task-manager/internal/logger"
)

// RequestLogger logs one line per request once the error handler has set
// the final status.
func RequestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []interface{}{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
				"remote_ip", v.RemoteIP,
			}

			switch {
			case v.Status >= 500:
				log.Errorw("http_request", append(fields, "error", v.Error)...)
			case v.Status >= 400:
				log.Warnw("http_request", fields...)
			default:
				log.Infow("http_request", fields...)
			}
			return nil
		},
	})
}
