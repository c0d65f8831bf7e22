package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	adapterlogger "smart-attendance/internal/adapters/logger"
	"smart-attendance/internal/ports"
)

func RequestLogger(logger ports.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			started := time.Now()
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			if rid != "" {
				c.SetRequest(c.Request().WithContext(
					adapterlogger.WithRequestID(c.Request().Context(), rid)))
			}
			err := next(c)
			duration := time.Since(started)
			ctx := c.Request().Context()
			logger.Info(ctx, "http request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"route_pattern", c.Path(),
				"status", c.Response().Status,
				"duration", duration.String(),
			)
			return err
		}
	}
}
