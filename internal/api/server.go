// Package api serves the availability grid and the appointment dry-run over HTTP.
// It is read-only with respect to availability: edits go through the bot.
package api

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// NewServer builds the echo instance with every route registered.
func NewServer(handler *Handler, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(requestLogger(logger))

	e.GET("/health", handler.Health)
	handler.RegisterRoutes(e.Group("/priests"))

	return e
}

// requestLogger logs one line per request with zap.
func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)
			if err != nil {
				// let the error handler write the status before logging it
				c.Error(err)
			}

			fields := []zap.Field{
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("remote_ip", c.RealIP()),
			}
			if err != nil {
				logger.Warn("request", append(fields, zap.Error(err))...)
			} else {
				logger.Info("request", fields...)
			}
			return nil
		}
	}
}
