package middleware

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/coursehub/catalog-api/internal/api/httperror"
)

// RequestLogger writes one zerolog event per request.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogRoutePath: true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			status := v.Status
			if v.Error != nil && !c.Response().Committed {
				status, _ = httperror.Resolve(v.Error)
			}

			event := log.Info()
			switch {
			case status >= 500:
				event = log.Error().Err(v.Error)
			case status >= 400:
				event = log.Warn()
			}

			id := IdentityFrom(c)
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("route", v.RoutePath).
				Int("status", status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("user_id", id.ID).
				Msg("request")
			return nil
		},
	})
}
