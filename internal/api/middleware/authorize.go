package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/coursehub/catalog-api/internal/core/auth"
	"github.com/coursehub/catalog-api/internal/core/domain"
	"github.com/coursehub/catalog-api/internal/pkg/metrics"
)

// Authorize guards a route with the access policy for op. It is meant for
// routes that have no service call behind them; service-backed routes are
// checked inside the service.
func Authorize(op domain.Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := auth.Authorize(IdentityFrom(c), op)
			metrics.ObserveDecision(op, err)
			if err != nil {
				return err
			}
			return next(c)
		}
	}
}
