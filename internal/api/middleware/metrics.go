package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/coursehub/catalog-api/internal/api/httperror"
	"github.com/coursehub/catalog-api/internal/pkg/metrics"
)

// Metrics records request counts and latencies labelled by route template,
// so /v1/courses/1 and /v1/courses/2 share a series.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method

			metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusOf(c, err))).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// statusOf predicts the status the error handler will write when the
// response has not been committed yet.
func statusOf(c echo.Context, err error) int {
	if err == nil || c.Response().Committed {
		if s := c.Response().Status; s != 0 {
			return s
		}
		return http.StatusOK
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	code, _ := httperror.Resolve(err)
	return code
}
