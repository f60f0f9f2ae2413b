package handler

import (
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/coursehub/catalog-api/internal/api/middleware"
	"github.com/coursehub/catalog-api/internal/core/domain"
)

// caller returns the identity resolved by the Authenticate middleware.
func caller(c echo.Context) domain.Identity {
	return middleware.IdentityFrom(c)
}

// bindAndValidate decodes the body into req and runs struct validation.
// Malformed payloads are a 400; validation failures wrap ErrInvalidInput.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}

func courseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid course id")
	}
	return id, nil
}

// jsonFieldName reports validation errors by their JSON key.
func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}
