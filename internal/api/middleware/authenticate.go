package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coursehub/catalog-api/internal/core/domain"
)

const identityKey = "identity"

// RequestAuthenticator resolves the caller of a request.
type RequestAuthenticator interface {
	Authenticate(r *http.Request) domain.Identity
}

// Authenticate stores the caller identity on the context and always calls
// next. A missing or rejected token leaves the caller anonymous; routes that
// need a caller enforce it through the access policy.
func Authenticate(a RequestAuthenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			SetIdentity(c, a.Authenticate(c.Request()))
			return next(c)
		}
	}
}

// IdentityFrom returns the identity stored by Authenticate, or
// domain.Anonymous when none was stored.
func IdentityFrom(c echo.Context) domain.Identity {
	id, ok := c.Get(identityKey).(domain.Identity)
	if !ok {
		return domain.Anonymous
	}
	return id
}

func SetIdentity(c echo.Context, id domain.Identity) {
	c.Set(identityKey, id)
}
