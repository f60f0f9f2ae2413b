package auth

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/coursehub/catalog-api/internal/core/domain"
)

// TokenVerifier decodes a bearer token into an identity.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}

// Authenticator resolves the caller of a request. It never fails: a missing,
// malformed or rejected token yields domain.Anonymous.
type Authenticator struct {
	verifier TokenVerifier
	log      zerolog.Logger
}

func NewAuthenticator(verifier TokenVerifier, log zerolog.Logger) *Authenticator {
	return &Authenticator{verifier: verifier, log: log}
}

func (a *Authenticator) Authenticate(r *http.Request) domain.Identity {
	return a.FromHeader(r.Header.Get("Authorization"))
}

// FromHeader resolves an Authorization header value.
func (a *Authenticator) FromHeader(header string) domain.Identity {
	token, ok := BearerToken(header)
	if !ok {
		return domain.Anonymous
	}

	id, err := a.verifier.Verify(token)
	if err != nil {
		a.log.Debug().Err(err).Msg("bearer token rejected, continuing as anonymous")
		return domain.Anonymous
	}
	return id
}

// BearerToken extracts the token from a "Bearer <token>" header value.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}
