package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/coursehub/catalog-api/internal/core/domain"
)

// TokenTTL is the lifetime of every issued token. It is not configurable.
const TokenTTL = 3 * time.Hour

// Claims is the JWT payload carried by access tokens.
type Claims struct {
	UserID   string      `json:"id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 tokens signed with a single
// process-wide key. Tokens are stateless: validity depends only on the
// signature and the expiry.
type TokenService struct {
	secret []byte
	now    func() time.Time
	parser *jwt.Parser
}

type TokenOption func(*TokenService)

// WithClock replaces time.Now for both issuance and verification.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewTokenService(secret []byte, opts ...TokenOption) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, errors.New("token service: signing secret is empty")
	}

	s := &TokenService{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	)
	return s, nil
}

// Issue signs a token for id and returns it with its expiry.
func (s *TokenService) Issue(id domain.Identity) (string, time.Time, error) {
	if id.IsAnonymous() {
		return "", time.Time{}, errors.New("token service: cannot issue a token for an anonymous identity")
	}

	now := s.now()
	claims := Claims{
		UserID:   id.ID,
		Username: id.Username,
		Role:     id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiryFor(now)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims.ExpiresAt.Time, nil
}

// Verify checks the signature and expiry of raw and decodes its identity.
// Every failure wraps domain.ErrTokenInvalid.
func (s *TokenService) Verify(raw string) (domain.Identity, error) {
	claims := &Claims{}
	if _, err := s.parser.ParseWithClaims(raw, claims, s.keyFunc); err != nil {
		return domain.Anonymous, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}

	if claims.UserID == "" {
		return domain.Anonymous, fmt.Errorf("%w: missing subject", domain.ErrTokenInvalid)
	}
	if !claims.Role.Valid() {
		return domain.Anonymous, fmt.Errorf("%w: unknown role %q", domain.ErrTokenInvalid, claims.Role)
	}

	return domain.Identity{
		ID:       claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}

// expiryFor rounds issuedAt+TokenTTL up to the next whole second. NumericDate
// truncates to seconds, which would otherwise cut up to a second off the
// lifetime of a token issued mid-second.
func expiryFor(issuedAt time.Time) time.Time {
	exp := issuedAt.Add(TokenTTL)
	if whole := exp.Truncate(time.Second); whole.Before(exp) {
		return whole.Add(time.Second)
	}
	return exp
}

func (s *TokenService) keyFunc(_ *jwt.Token) (interface{}, error) {
	return s.secret, nil
}
