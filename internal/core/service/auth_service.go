package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/coursehub/catalog-api/internal/core/auth"
	"github.com/coursehub/catalog-api/internal/core/domain"
	"github.com/coursehub/catalog-api/internal/core/ports"
	"github.com/coursehub/catalog-api/internal/pkg/metrics"
)

// TokenIssuer signs tokens for authenticated users.
type TokenIssuer interface {
	Issue(id domain.Identity) (string, time.Time, error)
}

// AuthService implements registration and login.
type AuthService struct {
	repo   ports.UserRepository
	hasher auth.Hasher
	tokens TokenIssuer
	logger zerolog.Logger

	// distinctLoginErrors reports an unknown username as ErrUserNotFound
	// instead of ErrInvalidCredentials, for clients that rely on it.
	distinctLoginErrors bool

	// allowAdminSignup lets Register create admin accounts. Off by default.
	allowAdminSignup bool
	now              func() time.Time
}

type AuthOption func(*AuthService)

func WithDistinctLoginErrors(enabled bool) AuthOption {
	return func(s *AuthService) { s.distinctLoginErrors = enabled }
}

func WithAdminSignup(enabled bool) AuthOption {
	return func(s *AuthService) { s.allowAdminSignup = enabled }
}

func WithAuthClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

func NewAuthService(repo ports.UserRepository, hasher auth.Hasher, tokens TokenIssuer, logger zerolog.Logger, opts ...AuthOption) *AuthService {
	s := &AuthService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if err := authorize(s.logger, domain.Anonymous, domain.OpRegister); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}
	if len(input.Password) > auth.MaxPasswordBytes {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: password must be at most %d bytes", domain.ErrInvalidInput, auth.MaxPasswordBytes)
	}

	role := domain.RoleRegular
	if input.Role != "" {
		role = domain.Role(strings.ToLower(strings.TrimSpace(input.Role)))
	}
	if !role.Valid() {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, input.Role)
	}
	if role == domain.RoleAdmin && !s.allowAdminSignup {
		metrics.RegistrationsTotal.WithLabelValues("forbidden").Inc()
		s.logger.Warn().Str("username", username).Msg("admin self-registration refused")
		return nil, fmt.Errorf("%w: admin accounts cannot be self-registered", domain.ErrForbidden)
	}

	digest, err := s.hasher.Hash(input.Password)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: digest,
		Role:         role,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.RegistrationsTotal.WithLabelValues("exists").Inc()
			return nil, domain.ErrUserExists
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Str("user_id", created.ID).Str("username", created.Username).Str("role", string(created.Role)).Msg("user registered")
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if err := authorize(s.logger, domain.Anonymous, domain.OpLogin); err != nil {
		return nil, err
	}

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("not_found").Inc()
			if s.distinctLoginErrors {
				return nil, domain.ErrUserNotFound
			}
			return nil, domain.ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}

	if !auth.VerifyCredential(s.hasher, user.PasswordHash, password) {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.Identity())
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user logged in")

	return &ports.LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
