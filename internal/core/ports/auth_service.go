package ports

import (
	"context"
	"time"

	"github.com/coursehub/catalog-api/internal/core/domain"
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Username string
	Password string
	Role     string // empty defaults to regular
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}

// UserService exposes the read side of the user directory.
type UserService interface {
	ListUsers(ctx context.Context, caller domain.Identity) ([]*domain.User, error)
	GetUser(ctx context.Context, caller domain.Identity, id string) (*domain.User, error)
}
