package ports

import (
	"context"

	"github.com/coursehub/catalog-api/internal/core/domain"
)

// UserRepository persists registered users. Implementations return
// domain.ErrUserNotFound for missing users and domain.ErrUserExists on a
// duplicate username.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}
