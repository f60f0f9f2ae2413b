// Package memory provides process-local repositories used for development
// and tests. Contents are lost on restart.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/coursehub/catalog-api/internal/core/domain"
)

type UserRepository struct {
	mu       sync.RWMutex
	byID     map[string]*domain.User
	byHandle map[string]string // lower(username) -> id
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:     make(map[string]*domain.User),
		byHandle: make(map[string]string),
	}
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byHandle[strings.ToLower(username)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(r.byID[id]), nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	handle := strings.ToLower(user.Username)
	if _, taken := r.byHandle[handle]; taken {
		return nil, domain.ErrUserExists
	}
	if _, taken := r.byID[user.ID]; taken {
		return nil, domain.ErrUserExists
	}

	stored := cloneUser(user)
	r.byID[stored.ID] = stored
	r.byHandle[handle] = stored.ID
	return cloneUser(stored), nil
}

// List returns users ordered by creation time, then username.
func (r *UserRepository) List(_ context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Username < out[j].Username
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// SetRole changes the stored role of a user. Tokens already issued keep the
// role they were signed with.
func (r *UserRepository) SetRole(_ context.Context, id string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}
