package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursehub/catalog-api/internal/core/domain"
)

func TestUserDocument_LowercasesUsernameKey(t *testing.T) {
	doc := toUserDocument(&domain.User{ID: "u1", Username: "Alice", Role: domain.RoleAdmin})

	assert.Equal(t, "alice", doc.UsernameKey)
	assert.Equal(t, "Alice", doc.Username)
	assert.Equal(t, "admin", doc.Role)

	back := doc.toDomain()
	assert.Equal(t, "Alice", back.Username)
	assert.Equal(t, domain.RoleAdmin, back.Role)
}

func TestUsernameIndexIsUnique(t *testing.T) {
	idx := usernameIndex()
	require.NotNil(t, idx.Options)
	require.NotNil(t, idx.Options.Unique)
	assert.True(t, *idx.Options.Unique)
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("CATALOG_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("CATALOG_TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	store, err := Connect(ctx, Config{URI: uri, Database: "catalog_it_" + uuid.NewString()[:8]})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.DB.Drop(ctx)
		_ = store.Close(ctx)
	})
	require.NoError(t, store.EnsureIndexes(ctx))
	return store
}

func TestRepositories_Integration(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	users := NewUserRepository(store.DB)
	_, err := users.Create(ctx, &domain.User{ID: uuid.NewString(), Username: "alice", Role: domain.RoleRegular, CreatedAt: time.Now()})
	require.NoError(t, err)
	_, err = users.Create(ctx, &domain.User{ID: uuid.NewString(), Username: "ALICE", Role: domain.RoleRegular, CreatedAt: time.Now()})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	courses := NewCourseRepository(store.DB)
	first, err := courses.Create(ctx, &domain.Course{Title: "Go"})
	require.NoError(t, err)
	second, err := courses.Create(ctx, &domain.Course{Title: "SQL"})
	require.NoError(t, err)
	assert.Equal(t, first.ID+1, second.ID)

	require.NoError(t, courses.Delete(ctx, first.ID))
	_, err = courses.FindByID(ctx, first.ID)
	assert.ErrorIs(t, err, domain.ErrCourseNotFound)
}
