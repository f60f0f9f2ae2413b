package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursehub/catalog-api/internal/core/domain"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}

func TestInitialMigrationEmbedded(t *testing.T) {
	for _, table := range requiredTables {
		assert.Contains(t, initialMigrationSQL, "CREATE TABLE IF NOT EXISTS "+table)
	}
}

func TestPoolConfig(t *testing.T) {
	pc, err := poolConfig(Config{URL: "postgres://u:p@db.internal:5432/catalog", MaxConns: 8, MinConns: 2})
	require.NoError(t, err)
	assert.Equal(t, int32(8), pc.MaxConns)
	assert.Equal(t, int32(2), pc.MinConns)
	assert.Equal(t, "db.internal", pc.ConnConfig.Host)
	assert.Equal(t, "catalog", pc.ConnConfig.Database)

	pc, err = poolConfig(Config{URL: "postgres://u:p@localhost/catalog", MaxConns: 2, MinConns: 5})
	require.NoError(t, err)
	assert.LessOrEqual(t, pc.MinConns, pc.MaxConns, "min above max is ignored")

	_, err = poolConfig(Config{URL: "postgres://u:p@localhost:notaport/catalog"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestEnsureSchema_WithoutPool(t *testing.T) {
	var db *DB
	assert.ErrorIs(t, db.EnsureSchema(context.Background()), errNoPool)
	assert.ErrorIs(t, (&DB{}).EnsureSchema(context.Background()), errNoPool)
	assert.ErrorIs(t, (&DB{}).Ping(context.Background()), errNoPool)
}

// openTestDB connects to CATALOG_TEST_DATABASE_URL or skips the test.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	url := os.Getenv("CATALOG_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("CATALOG_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := Connect(ctx, Config{URL: url, MaxConns: 2}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.EnsureSchema(ctx))
	return db
}

func TestUserRepository_Integration(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db.Pool)
	ctx := context.Background()

	name := "it-" + uuid.NewString()[:8]
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     name,
		PasswordHash: "digest",
		Role:         domain.RoleRegular,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
	created, err := repo.Create(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, user.ID, created.ID)

	_, err = repo.Create(ctx, &domain.User{ID: uuid.NewString(), Username: name, PasswordHash: "x", Role: domain.RoleRegular, CreatedAt: time.Now()})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	found, err := repo.FindByUsername(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, "digest", found.PasswordHash)

	_, err = repo.FindByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestCourseRepository_Integration(t *testing.T) {
	db := openTestDB(t)
	repo := NewCourseRepository(db.Pool)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	created, err := repo.Create(ctx, &domain.Course{Title: "Go", DurationHours: 4, CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	created.Title = "Go 101"
	updated, err := repo.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "Go 101", updated.Title)

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), domain.ErrCourseNotFound)

	_, err = repo.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrCourseNotFound)
}
