package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/coursehub/catalog-api/internal/core/domain"
	"github.com/coursehub/catalog-api/internal/infrastructure/db/memory"
)

// fakeBackend is an in-process stand-in for the go-redis client.
type fakeBackend struct {
	data    map[string]string
	ttls    map[string]time.Duration
	failGet bool
	gets    int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeBackend) Get(_ context.Context, key string) *redis.StringCmd {
	f.gets++
	if f.failGet {
		return redis.NewStringResult("", errors.New("connection refused"))
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeBackend) Set(_ context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeBackend) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

// countingRepo counts FindByID calls reaching the store.
type countingRepo struct {
	*memory.CourseRepository
	finds int
}

func (c *countingRepo) FindByID(ctx context.Context, id int64) (*domain.Course, error) {
	c.finds++
	return c.CourseRepository.FindByID(ctx, id)
}

func setup(t *testing.T) (*CachedCourseRepository, *countingRepo, *fakeBackend, *domain.Course) {
	t.Helper()
	inner := &countingRepo{CourseRepository: memory.NewCourseRepository()}
	backend := newFakeBackend()
	cache := NewCachedCourseRepository(inner, backend, time.Minute, zerolog.Nop())

	created, err := cache.Create(context.Background(), &domain.Course{Title: "Go"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return cache, inner, backend, created
}

func TestFindByID_ReadsThrough(t *testing.T) {
	cache, inner, backend, created := setup(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := cache.FindByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if got.Title != "Go" {
			t.Fatalf("expected title Go, got %q", got.Title)
		}
	}

	if inner.finds != 1 {
		t.Fatalf("expected 1 store read, got %d", inner.finds)
	}
	if backend.ttls[courseKey(created.ID)] != time.Minute {
		t.Fatalf("expected entry cached with 1m TTL, got %s", backend.ttls[courseKey(created.ID)])
	}
}

func TestUpdate_EvictsEntry(t *testing.T) {
	cache, inner, _, created := setup(t)
	ctx := context.Background()

	if _, err := cache.FindByID(ctx, created.ID); err != nil {
		t.Fatalf("warm: %v", err)
	}

	created.Title = "Go 101"
	if _, err := cache.Update(ctx, created); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := cache.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Title != "Go 101" {
		t.Fatalf("expected fresh title after update, got %q", got.Title)
	}
	if inner.finds != 2 {
		t.Fatalf("expected store read after eviction, got %d reads", inner.finds)
	}
}

func TestDelete_EvictsEntry(t *testing.T) {
	cache, _, backend, created := setup(t)
	ctx := context.Background()

	if _, err := cache.FindByID(ctx, created.ID); err != nil {
		t.Fatalf("warm: %v", err)
	}
	if err := cache.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := backend.data[courseKey(created.ID)]; ok {
		t.Fatalf("expected cache entry to be evicted")
	}

	_, err := cache.FindByID(ctx, created.ID)
	if !errors.Is(err, domain.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestFindByID_BackendFailureFallsBackToStore(t *testing.T) {
	cache, inner, backend, created := setup(t)
	backend.failGet = true

	got, err := cache.FindByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("expected store fallback, got %v", err)
	}
	if got.ID != created.ID || inner.finds != 1 {
		t.Fatalf("expected one store read returning course %d", created.ID)
	}
}

func TestFindByID_MissingIsNotCached(t *testing.T) {
	cache, _, backend, _ := setup(t)

	_, err := cache.FindByID(context.Background(), 999)
	if !errors.Is(err, domain.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
	if _, ok := backend.data[courseKey(999)]; ok {
		t.Fatalf("missing course must not be cached")
	}
}
