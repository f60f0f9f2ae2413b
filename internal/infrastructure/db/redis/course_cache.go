package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/coursehub/catalog-api/internal/core/domain"
	"github.com/coursehub/catalog-api/internal/core/ports"
	"github.com/coursehub/catalog-api/internal/pkg/metrics"
)

const defaultCourseTTL = 5 * time.Minute

// Backend is the subset of the go-redis client the course cache needs.
type Backend interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CachedCourseRepository wraps a CourseRepository with a read-through cache
// on FindByID. Updates and deletes evict the entry after the write
// succeeds. Cache failures degrade to the underlying repository.
// Key format: course:<id>
type CachedCourseRepository struct {
	inner   ports.CourseRepository
	backend Backend
	ttl     time.Duration
	log     zerolog.Logger
}

func NewCachedCourseRepository(inner ports.CourseRepository, backend Backend, ttl time.Duration, log zerolog.Logger) *CachedCourseRepository {
	if ttl <= 0 {
		ttl = defaultCourseTTL
	}
	return &CachedCourseRepository{inner: inner, backend: backend, ttl: ttl, log: log}
}

func (r *CachedCourseRepository) List(ctx context.Context) ([]*domain.Course, error) {
	return r.inner.List(ctx)
}

func (r *CachedCourseRepository) FindByID(ctx context.Context, id int64) (*domain.Course, error) {
	key := courseKey(id)

	raw, err := r.backend.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var c domain.Course
		if jsonErr := json.Unmarshal(raw, &c); jsonErr == nil {
			metrics.CourseCacheTotal.WithLabelValues("hit").Inc()
			return &c, nil
		}
		r.log.Warn().Str("key", key).Msg("discarding undecodable cache entry")
		metrics.CourseCacheTotal.WithLabelValues("error").Inc()
	case errors.Is(err, redis.Nil):
		metrics.CourseCacheTotal.WithLabelValues("miss").Inc()
	default:
		r.log.Warn().Err(err).Str("key", key).Msg("course cache read failed")
		metrics.CourseCacheTotal.WithLabelValues("error").Inc()
	}

	c, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(c); err == nil {
		if err := r.backend.Set(ctx, key, payload, r.ttl).Err(); err != nil {
			r.log.Warn().Err(err).Str("key", key).Msg("course cache write failed")
		}
	}
	return c, nil
}

func (r *CachedCourseRepository) Create(ctx context.Context, c *domain.Course) (*domain.Course, error) {
	return r.inner.Create(ctx, c)
}

func (r *CachedCourseRepository) Update(ctx context.Context, c *domain.Course) (*domain.Course, error) {
	updated, err := r.inner.Update(ctx, c)
	if err != nil {
		return nil, err
	}
	r.evict(ctx, c.ID)
	return updated, nil
}

func (r *CachedCourseRepository) Delete(ctx context.Context, id int64) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

func (r *CachedCourseRepository) evict(ctx context.Context, id int64) {
	if err := r.backend.Del(ctx, courseKey(id)).Err(); err != nil {
		r.log.Warn().Err(err).Int64("course_id", id).Msg("course cache eviction failed")
	}
}

func courseKey(id int64) string {
	return fmt.Sprintf("course:%d", id)
}
