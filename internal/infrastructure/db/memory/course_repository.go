package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/coursehub/catalog-api/internal/core/domain"
)

// CourseRepository keeps courses in a map and hands out ids from a
// monotonic counter. Deleted ids are never reused.
type CourseRepository struct {
	mu      sync.RWMutex
	courses map[int64]*domain.Course
	nextID  int64
}

func NewCourseRepository() *CourseRepository {
	return &CourseRepository{courses: make(map[int64]*domain.Course)}
}

func (r *CourseRepository) List(_ context.Context) ([]*domain.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Course, 0, len(r.courses))
	for _, c := range r.courses {
		out = append(out, cloneCourse(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CourseRepository) FindByID(_ context.Context, id int64) (*domain.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.courses[id]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	return cloneCourse(c), nil
}

func (r *CourseRepository) Create(_ context.Context, c *domain.Course) (*domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := cloneCourse(c)
	stored.ID = r.nextID
	r.courses[stored.ID] = stored
	return cloneCourse(stored), nil
}

func (r *CourseRepository) Update(_ context.Context, c *domain.Course) (*domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.courses[c.ID]; !ok {
		return nil, domain.ErrCourseNotFound
	}
	stored := cloneCourse(c)
	r.courses[c.ID] = stored
	return cloneCourse(stored), nil
}

func (r *CourseRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.courses[id]; !ok {
		return domain.ErrCourseNotFound
	}
	delete(r.courses, id)
	return nil
}

func cloneCourse(c *domain.Course) *domain.Course {
	cp := *c
	return &cp
}
