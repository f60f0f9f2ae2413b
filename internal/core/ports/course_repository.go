package ports

import (
	"context"

	"github.com/coursehub/catalog-api/internal/core/domain"
)

// CourseRepository persists catalog entries. Missing ids yield
// domain.ErrCourseNotFound.
type CourseRepository interface {
	List(ctx context.Context) ([]*domain.Course, error)
	FindByID(ctx context.Context, id int64) (*domain.Course, error)
	// Create assigns the id and returns the stored course.
	Create(ctx context.Context, c *domain.Course) (*domain.Course, error)
	Update(ctx context.Context, c *domain.Course) (*domain.Course, error)
	Delete(ctx context.Context, id int64) error
}
