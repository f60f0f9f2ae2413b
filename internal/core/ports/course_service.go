package ports

import (
	"context"

	"github.com/coursehub/catalog-api/internal/core/domain"
)

// CreateCourseInput carries the fields of a new course.
type CreateCourseInput struct {
	Title         string
	Description   string
	Instructor    string
	DurationHours int
}

// CourseService defines the catalog use cases. Every mutation consults the
// access policy with the caller identity before touching the repository.
type CourseService interface {
	ListCourses(ctx context.Context, caller domain.Identity) ([]*domain.Course, error)
	GetCourse(ctx context.Context, caller domain.Identity, id int64) (*domain.Course, error)
	CreateCourse(ctx context.Context, caller domain.Identity, input CreateCourseInput) (*domain.Course, error)
	UpdateCourse(ctx context.Context, caller domain.Identity, id int64, patch domain.CoursePatch) (*domain.Course, error)
	// DeleteCourse returns the course as it was before deletion.
	DeleteCourse(ctx context.Context, caller domain.Identity, id int64) (*domain.Course, error)
}
