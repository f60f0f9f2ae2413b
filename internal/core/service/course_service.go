package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/coursehub/catalog-api/internal/core/domain"
	"github.com/coursehub/catalog-api/internal/core/ports"
	"github.com/coursehub/catalog-api/internal/pkg/metrics"
)

type CourseService struct {
	repo   ports.CourseRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewCourseService(repo ports.CourseRepository, logger zerolog.Logger) *CourseService {
	return &CourseService{repo: repo, logger: logger, now: time.Now}
}

func (s *CourseService) ListCourses(ctx context.Context, caller domain.Identity) ([]*domain.Course, error) {
	if err := authorize(s.logger, caller, domain.OpListCourses); err != nil {
		return nil, err
	}

	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

func (s *CourseService) GetCourse(ctx context.Context, caller domain.Identity, id int64) (*domain.Course, error) {
	if err := authorize(s.logger, caller, domain.OpGetCourse); err != nil {
		return nil, err
	}

	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	return course, nil
}

// CreateCourse stores a new course owned by the caller.
func (s *CourseService) CreateCourse(ctx context.Context, caller domain.Identity, input ports.CreateCourseInput) (*domain.Course, error) {
	if err := authorize(s.logger, caller, domain.OpCreateCourse); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	course := &domain.Course{
		Title:         strings.TrimSpace(input.Title),
		Description:   input.Description,
		Instructor:    strings.TrimSpace(input.Instructor),
		DurationHours: input.DurationHours,
		CreatedBy:     caller.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := course.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, course)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create course")
		return nil, fmt.Errorf("create course: %w", err)
	}

	metrics.CourseMutationsTotal.WithLabelValues(string(domain.OpCreateCourse)).Inc()
	s.logger.Info().Int64("course_id", created.ID).Str("user_id", caller.ID).Msg("course created")
	return created, nil
}

// UpdateCourse applies patch to an existing course.
func (s *CourseService) UpdateCourse(ctx context.Context, caller domain.Identity, id int64, patch domain.CoursePatch) (*domain.Course, error) {
	if err := authorize(s.logger, caller, domain.OpUpdateCourse); err != nil {
		return nil, err
	}

	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}

	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		patch.Title = &trimmed
	}
	patch.Apply(course)
	if err := course.Validate(); err != nil {
		return nil, err
	}
	course.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, course)
	if err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}

	metrics.CourseMutationsTotal.WithLabelValues(string(domain.OpUpdateCourse)).Inc()
	s.logger.Info().Int64("course_id", id).Str("user_id", caller.ID).Msg("course updated")
	return updated, nil
}

// DeleteCourse removes a course and returns the snapshot taken before
// deletion. A missing course fails with domain.ErrCourseNotFound before any
// delete is attempted.
func (s *CourseService) DeleteCourse(ctx context.Context, caller domain.Identity, id int64) (*domain.Course, error) {
	if err := authorize(s.logger, caller, domain.OpDeleteCourse); err != nil {
		return nil, err
	}

	snapshot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete course: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete course: %w", err)
	}

	metrics.CourseMutationsTotal.WithLabelValues(string(domain.OpDeleteCourse)).Inc()
	s.logger.Info().Int64("course_id", id).Str("user_id", caller.ID).Msg("course deleted")
	return snapshot, nil
}
