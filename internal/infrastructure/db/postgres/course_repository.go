package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coursehub/catalog-api/internal/core/domain"
)

const courseColumns = `id, title, description, instructor, duration_hours,
	COALESCE(created_by::text, ''), created_at, updated_at`

type CourseRepository struct {
	pool *pgxpool.Pool
}

func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

func (r *CourseRepository) List(ctx context.Context) ([]*domain.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	courses := make([]*domain.Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}
	return courses, nil
}

func (r *CourseRepository) FindByID(ctx context.Context, id int64) (*domain.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	c, err := scanCourse(r.pool.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("find course: %w", err)
	}
	return c, nil
}

func (r *CourseRepository) Create(ctx context.Context, c *domain.Course) (*domain.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx,
		`INSERT INTO courses (title, description, instructor, duration_hours, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, NULLIF($5, '')::uuid, $6, $7)
		 RETURNING `+courseColumns,
		c.Title, c.Description, c.Instructor, c.DurationHours, c.CreatedBy, c.CreatedAt, c.UpdatedAt)
	created, err := scanCourse(row)
	if err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return created, nil
}

func (r *CourseRepository) Update(ctx context.Context, c *domain.Course) (*domain.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx,
		`UPDATE courses
		 SET title = $2, description = $3, instructor = $4, duration_hours = $5, updated_at = $6
		 WHERE id = $1
		 RETURNING `+courseColumns,
		c.ID, c.Title, c.Description, c.Instructor, c.DurationHours, c.UpdatedAt)
	updated, err := scanCourse(row)
	if err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}
	return updated, nil
}

func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCourseNotFound
	}
	return nil
}

func scanCourse(row pgx.Row) (*domain.Course, error) {
	var c domain.Course
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Instructor, &c.DurationHours,
		&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
