package repository

import (
	"context"
	"fmt"

	"github.com/edusched/tutor_crm/internal/model"
	"github.com/edusched/tutor_crm/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CourseRepository struct {
	*base.Repository
}

func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{Repository: base.NewRepository(pool)}
}

// Create inserts a new course
func (r *CourseRepository) Create(ctx context.Context, course *model.Course) error {
	query := `
		INSERT INTO courses (name, name_en, subject, delivery, price, duration, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		course.Name,
		course.NameEn,
		course.Subject,
		course.Delivery,
		course.Price,
		course.Duration,
		course.Status,
	).Scan(&course.ID, &course.CreatedAt)

	if err != nil {
		return fmt.Errorf("create course: %w", err)
	}

	return nil
}

// GetByID returns a course by ID, nil when absent
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*model.Course, error) {
	query := `
		SELECT id, name, name_en, subject, delivery, price, duration, status, created_at
		FROM courses
		WHERE id = $1
	`

	var course model.Course
	err := r.QueryRow(ctx, query, id).Scan(
		&course.ID,
		&course.Name,
		&course.NameEn,
		&course.Subject,
		&course.Delivery,
		&course.Price,
		&course.Duration,
		&course.Status,
		&course.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get course by id: %w", err)
	}

	return &course, nil
}

// GetAll returns all courses ordered by ID
func (r *CourseRepository) GetAll(ctx context.Context) ([]*model.Course, error) {
	query := `
		SELECT id, name, name_en, subject, delivery, price, duration, status, created_at
		FROM courses
		ORDER BY id
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get courses: %w", err)
	}
	defer rows.Close()

	var courses []*model.Course
	for rows.Next() {
		var course model.Course
		err := rows.Scan(
			&course.ID,
			&course.Name,
			&course.NameEn,
			&course.Subject,
			&course.Delivery,
			&course.Price,
			&course.Duration,
			&course.Status,
			&course.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, &course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}

	return courses, nil
}

// Update rewrites the editable attributes of a course
func (r *CourseRepository) Update(ctx context.Context, course *model.Course) error {
	query := `
		UPDATE courses
		SET name = $1, name_en = $2, subject = $3, delivery = $4, price = $5, duration = $6, status = $7
		WHERE id = $8
	`

	_, err := r.ExecAffected(
		ctx, query,
		course.Name,
		course.NameEn,
		course.Subject,
		course.Delivery,
		course.Price,
		course.Duration,
		course.Status,
		course.ID,
	)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}

	return nil
}

// Delete removes a course
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM courses WHERE id = $1`

	_, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}

	return nil
}
