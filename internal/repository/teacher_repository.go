package repository

import (
	"context"
	"fmt"

	"github.com/edusched/tutor_crm/internal/model"
	"github.com/edusched/tutor_crm/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TeacherRepository struct {
	*base.Repository
}

func NewTeacherRepository(pool *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{Repository: base.NewRepository(pool)}
}

// Create inserts a new teacher
func (r *TeacherRepository) Create(ctx context.Context, teacher *model.Teacher) error {
	query := `
		INSERT INTO teachers (name, name_en, phone, email, subject, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		teacher.Name,
		teacher.NameEn,
		teacher.Phone,
		teacher.Email,
		teacher.Subject,
		teacher.Status,
	).Scan(&teacher.ID, &teacher.CreatedAt)

	if err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}

	return nil
}

// GetByID returns a teacher by ID, nil when absent
func (r *TeacherRepository) GetByID(ctx context.Context, id int64) (*model.Teacher, error) {
	query := `
		SELECT id, name, name_en, phone, email, subject, status, created_at
		FROM teachers
		WHERE id = $1
	`

	var teacher model.Teacher
	err := r.QueryRow(ctx, query, id).Scan(
		&teacher.ID,
		&teacher.Name,
		&teacher.NameEn,
		&teacher.Phone,
		&teacher.Email,
		&teacher.Subject,
		&teacher.Status,
		&teacher.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get teacher by id: %w", err)
	}

	return &teacher, nil
}

// GetAll returns all teachers ordered by ID
func (r *TeacherRepository) GetAll(ctx context.Context) ([]*model.Teacher, error) {
	query := `
		SELECT id, name, name_en, phone, email, subject, status, created_at
		FROM teachers
		ORDER BY id
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get teachers: %w", err)
	}
	defer rows.Close()

	var teachers []*model.Teacher
	for rows.Next() {
		var teacher model.Teacher
		err := rows.Scan(
			&teacher.ID,
			&teacher.Name,
			&teacher.NameEn,
			&teacher.Phone,
			&teacher.Email,
			&teacher.Subject,
			&teacher.Status,
			&teacher.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan teacher: %w", err)
		}
		teachers = append(teachers, &teacher)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate teachers: %w", err)
	}

	return teachers, nil
}

// Update rewrites the editable attributes of a teacher
func (r *TeacherRepository) Update(ctx context.Context, teacher *model.Teacher) error {
	query := `
		UPDATE teachers
		SET name = $1, name_en = $2, phone = $3, email = $4, subject = $5, status = $6
		WHERE id = $7
	`

	_, err := r.ExecAffected(
		ctx, query,
		teacher.Name,
		teacher.NameEn,
		teacher.Phone,
		teacher.Email,
		teacher.Subject,
		teacher.Status,
		teacher.ID,
	)
	if err != nil {
		return fmt.Errorf("update teacher: %w", err)
	}

	return nil
}

// Delete removes a teacher
func (r *TeacherRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM teachers WHERE id = $1`

	_, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete teacher: %w", err)
	}

	return nil
}
