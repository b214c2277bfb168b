package repository

import (
	"context"
	"fmt"

	"github.com/edusched/tutor_crm/internal/model"
	"github.com/edusched/tutor_crm/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StudentRepository struct {
	*base.Repository
}

func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{Repository: base.NewRepository(pool)}
}

// Create inserts a new student
func (r *StudentRepository) Create(ctx context.Context, student *model.Student) error {
	query := `
		INSERT INTO students (name, name_en, phone, email, avatar, balance, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		student.Name,
		student.NameEn,
		student.Phone,
		student.Email,
		student.Avatar,
		student.Balance,
		student.Status,
	).Scan(&student.ID, &student.CreatedAt)

	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}

	return nil
}

// GetByID returns a student by ID, nil when absent
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*model.Student, error) {
	query := `
		SELECT id, name, name_en, phone, email, avatar, balance, status, created_at
		FROM students
		WHERE id = $1
	`

	var student model.Student
	err := r.QueryRow(ctx, query, id).Scan(
		&student.ID,
		&student.Name,
		&student.NameEn,
		&student.Phone,
		&student.Email,
		&student.Avatar,
		&student.Balance,
		&student.Status,
		&student.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get student by id: %w", err)
	}

	return &student, nil
}

// GetAll returns all students ordered by ID
func (r *StudentRepository) GetAll(ctx context.Context) ([]*model.Student, error) {
	query := `
		SELECT id, name, name_en, phone, email, avatar, balance, status, created_at
		FROM students
		ORDER BY id
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get students: %w", err)
	}
	defer rows.Close()

	var students []*model.Student
	for rows.Next() {
		var student model.Student
		err := rows.Scan(
			&student.ID,
			&student.Name,
			&student.NameEn,
			&student.Phone,
			&student.Email,
			&student.Avatar,
			&student.Balance,
			&student.Status,
			&student.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, &student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate students: %w", err)
	}

	return students, nil
}

// UpdateBalance writes a new lesson-credit balance
func (r *StudentRepository) UpdateBalance(ctx context.Context, id int64, balance int) error {
	query := `UPDATE students SET balance = $1 WHERE id = $2`

	_, err := r.ExecAffected(ctx, query, balance, id)
	if err != nil {
		return fmt.Errorf("update student balance: %w", err)
	}

	return nil
}

// Update rewrites the editable attributes of a student. Balance is
// deliberately excluded, it only changes through UpdateBalance.
func (r *StudentRepository) Update(ctx context.Context, student *model.Student) error {
	query := `
		UPDATE students
		SET name = $1, name_en = $2, phone = $3, email = $4, avatar = $5, status = $6
		WHERE id = $7
	`

	_, err := r.ExecAffected(
		ctx, query,
		student.Name,
		student.NameEn,
		student.Phone,
		student.Email,
		student.Avatar,
		student.Status,
		student.ID,
	)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}

	return nil
}

// Delete removes a student
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM students WHERE id = $1`

	_, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}

	return nil
}
