package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/edusched/tutor_crm/internal/model"
	"github.com/edusched/tutor_crm/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LessonRepository struct {
	*base.Repository
}

func NewLessonRepository(pool *pgxpool.Pool) *LessonRepository {
	return &LessonRepository{Repository: base.NewRepository(pool)}
}

const lessonColumns = `id, course_id, teacher_id, student_id,
		course_name, course_name_en, teacher_name, student_name,
		schedule_date, start_time, end_time, classroom, status, type,
		created_at, updated_at`

func scanLesson(row pgx.Row) (*model.Lesson, error) {
	var lesson model.Lesson
	err := row.Scan(
		&lesson.ID,
		&lesson.CourseID,
		&lesson.TeacherID,
		&lesson.StudentID,
		&lesson.CourseName,
		&lesson.CourseNameEn,
		&lesson.TeacherName,
		&lesson.StudentName,
		&lesson.ScheduleDate,
		&lesson.StartTime,
		&lesson.EndTime,
		&lesson.Classroom,
		&lesson.Status,
		&lesson.Type,
		&lesson.CreatedAt,
		&lesson.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// Create inserts a new lesson and fills the generated fields
func (r *LessonRepository) Create(ctx context.Context, lesson *model.Lesson) error {
	query := `
		INSERT INTO lessons (course_id, teacher_id, student_id,
			course_name, course_name_en, teacher_name, student_name,
			schedule_date, start_time, end_time, classroom, status, type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		lesson.CourseID,
		lesson.TeacherID,
		lesson.StudentID,
		lesson.CourseName,
		lesson.CourseNameEn,
		lesson.TeacherName,
		lesson.StudentName,
		lesson.ScheduleDate,
		lesson.StartTime,
		lesson.EndTime,
		lesson.Classroom,
		lesson.Status,
		lesson.Type,
	).Scan(&lesson.ID, &lesson.CreatedAt, &lesson.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}

	return nil
}

// GetByID returns a lesson by ID, nil when absent
func (r *LessonRepository) GetByID(ctx context.Context, id int64) (*model.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = $1`

	lesson, err := scanLesson(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lesson by id: %w", err)
	}

	return lesson, nil
}

// GetByDate returns all lessons on the given calendar date
func (r *LessonRepository) GetByDate(ctx context.Context, date time.Time) ([]*model.Lesson, error) {
	query := `
		SELECT ` + lessonColumns + `
		FROM lessons
		WHERE schedule_date = $1
		ORDER BY start_time
	`

	rows, err := r.Query(ctx, query, model.DateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("get lessons by date: %w", err)
	}
	defer rows.Close()

	return collectLessons(rows)
}

// GetCompletedBetween returns completed lessons with schedule_date in [from, to]
func (r *LessonRepository) GetCompletedBetween(ctx context.Context, from, to time.Time) ([]*model.Lesson, error) {
	query := `
		SELECT ` + lessonColumns + `
		FROM lessons
		WHERE status = $1 AND schedule_date >= $2 AND schedule_date <= $3
		ORDER BY schedule_date, start_time
	`

	rows, err := r.Query(ctx, query, model.LessonStatusCompleted, model.DateOnly(from), model.DateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("get completed lessons: %w", err)
	}
	defer rows.Close()

	return collectLessons(rows)
}

func collectLessons(rows pgx.Rows) ([]*model.Lesson, error) {
	var lessons []*model.Lesson
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lessons = append(lessons, lesson)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lessons: %w", err)
	}

	return lessons, nil
}

// UpdateStatus sets the lesson status
func (r *LessonRepository) UpdateStatus(ctx context.Context, id int64, status model.LessonStatus) error {
	query := `
		UPDATE lessons
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	_, err := r.ExecAffected(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update lesson status: %w", err)
	}

	return nil
}

// UpdateSlot moves the lesson to a new date and time range
func (r *LessonRepository) UpdateSlot(ctx context.Context, id int64, date time.Time, startTime, endTime string) error {
	query := `
		UPDATE lessons
		SET schedule_date = $1, start_time = $2, end_time = $3, updated_at = NOW()
		WHERE id = $4
	`

	_, err := r.ExecAffected(ctx, query, model.DateOnly(date), startTime, endTime, id)
	if err != nil {
		return fmt.Errorf("update lesson slot: %w", err)
	}

	return nil
}

// Update rewrites the editable fields of a lesson
func (r *LessonRepository) Update(ctx context.Context, lesson *model.Lesson) error {
	query := `
		UPDATE lessons
		SET course_id = $1, teacher_id = $2, student_id = $3,
			course_name = $4, course_name_en = $5, teacher_name = $6, student_name = $7,
			schedule_date = $8, start_time = $9, end_time = $10, classroom = $11, type = $12,
			updated_at = NOW()
		WHERE id = $13
	`

	_, err := r.ExecAffected(
		ctx, query,
		lesson.CourseID,
		lesson.TeacherID,
		lesson.StudentID,
		lesson.CourseName,
		lesson.CourseNameEn,
		lesson.TeacherName,
		lesson.StudentName,
		lesson.ScheduleDate,
		lesson.StartTime,
		lesson.EndTime,
		lesson.Classroom,
		lesson.Type,
		lesson.ID,
	)
	if err != nil {
		return fmt.Errorf("update lesson: %w", err)
	}

	return nil
}

// Delete removes a lesson
func (r *LessonRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM lessons WHERE id = $1`

	_, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}

	return nil
}
