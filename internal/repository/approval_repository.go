package repository

import (
	"context"
	"fmt"

	"github.com/edusched/tutor_crm/internal/model"
	"github.com/edusched/tutor_crm/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ApprovalRepository struct {
	*base.Repository
}

func NewApprovalRepository(pool *pgxpool.Pool) *ApprovalRepository {
	return &ApprovalRepository{Repository: base.NewRepository(pool)}
}

// Create inserts a new approval request
func (r *ApprovalRepository) Create(ctx context.Context, approval *model.Approval) error {
	query := `
		INSERT INTO approvals (type, lesson_id, lesson_info, reason, applicant, status,
			new_date, new_start_time, new_end_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		approval.Type,
		approval.LessonID,
		approval.LessonInfo,
		approval.Reason,
		approval.Applicant,
		approval.Status,
		approval.NewDate,
		approval.NewStartTime,
		approval.NewEndTime,
	).Scan(&approval.ID, &approval.CreatedAt)

	if err != nil {
		return fmt.Errorf("create approval: %w", err)
	}

	return nil
}

// GetByID returns an approval by ID, nil when absent
func (r *ApprovalRepository) GetByID(ctx context.Context, id int64) (*model.Approval, error) {
	query := `
		SELECT id, type, lesson_id, lesson_info, reason, applicant, status,
			new_date, new_start_time, new_end_time, created_at, updated_at
		FROM approvals
		WHERE id = $1
	`

	var approval model.Approval
	err := r.QueryRow(ctx, query, id).Scan(
		&approval.ID,
		&approval.Type,
		&approval.LessonID,
		&approval.LessonInfo,
		&approval.Reason,
		&approval.Applicant,
		&approval.Status,
		&approval.NewDate,
		&approval.NewStartTime,
		&approval.NewEndTime,
		&approval.CreatedAt,
		&approval.UpdatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get approval by id: %w", err)
	}

	return &approval, nil
}

// GetPending returns all approvals awaiting a decision, oldest first
func (r *ApprovalRepository) GetPending(ctx context.Context) ([]*model.Approval, error) {
	query := `
		SELECT id, type, lesson_id, lesson_info, reason, applicant, status,
			new_date, new_start_time, new_end_time, created_at, updated_at
		FROM approvals
		WHERE status = $1
		ORDER BY created_at
	`

	rows, err := r.Query(ctx, query, model.ApprovalStatusPending)
	if err != nil {
		return nil, fmt.Errorf("get pending approvals: %w", err)
	}
	defer rows.Close()

	var approvals []*model.Approval
	for rows.Next() {
		var approval model.Approval
		err := rows.Scan(
			&approval.ID,
			&approval.Type,
			&approval.LessonID,
			&approval.LessonInfo,
			&approval.Reason,
			&approval.Applicant,
			&approval.Status,
			&approval.NewDate,
			&approval.NewStartTime,
			&approval.NewEndTime,
			&approval.CreatedAt,
			&approval.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan approval: %w", err)
		}
		approvals = append(approvals, &approval)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate approvals: %w", err)
	}

	return approvals, nil
}

// UpdateStatus records the one-shot decision on an approval
func (r *ApprovalRepository) UpdateStatus(ctx context.Context, id int64, status model.ApprovalStatus) error {
	query := `
		UPDATE approvals
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	_, err := r.ExecAffected(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update approval status: %w", err)
	}

	return nil
}
