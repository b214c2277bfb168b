package repository

import (
	"context"
	"fmt"

	"github.com/edusched/tutor_crm/internal/model"
	"github.com/edusched/tutor_crm/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepository struct {
	*base.Repository
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{Repository: base.NewRepository(pool)}
}

// Create appends a message to the audit trail
func (r *MessageRepository) Create(ctx context.Context, message *model.Message) error {
	query := `
		INSERT INTO messages (sender, avatar, content, unread)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		message.Sender,
		message.Avatar,
		message.Content,
		message.Unread,
	).Scan(&message.ID, &message.CreatedAt)

	if err != nil {
		return fmt.Errorf("create message: %w", err)
	}

	return nil
}

// GetAll returns all messages, newest first
func (r *MessageRepository) GetAll(ctx context.Context) ([]*model.Message, error) {
	query := `
		SELECT id, sender, avatar, content, unread, created_at
		FROM messages
		ORDER BY created_at DESC
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get messages: %w", err)
	}
	defer rows.Close()

	var messages []*model.Message
	for rows.Next() {
		var message model.Message
		err := rows.Scan(
			&message.ID,
			&message.Sender,
			&message.Avatar,
			&message.Content,
			&message.Unread,
			&message.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, &message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}

// MarkRead clears the unread flag of a message
func (r *MessageRepository) MarkRead(ctx context.Context, id int64) error {
	query := `UPDATE messages SET unread = FALSE WHERE id = $1`

	_, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}

	return nil
}

// CountUnread returns the number of unread messages
func (r *MessageRepository) CountUnread(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM messages WHERE unread`

	var count int
	if err := r.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}

	return count, nil
}
