package service

import (
	"context"
	"fmt"

	"github.com/edusched/tutor_crm/internal/model"
	"github.com/edusched/tutor_crm/internal/notify"
	"go.uber.org/zap"
)

const (
	systemSender = "System"
	systemAvatar = "🤖"
)

// MessageService is the single emission point for audit messages.
// Every ledger and approval side effect goes through Post, which
// stores the message and forwards it to the notifier best-effort.
type MessageService struct {
	messages MessageStore
	notifier notify.Notifier
	logger   *zap.Logger
}

func NewMessageService(messages MessageStore, notifier notify.Notifier, logger *zap.Logger) *MessageService {
	return &MessageService{
		messages: messages,
		notifier: notifier,
		logger:   logger,
	}
}

// Post appends an unread system message to the audit trail
func (s *MessageService) Post(ctx context.Context, content string) error {
	message := &model.Message{
		Sender:  systemSender,
		Avatar:  systemAvatar,
		Content: content,
		Unread:  true,
	}

	if err := s.messages.Create(ctx, message); err != nil {
		return fmt.Errorf("create message: %w", err)
	}

	// Delivery failures must not fail the operation that produced the message
	if err := s.notifier.Send(ctx, content); err != nil {
		s.logger.Warn("Failed to forward message to notifier",
			zap.Int64("message_id", message.ID),
			zap.Error(err),
		)
	}

	return nil
}

// MarkRead clears the unread flag of a message
func (s *MessageService) MarkRead(ctx context.Context, messageID int64) error {
	if err := s.messages.MarkRead(ctx, messageID); err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	return nil
}

// UnreadCount returns the number of unread messages
func (s *MessageService) UnreadCount(ctx context.Context) (int, error) {
	return s.messages.CountUnread(ctx)
}
