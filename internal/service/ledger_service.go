package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// LedgerService owns every mutation of student lesson-credit balances.
// No floor is enforced anywhere: a negative balance is a valid state
// meaning the student owes credits.
type LedgerService struct {
	students StudentStore
	msgs     *MessageService
	locks    *Locks
	logger   *zap.Logger
}

func NewLedgerService(students StudentStore, msgs *MessageService, locks *Locks, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		students: students,
		msgs:     msgs,
		locks:    locks,
		logger:   logger,
	}
}

// Credit adds lesson credits to a student (a recharge) and posts an
// audit message with the resulting balance. Returns the new balance.
func (s *LedgerService) Credit(ctx context.Context, studentID int64, amount int, reason string) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("credit %d: %w", amount, ErrInvalidAmount)
	}

	unlock := s.locks.Lock(studentKey(studentID))
	defer unlock()

	_, newBalance, err := s.applyDelta(ctx, studentID, amount)
	if err != nil {
		return 0, err
	}

	content := fmt.Sprintf("Recharged %d lesson credits for student #%d (%s), balance is now %d",
		amount, studentID, reason, newBalance)
	if err := s.msgs.Post(ctx, content); err != nil {
		return 0, fmt.Errorf("post recharge message: %w", err)
	}

	s.logger.Info("Balance credited",
		zap.Int64("student_id", studentID),
		zap.Int("amount", amount),
		zap.String("reason", reason),
		zap.Int("new_balance", newBalance),
	)

	return newBalance, nil
}

// Debit removes lesson credits from a student and returns the previous
// and new balances. It is a primitive: composing operations such as
// lesson completion own the audit message, so Debit posts none.
func (s *LedgerService) Debit(ctx context.Context, studentID int64, amount int) (previous, current int, err error) {
	if amount <= 0 {
		return 0, 0, fmt.Errorf("debit %d: %w", amount, ErrInvalidAmount)
	}

	unlock := s.locks.Lock(studentKey(studentID))
	defer unlock()

	previous, current, err = s.applyDelta(ctx, studentID, -amount)
	if err != nil {
		return 0, 0, err
	}

	s.logger.Info("Balance debited",
		zap.Int64("student_id", studentID),
		zap.Int("amount", amount),
		zap.Int("new_balance", current),
	)

	return previous, current, nil
}

// debitLocked is Debit for callers that already hold the student lock
func (s *LedgerService) debitLocked(ctx context.Context, studentID int64, amount int) (previous, current int, err error) {
	if amount <= 0 {
		return 0, 0, fmt.Errorf("debit %d: %w", amount, ErrInvalidAmount)
	}
	return s.applyDelta(ctx, studentID, -amount)
}

func (s *LedgerService) applyDelta(ctx context.Context, studentID int64, delta int) (previous, current int, err error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return 0, 0, fmt.Errorf("get student: %w", err)
	}
	if student == nil {
		return 0, 0, ErrStudentNotFound
	}

	previous = student.Balance
	current = previous + delta

	if err := s.students.UpdateBalance(ctx, studentID, current); err != nil {
		return 0, 0, fmt.Errorf("update balance: %w", err)
	}

	return previous, current, nil
}
