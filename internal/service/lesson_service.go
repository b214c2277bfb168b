package service

import (
	"context"
	"fmt"
	"time"

	"github.com/edusched/tutor_crm/internal/model"
	"go.uber.org/zap"
)

// LessonService owns the lesson state machine:
//
//	SCHEDULED -> COMPLETED (Complete)
//	SCHEDULED -> CANCELLED (Cancel)
//	SCHEDULED -> SCHEDULED with a new slot (Reschedule)
//
// COMPLETED and CANCELLED are terminal. Completing a regular lesson
// debits one lesson credit through the ledger as part of the same
// operation; trial and makeup lessons never touch the balance.
type LessonService struct {
	lessons LessonStore
	ledger  *LedgerService
	msgs    *MessageService
	locks   *Locks
	logger  *zap.Logger
}

func NewLessonService(
	lessons LessonStore,
	ledger *LedgerService,
	msgs *MessageService,
	locks *Locks,
	logger *zap.Logger,
) *LessonService {
	return &LessonService{
		lessons: lessons,
		ledger:  ledger,
		msgs:    msgs,
		locks:   locks,
		logger:  logger,
	}
}

// Complete marks a scheduled lesson as held. For regular lessons the
// student is debited exactly one credit, with no lower bound, and the
// audit message records the resulting balance.
func (s *LessonService) Complete(ctx context.Context, lessonID int64) (*model.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}

	unlock := s.locks.Lock(lessonKey(lessonID), studentKey(lesson.StudentID))
	defer unlock()

	// Re-read under the lock so two concurrent completions cannot both
	// see SCHEDULED and debit twice
	lesson, err = s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}
	if !lesson.IsScheduled() {
		return nil, fmt.Errorf("lesson %d is %s: %w", lessonID, lesson.Status, ErrInvalidStateTransition)
	}

	if err := s.lessons.UpdateStatus(ctx, lessonID, model.LessonStatusCompleted); err != nil {
		return nil, fmt.Errorf("update lesson status: %w", err)
	}
	lesson.Status = model.LessonStatusCompleted

	var content string
	if lesson.Deducts() {
		// The status write above consumed the SCHEDULED state, so this
		// debit can never run twice for one lesson
		_, newBalance, err := s.ledger.debitLocked(ctx, lesson.StudentID, 1)
		if err != nil {
			return nil, fmt.Errorf("debit lesson credit: %w", err)
		}
		content = fmt.Sprintf("Lesson completed, 1 credit deducted from %s. Balance is now %d",
			lesson.StudentName, newBalance)

		s.logger.Info("Lesson completed",
			zap.Int64("lesson_id", lessonID),
			zap.Int64("student_id", lesson.StudentID),
			zap.Int("new_balance", newBalance),
		)
	} else {
		content = fmt.Sprintf("%s lesson completed, no credit deducted. Student: %s",
			lesson.Type, lesson.StudentName)

		s.logger.Info("Lesson completed without deduction",
			zap.Int64("lesson_id", lessonID),
			zap.String("type", string(lesson.Type)),
		)
	}

	if err := s.msgs.Post(ctx, content); err != nil {
		return nil, fmt.Errorf("post completion message: %w", err)
	}

	return lesson, nil
}

// Cancel marks a scheduled lesson as called off. No balance effect.
func (s *LessonService) Cancel(ctx context.Context, lessonID int64) (*model.Lesson, error) {
	unlock := s.locks.Lock(lessonKey(lessonID))
	defer unlock()

	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}
	if !lesson.IsScheduled() {
		return nil, fmt.Errorf("lesson %d is %s: %w", lessonID, lesson.Status, ErrInvalidStateTransition)
	}

	if err := s.lessons.UpdateStatus(ctx, lessonID, model.LessonStatusCancelled); err != nil {
		return nil, fmt.Errorf("update lesson status: %w", err)
	}
	lesson.Status = model.LessonStatusCancelled

	s.logger.Info("Lesson cancelled",
		zap.Int64("lesson_id", lessonID),
	)

	return lesson, nil
}

// Reschedule moves a scheduled lesson to a new date and time range.
// The status stays SCHEDULED and the balance is untouched. Conflict
// re-validation is the approval workflow's responsibility.
func (s *LessonService) Reschedule(ctx context.Context, lessonID int64, newDate time.Time, newStart, newEnd string) (*model.Lesson, error) {
	if newDate.IsZero() {
		return nil, fmt.Errorf("new date: %w", ErrMissingField)
	}
	if _, err := model.ParseClock(newStart); err != nil {
		return nil, fmt.Errorf("new start time: %w: %v", ErrMissingField, err)
	}
	if _, err := model.ParseClock(newEnd); err != nil {
		return nil, fmt.Errorf("new end time: %w: %v", ErrMissingField, err)
	}
	if newStart >= newEnd {
		return nil, ErrInvalidTimeRange
	}

	unlock := s.locks.Lock(lessonKey(lessonID))
	defer unlock()

	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}
	if !lesson.IsScheduled() {
		return nil, fmt.Errorf("lesson %d is %s: %w", lessonID, lesson.Status, ErrInvalidStateTransition)
	}

	if err := s.lessons.UpdateSlot(ctx, lessonID, newDate, newStart, newEnd); err != nil {
		return nil, fmt.Errorf("update lesson slot: %w", err)
	}
	lesson.ScheduleDate = model.DateOnly(newDate)
	lesson.StartTime = newStart
	lesson.EndTime = newEnd

	s.logger.Info("Lesson rescheduled",
		zap.Int64("lesson_id", lessonID),
		zap.Time("new_date", newDate),
		zap.String("new_start", newStart),
		zap.String("new_end", newEnd),
	)

	return lesson, nil
}

// GetByID returns a lesson by ID
func (s *LessonService) GetByID(ctx context.Context, lessonID int64) (*model.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}
	return lesson, nil
}
