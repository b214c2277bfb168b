package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/edusched/tutor_crm/internal/model"
	"go.uber.org/zap"
)

// ApprovalService routes leave and reschedule requests through a
// one-shot PENDING -> APPROVED|REJECTED decision. Approving a LEAVE
// cancels the referenced lesson, approving a RESCHEDULE moves it;
// rejection only touches the approval itself.
type ApprovalService struct {
	approvals ApprovalStore
	lessons   LessonStore
	lifecycle *LessonService
	detector  *ConflictService
	msgs      *MessageService
	logger    *zap.Logger
}

func NewApprovalService(
	approvals ApprovalStore,
	lessons LessonStore,
	lifecycle *LessonService,
	detector *ConflictService,
	msgs *MessageService,
	logger *zap.Logger,
) *ApprovalService {
	return &ApprovalService{
		approvals: approvals,
		lessons:   lessons,
		lifecycle: lifecycle,
		detector:  detector,
		msgs:      msgs,
		logger:    logger,
	}
}

// RescheduleSlot is the replacement placement attached to a
// RESCHEDULE request or supplied by the approver at decision time
type RescheduleSlot struct {
	Date      time.Time
	StartTime string
	EndTime   string
}

// SubmitLeave files a leave request for a scheduled lesson
func (s *ApprovalService) SubmitLeave(ctx context.Context, lessonID int64, reason, applicant string) (*model.Approval, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("reason: %w", ErrMissingField)
	}

	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}
	if lesson.IsTerminal() {
		return nil, fmt.Errorf("lesson %d is %s: %w", lessonID, lesson.Status, ErrInvalidStateTransition)
	}

	approval := &model.Approval{
		Type:       model.ApprovalTypeLeave,
		LessonID:   &lessonID,
		LessonInfo: lessonInfo(lesson),
		Reason:     reason,
		Applicant:  applicantName(applicant, lesson),
		Status:     model.ApprovalStatusPending,
	}

	if err := s.approvals.Create(ctx, approval); err != nil {
		return nil, fmt.Errorf("create approval: %w", err)
	}

	s.logger.Info("Leave request submitted",
		zap.Int64("approval_id", approval.ID),
		zap.Int64("lesson_id", lessonID),
		zap.String("applicant", approval.Applicant),
	)

	return approval, nil
}

// SubmitReschedule files a reschedule request with a proposed new slot
func (s *ApprovalService) SubmitReschedule(ctx context.Context, lessonID int64, reason, applicant string, slot RescheduleSlot) (*model.Approval, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("reason: %w", ErrMissingField)
	}
	if slot.Date.IsZero() {
		return nil, fmt.Errorf("new date: %w", ErrMissingField)
	}

	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}
	if lesson.IsTerminal() {
		return nil, fmt.Errorf("lesson %d is %s: %w", lessonID, lesson.Status, ErrInvalidStateTransition)
	}

	newDate := model.DateOnly(slot.Date)
	approval := &model.Approval{
		Type:     model.ApprovalTypeReschedule,
		LessonID: &lessonID,
		LessonInfo: fmt.Sprintf("%s -> %s %s",
			lessonInfo(lesson), newDate.Format("2006-01-02"), slot.StartTime),
		Reason:       reason,
		Applicant:    applicantName(applicant, lesson),
		Status:       model.ApprovalStatusPending,
		NewDate:      &newDate,
		NewStartTime: slot.StartTime,
		NewEndTime:   slot.EndTime,
	}

	if err := s.approvals.Create(ctx, approval); err != nil {
		return nil, fmt.Errorf("create approval: %w", err)
	}

	s.logger.Info("Reschedule request submitted",
		zap.Int64("approval_id", approval.ID),
		zap.Int64("lesson_id", lessonID),
		zap.Time("new_date", newDate),
	)

	return approval, nil
}

// Decide records the one-shot decision on a pending approval and
// applies its side effect. For an approved RESCHEDULE the slot
// argument overrides the applicant's proposal when non-nil; the new
// slot is re-checked for conflicts before the lesson moves, so an
// approval that would create a collision fails with ConflictError and
// leaves both the approval and the lesson untouched.
func (s *ApprovalService) Decide(ctx context.Context, approvalID int64, decision model.ApprovalStatus, slot *RescheduleSlot) (*model.Approval, error) {
	if decision != model.ApprovalStatusApproved && decision != model.ApprovalStatusRejected {
		return nil, fmt.Errorf("decision %q: %w", decision, ErrInvalidStateTransition)
	}

	approval, err := s.approvals.GetByID(ctx, approvalID)
	if err != nil {
		return nil, fmt.Errorf("get approval: %w", err)
	}
	if approval == nil {
		return nil, ErrApprovalNotFound
	}
	if !approval.IsPending() {
		return nil, fmt.Errorf("approval %d is %s: %w", approvalID, approval.Status, ErrInvalidStateTransition)
	}

	// Side effects run first so a failure leaves the approval PENDING
	if decision == model.ApprovalStatusApproved {
		switch approval.Type {
		case model.ApprovalTypeLeave:
			if err := s.applyLeave(ctx, approval); err != nil {
				return nil, err
			}
		case model.ApprovalTypeReschedule:
			if err := s.applyReschedule(ctx, approval, slot); err != nil {
				return nil, err
			}
		case model.ApprovalTypeOther:
			// no downstream effect
		}
	}

	if err := s.approvals.UpdateStatus(ctx, approvalID, decision); err != nil {
		return nil, fmt.Errorf("update approval status: %w", err)
	}
	approval.Status = decision

	s.logger.Info("Approval decided",
		zap.Int64("approval_id", approvalID),
		zap.String("type", string(approval.Type)),
		zap.String("decision", string(decision)),
	)

	return approval, nil
}

func (s *ApprovalService) applyLeave(ctx context.Context, approval *model.Approval) error {
	if approval.LessonID == nil {
		return nil
	}

	lesson, err := s.lifecycle.Cancel(ctx, *approval.LessonID)
	if err != nil {
		return fmt.Errorf("cancel lesson for leave: %w", err)
	}

	content := fmt.Sprintf("Leave request by %s approved, lesson %q on %s %s-%s cancelled",
		approval.Applicant, lesson.CourseName,
		lesson.ScheduleDate.Format("2006-01-02"), lesson.StartTime, lesson.EndTime)
	if err := s.msgs.Post(ctx, content); err != nil {
		return fmt.Errorf("post leave message: %w", err)
	}

	return nil
}

func (s *ApprovalService) applyReschedule(ctx context.Context, approval *model.Approval, override *RescheduleSlot) error {
	if approval.LessonID == nil {
		return fmt.Errorf("lesson id: %w", ErrMissingField)
	}

	slot := RescheduleSlot{StartTime: approval.NewStartTime, EndTime: approval.NewEndTime}
	if approval.NewDate != nil {
		slot.Date = *approval.NewDate
	}
	if override != nil {
		slot = *override
	}
	if slot.Date.IsZero() {
		return fmt.Errorf("new date: %w", ErrMissingField)
	}

	lessonID := *approval.LessonID
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return fmt.Errorf("get lesson: %w", err)
	}
	if lesson == nil {
		return ErrLessonNotFound
	}

	// Re-validate the approved slot against the current calendar; an
	// approval sitting in the queue must not silently create a clash
	conflicts, err := s.detector.DetectConflicts(ctx, &lessonID, slot.Date,
		slot.StartTime, slot.EndTime, lesson.TeacherID, lesson.StudentID, lesson.Classroom)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return &ConflictError{Conflicts: conflicts}
	}

	moved, err := s.lifecycle.Reschedule(ctx, lessonID, slot.Date, slot.StartTime, slot.EndTime)
	if err != nil {
		return fmt.Errorf("reschedule lesson: %w", err)
	}

	content := fmt.Sprintf("Reschedule request by %s approved, lesson %q moved to %s %s-%s",
		approval.Applicant, moved.CourseName,
		moved.ScheduleDate.Format("2006-01-02"), moved.StartTime, moved.EndTime)
	if err := s.msgs.Post(ctx, content); err != nil {
		return fmt.Errorf("post reschedule message: %w", err)
	}

	return nil
}

// lessonInfo builds the free-text snapshot stored on the approval
func lessonInfo(lesson *model.Lesson) string {
	return fmt.Sprintf("%s - %s %s",
		lesson.CourseName, lesson.ScheduleDate.Format("2006-01-02"), lesson.StartTime)
}

func applicantName(applicant string, lesson *model.Lesson) string {
	if applicant != "" {
		return applicant
	}
	if lesson.StudentName != "" {
		return lesson.StudentName
	}
	return "unknown"
}
