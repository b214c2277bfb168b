package service

import (
	"context"
	"testing"

	"github.com/edusched/tutor_crm/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedApprovalLesson(e *env) *model.Lesson {
	e.addStudent(1, "小明", 5)
	return e.addLesson(&model.Lesson{
		CourseID:     1,
		TeacherID:    1,
		StudentID:    1,
		CourseName:   "数学一对一",
		TeacherName:  "王芳",
		StudentName:  "小明",
		ScheduleDate: date(2026, 3, 2),
		StartTime:    "10:00",
		EndTime:      "11:00",
		Type:         model.LessonTypeRegular,
	})
}

func TestSubmitLeave(t *testing.T) {
	e := newEnv()
	lesson := seedApprovalLesson(e)

	approval, err := e.workflow.SubmitLeave(context.Background(), lesson.ID, "family trip", "小明")
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalTypeLeave, approval.Type)
	assert.Equal(t, model.ApprovalStatusPending, approval.Status)
	require.NotNil(t, approval.LessonID)
	assert.Equal(t, lesson.ID, *approval.LessonID)
	assert.Equal(t, "数学一对一 - 2026-03-02 10:00", approval.LessonInfo)

	// Submission has no effect on the lesson
	assert.Equal(t, model.LessonStatusScheduled, e.storedLesson(lesson.ID).Status)
}

func TestSubmitLeaveRequiresReason(t *testing.T) {
	e := newEnv()
	lesson := seedApprovalLesson(e)

	for _, reason := range []string{"", "   "} {
		_, err := e.workflow.SubmitLeave(context.Background(), lesson.ID, reason, "小明")
		require.ErrorIs(t, err, ErrMissingField)
	}
}

func TestSubmitRejectsTerminalLesson(t *testing.T) {
	e := newEnv()
	lesson := seedApprovalLesson(e)
	lesson.Status = model.LessonStatusCancelled
	e.lessonStore.add(lesson)

	_, err := e.workflow.SubmitLeave(context.Background(), lesson.ID, "sick", "小明")
	require.ErrorIs(t, err, ErrInvalidStateTransition)

	_, err = e.workflow.SubmitReschedule(context.Background(), lesson.ID, "clash", "小明",
		RescheduleSlot{Date: date(2026, 3, 9), StartTime: "14:00", EndTime: "15:00"})
	require.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestSubmitLeaveUnknownLesson(t *testing.T) {
	e := newEnv()

	_, err := e.workflow.SubmitLeave(context.Background(), 42, "sick", "小明")
	require.ErrorIs(t, err, ErrLessonNotFound)
}

func TestSubmitLeaveDefaultsApplicant(t *testing.T) {
	e := newEnv()
	lesson := seedApprovalLesson(e)

	approval, err := e.workflow.SubmitLeave(context.Background(), lesson.ID, "sick", "")
	require.NoError(t, err)
	assert.Equal(t, "小明", approval.Applicant)
}

func TestSubmitReschedule(t *testing.T) {
	e := newEnv()
	lesson := seedApprovalLesson(e)

	approval, err := e.workflow.SubmitReschedule(context.Background(), lesson.ID, "clash with school event", "小明",
		RescheduleSlot{Date: date(2026, 3, 9), StartTime: "14:00", EndTime: "15:00"})
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalTypeReschedule, approval.Type)
	assert.Equal(t, "数学一对一 - 2026-03-02 10:00 -> 2026-03-09 14:00", approval.LessonInfo)
	require.NotNil(t, approval.NewDate)
	assert.Equal(t, date(2026, 3, 9), *approval.NewDate)
	assert.Equal(t, "14:00", approval.NewStartTime)
	assert.Equal(t, "15:00", approval.NewEndTime)
}

func TestSubmitRescheduleRequiresDate(t *testing.T) {
	e := newEnv()
	lesson := seedApprovalLesson(e)

	_, err := e.workflow.SubmitReschedule(context.Background(), lesson.ID, "clash", "小明",
		RescheduleSlot{StartTime: "14:00", EndTime: "15:00"})
	require.ErrorIs(t, err, ErrMissingField)
}

func TestDecideLeaveApprovedCancelsLesson(t *testing.T) {
	e := newEnv()
	lesson := seedApprovalLesson(e)
	approval, err := e.workflow.SubmitLeave(context.Background(), lesson.ID, "family trip", "小明")
	require.NoError(t, err)

	decided, err := e.workflow.Decide(context.Background(), approval.ID, model.ApprovalStatusApproved, nil)
	require.NoError(t, err)
	assert.True(t, decided.IsApproved())
	assert.True(t, e.storedApproval(approval.ID).IsApproved())

	assert.Equal(t, model.LessonStatusCancelled, e.storedLesson(lesson.ID).Status)
	assert.Equal(t, 5, e.balance(1), "cancellation must not touch the balance")
	assert.Contains(t, e.messageStore.last(), "Leave request by 小明 approved")
}

func TestDecideLeaveRejectedKeepsLesson(t *testing.T) {
	e := newEnv()
	lesson := seedApprovalLesson(e)
	approval, err := e.workflow.SubmitLeave(context.Background(), lesson.ID, "family trip", "小明")
	require.NoError(t, err)

	decided, err := e.workflow.Decide(context.Background(), approval.ID, model.ApprovalStatusRejected, nil)
	require.NoError(t, err)
	assert.True(t, decided.IsRejected())

	assert.Equal(t, model.LessonStatusScheduled, e.storedLesson(lesson.ID).Status)
	assert.Equal(t, 5, e.balance(1))
	assert.Empty(t, e.messageStore.messages, "rejection emits no audit message")
}

func TestDecideRescheduleApprovedMovesLesson(t *testing.T) {
	e := newEnv()
	lesson := seedApprovalLesson(e)
	approval, err := e.workflow.SubmitReschedule(context.Background(), lesson.ID, "clash", "小明",
		RescheduleSlot{Date: date(2026, 3, 9), StartTime: "14:00", EndTime: "15:00"})
	require.NoError(t, err)

	decided, err := e.workflow.Decide(context.Background(), approval.ID, model.ApprovalStatusApproved, nil)
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalStatusApproved, decided.Status)

	stored := e.storedLesson(lesson.ID)
	assert.Equal(t, date(2026, 3, 9), stored.ScheduleDate)
	assert.Equal(t, "14:00", stored.StartTime)
	assert.Equal(t, "15:00", stored.EndTime)
	assert.Equal(t, model.LessonStatusScheduled, stored.Status)
	assert.Contains(t, e.messageStore.last(), "moved to 2026-03-09 14:00-15:00")
}

func TestDecideRescheduleSlotOverride(t *testing.T) {
	e := newEnv()
	lesson := seedApprovalLesson(e)
	approval, err := e.workflow.SubmitReschedule(context.Background(), lesson.ID, "clash", "小明",
		RescheduleSlot{Date: date(2026, 3, 9), StartTime: "14:00", EndTime: "15:00"})
	require.NoError(t, err)

	// The approver picks a different slot than the applicant proposed
	_, err = e.workflow.Decide(context.Background(), approval.ID, model.ApprovalStatusApproved,
		&RescheduleSlot{Date: date(2026, 3, 10), StartTime: "16:00", EndTime: "17:00"})
	require.NoError(t, err)

	stored := e.storedLesson(lesson.ID)
	assert.Equal(t, date(2026, 3, 10), stored.ScheduleDate)
	assert.Equal(t, "16:00", stored.StartTime)
}

func TestDecideRescheduleConflictLeavesEverythingPending(t *testing.T) {
	e := newEnv()
	lesson := seedApprovalLesson(e)

	// Another lesson of the same teacher occupies the target slot
	e.addLesson(&model.Lesson{
		CourseID:     1,
		TeacherID:    1,
		StudentID:    2,
		TeacherName:  "王芳",
		StudentName:  "小红",
		ScheduleDate: date(2026, 3, 9),
		StartTime:    "14:00",
		EndTime:      "15:00",
	})

	approval, err := e.workflow.SubmitReschedule(context.Background(), lesson.ID, "clash", "小明",
		RescheduleSlot{Date: date(2026, 3, 9), StartTime: "14:30", EndTime: "15:30"})
	require.NoError(t, err)

	_, err = e.workflow.Decide(context.Background(), approval.ID, model.ApprovalStatusApproved, nil)

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)

	// Failed side effect leaves both records untouched
	assert.Equal(t, model.ApprovalStatusPending, e.storedApproval(approval.ID).Status)
	stored := e.storedLesson(lesson.ID)
	assert.Equal(t, date(2026, 3, 2), stored.ScheduleDate)
	assert.Equal(t, "10:00", stored.StartTime)
}

func TestDecideRescheduleWithoutDateFails(t *testing.T) {
	e := newEnv()
	lesson := seedApprovalLesson(e)

	// An approval that somehow lost its proposed slot cannot be applied
	approval := &model.Approval{
		Type:       model.ApprovalTypeReschedule,
		LessonID:   &lesson.ID,
		LessonInfo: "数学一对一 - 2026-03-02 10:00",
		Reason:     "clash",
		Applicant:  "小明",
		Status:     model.ApprovalStatusPending,
	}
	require.NoError(t, e.approvalStore.Create(context.Background(), approval))

	_, err := e.workflow.Decide(context.Background(), approval.ID, model.ApprovalStatusApproved, nil)
	require.ErrorIs(t, err, ErrMissingField)

	assert.Equal(t, model.ApprovalStatusPending, e.storedApproval(approval.ID).Status)
	assert.Equal(t, date(2026, 3, 2), e.storedLesson(lesson.ID).ScheduleDate)
}

func TestDecideIsOneShot(t *testing.T) {
	e := newEnv()
	lesson := seedApprovalLesson(e)
	approval, err := e.workflow.SubmitLeave(context.Background(), lesson.ID, "family trip", "小明")
	require.NoError(t, err)

	_, err = e.workflow.Decide(context.Background(), approval.ID, model.ApprovalStatusRejected, nil)
	require.NoError(t, err)

	_, err = e.workflow.Decide(context.Background(), approval.ID, model.ApprovalStatusApproved, nil)
	require.ErrorIs(t, err, ErrInvalidStateTransition)
	assert.Equal(t, model.ApprovalStatusRejected, e.storedApproval(approval.ID).Status)
}

func TestDecideRejectsNonDecision(t *testing.T) {
	e := newEnv()
	lesson := seedApprovalLesson(e)
	approval, err := e.workflow.SubmitLeave(context.Background(), lesson.ID, "family trip", "小明")
	require.NoError(t, err)

	_, err = e.workflow.Decide(context.Background(), approval.ID, model.ApprovalStatusPending, nil)
	require.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestDecideUnknownApproval(t *testing.T) {
	e := newEnv()

	_, err := e.workflow.Decide(context.Background(), 42, model.ApprovalStatusApproved, nil)
	require.ErrorIs(t, err, ErrApprovalNotFound)
}

func TestDecideOtherTypeHasNoSideEffect(t *testing.T) {
	e := newEnv()
	approval := &model.Approval{
		Type:      model.ApprovalTypeOther,
		Reason:    "extra classroom key",
		Applicant: "王芳",
		Status:    model.ApprovalStatusPending,
	}
	require.NoError(t, e.approvalStore.Create(context.Background(), approval))

	decided, err := e.workflow.Decide(context.Background(), approval.ID, model.ApprovalStatusApproved, nil)
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalStatusApproved, decided.Status)
	assert.Empty(t, e.messageStore.messages)
}
