package service

import (
	"context"
	"fmt"
	"time"

	"github.com/edusched/tutor_crm/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ScheduleService places lessons on the calendar: single placements,
// edits, and batch expansion of a weekday recurrence over a date
// range. Every placement runs through the conflict detector while the
// slot locks are held, so detect+insert is atomic per
// (teacher, date) / (student, date).
type ScheduleService struct {
	lessons  LessonStore
	courses  CourseStore
	teachers TeacherStore
	students StudentStore
	detector *ConflictService
	locks    *Locks
	validate *validator.Validate
	logger   *zap.Logger
}

func NewScheduleService(
	lessons LessonStore,
	courses CourseStore,
	teachers TeacherStore,
	students StudentStore,
	detector *ConflictService,
	locks *Locks,
	logger *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		lessons:  lessons,
		courses:  courses,
		teachers: teachers,
		students: students,
		detector: detector,
		locks:    locks,
		validate: validator.New(),
		logger:   logger,
	}
}

type CreateLessonRequest struct {
	CourseID  int64            `validate:"required"`
	TeacherID int64            `validate:"required"`
	StudentID int64            `validate:"required"`
	Date      time.Time        `validate:"required"`
	StartTime string           `validate:"required"`
	EndTime   string           `validate:"required"`
	Classroom string           // empty means unconstrained
	Type      model.LessonType `validate:"required,oneof=regular trial makeup"`
}

type BatchRequest struct {
	CourseID  int64            `validate:"required"`
	TeacherID int64            `validate:"required"`
	StudentID int64            `validate:"required"`
	StartDate time.Time        `validate:"required"`
	EndDate   time.Time        `validate:"required"`
	Weekdays  []time.Weekday   // weekday filter over [StartDate, EndDate]
	StartTime string           `validate:"required"`
	EndTime   string           `validate:"required"`
	Classroom string
	Type      model.LessonType `validate:"required,oneof=regular trial makeup"`
}

// RejectedDate is a candidate date turned down by conflict detection
type RejectedDate struct {
	Date      time.Time `json:"date"`
	Conflicts []string  `json:"conflicts"`
}

// FailedDate is a candidate date that passed detection but whose
// insert failed; batch scheduling is never all-or-nothing
type FailedDate struct {
	Date  time.Time `json:"date"`
	Error string    `json:"error"`
}

// BatchResult partitions the candidate dates of one batch run
type BatchResult struct {
	BatchID  uuid.UUID       `json:"batch_id"`
	Accepted []time.Time     `json:"accepted"`
	Rejected []RejectedDate  `json:"rejected"`
	Failed   []FailedDate    `json:"failed"`
	Lessons  []*model.Lesson `json:"lessons"`
}

// CreateLesson places a single lesson. The course, teacher and student
// display names are snapshotted onto the lesson at this point and
// never live-joined again.
func (s *ScheduleService) CreateLesson(ctx context.Context, req CreateLessonRequest) (*model.Lesson, error) {
	if err := s.validateRequest(req, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	course, teacher, student, err := s.loadRefs(ctx, req.CourseID, req.TeacherID, req.StudentID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(
		teacherSlotKey(req.TeacherID, req.Date),
		studentSlotKey(req.StudentID, req.Date),
	)
	defer unlock()

	conflicts, err := s.detector.DetectConflicts(ctx, nil, req.Date,
		req.StartTime, req.EndTime, req.TeacherID, req.StudentID, req.Classroom)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &ConflictError{Conflicts: conflicts}
	}

	lesson := s.buildLesson(req, course, teacher, student)
	if err := s.lessons.Create(ctx, lesson); err != nil {
		return nil, fmt.Errorf("create lesson: %w", err)
	}

	s.logger.Info("Lesson scheduled",
		zap.Int64("lesson_id", lesson.ID),
		zap.Int64("teacher_id", req.TeacherID),
		zap.Int64("student_id", req.StudentID),
		zap.Time("date", req.Date),
		zap.String("start_time", req.StartTime),
	)

	return lesson, nil
}

// UpdateLesson edits a scheduled lesson's placement and references,
// re-running conflict detection with the lesson itself excluded.
// The name snapshot is recaptured because the references may change.
func (s *ScheduleService) UpdateLesson(ctx context.Context, lessonID int64, req CreateLessonRequest) (*model.Lesson, error) {
	if err := s.validateRequest(req, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	course, teacher, student, err := s.loadRefs(ctx, req.CourseID, req.TeacherID, req.StudentID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(
		lessonKey(lessonID),
		teacherSlotKey(req.TeacherID, req.Date),
		studentSlotKey(req.StudentID, req.Date),
	)
	defer unlock()

	existing, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if existing == nil {
		return nil, ErrLessonNotFound
	}
	if !existing.IsScheduled() {
		return nil, fmt.Errorf("lesson %d is %s: %w", lessonID, existing.Status, ErrInvalidStateTransition)
	}

	conflicts, err := s.detector.DetectConflicts(ctx, &lessonID, req.Date,
		req.StartTime, req.EndTime, req.TeacherID, req.StudentID, req.Classroom)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &ConflictError{Conflicts: conflicts}
	}

	lesson := s.buildLesson(req, course, teacher, student)
	lesson.ID = lessonID
	lesson.Status = existing.Status
	lesson.CreatedAt = existing.CreatedAt

	if err := s.lessons.Update(ctx, lesson); err != nil {
		return nil, fmt.Errorf("update lesson: %w", err)
	}

	s.logger.Info("Lesson updated",
		zap.Int64("lesson_id", lessonID),
		zap.Time("date", req.Date),
		zap.String("start_time", req.StartTime),
	)

	return lesson, nil
}

// ScheduleBatch expands a weekday recurrence over an inclusive date
// range into concrete lessons. Candidates rejected by the detector and
// candidates whose insert failed are reported per-date; accepted dates
// are inserted independently of each other.
func (s *ScheduleService) ScheduleBatch(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	if err := s.validateRequest(req, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if len(req.Weekdays) == 0 {
		return nil, ErrEmptyWeekdaySelection
	}

	selected := make(map[time.Weekday]bool, len(req.Weekdays))
	for _, wd := range req.Weekdays {
		selected[wd] = true
	}

	var candidates []time.Time
	start := model.DateOnly(req.StartDate)
	end := model.DateOnly(req.EndDate)
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		if selected[date.Weekday()] {
			candidates = append(candidates, date)
		}
	}
	if len(candidates) == 0 {
		return nil, ErrEmptyDateRange
	}

	course, teacher, student, err := s.loadRefs(ctx, req.CourseID, req.TeacherID, req.StudentID)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{BatchID: uuid.New()}
	single := CreateLessonRequest{
		CourseID:  req.CourseID,
		TeacherID: req.TeacherID,
		StudentID: req.StudentID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Classroom: req.Classroom,
		Type:      req.Type,
	}

	for _, date := range candidates {
		unlock := s.locks.Lock(
			teacherSlotKey(req.TeacherID, date),
			studentSlotKey(req.StudentID, date),
		)

		conflicts, err := s.detector.DetectConflicts(ctx, nil, date,
			req.StartTime, req.EndTime, req.TeacherID, req.StudentID, req.Classroom)
		if err != nil {
			unlock()
			return nil, err
		}
		if len(conflicts) > 0 {
			result.Rejected = append(result.Rejected, RejectedDate{Date: date, Conflicts: conflicts})
			unlock()
			continue
		}

		single.Date = date
		lesson := s.buildLesson(single, course, teacher, student)
		if err := s.lessons.Create(ctx, lesson); err != nil {
			// Report and keep going: the batch is explicitly not a transaction
			result.Failed = append(result.Failed, FailedDate{Date: date, Error: err.Error()})
			s.logger.Warn("Failed to insert batch lesson",
				zap.String("batch_id", result.BatchID.String()),
				zap.Time("date", date),
				zap.Error(err),
			)
			unlock()
			continue
		}
		unlock()

		result.Accepted = append(result.Accepted, date)
		result.Lessons = append(result.Lessons, lesson)
	}

	s.logger.Info("Batch scheduling finished",
		zap.String("batch_id", result.BatchID.String()),
		zap.Int("candidates", len(candidates)),
		zap.Int("accepted", len(result.Accepted)),
		zap.Int("rejected", len(result.Rejected)),
		zap.Int("failed", len(result.Failed)),
	)

	return result, nil
}

func (s *ScheduleService) validateRequest(req interface{}, startTime, endTime string) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrMissingField, err)
	}
	if _, err := model.ParseClock(startTime); err != nil {
		return fmt.Errorf("start time: %w: %v", ErrMissingField, err)
	}
	if _, err := model.ParseClock(endTime); err != nil {
		return fmt.Errorf("end time: %w: %v", ErrMissingField, err)
	}
	if startTime >= endTime {
		return ErrInvalidTimeRange
	}
	return nil
}

func (s *ScheduleService) loadRefs(ctx context.Context, courseID, teacherID, studentID int64) (*model.Course, *model.Teacher, *model.Student, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("get course: %w", err)
	}
	if course == nil {
		return nil, nil, nil, ErrCourseNotFound
	}

	teacher, err := s.teachers.GetByID(ctx, teacherID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("get teacher: %w", err)
	}
	if teacher == nil {
		return nil, nil, nil, ErrTeacherNotFound
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("get student: %w", err)
	}
	if student == nil {
		return nil, nil, nil, ErrStudentNotFound
	}

	return course, teacher, student, nil
}

func (s *ScheduleService) buildLesson(req CreateLessonRequest, course *model.Course, teacher *model.Teacher, student *model.Student) *model.Lesson {
	return &model.Lesson{
		CourseID:     req.CourseID,
		TeacherID:    req.TeacherID,
		StudentID:    req.StudentID,
		CourseName:   course.DisplayName(),
		CourseNameEn: course.NameEn,
		TeacherName:  teacher.DisplayName(),
		StudentName:  student.DisplayName(),
		ScheduleDate: model.DateOnly(req.Date),
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Classroom:    req.Classroom,
		Status:       model.LessonStatusScheduled,
		Type:         req.Type,
	}
}
