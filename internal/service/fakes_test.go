package service

import (
	"context"
	"time"

	"github.com/edusched/tutor_crm/internal/model"
	"go.uber.org/zap"
)

// In-memory store fakes. They mirror the repository contract: a
// missing record is (nil, nil), reads return copies so callers never
// share memory with the store, and errors can be injected per call.

type fakeLessonStore struct {
	lessons map[int64]*model.Lesson
	nextID  int64

	getErr       error
	createCalls  int
	failCreateOn int // 1-based Create call index that errors, 0 disables
	createErr    error
}

func newFakeLessonStore() *fakeLessonStore {
	return &fakeLessonStore{lessons: make(map[int64]*model.Lesson)}
}

func (f *fakeLessonStore) add(lesson *model.Lesson) *model.Lesson {
	if lesson.ID == 0 {
		f.nextID++
		lesson.ID = f.nextID
	} else if lesson.ID > f.nextID {
		f.nextID = lesson.ID
	}
	if lesson.Status == "" {
		lesson.Status = model.LessonStatusScheduled
	}
	cp := *lesson
	f.lessons[lesson.ID] = &cp
	return lesson
}

func (f *fakeLessonStore) Create(ctx context.Context, lesson *model.Lesson) error {
	f.createCalls++
	if f.failCreateOn != 0 && f.createCalls == f.failCreateOn {
		return f.createErr
	}
	lesson.CreatedAt = time.Now()
	lesson.UpdatedAt = lesson.CreatedAt
	f.add(lesson)
	return nil
}

func (f *fakeLessonStore) GetByID(ctx context.Context, id int64) (*model.Lesson, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	lesson, ok := f.lessons[id]
	if !ok {
		return nil, nil
	}
	cp := *lesson
	return &cp, nil
}

func (f *fakeLessonStore) GetByDate(ctx context.Context, date time.Time) ([]*model.Lesson, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	var out []*model.Lesson
	for _, lesson := range f.lessons {
		if model.SameDate(lesson.ScheduleDate, date) {
			cp := *lesson
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeLessonStore) GetCompletedBetween(ctx context.Context, from, to time.Time) ([]*model.Lesson, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	var out []*model.Lesson
	for _, lesson := range f.lessons {
		if lesson.Status != model.LessonStatusCompleted {
			continue
		}
		if lesson.ScheduleDate.Before(from) || lesson.ScheduleDate.After(to) {
			continue
		}
		cp := *lesson
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeLessonStore) Update(ctx context.Context, lesson *model.Lesson) error {
	cp := *lesson
	f.lessons[lesson.ID] = &cp
	return nil
}

func (f *fakeLessonStore) UpdateStatus(ctx context.Context, id int64, status model.LessonStatus) error {
	f.lessons[id].Status = status
	return nil
}

func (f *fakeLessonStore) UpdateSlot(ctx context.Context, id int64, date time.Time, startTime, endTime string) error {
	lesson := f.lessons[id]
	lesson.ScheduleDate = model.DateOnly(date)
	lesson.StartTime = startTime
	lesson.EndTime = endTime
	return nil
}

type fakeStudentStore struct {
	students map[int64]*model.Student
}

func newFakeStudentStore() *fakeStudentStore {
	return &fakeStudentStore{students: make(map[int64]*model.Student)}
}

func (f *fakeStudentStore) GetByID(ctx context.Context, id int64) (*model.Student, error) {
	student, ok := f.students[id]
	if !ok {
		return nil, nil
	}
	cp := *student
	return &cp, nil
}

func (f *fakeStudentStore) UpdateBalance(ctx context.Context, id int64, balance int) error {
	f.students[id].Balance = balance
	return nil
}

type fakeTeacherStore struct {
	teachers map[int64]*model.Teacher
}

func newFakeTeacherStore() *fakeTeacherStore {
	return &fakeTeacherStore{teachers: make(map[int64]*model.Teacher)}
}

func (f *fakeTeacherStore) GetByID(ctx context.Context, id int64) (*model.Teacher, error) {
	teacher, ok := f.teachers[id]
	if !ok {
		return nil, nil
	}
	cp := *teacher
	return &cp, nil
}

type fakeCourseStore struct {
	courses map[int64]*model.Course
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{courses: make(map[int64]*model.Course)}
}

func (f *fakeCourseStore) GetByID(ctx context.Context, id int64) (*model.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return nil, nil
	}
	cp := *course
	return &cp, nil
}

type fakeApprovalStore struct {
	approvals map[int64]*model.Approval
	nextID    int64
}

func newFakeApprovalStore() *fakeApprovalStore {
	return &fakeApprovalStore{approvals: make(map[int64]*model.Approval)}
}

func (f *fakeApprovalStore) Create(ctx context.Context, approval *model.Approval) error {
	f.nextID++
	approval.ID = f.nextID
	approval.CreatedAt = time.Now()
	cp := *approval
	f.approvals[approval.ID] = &cp
	return nil
}

func (f *fakeApprovalStore) GetByID(ctx context.Context, id int64) (*model.Approval, error) {
	approval, ok := f.approvals[id]
	if !ok {
		return nil, nil
	}
	cp := *approval
	return &cp, nil
}

func (f *fakeApprovalStore) UpdateStatus(ctx context.Context, id int64, status model.ApprovalStatus) error {
	f.approvals[id].Status = status
	return nil
}

type fakeMessageStore struct {
	messages []*model.Message
	nextID   int64
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{}
}

func (f *fakeMessageStore) Create(ctx context.Context, message *model.Message) error {
	f.nextID++
	message.ID = f.nextID
	message.CreatedAt = time.Now()
	cp := *message
	f.messages = append(f.messages, &cp)
	return nil
}

func (f *fakeMessageStore) MarkRead(ctx context.Context, id int64) error {
	for _, message := range f.messages {
		if message.ID == id {
			message.Unread = false
		}
	}
	return nil
}

func (f *fakeMessageStore) CountUnread(ctx context.Context) (int, error) {
	count := 0
	for _, message := range f.messages {
		if message.Unread {
			count++
		}
	}
	return count, nil
}

// last returns the most recent message content, for asserting on the
// audit trail
func (f *fakeMessageStore) last() string {
	if len(f.messages) == 0 {
		return ""
	}
	return f.messages[len(f.messages)-1].Content
}

type fakeNotifier struct {
	sent    []string
	sendErr error
}

func (f *fakeNotifier) Send(ctx context.Context, text string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, text)
	return nil
}

// env wires every service over the fakes the same way internal/app
// does over the real repositories.
type env struct {
	lessonStore   *fakeLessonStore
	studentStore  *fakeStudentStore
	teacherStore  *fakeTeacherStore
	courseStore   *fakeCourseStore
	approvalStore *fakeApprovalStore
	messageStore  *fakeMessageStore
	notifier      *fakeNotifier

	msgs       *MessageService
	ledger     *LedgerService
	detector   *ConflictService
	lifecycle  *LessonService
	scheduler  *ScheduleService
	workflow   *ApprovalService
	settlement *SettlementService
}

func newEnv() *env {
	e := &env{
		lessonStore:   newFakeLessonStore(),
		studentStore:  newFakeStudentStore(),
		teacherStore:  newFakeTeacherStore(),
		courseStore:   newFakeCourseStore(),
		approvalStore: newFakeApprovalStore(),
		messageStore:  newFakeMessageStore(),
		notifier:      &fakeNotifier{},
	}

	logger := zap.NewNop()
	locks := NewLocks()
	e.msgs = NewMessageService(e.messageStore, e.notifier, logger)
	e.ledger = NewLedgerService(e.studentStore, e.msgs, locks, logger)
	e.detector = NewConflictService(e.lessonStore, logger)
	e.lifecycle = NewLessonService(e.lessonStore, e.ledger, e.msgs, locks, logger)
	e.scheduler = NewScheduleService(e.lessonStore, e.courseStore, e.teacherStore, e.studentStore, e.detector, locks, logger)
	e.workflow = NewApprovalService(e.approvalStore, e.lessonStore, e.lifecycle, e.detector, e.msgs, logger)
	e.settlement = NewSettlementService(e.lessonStore, 200, logger)

	return e
}

func (e *env) addTeacher(id int64, name string) *model.Teacher {
	teacher := &model.Teacher{ID: id, Name: name, Status: model.StatusActive}
	e.teacherStore.teachers[id] = teacher
	return teacher
}

func (e *env) addStudent(id int64, name string, balance int) *model.Student {
	student := &model.Student{ID: id, Name: name, Balance: balance, Status: model.StatusActive}
	e.studentStore.students[id] = student
	return student
}

func (e *env) addCourse(id int64, name string) *model.Course {
	course := &model.Course{ID: id, Name: name, Duration: 60, Status: model.StatusActive}
	e.courseStore.courses[id] = course
	return course
}

func (e *env) addLesson(lesson *model.Lesson) *model.Lesson {
	if lesson.Type == "" {
		lesson.Type = model.LessonTypeRegular
	}
	return e.lessonStore.add(lesson)
}

func (e *env) balance(studentID int64) int {
	return e.studentStore.students[studentID].Balance
}

func (e *env) storedLesson(id int64) *model.Lesson {
	return e.lessonStore.lessons[id]
}

func (e *env) storedApproval(id int64) *model.Approval {
	return e.approvalStore.approvals[id]
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
