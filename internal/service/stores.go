package service

import (
	"context"
	"time"

	"github.com/edusched/tutor_crm/internal/model"
)

// Store interfaces consumed by the services. The pgx repositories in
// internal/repository implement them; tests substitute in-memory
// fakes. A missing record is (nil, nil), infrastructure failures are
// returned as wrapped errors.

type LessonStore interface {
	Create(ctx context.Context, lesson *model.Lesson) error
	GetByID(ctx context.Context, id int64) (*model.Lesson, error)
	GetByDate(ctx context.Context, date time.Time) ([]*model.Lesson, error)
	GetCompletedBetween(ctx context.Context, from, to time.Time) ([]*model.Lesson, error)
	Update(ctx context.Context, lesson *model.Lesson) error
	UpdateStatus(ctx context.Context, id int64, status model.LessonStatus) error
	UpdateSlot(ctx context.Context, id int64, date time.Time, startTime, endTime string) error
}

type StudentStore interface {
	GetByID(ctx context.Context, id int64) (*model.Student, error)
	UpdateBalance(ctx context.Context, id int64, balance int) error
}

type TeacherStore interface {
	GetByID(ctx context.Context, id int64) (*model.Teacher, error)
}

type CourseStore interface {
	GetByID(ctx context.Context, id int64) (*model.Course, error)
}

type ApprovalStore interface {
	Create(ctx context.Context, approval *model.Approval) error
	GetByID(ctx context.Context, id int64) (*model.Approval, error)
	UpdateStatus(ctx context.Context, id int64, status model.ApprovalStatus) error
}

type MessageStore interface {
	Create(ctx context.Context, message *model.Message) error
	MarkRead(ctx context.Context, id int64) error
	CountUnread(ctx context.Context) (int, error)
}
