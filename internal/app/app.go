package app

import (
	"github.com/edusched/tutor_crm/internal/config"
	"github.com/edusched/tutor_crm/internal/notify"
	"github.com/edusched/tutor_crm/internal/repository"
	"github.com/edusched/tutor_crm/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// App wires repositories and services together. Transports (HTTP,
// bots, CLIs) sit on top of this and call the services directly.
type App struct {
	Teachers   *repository.TeacherRepository
	Students   *repository.StudentRepository
	Courses    *repository.CourseRepository
	Lessons    *repository.LessonRepository
	Approvals  *repository.ApprovalRepository
	MessageLog *repository.MessageRepository

	Messages   *service.MessageService
	Ledger     *service.LedgerService
	Detector   *service.ConflictService
	Lifecycle  *service.LessonService
	Scheduler  *service.ScheduleService
	Workflow   *service.ApprovalService
	Settlement *service.SettlementService
}

func New(pool *pgxpool.Pool, cfg *config.Config, notifier notify.Notifier, logger *zap.Logger) *App {
	teacherRepo := repository.NewTeacherRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	lessonRepo := repository.NewLessonRepository(pool)
	approvalRepo := repository.NewApprovalRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)

	locks := service.NewLocks()
	msgs := service.NewMessageService(messageRepo, notifier, logger)
	ledger := service.NewLedgerService(studentRepo, msgs, locks, logger)
	detector := service.NewConflictService(lessonRepo, logger)
	lifecycle := service.NewLessonService(lessonRepo, ledger, msgs, locks, logger)
	scheduler := service.NewScheduleService(lessonRepo, courseRepo, teacherRepo, studentRepo, detector, locks, logger)
	workflow := service.NewApprovalService(approvalRepo, lessonRepo, lifecycle, detector, msgs, logger)
	settlement := service.NewSettlementService(lessonRepo, cfg.LessonRate, logger)

	return &App{
		Teachers:   teacherRepo,
		Students:   studentRepo,
		Courses:    courseRepo,
		Lessons:    lessonRepo,
		Approvals:  approvalRepo,
		MessageLog: messageRepo,
		Messages:   msgs,
		Ledger:     ledger,
		Detector:   detector,
		Lifecycle:  lifecycle,
		Scheduler:  scheduler,
		Workflow:   workflow,
		Settlement: settlement,
	}
}
