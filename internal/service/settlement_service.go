package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
)

// SettlementService aggregates completed lessons into payable amounts
// at a flat per-lesson rate. It is a read-only view over the lesson
// records; nothing is persisted.
type SettlementService struct {
	lessons LessonStore
	rate    int // payout per completed lesson, minor currency units
	logger  *zap.Logger
}

func NewSettlementService(lessons LessonStore, rate int, logger *zap.Logger) *SettlementService {
	return &SettlementService{
		lessons: lessons,
		rate:    rate,
		logger:  logger,
	}
}

// TeacherSettlement is one teacher's payable line for the period
type TeacherSettlement struct {
	TeacherID   int64  `json:"teacher_id"`
	TeacherName string `json:"teacher_name"`
	Lessons     int    `json:"lessons"`
	Amount      int    `json:"amount"`
}

// StudentConsumption counts a student's completed lessons in the period
type StudentConsumption struct {
	StudentID   int64  `json:"student_id"`
	StudentName string `json:"student_name"`
	Lessons     int    `json:"lessons"`
}

type Settlement struct {
	Year         int                  `json:"year"`
	Month        time.Month           `json:"month"`
	Rate         int                  `json:"rate"`
	TotalLessons int                  `json:"total_lessons"`
	TotalAmount  int                  `json:"total_amount"`
	Teachers     []TeacherSettlement  `json:"teachers"`
	Students     []StudentConsumption `json:"students"`
}

// Monthly computes the settlement for one calendar month: completed
// lessons grouped by teacher at the flat rate, plus per-student
// consumption. Names come from the lesson snapshots, so historical
// lines keep the names as they were when the lessons were scheduled.
func (s *SettlementService) Monthly(ctx context.Context, year int, month time.Month) (*Settlement, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	completed, err := s.lessons.GetCompletedBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("get completed lessons: %w", err)
	}

	byTeacher := make(map[int64]*TeacherSettlement)
	byStudent := make(map[int64]*StudentConsumption)
	for _, lesson := range completed {
		t, ok := byTeacher[lesson.TeacherID]
		if !ok {
			t = &TeacherSettlement{TeacherID: lesson.TeacherID, TeacherName: lesson.TeacherName}
			byTeacher[lesson.TeacherID] = t
		}
		t.Lessons++
		t.Amount += s.rate

		c, ok := byStudent[lesson.StudentID]
		if !ok {
			c = &StudentConsumption{StudentID: lesson.StudentID, StudentName: lesson.StudentName}
			byStudent[lesson.StudentID] = c
		}
		c.Lessons++
	}

	settlement := &Settlement{
		Year:         year,
		Month:        month,
		Rate:         s.rate,
		TotalLessons: len(completed),
		TotalAmount:  len(completed) * s.rate,
	}
	for _, t := range byTeacher {
		settlement.Teachers = append(settlement.Teachers, *t)
	}
	for _, c := range byStudent {
		settlement.Students = append(settlement.Students, *c)
	}
	sort.Slice(settlement.Teachers, func(i, j int) bool {
		return settlement.Teachers[i].TeacherID < settlement.Teachers[j].TeacherID
	})
	sort.Slice(settlement.Students, func(i, j int) bool {
		return settlement.Students[i].StudentID < settlement.Students[j].StudentID
	})

	s.logger.Info("Settlement computed",
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Int("total_lessons", settlement.TotalLessons),
		zap.Int("total_amount", settlement.TotalAmount),
	)

	return settlement, nil
}
