package service

import (
	"context"
	"fmt"
	"time"

	"github.com/edusched/tutor_crm/internal/model"
	"go.uber.org/zap"
)

// ConflictService decides whether a proposed lesson placement collides
// with existing lessons on the same date.
type ConflictService struct {
	lessons LessonStore
	logger  *zap.Logger
}

func NewConflictService(lessons LessonStore, logger *zap.Logger) *ConflictService {
	return &ConflictService{
		lessons: lessons,
		logger:  logger,
	}
}

// DetectConflicts checks the proposed placement against every
// non-cancelled lesson on the same date, excluding excludeLessonID
// (nil for new lessons). Time ranges compare as half-open intervals:
// [s1,e1) and [s2,e2) overlap iff s1 < e2 && e1 > s2. Each overlapping
// lesson contributes up to three entries, one per clashing resource;
// an empty classroom never clashes. An empty result means the
// placement is legal.
//
// The check is a plain read; callers that insert afterwards must hold
// the slot locks for the duration of detect+insert.
func (s *ConflictService) DetectConflicts(
	ctx context.Context,
	excludeLessonID *int64,
	date time.Time,
	startTime, endTime string,
	teacherID, studentID int64,
	classroom string,
) ([]string, error) {
	sameDay, err := s.lessons.GetByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("get lessons for date: %w", err)
	}

	var conflicts []string
	for _, lesson := range sameDay {
		if lesson.Status == model.LessonStatusCancelled {
			continue
		}
		if excludeLessonID != nil && lesson.ID == *excludeLessonID {
			continue
		}
		if !model.Overlaps(startTime, endTime, lesson.StartTime, lesson.EndTime) {
			continue
		}

		if lesson.TeacherID == teacherID {
			conflicts = append(conflicts, fmt.Sprintf(
				"teacher %q already has a lesson at %s-%s",
				lesson.TeacherName, lesson.StartTime, lesson.EndTime))
		}
		if lesson.StudentID == studentID {
			conflicts = append(conflicts, fmt.Sprintf(
				"student %q already has a lesson at %s-%s",
				lesson.StudentName, lesson.StartTime, lesson.EndTime))
		}
		if classroom != "" && lesson.Classroom == classroom {
			conflicts = append(conflicts, fmt.Sprintf(
				"classroom %q is already occupied at %s-%s",
				classroom, lesson.StartTime, lesson.EndTime))
		}
	}

	if len(conflicts) > 0 {
		s.logger.Debug("Placement conflicts detected",
			zap.Time("date", date),
			zap.String("start_time", startTime),
			zap.String("end_time", endTime),
			zap.Int("conflicts", len(conflicts)),
		)
	}

	return conflicts, nil
}
