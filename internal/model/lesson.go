package model

import "time"

type LessonStatus string

const (
	LessonStatusScheduled LessonStatus = "SCHEDULED" // placed on the calendar, not happened yet
	LessonStatusCompleted LessonStatus = "COMPLETED" // held; terminal
	LessonStatusCancelled LessonStatus = "CANCELLED" // called off; terminal
)

type LessonType string

const (
	LessonTypeRegular LessonType = "regular" // consumes one lesson credit on completion
	LessonTypeTrial   LessonType = "trial"   // free of charge
	LessonTypeMakeup  LessonType = "makeup"  // free of charge, compensates a cancelled lesson
)

// Lesson is a single scheduled class occurrence. Course, teacher and
// student display names are snapshotted at creation time so that later
// renames do not rewrite history.
type Lesson struct {
	ID           int64        `json:"id"`
	CourseID     int64        `json:"course_id"`
	TeacherID    int64        `json:"teacher_id"`
	StudentID    int64        `json:"student_id"`
	CourseName   string       `json:"course_name"`
	CourseNameEn string       `json:"course_name_en"`
	TeacherName  string       `json:"teacher_name"`
	StudentName  string       `json:"student_name"`
	ScheduleDate time.Time    `json:"schedule_date"`         // calendar date, time part ignored
	StartTime    string       `json:"start_time"`            // wall clock "HH:MM"
	EndTime      string       `json:"end_time"`              // wall clock "HH:MM"
	Classroom    string       `json:"classroom"`             // empty means no room assigned
	Status       LessonStatus `json:"status"`
	Type         LessonType   `json:"type"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// IsScheduled checks if the lesson can still be completed, cancelled or moved
func (l *Lesson) IsScheduled() bool {
	return l.Status == LessonStatusScheduled
}

// IsTerminal checks if the lesson reached a final status
func (l *Lesson) IsTerminal() bool {
	return l.Status == LessonStatusCompleted || l.Status == LessonStatusCancelled
}

// Deducts reports whether completing this lesson consumes a lesson credit
func (l *Lesson) Deducts() bool {
	return l.Type == LessonTypeRegular
}
