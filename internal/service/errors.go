package service

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors. These are expected outcomes that callers surface to
// the user; they are never retried. Anything else coming out of a
// store is an infrastructure failure (the store being unavailable) and
// is propagated wrapped, so IsDomainError distinguishes the two.
var (
	ErrTeacherNotFound  = errors.New("teacher not found")
	ErrStudentNotFound  = errors.New("student not found")
	ErrCourseNotFound   = errors.New("course not found")
	ErrLessonNotFound   = errors.New("lesson not found")
	ErrApprovalNotFound = errors.New("approval not found")

	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrInvalidAmount          = errors.New("amount must be a positive integer")
	ErrMissingField           = errors.New("required field missing")
	ErrInvalidTimeRange       = errors.New("end time must be after start time")

	ErrEmptyWeekdaySelection = errors.New("no weekdays selected")
	ErrEmptyDateRange        = errors.New("no candidate dates in range")
)

// ConflictError reports that a proposed placement collides with
// existing lessons. Conflicts holds one human-readable description per
// resource clash.
type ConflictError struct {
	Conflicts []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("schedule conflict: %s", strings.Join(e.Conflicts, "; "))
}

// IsDomainError reports whether err is an expected domain error rather
// than an infrastructure failure
func IsDomainError(err error) bool {
	var conflictErr *ConflictError
	if errors.As(err, &conflictErr) {
		return true
	}

	for _, sentinel := range []error{
		ErrTeacherNotFound,
		ErrStudentNotFound,
		ErrCourseNotFound,
		ErrLessonNotFound,
		ErrApprovalNotFound,
		ErrInvalidStateTransition,
		ErrInvalidAmount,
		ErrMissingField,
		ErrInvalidTimeRange,
		ErrEmptyWeekdaySelection,
		ErrEmptyDateRange,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}

	return false
}
