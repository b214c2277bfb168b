package model

import "time"

type ApprovalType string

const (
	ApprovalTypeLeave      ApprovalType = "LEAVE"      // cancel the referenced lesson on approval
	ApprovalTypeReschedule ApprovalType = "RESCHEDULE" // move the referenced lesson on approval
	ApprovalTypeOther      ApprovalType = "OTHER"      // no downstream effect
)

type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "PENDING"
	ApprovalStatusApproved ApprovalStatus = "APPROVED"
	ApprovalStatusRejected ApprovalStatus = "REJECTED"
)

// Approval is a change request awaiting a human decision. Decided
// exactly once, never deleted.
type Approval struct {
	ID         int64          `json:"id"`
	Type       ApprovalType   `json:"type"`
	LessonID   *int64         `json:"lesson_id"`   // nil for requests not tied to one lesson
	LessonInfo string         `json:"lesson_info"` // free-text snapshot of the lesson at submission time
	Reason     string         `json:"reason"`
	Applicant  string         `json:"applicant"`
	Status     ApprovalStatus `json:"status"`

	// Proposed replacement slot, RESCHEDULE only
	NewDate      *time.Time `json:"new_date"`
	NewStartTime string     `json:"new_start_time"`
	NewEndTime   string     `json:"new_end_time"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// IsPending checks if the approval still awaits a decision
func (a *Approval) IsPending() bool {
	return a.Status == ApprovalStatusPending
}

// IsApproved checks if the approval was approved
func (a *Approval) IsApproved() bool {
	return a.Status == ApprovalStatusApproved
}

// IsRejected checks if the approval was rejected
func (a *Approval) IsRejected() bool {
	return a.Status == ApprovalStatusRejected
}
