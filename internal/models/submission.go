package models

import "time"

// SubmissionStatus is the review state of a score submission.
type SubmissionStatus string

const (
	// SubmissionStatusPending indicates the submission awaits teacher review.
	SubmissionStatusPending SubmissionStatus = "PENDING"
	// SubmissionStatusApproved indicates the score counts toward grades.
	SubmissionStatusApproved SubmissionStatus = "APPROVED"
	// SubmissionStatusDeclined indicates the teacher rejected the score.
	SubmissionStatusDeclined SubmissionStatus = "DECLINED"
	// SubmissionStatusNeedsRevision asks the student to fix and resubmit.
	SubmissionStatusNeedsRevision SubmissionStatus = "NEEDS_REVISION"
)

// Valid reports whether the status is one of the four review states.
func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionStatusPending, SubmissionStatusApproved, SubmissionStatusDeclined, SubmissionStatusNeedsRevision:
		return true
	}
	return false
}

// ReviewEvent names a transition of the submission review lifecycle.
type ReviewEvent string

const (
	// EventApprove moves a pending submission to APPROVED.
	EventApprove ReviewEvent = "approve"
	// EventDecline moves a pending submission to DECLINED.
	EventDecline ReviewEvent = "decline"
	// EventRequestRevision sends a pending submission back to the student.
	EventRequestRevision ReviewEvent = "request-revision"
	// EventOverrideApprove force-approves with a corrected score and reason.
	EventOverrideApprove ReviewEvent = "override-approve"
	// EventResubmit re-opens a declined or revision-requested submission.
	EventResubmit ReviewEvent = "resubmit"
)

// Valid reports whether the event is a known review transition.
func (e ReviewEvent) Valid() bool {
	switch e {
	case EventApprove, EventDecline, EventRequestRevision, EventOverrideApprove, EventResubmit:
		return true
	}
	return false
}

// reviewTransitions is the closed transition table. Anything absent here is
// an invalid transition regardless of who attempts it.
var reviewTransitions = map[SubmissionStatus]map[ReviewEvent]SubmissionStatus{
	SubmissionStatusPending: {
		EventApprove:         SubmissionStatusApproved,
		EventDecline:         SubmissionStatusDeclined,
		EventRequestRevision: SubmissionStatusNeedsRevision,
		EventOverrideApprove: SubmissionStatusApproved,
	},
	SubmissionStatusDeclined: {
		EventOverrideApprove: SubmissionStatusApproved,
		EventResubmit:        SubmissionStatusPending,
	},
	SubmissionStatusNeedsRevision: {
		EventOverrideApprove: SubmissionStatusApproved,
		EventResubmit:        SubmissionStatusPending,
	},
}

// NextStatus resolves the target status for an event from the given state.
// The second return value is false when the transition is not allowed.
func NextStatus(from SubmissionStatus, event ReviewEvent) (SubmissionStatus, bool) {
	targets, ok := reviewTransitions[from]
	if !ok {
		return "", false
	}
	to, ok := targets[event]
	return to, ok
}

// ScoreSubmission is one student's scored attempt at one activity. At most
// one row exists per (activity, student); re-submissions reuse the row.
type ScoreSubmission struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	ActivityID      uint             `gorm:"not null;uniqueIndex:idx_submission_activity_student" json:"activity_id"`
	StudentID       uint             `gorm:"not null;uniqueIndex:idx_submission_activity_student" json:"student_id"`
	RawScore        float64          `gorm:"not null" json:"raw_score"`
	Status          SubmissionStatus `gorm:"size:32;not null;index" json:"status"`
	EvidenceURL     string           `gorm:"size:512" json:"evidence_url"`
	TeacherFeedback string           `gorm:"type:text" json:"teacher_feedback"`
	SubmittedAt     time.Time        `gorm:"not null" json:"submitted_at"`
	ReviewedAt      *time.Time       `json:"reviewed_at"`
	ReviewedBy      *uint            `json:"reviewed_by"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Activity        Activity         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"activity"`
	Student         Student          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
}

// IsApproved reports whether the submission counts toward grade computation.
func (s ScoreSubmission) IsApproved() bool {
	return s.Status == SubmissionStatusApproved
}
