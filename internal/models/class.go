package models

import "time"

// GradingPeriodStatus tracks whether a class is still accepting gradable work.
type GradingPeriodStatus string

const (
	// GradingPeriodOpen allows activity creation and submission review.
	GradingPeriodOpen GradingPeriodStatus = "OPEN"
	// GradingPeriodCompleted freezes the class roster of activities.
	GradingPeriodCompleted GradingPeriodStatus = "COMPLETED"
)

// Class represents one section taught by a single owning teacher.
type Class struct {
	ID                  uint                `gorm:"primaryKey" json:"id"`
	Name                string              `gorm:"size:255;not null" json:"name"`
	OwnerID             uint                `gorm:"not null;index" json:"owner_id"`
	GradingPeriodStatus GradingPeriodStatus `gorm:"size:16;not null;default:OPEN" json:"grading_period_status"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
	Activities          []Activity          `json:"activities,omitempty"`
}

// IsOwnedBy reports whether the given user owns this class.
func (c Class) IsOwnedBy(userID uint) bool {
	return c.OwnerID == userID
}

// PeriodCompleted reports whether the grading period has been closed.
func (c Class) PeriodCompleted() bool {
	return c.GradingPeriodStatus == GradingPeriodCompleted
}
