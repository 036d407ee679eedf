package models

import "time"

// GradeCategory is one of the three weighting buckets an activity belongs to.
type GradeCategory string

const (
	// CategoryWrittenWork covers quizzes, essays and other written output.
	CategoryWrittenWork GradeCategory = "WRITTEN_WORK"
	// CategoryPerformanceTask covers projects, labs and performances.
	CategoryPerformanceTask GradeCategory = "PERFORMANCE_TASK"
	// CategoryQuarterlyAssessment covers the end-of-quarter exam.
	CategoryQuarterlyAssessment GradeCategory = "QUARTERLY_ASSESSMENT"
)

// Categories lists every grade category in weighting order.
func Categories() []GradeCategory {
	return []GradeCategory{CategoryWrittenWork, CategoryPerformanceTask, CategoryQuarterlyAssessment}
}

// Valid reports whether the category is one of the three known buckets.
func (c GradeCategory) Valid() bool {
	switch c {
	case CategoryWrittenWork, CategoryPerformanceTask, CategoryQuarterlyAssessment:
		return true
	}
	return false
}

// Activity is a single gradable unit inside a class. Archived or inactive
// activities are kept for history but never count toward a grade.
type Activity struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	ClassID        uint          `gorm:"not null;index" json:"class_id"`
	Category       GradeCategory `gorm:"size:32;not null;index" json:"category"`
	Title          string        `gorm:"size:255;not null" json:"title"`
	MaxScore       float64       `gorm:"not null" json:"max_score"`
	Position       int           `gorm:"not null;default:0" json:"position"`
	IsActive       bool          `gorm:"not null;default:true" json:"is_active"`
	Archived       bool          `gorm:"not null;default:false" json:"archived"`
	ArchivedReason string        `gorm:"type:text" json:"archived_reason,omitempty"`
	ArchivedAt     *time.Time    `json:"archived_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// Gradable reports whether the activity counts toward grade computation.
func (a Activity) Gradable() bool {
	return a.IsActive && !a.Archived
}
