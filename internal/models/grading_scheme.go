package models

import "time"

// GradingScheme configures the category weights for one class. Weights are
// percentages and must sum to 100; that invariant is enforced in
// internal/grading before anything is persisted.
type GradingScheme struct {
	ID                         uint                `gorm:"primaryKey" json:"id"`
	ClassID                    uint                `gorm:"not null;uniqueIndex" json:"class_id"`
	WrittenWorkPercent         float64             `gorm:"not null" json:"written_work_percent"`
	PerformanceTaskPercent     float64             `gorm:"not null" json:"performance_task_percent"`
	QuarterlyAssessmentPercent float64             `gorm:"not null" json:"quarterly_assessment_percent"`
	CreatedAt                  time.Time           `json:"created_at"`
	UpdatedAt                  time.Time           `json:"updated_at"`
	Rules                      []TransmutationRule `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"rules"`
}

// WeightFor returns the configured weight for the given category.
func (g GradingScheme) WeightFor(category GradeCategory) float64 {
	switch category {
	case CategoryWrittenWork:
		return g.WrittenWorkPercent
	case CategoryPerformanceTask:
		return g.PerformanceTaskPercent
	case CategoryQuarterlyAssessment:
		return g.QuarterlyAssessmentPercent
	default:
		return 0
	}
}

// TransmutationRule maps one inclusive percentage range to a final grade.
// Rules belonging to a scheme must cover [0,100] without gaps or overlaps.
type TransmutationRule struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	GradingSchemeID uint      `gorm:"not null;index" json:"grading_scheme_id"`
	MinPercent      float64   `gorm:"not null" json:"min_percent"`
	MaxPercent      float64   `gorm:"not null" json:"max_percent"`
	Grade           float64   `gorm:"not null" json:"grade"`
	CreatedAt       time.Time `json:"created_at"`
}
