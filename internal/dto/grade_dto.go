package dto

import (
	"time"

	"github.com/noah-isme/gradebook-go-api/internal/grading"
	"github.com/noah-isme/gradebook-go-api/internal/models"
)

// CategoryGrade pairs one category's aggregate with its configured weight.
// Percentage is null while the category has no gradable activities.
type CategoryGrade struct {
	Category   models.GradeCategory `json:"category"`
	Percentage *float64             `json:"percentage"`
	Weight     float64              `json:"weight"`
}

// GradeReportResponse is the computed standing of one student in one class.
type GradeReportResponse struct {
	ClassID         uint            `json:"class_id"`
	StudentID       uint            `json:"student_id"`
	Categories      []CategoryGrade `json:"categories"`
	WeightedSum     float64         `json:"weighted_sum"`
	FinalPercent    *float64        `json:"final_percent"`
	TransmutedGrade *float64        `json:"transmuted_grade"`
	Complete        bool            `json:"complete"`
}

// NewGradeReportResponse converts a grading report into a DTO.
func NewGradeReportResponse(classID, studentID uint, report grading.Report) GradeReportResponse {
	categories := make([]CategoryGrade, 0, len(models.Categories()))
	for _, category := range models.Categories() {
		categories = append(categories, CategoryGrade{
			Category:   category,
			Percentage: report.CategoryPercentages[category],
			Weight:     report.CategoryWeights[category],
		})
	}

	return GradeReportResponse{
		ClassID:         classID,
		StudentID:       studentID,
		Categories:      categories,
		WeightedSum:     report.WeightedSum,
		FinalPercent:    report.FinalPercent,
		TransmutedGrade: report.TransmutedGrade,
		Complete:        report.Complete(),
	}
}

// ClassGradeSummaryEntry is one student's row in the class-wide summary.
// Error carries a per-student failure without failing the whole summary.
type ClassGradeSummaryEntry struct {
	StudentID       uint     `json:"student_id"`
	StudentName     string   `json:"student_name"`
	FinalPercent    *float64 `json:"final_percent"`
	TransmutedGrade *float64 `json:"transmuted_grade"`
	Complete        bool     `json:"complete"`
	Error           string   `json:"error,omitempty"`
}

// ClassGradeSummaryResponse aggregates computed grades for a whole roster.
type ClassGradeSummaryResponse struct {
	ClassID     uint                     `json:"class_id"`
	GeneratedAt time.Time                `json:"generated_at"`
	Entries     []ClassGradeSummaryEntry `json:"entries"`
}

// RosterEntry reports one enrolled student's standing for an activity.
// Status is MISSING when the student has not submitted at all.
type RosterEntry struct {
	StudentID   uint       `json:"student_id"`
	StudentName string     `json:"student_name"`
	Status      string     `json:"status"`
	RawScore    *float64   `json:"raw_score,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

// RosterResponse lists every actively enrolled student for an activity.
type RosterResponse struct {
	ActivityID uint          `json:"activity_id"`
	Entries    []RosterEntry `json:"entries"`
}
