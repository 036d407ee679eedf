package dto

import (
	"time"

	"github.com/noah-isme/gradebook-go-api/internal/models"
)

// SubmissionCreateRequest describes a student's initial score submission.
type SubmissionCreateRequest struct {
	ActivityID  uint    `json:"activity_id" validate:"required,gt=0"`
	RawScore    float64 `json:"raw_score" validate:"gte=0"`
	EvidenceURL string  `json:"evidence_url" validate:"omitempty,url,max=512"`
}

// SubmissionTransitionRequest carries one review event and its payload.
// Reason is mandatory for override-approve; RawScore applies to
// override-approve (clamped to the activity maximum) and resubmit.
type SubmissionTransitionRequest struct {
	Event       models.ReviewEvent `json:"event" validate:"required,oneof=approve decline request-revision override-approve resubmit"`
	Feedback    *string            `json:"feedback" validate:"omitempty,max=2000"`
	Reason      *string            `json:"reason" validate:"omitempty,max=2000"`
	RawScore    *float64           `json:"raw_score" validate:"omitempty,gte=0"`
	EvidenceURL *string            `json:"evidence_url" validate:"omitempty,url,max=512"`
}

// SubmissionFilter describes query string filters for listing submissions.
type SubmissionFilter struct {
	ActivityID *uint                    `query:"activity_id"`
	StudentID  *uint                    `query:"student_id"`
	Status     *models.SubmissionStatus `query:"status" validate:"omitempty,oneof=PENDING APPROVED DECLINED NEEDS_REVISION"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID              uint                    `json:"id"`
	ActivityID      uint                    `json:"activity_id"`
	StudentID       uint                    `json:"student_id"`
	RawScore        float64                 `json:"raw_score"`
	Status          models.SubmissionStatus `json:"status"`
	EvidenceURL     string                  `json:"evidence_url,omitempty"`
	TeacherFeedback string                  `json:"teacher_feedback,omitempty"`
	SubmittedAt     time.Time               `json:"submitted_at"`
	ReviewedAt      *time.Time              `json:"reviewed_at"`
	ReviewedBy      *uint                   `json:"reviewed_by"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
	Activity        ActivityLite            `json:"activity"`
	Student         StudentLite             `json:"student"`
}

// ActivityLite summarizes an activity in submission responses.
type ActivityLite struct {
	ID       uint                 `json:"id"`
	ClassID  uint                 `json:"class_id"`
	Category models.GradeCategory `json:"category"`
	Title    string               `json:"title"`
	MaxScore float64              `json:"max_score"`
}

// StudentLite summarizes a student without exposing full profile data.
type StudentLite struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewSubmissionResponse converts a ScoreSubmission model into a DTO.
func NewSubmissionResponse(model models.ScoreSubmission) SubmissionResponse {
	response := SubmissionResponse{
		ID:              model.ID,
		ActivityID:      model.ActivityID,
		StudentID:       model.StudentID,
		RawScore:        model.RawScore,
		Status:          model.Status,
		EvidenceURL:     model.EvidenceURL,
		TeacherFeedback: model.TeacherFeedback,
		SubmittedAt:     model.SubmittedAt,
		ReviewedAt:      model.ReviewedAt,
		ReviewedBy:      model.ReviewedBy,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}

	if model.Activity.ID != 0 {
		response.Activity = ActivityLite{
			ID:       model.Activity.ID,
			ClassID:  model.Activity.ClassID,
			Category: model.Activity.Category,
			Title:    model.Activity.Title,
			MaxScore: model.Activity.MaxScore,
		}
	}

	if model.Student.ID != 0 {
		response.Student = StudentLite{
			ID:    model.Student.ID,
			Name:  model.Student.Name,
			Email: model.Student.Email,
		}
	}

	return response
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(submissions []models.ScoreSubmission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}
