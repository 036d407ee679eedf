package dto

import (
	"time"

	"github.com/noah-isme/gradebook-go-api/internal/models"
)

// ActivityCreateRequest describes the payload for creating an activity.
type ActivityCreateRequest struct {
	Category models.GradeCategory `json:"category" validate:"required,oneof=WRITTEN_WORK PERFORMANCE_TASK QUARTERLY_ASSESSMENT"`
	Title    string               `json:"title" validate:"required,min=1,max=255"`
	MaxScore float64              `json:"max_score" validate:"required,gt=0"`
	Position int                  `json:"position" validate:"gte=0"`
}

// ActivityArchiveRequest carries the optional archive reason.
type ActivityArchiveRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=1000"`
}

// ActivityResponse is returned to API clients when viewing activities.
type ActivityResponse struct {
	ID             uint                 `json:"id"`
	ClassID        uint                 `json:"class_id"`
	Category       models.GradeCategory `json:"category"`
	Title          string               `json:"title"`
	MaxScore       float64              `json:"max_score"`
	Position       int                  `json:"position"`
	IsActive       bool                 `json:"is_active"`
	Archived       bool                 `json:"archived"`
	ArchivedReason string               `json:"archived_reason,omitempty"`
	ArchivedAt     *time.Time           `json:"archived_at,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// NewActivityResponse converts an Activity model into a DTO.
func NewActivityResponse(model models.Activity) ActivityResponse {
	return ActivityResponse{
		ID:             model.ID,
		ClassID:        model.ClassID,
		Category:       model.Category,
		Title:          model.Title,
		MaxScore:       model.MaxScore,
		Position:       model.Position,
		IsActive:       model.IsActive,
		Archived:       model.Archived,
		ArchivedReason: model.ArchivedReason,
		ArchivedAt:     model.ArchivedAt,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

// NewActivityResponseSlice converts activity models into DTOs.
func NewActivityResponseSlice(activities []models.Activity) []ActivityResponse {
	responses := make([]ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		responses = append(responses, NewActivityResponse(activity))
	}

	return responses
}
