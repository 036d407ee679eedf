package dto

import "github.com/noah-isme/gradebook-go-api/internal/models"

// TransmutationRuleRequest is one range entry of a scheme upsert.
type TransmutationRuleRequest struct {
	MinPercent float64 `json:"min_percent" validate:"gte=0,lte=100"`
	MaxPercent float64 `json:"max_percent" validate:"gte=0,lte=100"`
	Grade      float64 `json:"grade" validate:"gte=0,lte=100"`
}

// GradingSchemeUpsertRequest replaces a class's weights and transmutation
// table. An empty rule list applies the seed table.
type GradingSchemeUpsertRequest struct {
	WrittenWorkPercent         float64                    `json:"written_work_percent" validate:"gte=0,lte=100"`
	PerformanceTaskPercent     float64                    `json:"performance_task_percent" validate:"gte=0,lte=100"`
	QuarterlyAssessmentPercent float64                    `json:"quarterly_assessment_percent" validate:"gte=0,lte=100"`
	Rules                      []TransmutationRuleRequest `json:"rules" validate:"omitempty,max=20,dive"`
}

// TransmutationRuleResponse serializes one configured range.
type TransmutationRuleResponse struct {
	MinPercent float64 `json:"min_percent"`
	MaxPercent float64 `json:"max_percent"`
	Grade      float64 `json:"grade"`
}

// GradingSchemeResponse is returned when viewing a class's scheme.
type GradingSchemeResponse struct {
	ID                         uint                        `json:"id"`
	ClassID                    uint                        `json:"class_id"`
	WrittenWorkPercent         float64                     `json:"written_work_percent"`
	PerformanceTaskPercent     float64                     `json:"performance_task_percent"`
	QuarterlyAssessmentPercent float64                     `json:"quarterly_assessment_percent"`
	Rules                      []TransmutationRuleResponse `json:"rules"`
}

// NewGradingSchemeResponse converts a GradingScheme model into a DTO.
func NewGradingSchemeResponse(model models.GradingScheme) GradingSchemeResponse {
	rules := make([]TransmutationRuleResponse, 0, len(model.Rules))
	for _, rule := range model.Rules {
		rules = append(rules, TransmutationRuleResponse{
			MinPercent: rule.MinPercent,
			MaxPercent: rule.MaxPercent,
			Grade:      rule.Grade,
		})
	}

	return GradingSchemeResponse{
		ID:                         model.ID,
		ClassID:                    model.ClassID,
		WrittenWorkPercent:         model.WrittenWorkPercent,
		PerformanceTaskPercent:     model.PerformanceTaskPercent,
		QuarterlyAssessmentPercent: model.QuarterlyAssessmentPercent,
		Rules:                      rules,
	}
}
