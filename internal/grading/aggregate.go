package grading

import "github.com/noah-isme/gradebook-go-api/internal/models"

// AggregateCategory reduces a student's approved scores for one category to a
// percentage of the total attainable score. Only active, non-archived
// activities of the category count, and only APPROVED submissions against
// them. A category with no gradable activities returns nil rather than zero
// so it can be excluded from weighting instead of dragging the grade down.
func AggregateCategory(category models.GradeCategory, activities []models.Activity, submissions []models.ScoreSubmission) *float64 {
	gradable := map[uint]models.Activity{}
	var maxTotal float64
	for _, activity := range activities {
		if activity.Category != category || !activity.Gradable() {
			continue
		}
		gradable[activity.ID] = activity
		maxTotal += activity.MaxScore
	}

	if len(gradable) == 0 || maxTotal <= 0 {
		return nil
	}

	var rawTotal float64
	for _, submission := range submissions {
		if !submission.IsApproved() {
			continue
		}
		if _, ok := gradable[submission.ActivityID]; !ok {
			continue
		}
		rawTotal += submission.RawScore
	}

	percentage := clamp(rawTotal/maxTotal*100, 0, 100)
	return &percentage
}
