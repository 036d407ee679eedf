package grading

import "github.com/noah-isme/gradebook-go-api/internal/models"

// Report is the computed grade standing for one student in one class. It is
// derived on demand and never persisted.
//
// WeightedSum applies the configured weights as-is, so a category without
// graded work simply contributes nothing (only written work graded at 90%
// under a 30% weight yields 27). FinalPercent renormalizes over the weights
// of the categories that do have graded work (the same case yields 90), and
// is what gets transmuted. Both are exposed so callers can show partial
// progress either way.
type Report struct {
	CategoryPercentages map[models.GradeCategory]*float64
	CategoryWeights     map[models.GradeCategory]float64
	WeightedSum         float64
	AppliedWeightTotal  float64
	FinalPercent        *float64
	TransmutedGrade     *float64
}

// Complete reports whether at least one category had graded work.
func (r Report) Complete() bool {
	return r.TransmutedGrade != nil
}

// Compute combines the category aggregates with the scheme weights and the
// transmutation table. Pure function over its inputs: identical inputs yield
// an identical report, and nothing passed in is mutated.
func Compute(scheme models.GradingScheme, table Table, activities []models.Activity, submissions []models.ScoreSubmission) (Report, error) {
	report := Report{
		CategoryPercentages: map[models.GradeCategory]*float64{},
		CategoryWeights:     map[models.GradeCategory]float64{},
	}

	for _, category := range models.Categories() {
		weight := scheme.WeightFor(category)
		report.CategoryWeights[category] = weight

		percentage := AggregateCategory(category, activities, submissions)
		report.CategoryPercentages[category] = percentage
		if percentage == nil {
			continue
		}

		report.WeightedSum += *percentage * weight / 100
		report.AppliedWeightTotal += weight
	}

	if report.AppliedWeightTotal <= 0 {
		return report, nil
	}

	final := clamp(report.WeightedSum*100/report.AppliedWeightTotal, 0, 100)
	grade, err := table.Lookup(final)
	if err != nil {
		return Report{}, err
	}

	report.FinalPercent = &final
	report.TransmutedGrade = &grade
	return report, nil
}
