package grading

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-go-api/internal/models"
)

func testScheme() models.GradingScheme {
	return models.GradingScheme{
		WrittenWorkPercent:         30,
		PerformanceTaskPercent:     50,
		QuarterlyAssessmentPercent: 20,
	}
}

func testTable(t *testing.T) Table {
	t.Helper()
	table, err := NewTable(DefaultTransmutationRules())
	require.NoError(t, err)
	return table
}

func TestAggregateCategoryApprovedOnly(t *testing.T) {
	activities := []models.Activity{
		{ID: 1, Category: models.CategoryWrittenWork, MaxScore: 20, IsActive: true},
		{ID: 2, Category: models.CategoryWrittenWork, MaxScore: 30, IsActive: true},
		{ID: 3, Category: models.CategoryPerformanceTask, MaxScore: 50, IsActive: true},
	}
	submissions := []models.ScoreSubmission{
		{ActivityID: 1, RawScore: 18, Status: models.SubmissionStatusApproved},
		{ActivityID: 2, RawScore: 30, Status: models.SubmissionStatusPending},
		{ActivityID: 3, RawScore: 45, Status: models.SubmissionStatusApproved},
	}

	percentage := AggregateCategory(models.CategoryWrittenWork, activities, submissions)
	require.NotNil(t, percentage)
	require.InDelta(t, 36.0, *percentage, 1e-9, "pending score must not count; missing counts as zero of max")
}

func TestAggregateCategoryExcludesArchivedAndInactive(t *testing.T) {
	activities := []models.Activity{
		{ID: 1, Category: models.CategoryWrittenWork, MaxScore: 20, IsActive: true},
		{ID: 2, Category: models.CategoryWrittenWork, MaxScore: 100, IsActive: true, Archived: true},
		{ID: 3, Category: models.CategoryWrittenWork, MaxScore: 100, IsActive: false},
	}
	submissions := []models.ScoreSubmission{
		{ActivityID: 1, RawScore: 18, Status: models.SubmissionStatusApproved},
		{ActivityID: 2, RawScore: 100, Status: models.SubmissionStatusApproved},
	}

	percentage := AggregateCategory(models.CategoryWrittenWork, activities, submissions)
	require.NotNil(t, percentage)
	require.InDelta(t, 90.0, *percentage, 1e-9)
}

func TestAggregateCategoryEmptyIsNil(t *testing.T) {
	activities := []models.Activity{
		{ID: 1, Category: models.CategoryPerformanceTask, MaxScore: 50, IsActive: true},
	}

	require.Nil(t, AggregateCategory(models.CategoryWrittenWork, activities, nil))
}

func TestComputeSingleCategoryRenormalizes(t *testing.T) {
	// Spec scenario: one written-work activity, max 20, approved 18 -> 90%.
	activities := []models.Activity{
		{ID: 1, Category: models.CategoryWrittenWork, MaxScore: 20, IsActive: true},
	}
	submissions := []models.ScoreSubmission{
		{ActivityID: 1, RawScore: 18, Status: models.SubmissionStatusApproved},
	}

	report, err := Compute(testScheme(), testTable(t), activities, submissions)
	require.NoError(t, err)

	ww := report.CategoryPercentages[models.CategoryWrittenWork]
	require.NotNil(t, ww)
	require.InDelta(t, 90.0, *ww, 1e-9)
	require.Nil(t, report.CategoryPercentages[models.CategoryPerformanceTask])
	require.Nil(t, report.CategoryPercentages[models.CategoryQuarterlyAssessment])

	// Raw weighted sum keeps the configured 30% weight.
	require.InDelta(t, 27.0, report.WeightedSum, 1e-9)
	// Renormalized final excludes the ungraded categories entirely.
	require.InDelta(t, 30.0, report.AppliedWeightTotal, 1e-9)
	require.NotNil(t, report.FinalPercent)
	require.InDelta(t, 90.0, *report.FinalPercent, 1e-9)

	require.NotNil(t, report.TransmutedGrade)
	require.Equal(t, 95.0, *report.TransmutedGrade)
}

func TestComputeAllCategories(t *testing.T) {
	activities := []models.Activity{
		{ID: 1, Category: models.CategoryWrittenWork, MaxScore: 100, IsActive: true},
		{ID: 2, Category: models.CategoryPerformanceTask, MaxScore: 100, IsActive: true},
		{ID: 3, Category: models.CategoryQuarterlyAssessment, MaxScore: 100, IsActive: true},
	}
	submissions := []models.ScoreSubmission{
		{ActivityID: 1, RawScore: 80, Status: models.SubmissionStatusApproved},
		{ActivityID: 2, RawScore: 85, Status: models.SubmissionStatusApproved},
		{ActivityID: 3, RawScore: 80, Status: models.SubmissionStatusApproved},
	}

	report, err := Compute(testScheme(), testTable(t), activities, submissions)
	require.NoError(t, err)

	// 80*0.3 + 85*0.5 + 80*0.2 = 82.5, fully weighted so no renormalization.
	require.InDelta(t, 82.5, report.WeightedSum, 1e-9)
	require.InDelta(t, 100.0, report.AppliedWeightTotal, 1e-9)
	require.NotNil(t, report.FinalPercent)
	require.InDelta(t, 82.5, *report.FinalPercent, 1e-9)
	require.NotNil(t, report.TransmutedGrade)
	require.Equal(t, 86.0, *report.TransmutedGrade)
}

func TestComputeNoGradedWorkIsIncomplete(t *testing.T) {
	report, err := Compute(testScheme(), testTable(t), nil, nil)
	require.NoError(t, err)
	require.False(t, report.Complete())
	require.Nil(t, report.FinalPercent)
	require.Nil(t, report.TransmutedGrade)
	require.Zero(t, report.WeightedSum)
}

func TestComputeIsIdempotent(t *testing.T) {
	activities := []models.Activity{
		{ID: 1, Category: models.CategoryWrittenWork, MaxScore: 20, IsActive: true},
		{ID: 2, Category: models.CategoryPerformanceTask, MaxScore: 40, IsActive: true},
	}
	submissions := []models.ScoreSubmission{
		{ActivityID: 1, RawScore: 15, Status: models.SubmissionStatusApproved},
		{ActivityID: 2, RawScore: 31, Status: models.SubmissionStatusApproved},
	}

	first, err := Compute(testScheme(), testTable(t), activities, submissions)
	require.NoError(t, err)
	second, err := Compute(testScheme(), testTable(t), activities, submissions)
	require.NoError(t, err)

	require.Equal(t, first.WeightedSum, second.WeightedSum)
	require.Equal(t, *first.FinalPercent, *second.FinalPercent)
	require.Equal(t, *first.TransmutedGrade, *second.TransmutedGrade)
}
