package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-go-api/internal/dto"
	"github.com/noah-isme/gradebook-go-api/internal/models"
	"github.com/noah-isme/gradebook-go-api/internal/repository"
)

const (
	reviewTeacherID = uint(10)
	reviewStudentID = uint(5)
)

func reviewFixture(status models.SubmissionStatus) (*memorySubmissionRepo, *memoryClassRepo) {
	activity := models.Activity{
		ID:       1,
		ClassID:  1,
		Category: models.CategoryWrittenWork,
		Title:    "Quiz 1",
		MaxScore: 100,
		IsActive: true,
	}

	subRepo := &memorySubmissionRepo{
		submissions: map[uint]models.ScoreSubmission{
			1: {
				ID:          1,
				ActivityID:  activity.ID,
				StudentID:   reviewStudentID,
				RawScore:    80,
				Status:      status,
				SubmittedAt: time.Now().Add(-time.Hour),
				Activity:    activity,
			},
		},
		nextID: 1,
	}

	classRepo := &memoryClassRepo{
		classes: map[uint]models.Class{
			1: {ID: 1, Name: "Math 7", OwnerID: reviewTeacherID, GradingPeriodStatus: models.GradingPeriodOpen},
		},
	}

	return subRepo, classRepo
}

func newReviewService(subRepo *memorySubmissionRepo, classRepo *memoryClassRepo) ReviewService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewReviewService(subRepo, classRepo, validate, nil, testLogger())
}

func TestReviewServiceApprove(t *testing.T) {
	subRepo, classRepo := reviewFixture(models.SubmissionStatusPending)
	svc := newReviewService(subRepo, classRepo)

	actor := Actor{ID: reviewTeacherID, Role: RoleTeacher}
	feedback := "well done"
	response, err := svc.Transition(context.Background(), actor, 1, dto.SubmissionTransitionRequest{
		Event:    models.EventApprove,
		Feedback: &feedback,
	})
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusApproved, response.Status)
	require.Equal(t, "well done", response.TeacherFeedback)
	require.NotNil(t, response.ReviewedAt)
	require.NotNil(t, response.ReviewedBy)
	require.Equal(t, reviewTeacherID, *response.ReviewedBy)

	require.Len(t, subRepo.audits, 1)
	entry := subRepo.audits[0]
	require.Equal(t, "APPROVED", entry.Action)
	require.Equal(t, reviewTeacherID, entry.ActorID)
	require.Equal(t, "PENDING", entry.OldValue["status"])
	require.Equal(t, "APPROVED", entry.NewValue["status"])
}

func TestReviewServiceNonOwnerForbidden(t *testing.T) {
	subRepo, classRepo := reviewFixture(models.SubmissionStatusPending)
	svc := newReviewService(subRepo, classRepo)

	otherTeacher := Actor{ID: 99, Role: RoleTeacher}
	_, err := svc.Transition(context.Background(), otherTeacher, 1, dto.SubmissionTransitionRequest{
		Event: models.EventApprove,
	})
	require.ErrorIs(t, err, ErrForbidden)
	require.Empty(t, subRepo.audits)
}

func TestReviewServiceStudentCannotReview(t *testing.T) {
	subRepo, classRepo := reviewFixture(models.SubmissionStatusPending)
	svc := newReviewService(subRepo, classRepo)

	student := Actor{ID: reviewStudentID, Role: RoleStudent}
	_, err := svc.Transition(context.Background(), student, 1, dto.SubmissionTransitionRequest{
		Event: models.EventApprove,
	})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestReviewServiceApproveTwiceRejected(t *testing.T) {
	subRepo, classRepo := reviewFixture(models.SubmissionStatusApproved)
	svc := newReviewService(subRepo, classRepo)

	actor := Actor{ID: reviewTeacherID, Role: RoleTeacher}
	_, err := svc.Transition(context.Background(), actor, 1, dto.SubmissionTransitionRequest{
		Event: models.EventApprove,
	})
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.Empty(t, subRepo.audits)
}

func TestReviewServiceOverrideRequiresReason(t *testing.T) {
	subRepo, classRepo := reviewFixture(models.SubmissionStatusDeclined)
	svc := newReviewService(subRepo, classRepo)

	actor := Actor{ID: reviewTeacherID, Role: RoleTeacher}
	_, err := svc.Transition(context.Background(), actor, 1, dto.SubmissionTransitionRequest{
		Event:  models.EventOverrideApprove,
		Reason: ptrString("   "),
	})
	require.ErrorIs(t, err, ErrReasonRequired)

	// A rejected override leaves no trace.
	require.Empty(t, subRepo.audits)
	stored, err := subRepo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusDeclined, stored.Status)
}

func TestReviewServiceOverrideClampsScore(t *testing.T) {
	subRepo, classRepo := reviewFixture(models.SubmissionStatusDeclined)
	svc := newReviewService(subRepo, classRepo)

	actor := Actor{ID: reviewTeacherID, Role: RoleTeacher}
	response, err := svc.Transition(context.Background(), actor, 1, dto.SubmissionTransitionRequest{
		Event:    models.EventOverrideApprove,
		Reason:   ptrString("recount after manual check"),
		RawScore: ptrFloat(150),
	})
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusApproved, response.Status)
	require.Equal(t, float64(100), response.RawScore)

	require.Len(t, subRepo.audits, 1)
	entry := subRepo.audits[0]
	require.Equal(t, models.AuditActionOverride, entry.Action)
	require.Equal(t, "recount after manual check", entry.Reason)
}

func TestReviewServiceResubmitResetsReviewFields(t *testing.T) {
	subRepo, classRepo := reviewFixture(models.SubmissionStatusNeedsRevision)
	reviewedAt := time.Now().Add(-time.Minute)
	reviewedBy := reviewTeacherID
	submission := subRepo.submissions[1]
	submission.TeacherFeedback = "show your solution"
	submission.ReviewedAt = &reviewedAt
	submission.ReviewedBy = &reviewedBy
	subRepo.submissions[1] = submission

	svc := newReviewService(subRepo, classRepo)

	student := Actor{ID: reviewStudentID, Role: RoleStudent}
	response, err := svc.Transition(context.Background(), student, 1, dto.SubmissionTransitionRequest{
		Event:    models.EventResubmit,
		RawScore: ptrFloat(92),
	})
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusPending, response.Status)
	require.Equal(t, float64(92), response.RawScore)
	require.Empty(t, response.TeacherFeedback)
	require.Nil(t, response.ReviewedAt)
	require.Nil(t, response.ReviewedBy)
}

func TestReviewServiceResubmitByOtherStudentForbidden(t *testing.T) {
	subRepo, classRepo := reviewFixture(models.SubmissionStatusDeclined)
	svc := newReviewService(subRepo, classRepo)

	otherStudent := Actor{ID: 77, Role: RoleStudent}
	_, err := svc.Transition(context.Background(), otherStudent, 1, dto.SubmissionTransitionRequest{
		Event: models.EventResubmit,
	})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestReviewServiceResubmitScoreAboveMax(t *testing.T) {
	subRepo, classRepo := reviewFixture(models.SubmissionStatusDeclined)
	svc := newReviewService(subRepo, classRepo)

	student := Actor{ID: reviewStudentID, Role: RoleStudent}
	_, err := svc.Transition(context.Background(), student, 1, dto.SubmissionTransitionRequest{
		Event:    models.EventResubmit,
		RawScore: ptrFloat(120),
	})
	require.ErrorIs(t, err, ErrScoreExceedsMax)
	require.Empty(t, subRepo.audits)
}

func TestReviewServiceConcurrentLoserGetsInvalidTransition(t *testing.T) {
	subRepo, classRepo := reviewFixture(models.SubmissionStatusPending)
	subRepo.transitionErr = repository.ErrStaleStatus
	svc := newReviewService(subRepo, classRepo)

	actor := Actor{ID: reviewTeacherID, Role: RoleTeacher}
	_, err := svc.Transition(context.Background(), actor, 1, dto.SubmissionTransitionRequest{
		Event: models.EventApprove,
	})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestReviewServiceSubmissionNotFound(t *testing.T) {
	subRepo, classRepo := reviewFixture(models.SubmissionStatusPending)
	svc := newReviewService(subRepo, classRepo)

	actor := Actor{ID: reviewTeacherID, Role: RoleTeacher}
	_, err := svc.Transition(context.Background(), actor, 42, dto.SubmissionTransitionRequest{
		Event: models.EventApprove,
	})
	require.ErrorIs(t, err, ErrSubmissionNotFound)
}
