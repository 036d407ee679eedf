package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/gradebook-go-api/internal/dto"
	"github.com/noah-isme/gradebook-go-api/internal/models"
	"github.com/noah-isme/gradebook-go-api/internal/repository"
)

// ErrSubmissionNotFound indicates a submission could not be found.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrNotEnrolled indicates the student is not actively enrolled in the class.
var ErrNotEnrolled = errors.New("student is not actively enrolled in this class")

// ErrScoreExceedsMax indicates a raw score above the activity maximum.
var ErrScoreExceedsMax = errors.New("raw score exceeds activity max score")

// ErrSubmissionExists indicates the student already has a live submission
// for the activity; corrections go through resubmit, not a second row.
var ErrSubmissionExists = errors.New("a submission already exists for this activity")

// SubmissionService handles the student-facing submission surface.
type SubmissionService interface {
	Create(ctx context.Context, actor Actor, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error)
	List(ctx context.Context, actor Actor, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	activities  repository.ActivityRepository
	enrollments repository.EnrollmentRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(subRepo repository.SubmissionRepository, activityRepo repository.ActivityRepository, enrollmentRepo repository.EnrollmentRepository, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: subRepo,
		activities:  activityRepo,
		enrollments: enrollmentRepo,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

func (s *submissionService) Create(ctx context.Context, actor Actor, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	activity, err := s.activities.GetByID(ctx, payload.ActivityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrActivityNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	enrolled, err := s.enrollments.IsActivelyEnrolled(ctx, activity.ClassID, actor.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}
	if !enrolled {
		return dto.SubmissionResponse{}, ErrNotEnrolled
	}

	if payload.RawScore > activity.MaxScore {
		return dto.SubmissionResponse{}, ErrScoreExceedsMax
	}

	if _, err := s.submissions.GetByActivityAndStudent(ctx, activity.ID, actor.ID); err == nil {
		return dto.SubmissionResponse{}, ErrSubmissionExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.SubmissionResponse{}, err
	}

	submission := models.ScoreSubmission{
		ActivityID:  activity.ID,
		StudentID:   actor.ID,
		RawScore:    payload.RawScore,
		Status:      models.SubmissionStatusPending,
		EvidenceURL: strings.TrimSpace(payload.EvidenceURL),
		SubmittedAt: s.now(),
	}

	entry := models.AuditLogEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     models.AuditActionCreate,
		EntityType: auditEntitySubmission,
		OldValue:   datatypes.JSONMap{},
		NewValue:   submissionSnapshot(submission),
	}

	if err := s.submissions.CreateWithAudit(ctx, &submission, &entry); err != nil {
		return dto.SubmissionResponse{}, err
	}

	created, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().Uint("submission_id", created.ID).Uint("activity_id", activity.ID).Msg("submission created")

	return dto.NewSubmissionResponse(created), nil
}

func (s *submissionService) List(ctx context.Context, actor Actor, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	repoFilter := repository.SubmissionFilter{
		ActivityID: filter.ActivityID,
		StudentID:  filter.StudentID,
		Status:     filter.Status,
	}

	// Students only ever see their own submissions; any other actor is
	// scoped to the classes they own.
	if actor.IsStudent() {
		studentID := actor.ID
		repoFilter.StudentID = &studentID
	} else {
		ownerID := actor.ID
		repoFilter.ClassOwnerID = &ownerID
	}

	submissions, err := s.submissions.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}
