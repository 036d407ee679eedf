package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/gradebook-go-api/internal/dto"
	"github.com/noah-isme/gradebook-go-api/internal/models"
	"github.com/noah-isme/gradebook-go-api/internal/observability"
	"github.com/noah-isme/gradebook-go-api/internal/repository"
)

// ErrForbidden indicates the actor may not act on this submission.
var ErrForbidden = errors.New("actor may not act on this submission")

// ErrInvalidTransition indicates the event is not allowed from the current
// status, including the case where a concurrent transition won the race.
var ErrInvalidTransition = errors.New("transition not allowed from current status")

// ErrReasonRequired indicates an override attempted without justification.
var ErrReasonRequired = errors.New("override requires a non-empty reason")

// auditEntitySubmission is the entity type recorded for submission events.
const auditEntitySubmission = "score_submission"

// ReviewService applies review transitions to score submissions. Every
// successful transition writes exactly one audit entry in the same
// transaction as the status change.
type ReviewService interface {
	Transition(ctx context.Context, actor Actor, submissionID uint, payload dto.SubmissionTransitionRequest) (dto.SubmissionResponse, error)
}

type reviewService struct {
	submissions repository.SubmissionRepository
	classes     repository.ClassRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	cache       *redis.Client
	logger      zerolog.Logger
	now         func() time.Time
}

// NewReviewService constructs a ReviewService instance.
func NewReviewService(subRepo repository.SubmissionRepository, classRepo repository.ClassRepository, validate *validator.Validate, cache *redis.Client, logger zerolog.Logger) ReviewService {
	return &reviewService{
		submissions: subRepo,
		classes:     classRepo,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		cache:       cache,
		logger:      logger.With().Str("component", "review_service").Logger(),
		now:         time.Now,
	}
}

func (s *reviewService) Transition(ctx context.Context, actor Actor, submissionID uint, payload dto.SubmissionTransitionRequest) (dto.SubmissionResponse, error) {
	tracer := otel.Tracer("github.com/noah-isme/gradebook-go-api/internal/service/review")
	ctx, span := tracer.Start(ctx, "review.transition")
	span.SetAttributes(
		attribute.Int64("review.submission_id", int64(submissionID)),
		attribute.Int64("review.actor_id", int64(actor.ID)),
		attribute.String("review.event", string(payload.Event)),
	)
	defer span.End()

	response, err := s.transition(ctx, actor, submissionID, payload)
	outcome := "applied"
	if err != nil {
		outcome = "rejected"
		span.RecordError(err)
		span.SetStatus(codes.Error, "transition_failed")
	}
	observability.ReviewTransitions().WithLabelValues(string(payload.Event), outcome).Inc()

	return response, err
}

func (s *reviewService) transition(ctx context.Context, actor Actor, submissionID uint, payload dto.SubmissionTransitionRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	class, err := s.classes.GetByID(ctx, submission.Activity.ClassID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	if err := s.authorize(actor, payload.Event, submission, class); err != nil {
		return dto.SubmissionResponse{}, err
	}

	from := submission.Status
	to, ok := models.NextStatus(from, payload.Event)
	if !ok {
		return dto.SubmissionResponse{}, ErrInvalidTransition
	}

	// Validate the full payload before touching any state.
	reason := ""
	if payload.Event == models.EventOverrideApprove {
		if payload.Reason == nil || strings.TrimSpace(*payload.Reason) == "" {
			return dto.SubmissionResponse{}, ErrReasonRequired
		}
		reason = s.sanitizer.Sanitize(strings.TrimSpace(*payload.Reason))
	}
	if payload.Event == models.EventResubmit && payload.RawScore != nil && *payload.RawScore > submission.Activity.MaxScore {
		return dto.SubmissionResponse{}, ErrScoreExceedsMax
	}

	oldSnapshot := submissionSnapshot(submission)
	updated := submission
	updated.Status = to

	switch payload.Event {
	case models.EventApprove, models.EventDecline, models.EventRequestRevision:
		reviewedAt := s.now()
		reviewedBy := actor.ID
		updated.ReviewedAt = &reviewedAt
		updated.ReviewedBy = &reviewedBy
		if payload.Feedback != nil {
			updated.TeacherFeedback = s.sanitizer.Sanitize(strings.TrimSpace(*payload.Feedback))
		}
	case models.EventOverrideApprove:
		reviewedAt := s.now()
		reviewedBy := actor.ID
		updated.ReviewedAt = &reviewedAt
		updated.ReviewedBy = &reviewedBy
		if payload.RawScore != nil {
			score := *payload.RawScore
			if score > submission.Activity.MaxScore {
				score = submission.Activity.MaxScore
			}
			updated.RawScore = score
		}
		if payload.Feedback != nil {
			updated.TeacherFeedback = s.sanitizer.Sanitize(strings.TrimSpace(*payload.Feedback))
		}
	case models.EventResubmit:
		updated.TeacherFeedback = ""
		updated.ReviewedAt = nil
		updated.ReviewedBy = nil
		updated.SubmittedAt = s.now()
		if payload.RawScore != nil {
			updated.RawScore = *payload.RawScore
		}
		if payload.EvidenceURL != nil {
			updated.EvidenceURL = strings.TrimSpace(*payload.EvidenceURL)
		}
	}

	entry := models.AuditLogEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     auditAction(payload.Event, to),
		EntityType: auditEntitySubmission,
		EntityID:   submission.ID,
		OldValue:   oldSnapshot,
		NewValue:   submissionSnapshot(updated),
		Reason:     reason,
	}

	if err := s.submissions.TransitionWithAudit(ctx, &updated, from, &entry); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return dto.SubmissionResponse{}, ErrInvalidTransition
		}
		return dto.SubmissionResponse{}, err
	}

	s.invalidateGradeCaches(ctx, submission.Activity.ClassID, submission.StudentID)

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Str("event", string(payload.Event)).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("submission transitioned")

	reloaded, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(reloaded), nil
}

// authorize gates each event by role and ownership: review events belong to
// the class-owning teacher, resubmit to the submitting student.
func (s *reviewService) authorize(actor Actor, event models.ReviewEvent, submission models.ScoreSubmission, class models.Class) error {
	switch event {
	case models.EventApprove, models.EventDecline, models.EventRequestRevision, models.EventOverrideApprove:
		if !actor.IsTeacher() || !class.IsOwnedBy(actor.ID) {
			return ErrForbidden
		}
	case models.EventResubmit:
		if !actor.IsStudent() || submission.StudentID != actor.ID {
			return ErrForbidden
		}
	default:
		return ErrInvalidTransition
	}

	return nil
}

func (s *reviewService) invalidateGradeCaches(ctx context.Context, classID, studentID uint) {
	if s.cache == nil {
		return
	}

	keys := []string{
		fmt.Sprintf("grades:class:%d", classID),
		fmt.Sprintf("grades:class:%d:student:%d", classID, studentID),
	}
	if err := s.cache.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("class_id", classID).Msg("failed to invalidate grade caches")
	}
}

func auditAction(event models.ReviewEvent, to models.SubmissionStatus) string {
	if event == models.EventOverrideApprove {
		return models.AuditActionOverride
	}
	return string(to)
}

// submissionSnapshot captures the mutable review fields of a submission so
// history() can replay the trail from the initial state.
func submissionSnapshot(submission models.ScoreSubmission) datatypes.JSONMap {
	snapshot := datatypes.JSONMap{
		"status":           string(submission.Status),
		"raw_score":        submission.RawScore,
		"evidence_url":     submission.EvidenceURL,
		"teacher_feedback": submission.TeacherFeedback,
		"submitted_at":     submission.SubmittedAt.UTC().Format(time.RFC3339Nano),
	}

	if submission.ReviewedAt != nil {
		snapshot["reviewed_at"] = submission.ReviewedAt.UTC().Format(time.RFC3339Nano)
	}
	if submission.ReviewedBy != nil {
		snapshot["reviewed_by"] = float64(*submission.ReviewedBy)
	}

	return snapshot
}
