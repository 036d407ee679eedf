package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/gradebook-go-api/internal/dto"
	"github.com/noah-isme/gradebook-go-api/internal/models"
	"github.com/noah-isme/gradebook-go-api/internal/repository"
)

// ErrClassNotFound indicates the class could not be located.
var ErrClassNotFound = errors.New("class not found")

// ErrActivityNotFound indicates the activity could not be located.
var ErrActivityNotFound = errors.New("activity not found")

// ErrNotClassOwner indicates the actor does not own the class.
var ErrNotClassOwner = errors.New("actor does not own this class")

// ErrGradingPeriodClosed blocks activity creation once the period completes.
var ErrGradingPeriodClosed = errors.New("grading period is completed")

// ActivityService manages the gradable activities of a class.
type ActivityService interface {
	Create(ctx context.Context, actor Actor, classID uint, payload dto.ActivityCreateRequest) (dto.ActivityResponse, error)
	Archive(ctx context.Context, actor Actor, activityID uint, payload dto.ActivityArchiveRequest) (dto.ActivityResponse, error)
	List(ctx context.Context, classID uint, category *models.GradeCategory, gradableOnly bool) ([]dto.ActivityResponse, error)
}

type activityService struct {
	activities repository.ActivityRepository
	classes    repository.ClassRepository
	validator  *validator.Validate
	sanitizer  *bluemonday.Policy
	logger     zerolog.Logger
	now        func() time.Time
}

// NewActivityService constructs an ActivityService instance.
func NewActivityService(activityRepo repository.ActivityRepository, classRepo repository.ClassRepository, validate *validator.Validate, logger zerolog.Logger) ActivityService {
	return &activityService{
		activities: activityRepo,
		classes:    classRepo,
		validator:  validate,
		sanitizer:  bluemonday.StrictPolicy(),
		logger:     logger.With().Str("component", "activity_service").Logger(),
		now:        time.Now,
	}
}

func (s *activityService) Create(ctx context.Context, actor Actor, classID uint, payload dto.ActivityCreateRequest) (dto.ActivityResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ActivityResponse{}, err
	}

	class, err := s.classes.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ActivityResponse{}, ErrClassNotFound
		}
		return dto.ActivityResponse{}, err
	}

	if !actor.IsTeacher() || !class.IsOwnedBy(actor.ID) {
		return dto.ActivityResponse{}, ErrNotClassOwner
	}

	if class.PeriodCompleted() {
		return dto.ActivityResponse{}, ErrGradingPeriodClosed
	}

	activity := models.Activity{
		ClassID:  classID,
		Category: payload.Category,
		Title:    strings.TrimSpace(payload.Title),
		MaxScore: payload.MaxScore,
		Position: payload.Position,
		IsActive: true,
	}

	if err := s.activities.Create(ctx, &activity); err != nil {
		return dto.ActivityResponse{}, err
	}

	s.logger.Info().Uint("activity_id", activity.ID).Uint("class_id", classID).Msg("activity created")

	return dto.NewActivityResponse(activity), nil
}

func (s *activityService) Archive(ctx context.Context, actor Actor, activityID uint, payload dto.ActivityArchiveRequest) (dto.ActivityResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ActivityResponse{}, err
	}

	activity, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ActivityResponse{}, ErrActivityNotFound
		}
		return dto.ActivityResponse{}, err
	}

	class, err := s.classes.GetByID(ctx, activity.ClassID)
	if err != nil {
		return dto.ActivityResponse{}, err
	}

	if !actor.IsTeacher() || !class.IsOwnedBy(actor.ID) {
		return dto.ActivityResponse{}, ErrNotClassOwner
	}

	if activity.Archived {
		return dto.NewActivityResponse(activity), nil
	}

	archivedAt := s.now()
	activity.Archived = true
	activity.ArchivedReason = s.sanitizer.Sanitize(strings.TrimSpace(payload.Reason))
	activity.ArchivedAt = &archivedAt

	if err := s.activities.Update(ctx, &activity); err != nil {
		return dto.ActivityResponse{}, err
	}

	s.logger.Info().Uint("activity_id", activity.ID).Msg("activity archived")

	return dto.NewActivityResponse(activity), nil
}

func (s *activityService) List(ctx context.Context, classID uint, category *models.GradeCategory, gradableOnly bool) ([]dto.ActivityResponse, error) {
	filter := repository.ActivityFilter{
		ClassID:      &classID,
		Category:     category,
		GradableOnly: gradableOnly,
	}

	activities, err := s.activities.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewActivityResponseSlice(activities), nil
}
