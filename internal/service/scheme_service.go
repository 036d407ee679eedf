package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/gradebook-go-api/internal/dto"
	"github.com/noah-isme/gradebook-go-api/internal/grading"
	"github.com/noah-isme/gradebook-go-api/internal/models"
	"github.com/noah-isme/gradebook-go-api/internal/repository"
)

// ErrSchemeNotConfigured indicates a class without a grading scheme.
var ErrSchemeNotConfigured = errors.New("no grading scheme configured for class")

// SchemeService manages a class's weights and transmutation table.
type SchemeService interface {
	Upsert(ctx context.Context, actor Actor, classID uint, payload dto.GradingSchemeUpsertRequest) (dto.GradingSchemeResponse, error)
	Get(ctx context.Context, classID uint) (dto.GradingSchemeResponse, error)
}

type schemeService struct {
	schemes   repository.GradingSchemeRepository
	classes   repository.ClassRepository
	validator *validator.Validate
	cache     *redis.Client
	logger    zerolog.Logger
}

// NewSchemeService constructs a SchemeService instance.
func NewSchemeService(schemeRepo repository.GradingSchemeRepository, classRepo repository.ClassRepository, validate *validator.Validate, cache *redis.Client, logger zerolog.Logger) SchemeService {
	return &schemeService{
		schemes:   schemeRepo,
		classes:   classRepo,
		validator: validate,
		cache:     cache,
		logger:    logger.With().Str("component", "scheme_service").Logger(),
	}
}

func (s *schemeService) Upsert(ctx context.Context, actor Actor, classID uint, payload dto.GradingSchemeUpsertRequest) (dto.GradingSchemeResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.GradingSchemeResponse{}, err
	}

	class, err := s.classes.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GradingSchemeResponse{}, ErrClassNotFound
		}
		return dto.GradingSchemeResponse{}, err
	}

	if !actor.IsTeacher() || !class.IsOwnedBy(actor.ID) {
		return dto.GradingSchemeResponse{}, ErrNotClassOwner
	}

	if err := grading.ValidateWeights(payload.WrittenWorkPercent, payload.PerformanceTaskPercent, payload.QuarterlyAssessmentPercent); err != nil {
		return dto.GradingSchemeResponse{}, err
	}

	rules := make([]models.TransmutationRule, 0, len(payload.Rules))
	for _, rule := range payload.Rules {
		rules = append(rules, models.TransmutationRule{
			MinPercent: rule.MinPercent,
			MaxPercent: rule.MaxPercent,
			Grade:      rule.Grade,
		})
	}
	if len(rules) == 0 {
		rules = grading.DefaultTransmutationRules()
	}

	// Reject a broken table before anything is written.
	table, err := grading.NewTable(rules)
	if err != nil {
		return dto.GradingSchemeResponse{}, err
	}

	scheme := models.GradingScheme{
		ClassID:                    classID,
		WrittenWorkPercent:         payload.WrittenWorkPercent,
		PerformanceTaskPercent:     payload.PerformanceTaskPercent,
		QuarterlyAssessmentPercent: payload.QuarterlyAssessmentPercent,
		Rules:                      table.Rules(),
	}

	if err := s.schemes.Upsert(ctx, &scheme); err != nil {
		return dto.GradingSchemeResponse{}, err
	}

	s.invalidateSummary(ctx, classID)
	s.logger.Info().Uint("class_id", classID).Int("rules", len(scheme.Rules)).Msg("grading scheme configured")

	return dto.NewGradingSchemeResponse(scheme), nil
}

func (s *schemeService) Get(ctx context.Context, classID uint) (dto.GradingSchemeResponse, error) {
	scheme, err := s.schemes.GetByClassID(ctx, classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GradingSchemeResponse{}, ErrSchemeNotConfigured
		}
		return dto.GradingSchemeResponse{}, err
	}

	return dto.NewGradingSchemeResponse(scheme), nil
}

func (s *schemeService) invalidateSummary(ctx context.Context, classID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, fmt.Sprintf("grades:class:%d", classID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("class_id", classID).Msg("failed to invalidate grade summary cache")
	}
}
