package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/noah-isme/gradebook-go-api/internal/dto"
	"github.com/noah-isme/gradebook-go-api/internal/grading"
	"github.com/noah-isme/gradebook-go-api/internal/models"
	"github.com/noah-isme/gradebook-go-api/internal/observability"
	"github.com/noah-isme/gradebook-go-api/internal/repository"
)

// GradeService computes grade reports on demand. Reports are derived from
// approved submissions and never persisted; the class-wide summary is cached
// in Redis and invalidated whenever a submission or scheme changes.
type GradeService interface {
	ComputeStudentGrades(ctx context.Context, actor Actor, classID, studentID uint) (dto.GradeReportResponse, error)
	ClassGradeSummary(ctx context.Context, actor Actor, classID uint) (dto.ClassGradeSummaryResponse, error)
	MissingRoster(ctx context.Context, actor Actor, activityID uint) (dto.RosterResponse, error)
}

type gradeService struct {
	schemes     repository.GradingSchemeRepository
	activities  repository.ActivityRepository
	submissions repository.SubmissionRepository
	enrollments repository.EnrollmentRepository
	classes     repository.ClassRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
	now         func() time.Time
}

// NewGradeService constructs a GradeService instance.
func NewGradeService(schemeRepo repository.GradingSchemeRepository, activityRepo repository.ActivityRepository, subRepo repository.SubmissionRepository, enrollmentRepo repository.EnrollmentRepository, classRepo repository.ClassRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) GradeService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &gradeService{
		schemes:     schemeRepo,
		activities:  activityRepo,
		submissions: subRepo,
		enrollments: enrollmentRepo,
		classes:     classRepo,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "grade_service").Logger(),
		now:         time.Now,
	}
}

func (s *gradeService) ComputeStudentGrades(ctx context.Context, actor Actor, classID, studentID uint) (dto.GradeReportResponse, error) {
	tracer := otel.Tracer("github.com/noah-isme/gradebook-go-api/internal/service/grade")
	ctx, span := tracer.Start(ctx, "grade.compute_student")
	span.SetAttributes(
		attribute.Int64("grade.class_id", int64(classID)),
		attribute.Int64("grade.student_id", int64(studentID)),
	)
	defer span.End()

	// Reports are readable by the student themself and the owning teacher.
	if actor.IsStudent() {
		if actor.ID != studentID {
			return dto.GradeReportResponse{}, ErrForbidden
		}
	} else {
		class, err := s.classes.GetByID(ctx, classID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.GradeReportResponse{}, ErrClassNotFound
			}
			return dto.GradeReportResponse{}, err
		}
		if !actor.IsTeacher() || !class.IsOwnedBy(actor.ID) {
			return dto.GradeReportResponse{}, ErrNotClassOwner
		}
	}

	report, err := s.computeReport(ctx, classID, studentID)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	observability.GradeComputations().WithLabelValues(outcome).Inc()
	if err != nil {
		return dto.GradeReportResponse{}, err
	}

	return dto.NewGradeReportResponse(classID, studentID, report), nil
}

func (s *gradeService) computeReport(ctx context.Context, classID, studentID uint) (grading.Report, error) {
	if _, err := s.classes.GetByID(ctx, classID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return grading.Report{}, ErrClassNotFound
		}
		return grading.Report{}, err
	}

	scheme, err := s.schemes.GetByClassID(ctx, classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return grading.Report{}, ErrSchemeNotConfigured
		}
		return grading.Report{}, err
	}

	table, err := grading.NewTable(scheme.Rules)
	if err != nil {
		return grading.Report{}, err
	}

	activities, err := s.activities.List(ctx, repository.ActivityFilter{ClassID: &classID})
	if err != nil {
		return grading.Report{}, err
	}

	activityIDs := make([]uint, 0, len(activities))
	for _, activity := range activities {
		activityIDs = append(activityIDs, activity.ID)
	}

	var submissions []models.ScoreSubmission
	if len(activityIDs) > 0 {
		submissions, err = s.submissions.List(ctx, repository.SubmissionFilter{
			StudentID:   &studentID,
			ActivityIDs: activityIDs,
		})
		if err != nil {
			return grading.Report{}, err
		}
	}

	return grading.Compute(scheme, table, activities, submissions)
}

func (s *gradeService) ClassGradeSummary(ctx context.Context, actor Actor, classID uint) (dto.ClassGradeSummaryResponse, error) {
	class, err := s.classes.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassGradeSummaryResponse{}, ErrClassNotFound
		}
		return dto.ClassGradeSummaryResponse{}, err
	}

	if !actor.IsTeacher() || !class.IsOwnedBy(actor.ID) {
		return dto.ClassGradeSummaryResponse{}, ErrNotClassOwner
	}

	cacheKey := fmt.Sprintf("grades:class:%d", classID)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.ClassGradeSummaryResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("class_id", classID).Msg("grade summary cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read grade summary cache")
		}
	}

	enrollments, err := s.enrollments.ListActiveByClass(ctx, classID)
	if err != nil {
		return dto.ClassGradeSummaryResponse{}, err
	}

	response := dto.ClassGradeSummaryResponse{
		ClassID:     classID,
		GeneratedAt: s.now(),
		Entries:     make([]dto.ClassGradeSummaryEntry, 0, len(enrollments)),
	}

	// Each student computes independently; one failure never hides the rest
	// of the roster.
	for _, enrollment := range enrollments {
		entry := dto.ClassGradeSummaryEntry{
			StudentID:   enrollment.StudentID,
			StudentName: enrollment.Student.Name,
		}

		report, err := s.computeReport(ctx, classID, enrollment.StudentID)
		if err != nil {
			s.logger.Warn().Err(err).Uint("student_id", enrollment.StudentID).Msg("grade computation failed for student")
			entry.Error = err.Error()
		} else {
			entry.FinalPercent = report.FinalPercent
			entry.TransmutedGrade = report.TransmutedGrade
			entry.Complete = report.Complete()
		}

		response.Entries = append(response.Entries, entry)
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store grade summary cache")
			}
		}
	}

	return response, nil
}

func (s *gradeService) MissingRoster(ctx context.Context, actor Actor, activityID uint) (dto.RosterResponse, error) {
	activity, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RosterResponse{}, ErrActivityNotFound
		}
		return dto.RosterResponse{}, err
	}

	class, err := s.classes.GetByID(ctx, activity.ClassID)
	if err != nil {
		return dto.RosterResponse{}, err
	}

	if !actor.IsTeacher() || !class.IsOwnedBy(actor.ID) {
		return dto.RosterResponse{}, ErrNotClassOwner
	}

	enrollments, err := s.enrollments.ListActiveByClass(ctx, activity.ClassID)
	if err != nil {
		return dto.RosterResponse{}, err
	}

	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{ActivityID: &activityID})
	if err != nil {
		return dto.RosterResponse{}, err
	}

	byStudent := make(map[uint]models.ScoreSubmission, len(submissions))
	for _, submission := range submissions {
		byStudent[submission.StudentID] = submission
	}

	response := dto.RosterResponse{
		ActivityID: activityID,
		Entries:    make([]dto.RosterEntry, 0, len(enrollments)),
	}

	for _, enrollment := range enrollments {
		entry := dto.RosterEntry{
			StudentID:   enrollment.StudentID,
			StudentName: enrollment.Student.Name,
			Status:      "MISSING",
		}

		if submission, ok := byStudent[enrollment.StudentID]; ok {
			entry.Status = string(submission.Status)
			rawScore := submission.RawScore
			submittedAt := submission.SubmittedAt
			entry.RawScore = &rawScore
			entry.SubmittedAt = &submittedAt
		}

		response.Entries = append(response.Entries, entry)
	}

	return response, nil
}
