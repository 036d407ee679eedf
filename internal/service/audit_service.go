package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/gradebook-go-api/internal/dto"
	"github.com/noah-isme/gradebook-go-api/internal/repository"
)

// AuditService reads the immutable submission audit trail. Writes happen
// inside the submission repository transactions so a transition and its
// entry commit or roll back together.
type AuditService interface {
	History(ctx context.Context, actor Actor, submissionID uint) ([]dto.AuditEntryResponse, error)
}

type auditService struct {
	repo        repository.AuditLogRepository
	submissions repository.SubmissionRepository
	classes     repository.ClassRepository
	logger      zerolog.Logger
}

// NewAuditService constructs an AuditService instance.
func NewAuditService(repo repository.AuditLogRepository, subRepo repository.SubmissionRepository, classRepo repository.ClassRepository, logger zerolog.Logger) AuditService {
	return &auditService{
		repo:        repo,
		submissions: subRepo,
		classes:     classRepo,
		logger:      logger.With().Str("component", "audit_service").Logger(),
	}
}

// History returns the trail for one submission. It is readable only by the
// submitting student and the teacher owning the class the activity belongs
// to; the entries carry scores and reviewer identities.
func (s *auditService) History(ctx context.Context, actor Actor, submissionID uint) ([]dto.AuditEntryResponse, error) {
	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}

	if actor.IsStudent() {
		if submission.StudentID != actor.ID {
			return nil, ErrForbidden
		}
	} else {
		class, err := s.classes.GetByID(ctx, submission.Activity.ClassID)
		if err != nil {
			return nil, err
		}
		if !actor.IsTeacher() || !class.IsOwnedBy(actor.ID) {
			return nil, ErrForbidden
		}
	}

	entries, err := s.repo.ListByEntity(ctx, auditEntitySubmission, submissionID)
	if err != nil {
		return nil, err
	}

	return dto.NewAuditEntryResponseSlice(entries), nil
}
