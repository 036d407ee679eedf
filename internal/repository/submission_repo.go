package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/gradebook-go-api/internal/models"
)

// ErrStaleStatus indicates the submission's status changed between read and
// write, so the conditional update matched no row.
var ErrStaleStatus = errors.New("submission status changed concurrently")

// SubmissionFilter narrows submission queries. ClassOwnerID restricts the
// result to submissions whose activity belongs to a class owned by that
// teacher.
type SubmissionFilter struct {
	ActivityID   *uint
	StudentID    *uint
	Status       *models.SubmissionStatus
	ActivityIDs  []uint
	ClassOwnerID *uint
}

// SubmissionRepository defines data operations for score submissions. Writes
// pair the row mutation with its audit entry inside one transaction: a
// failed audit write rolls the whole transition back.
type SubmissionRepository interface {
	List(ctx context.Context, filter SubmissionFilter) ([]models.ScoreSubmission, error)
	GetByID(ctx context.Context, id uint) (models.ScoreSubmission, error)
	GetByActivityAndStudent(ctx context.Context, activityID, studentID uint) (models.ScoreSubmission, error)
	CreateWithAudit(ctx context.Context, submission *models.ScoreSubmission, entry *models.AuditLogEntry) error
	TransitionWithAudit(ctx context.Context, submission *models.ScoreSubmission, expected models.SubmissionStatus, entry *models.AuditLogEntry) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.ScoreSubmission{}).
		Preload("Activity").
		Preload("Student")
}

func (r *submissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]models.ScoreSubmission, error) {
	query := r.baseQuery(ctx)

	if filter.ActivityID != nil {
		query = query.Where("activity_id = ?", *filter.ActivityID)
	}

	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if len(filter.ActivityIDs) > 0 {
		query = query.Where("activity_id IN ?", filter.ActivityIDs)
	}

	if filter.ClassOwnerID != nil {
		query = query.
			Joins("JOIN activities ON activities.id = score_submissions.activity_id").
			Joins("JOIN classes ON classes.id = activities.class_id").
			Where("classes.owner_id = ?", *filter.ClassOwnerID)
	}

	var submissions []models.ScoreSubmission
	if err := query.Order("score_submissions.submitted_at DESC, score_submissions.id DESC").Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.ScoreSubmission, error) {
	var submission models.ScoreSubmission
	if err := r.baseQuery(ctx).First(&submission, id).Error; err != nil {
		return models.ScoreSubmission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) GetByActivityAndStudent(ctx context.Context, activityID, studentID uint) (models.ScoreSubmission, error) {
	var submission models.ScoreSubmission
	err := r.baseQuery(ctx).
		Where("activity_id = ?", activityID).
		Where("student_id = ?", studentID).
		First(&submission).Error
	if err != nil {
		return models.ScoreSubmission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) CreateWithAudit(ctx context.Context, submission *models.ScoreSubmission, entry *models.AuditLogEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(submission).Error; err != nil {
			return err
		}

		entry.EntityID = submission.ID
		return tx.Create(entry).Error
	})
}

// TransitionWithAudit performs the atomic check-and-set: the update only
// matches while the row still carries the expected status, so of two
// concurrent transitions exactly one wins and the loser sees ErrStaleStatus.
func (r *submissionRepository) TransitionWithAudit(ctx context.Context, submission *models.ScoreSubmission, expected models.SubmissionStatus, entry *models.AuditLogEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ScoreSubmission{}).
			Where("id = ?", submission.ID).
			Where("status = ?", expected).
			Updates(map[string]interface{}{
				"raw_score":        submission.RawScore,
				"status":           submission.Status,
				"evidence_url":     submission.EvidenceURL,
				"teacher_feedback": submission.TeacherFeedback,
				"submitted_at":     submission.SubmittedAt,
				"reviewed_at":      submission.ReviewedAt,
				"reviewed_by":      submission.ReviewedBy,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStaleStatus
		}

		return tx.Create(entry).Error
	})
}
