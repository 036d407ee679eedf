package service

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/gradebook-go-api/internal/models"
	"github.com/noah-isme/gradebook-go-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func ptrFloat(v float64) *float64 {
	return &v
}

func ptrString(v string) *string {
	return &v
}

type memoryClassRepo struct {
	classes map[uint]models.Class
}

func (m *memoryClassRepo) GetByID(ctx context.Context, id uint) (models.Class, error) {
	class, ok := m.classes[id]
	if !ok {
		return models.Class{}, gorm.ErrRecordNotFound
	}
	return class, nil
}

type memoryActivityRepo struct {
	activities map[uint]models.Activity
	nextID     uint
}

func (m *memoryActivityRepo) List(ctx context.Context, filter repository.ActivityFilter) ([]models.Activity, error) {
	var out []models.Activity
	for _, activity := range m.activities {
		if filter.ClassID != nil && activity.ClassID != *filter.ClassID {
			continue
		}
		if filter.Category != nil && activity.Category != *filter.Category {
			continue
		}
		if filter.GradableOnly && !activity.Gradable() {
			continue
		}
		out = append(out, activity)
	}
	return out, nil
}

func (m *memoryActivityRepo) GetByID(ctx context.Context, id uint) (models.Activity, error) {
	activity, ok := m.activities[id]
	if !ok {
		return models.Activity{}, gorm.ErrRecordNotFound
	}
	return activity, nil
}

func (m *memoryActivityRepo) Create(ctx context.Context, activity *models.Activity) error {
	if m.activities == nil {
		m.activities = make(map[uint]models.Activity)
	}
	m.nextID++
	activity.ID = m.nextID
	activity.CreatedAt = time.Now()
	activity.UpdatedAt = activity.CreatedAt
	m.activities[activity.ID] = *activity
	return nil
}

func (m *memoryActivityRepo) Update(ctx context.Context, activity *models.Activity) error {
	if _, ok := m.activities[activity.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	activity.UpdatedAt = time.Now()
	m.activities[activity.ID] = *activity
	return nil
}

type memoryEnrollmentRepo struct {
	enrollments []models.Enrollment
}

func (m *memoryEnrollmentRepo) IsActivelyEnrolled(ctx context.Context, classID, studentID uint) (bool, error) {
	for _, enrollment := range m.enrollments {
		if enrollment.ClassID == classID && enrollment.StudentID == studentID && enrollment.Active {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryEnrollmentRepo) ListActiveByClass(ctx context.Context, classID uint) ([]models.Enrollment, error) {
	var out []models.Enrollment
	for _, enrollment := range m.enrollments {
		if enrollment.ClassID == classID && enrollment.Active {
			out = append(out, enrollment)
		}
	}
	return out, nil
}

type memorySchemeRepo struct {
	schemes map[uint]models.GradingScheme
}

func (m *memorySchemeRepo) GetByClassID(ctx context.Context, classID uint) (models.GradingScheme, error) {
	scheme, ok := m.schemes[classID]
	if !ok {
		return models.GradingScheme{}, gorm.ErrRecordNotFound
	}
	return scheme, nil
}

func (m *memorySchemeRepo) Upsert(ctx context.Context, scheme *models.GradingScheme) error {
	if m.schemes == nil {
		m.schemes = make(map[uint]models.GradingScheme)
	}
	if existing, ok := m.schemes[scheme.ClassID]; ok {
		scheme.ID = existing.ID
	} else {
		scheme.ID = uint(len(m.schemes) + 1)
	}
	m.schemes[scheme.ClassID] = *scheme
	return nil
}

type memorySubmissionRepo struct {
	submissions   map[uint]models.ScoreSubmission
	audits        []models.AuditLogEntry
	nextID        uint
	transitionErr error
	activities    *memoryActivityRepo
	classes       *memoryClassRepo
}

func (m *memorySubmissionRepo) ownedBy(submission models.ScoreSubmission, ownerID uint) bool {
	if m.activities == nil || m.classes == nil {
		return false
	}
	activity, ok := m.activities.activities[submission.ActivityID]
	if !ok {
		return false
	}
	class, ok := m.classes.classes[activity.ClassID]
	if !ok {
		return false
	}
	return class.OwnerID == ownerID
}

func (m *memorySubmissionRepo) List(ctx context.Context, filter repository.SubmissionFilter) ([]models.ScoreSubmission, error) {
	var out []models.ScoreSubmission
	for _, submission := range m.submissions {
		if filter.ActivityID != nil && submission.ActivityID != *filter.ActivityID {
			continue
		}
		if filter.StudentID != nil && submission.StudentID != *filter.StudentID {
			continue
		}
		if filter.Status != nil && submission.Status != *filter.Status {
			continue
		}
		if len(filter.ActivityIDs) > 0 {
			found := false
			for _, id := range filter.ActivityIDs {
				if submission.ActivityID == id {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if filter.ClassOwnerID != nil && !m.ownedBy(submission, *filter.ClassOwnerID) {
			continue
		}
		out = append(out, submission)
	}
	return out, nil
}

func (m *memorySubmissionRepo) GetByID(ctx context.Context, id uint) (models.ScoreSubmission, error) {
	submission, ok := m.submissions[id]
	if !ok {
		return models.ScoreSubmission{}, gorm.ErrRecordNotFound
	}
	return submission, nil
}

func (m *memorySubmissionRepo) GetByActivityAndStudent(ctx context.Context, activityID, studentID uint) (models.ScoreSubmission, error) {
	for _, submission := range m.submissions {
		if submission.ActivityID == activityID && submission.StudentID == studentID {
			return submission, nil
		}
	}
	return models.ScoreSubmission{}, gorm.ErrRecordNotFound
}

func (m *memorySubmissionRepo) CreateWithAudit(ctx context.Context, submission *models.ScoreSubmission, entry *models.AuditLogEntry) error {
	if m.submissions == nil {
		m.submissions = make(map[uint]models.ScoreSubmission)
	}
	m.nextID++
	submission.ID = m.nextID
	m.submissions[submission.ID] = *submission
	entry.EntityID = submission.ID
	m.audits = append(m.audits, *entry)
	return nil
}

func (m *memorySubmissionRepo) TransitionWithAudit(ctx context.Context, submission *models.ScoreSubmission, expected models.SubmissionStatus, entry *models.AuditLogEntry) error {
	if m.transitionErr != nil {
		return m.transitionErr
	}
	current, ok := m.submissions[submission.ID]
	if !ok || current.Status != expected {
		return repository.ErrStaleStatus
	}
	m.submissions[submission.ID] = *submission
	m.audits = append(m.audits, *entry)
	return nil
}

type memoryAuditRepo struct {
	entries []models.AuditLogEntry
}

func (m *memoryAuditRepo) Create(ctx context.Context, entry *models.AuditLogEntry) error {
	entry.ID = uint(len(m.entries) + 1)
	entry.CreatedAt = time.Now()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memoryAuditRepo) ListByEntity(ctx context.Context, entityType string, entityID uint) ([]models.AuditLogEntry, error) {
	var out []models.AuditLogEntry
	for _, entry := range m.entries {
		if entry.EntityType == entityType && entry.EntityID == entityID {
			out = append(out, entry)
		}
	}
	return out, nil
}
