package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/gradebook-go-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Class{},
		&models.Student{},
		&models.Enrollment{},
		&models.Activity{},
		&models.GradingScheme{},
		&models.TransmutationRule{},
		&models.ScoreSubmission{},
		&models.AuditLogEntry{},
	))
	return db
}

func seedSubmission(t *testing.T, db *gorm.DB, activityID, studentID uint) models.ScoreSubmission {
	t.Helper()
	student := models.Student{ID: studentID, Name: "Student", Email: time.Now().Format("20060102150405.000000000") + "@example.com"}
	require.NoError(t, db.FirstOrCreate(&student, models.Student{ID: studentID}).Error)
	activity := models.Activity{ID: activityID, ClassID: 1, Category: models.CategoryWrittenWork, Title: "Quiz", MaxScore: 100, IsActive: true}
	require.NoError(t, db.FirstOrCreate(&activity, models.Activity{ID: activityID}).Error)

	submission := models.ScoreSubmission{
		ActivityID:  activityID,
		StudentID:   studentID,
		RawScore:    80,
		Status:      models.SubmissionStatusPending,
		SubmittedAt: time.Now(),
	}
	entry := models.AuditLogEntry{
		ActorID:    studentID,
		ActorRole:  "student",
		Action:     models.AuditActionCreate,
		EntityType: "score_submission",
		OldValue:   datatypes.JSONMap{},
		NewValue:   datatypes.JSONMap{"status": "PENDING"},
	}

	repo := NewSubmissionRepository(db)
	require.NoError(t, repo.CreateWithAudit(context.Background(), &submission, &entry))
	require.Equal(t, submission.ID, entry.EntityID)
	return submission
}

func TestSubmissionRepositoryCreateWithAuditWritesBoth(t *testing.T) {
	db := setupTestDB(t)
	submission := seedSubmission(t, db, 101, 201)

	auditRepo := NewAuditLogRepository(db)
	entries, err := auditRepo.ListByEntity(context.Background(), "score_submission", submission.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, models.AuditActionCreate, entries[0].Action)
}

func TestSubmissionRepositoryTransitionIsConditional(t *testing.T) {
	db := setupTestDB(t)
	submission := seedSubmission(t, db, 102, 202)
	repo := NewSubmissionRepository(db)

	reviewedAt := time.Now()
	reviewedBy := uint(10)
	approved := submission
	approved.Status = models.SubmissionStatusApproved
	approved.ReviewedAt = &reviewedAt
	approved.ReviewedBy = &reviewedBy

	entry := models.AuditLogEntry{
		ActorID:    reviewedBy,
		ActorRole:  "teacher",
		Action:     "APPROVED",
		EntityType: "score_submission",
		EntityID:   submission.ID,
		OldValue:   datatypes.JSONMap{"status": "PENDING"},
		NewValue:   datatypes.JSONMap{"status": "APPROVED"},
	}
	require.NoError(t, repo.TransitionWithAudit(context.Background(), &approved, models.SubmissionStatusPending, &entry))

	reloaded, err := repo.GetByID(context.Background(), submission.ID)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusApproved, reloaded.Status)
	require.NotNil(t, reloaded.ReviewedBy)

	// A second transition still expecting PENDING lost the race: no row
	// matches, no audit entry is written.
	declined := submission
	declined.Status = models.SubmissionStatusDeclined
	staleEntry := models.AuditLogEntry{
		ActorID:    reviewedBy,
		ActorRole:  "teacher",
		Action:     "DECLINED",
		EntityType: "score_submission",
		EntityID:   submission.ID,
		OldValue:   datatypes.JSONMap{"status": "PENDING"},
		NewValue:   datatypes.JSONMap{"status": "DECLINED"},
	}
	err = repo.TransitionWithAudit(context.Background(), &declined, models.SubmissionStatusPending, &staleEntry)
	require.ErrorIs(t, err, ErrStaleStatus)

	auditRepo := NewAuditLogRepository(db)
	entries, err := auditRepo.ListByEntity(context.Background(), "score_submission", submission.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestSubmissionRepositoryUniquePerActivityAndStudent(t *testing.T) {
	db := setupTestDB(t)
	seedSubmission(t, db, 103, 203)

	repo := NewSubmissionRepository(db)
	duplicate := models.ScoreSubmission{
		ActivityID:  103,
		StudentID:   203,
		RawScore:    90,
		Status:      models.SubmissionStatusPending,
		SubmittedAt: time.Now(),
	}
	entry := models.AuditLogEntry{
		ActorID:    203,
		ActorRole:  "student",
		Action:     models.AuditActionCreate,
		EntityType: "score_submission",
		OldValue:   datatypes.JSONMap{},
		NewValue:   datatypes.JSONMap{"status": "PENDING"},
	}
	err := repo.CreateWithAudit(context.Background(), &duplicate, &entry)
	require.Error(t, err)

	// The failed transaction must not leave a dangling audit entry behind.
	var count int64
	require.NoError(t, db.Model(&models.AuditLogEntry{}).
		Where("entity_type = ?", "score_submission").
		Where("action = ?", models.AuditActionCreate).
		Where("actor_id = ?", 203).
		Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestAuditLogRepositoryOrdersHistory(t *testing.T) {
	db := setupTestDB(t)
	submission := seedSubmission(t, db, 104, 204)
	auditRepo := NewAuditLogRepository(db)

	base := time.Now().Add(time.Hour)
	for i, action := range []string{"NEEDS_REVISION", "APPROVED"} {
		entry := models.AuditLogEntry{
			ActorID:    10,
			ActorRole:  "teacher",
			Action:     action,
			EntityType: "score_submission",
			EntityID:   submission.ID,
			OldValue:   datatypes.JSONMap{},
			NewValue:   datatypes.JSONMap{},
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, auditRepo.Create(context.Background(), &entry))
	}

	entries, err := auditRepo.ListByEntity(context.Background(), "score_submission", submission.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, models.AuditActionCreate, entries[0].Action)
	require.Equal(t, "NEEDS_REVISION", entries[1].Action)
	require.Equal(t, "APPROVED", entries[2].Action)
}
