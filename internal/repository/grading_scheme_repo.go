package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/gradebook-go-api/internal/models"
)

// GradingSchemeRepository stores per-class weights and transmutation rules.
type GradingSchemeRepository interface {
	GetByClassID(ctx context.Context, classID uint) (models.GradingScheme, error)
	Upsert(ctx context.Context, scheme *models.GradingScheme) error
}

type gradingSchemeRepository struct {
	db *gorm.DB
}

// NewGradingSchemeRepository instantiates the repository.
func NewGradingSchemeRepository(db *gorm.DB) GradingSchemeRepository {
	return &gradingSchemeRepository{db: db}
}

func (r *gradingSchemeRepository) GetByClassID(ctx context.Context, classID uint) (models.GradingScheme, error) {
	var scheme models.GradingScheme
	err := r.db.WithContext(ctx).
		Preload("Rules", func(db *gorm.DB) *gorm.DB {
			return db.Order("min_percent ASC")
		}).
		Where("class_id = ?", classID).
		First(&scheme).Error
	if err != nil {
		return models.GradingScheme{}, err
	}

	return scheme, nil
}

// Upsert replaces the scheme and its full rule set in one transaction so a
// half-written table can never be observed.
func (r *gradingSchemeRepository) Upsert(ctx context.Context, scheme *models.GradingScheme) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.GradingScheme
		err := tx.Where("class_id = ?", scheme.ClassID).First(&existing).Error
		switch {
		case err == nil:
			scheme.ID = existing.ID
			if err := tx.Where("grading_scheme_id = ?", existing.ID).Delete(&models.TransmutationRule{}).Error; err != nil {
				return err
			}
			for i := range scheme.Rules {
				scheme.Rules[i].ID = 0
				scheme.Rules[i].GradingSchemeID = existing.ID
			}
			if err := tx.Model(&existing).Updates(map[string]interface{}{
				"written_work_percent":         scheme.WrittenWorkPercent,
				"performance_task_percent":     scheme.PerformanceTaskPercent,
				"quarterly_assessment_percent": scheme.QuarterlyAssessmentPercent,
			}).Error; err != nil {
				return err
			}
			if len(scheme.Rules) > 0 {
				return tx.Create(&scheme.Rules).Error
			}
			return nil
		case err == gorm.ErrRecordNotFound:
			return tx.Create(scheme).Error
		default:
			return err
		}
	})
}
