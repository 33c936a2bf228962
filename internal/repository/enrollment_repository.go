package repository

import (
	"time"

	"github.com/lshigami/Petrels/internal/model"
	"gorm.io/gorm"
)

type EnrollmentRepository interface {
	FindByID(id uint) (*model.Enrollment, error)
	FindByIDWithCourse(id uint) (*model.Enrollment, error)
	// UpdateProgress writes the recomputed aggregate fields. Only the
	// progress service calls this.
	UpdateProgress(id uint, completedLessons, totalLessons int, progressPercentage float64) error
	// TransitionToCompleted flips an active enrollment to completed, setting
	// completed_at exactly once. Returns false when the enrollment was not
	// active, which makes re-running the aggregator a no-op.
	TransitionToCompleted(id uint, completedAt time.Time) (bool, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) FindByID(id uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	if err := r.db.First(&enrollment, id).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepository) FindByIDWithCourse(id uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	if err := r.db.Preload("Course").First(&enrollment, id).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepository) UpdateProgress(id uint, completedLessons, totalLessons int, progressPercentage float64) error {
	return r.db.Model(&model.Enrollment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"completed_lessons_count": completedLessons,
			"total_lessons_count":     totalLessons,
			"progress_percentage":     progressPercentage,
		}).Error
}

func (r *enrollmentRepository) TransitionToCompleted(id uint, completedAt time.Time) (bool, error) {
	result := r.db.Model(&model.Enrollment{}).
		Where("id = ? AND status = ?", id, model.EnrollmentStatusActive).
		Updates(map[string]interface{}{
			"status":       model.EnrollmentStatusCompleted,
			"completed_at": completedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
