package repository

import (
	"github.com/lshigami/Petrels/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LessonRepository interface {
	FindByID(id uint) (*model.Lesson, error)
	CountByCourseID(courseID uint) (int64, error)
	// CreateCompletion records a completion fact. Duplicate completions for
	// the same (enrollment, lesson) pair are ignored, not errors.
	CreateCompletion(completion *model.LessonCompletion) error
	CountCompletions(enrollmentID uint) (int64, error)
}

type lessonRepository struct {
	db *gorm.DB
}

func NewLessonRepository(db *gorm.DB) LessonRepository {
	return &lessonRepository{db: db}
}

func (r *lessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	if err := r.db.First(&lesson, id).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *lessonRepository) CountByCourseID(courseID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Lesson{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

func (r *lessonRepository) CreateCompletion(completion *model.LessonCompletion) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "enrollment_id"}, {Name: "lesson_id"}},
		DoNothing: true,
	}).Create(completion).Error
}

func (r *lessonRepository) CountCompletions(enrollmentID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.LessonCompletion{}).Where("enrollment_id = ?", enrollmentID).Count(&count).Error
	return count, err
}
