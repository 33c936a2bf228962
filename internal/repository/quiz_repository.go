package repository

import (
	"github.com/lshigami/Petrels/internal/model"
	"gorm.io/gorm"
)

type QuizRepository interface {
	Create(quiz *model.Quiz) error
	FindByID(id uint) (*model.Quiz, error)
	FindByIDWithQuestions(id uint) (*model.Quiz, error)
	Update(quiz *model.Quiz) error
	// FindPublishedIDsByCourse returns the IDs of all published quizzes
	// attached to the course's lessons. Used by the progress aggregator to
	// decide whether required-quiz passes are outstanding.
	FindPublishedIDsByCourse(courseID uint) ([]uint, error)
}

type quizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) Create(quiz *model.Quiz) error {
	// GORM creates the associated questions when quiz.Questions is populated.
	return r.db.Create(quiz).Error
}

func (r *quizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.db.First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindByIDWithQuestions(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.order_index ASC")
	}).First(&quiz, id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) Update(quiz *model.Quiz) error {
	return r.db.Save(quiz).Error
}

func (r *quizRepository) FindPublishedIDsByCourse(courseID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.Quiz{}).
		Joins("JOIN lessons ON lessons.id = quizzes.lesson_id").
		Where("lessons.course_id = ? AND quizzes.is_published = ? AND lessons.deleted_at IS NULL", courseID, true).
		Pluck("quizzes.id", &ids).Error
	return ids, err
}
