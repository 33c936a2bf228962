package repository

import (
	"time"

	"github.com/lshigami/Petrels/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttemptRepository interface {
	Create(attempt *model.QuizAttempt) error
	FindByID(id uint) (*model.QuizAttempt, error)
	FindByIDWithDetails(id uint) (*model.QuizAttempt, error)
	FindAllByEnrollmentAndQuiz(enrollmentID, quizID uint) ([]model.QuizAttempt, error)
	CountByEnrollmentAndQuiz(enrollmentID, quizID uint) (int64, error)
	CountByQuiz(quizID uint) (int64, error)
	// UpsertAnswer writes one answer keyed by (attempt, question). Re-saving
	// the same question replaces the previous submitted value.
	UpsertAnswer(answer *model.AttemptAnswer) error
	// UpsertAnswerInTx writes one answer inside the caller's transaction.
	// Submit uses this after winning the status CAS, so answer rows are
	// never touched for an attempt that already left in_progress.
	UpsertAnswerInTx(tx *gorm.DB, answer *model.AttemptAnswer) error
	// MarkSubmitted performs the in_progress -> submitted transition as a
	// compare-and-swap on status. Returns false when the attempt was not in
	// progress, so a concurrent double-submit loses cleanly.
	MarkSubmitted(tx *gorm.DB, attemptID uint, submittedAt time.Time, timeTakenSeconds int, isLate bool) (bool, error)
	// SaveGradingResult writes the graded attempt and its scored answers
	// inside the caller's transaction.
	SaveGradingResult(tx *gorm.DB, attempt *model.QuizAttempt) error
	// FindPassedQuizIDs returns the distinct quiz IDs for which this
	// enrollment has at least one passing graded attempt. A single pass is
	// permanent for completion purposes.
	FindPassedQuizIDs(enrollmentID uint) ([]uint, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Create(attempt *model.QuizAttempt) error {
	return r.db.Create(attempt).Error
}

func (r *attemptRepository) FindByID(id uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	if err := r.db.First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindByIDWithDetails(id uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.db.
		Preload("Quiz").
		Preload("Answers.Question").
		First(&attempt, id).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindAllByEnrollmentAndQuiz(enrollmentID, quizID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.db.
		Where("enrollment_id = ? AND quiz_id = ?", enrollmentID, quizID).
		Order("attempt_number ASC").
		Find(&attempts).Error
	return attempts, err
}

func (r *attemptRepository) CountByEnrollmentAndQuiz(enrollmentID, quizID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.QuizAttempt{}).
		Where("enrollment_id = ? AND quiz_id = ?", enrollmentID, quizID).
		Count(&count).Error
	return count, err
}

func (r *attemptRepository) CountByQuiz(quizID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.QuizAttempt{}).Where("quiz_id = ?", quizID).Count(&count).Error
	return count, err
}

func (r *attemptRepository) UpsertAnswer(answer *model.AttemptAnswer) error {
	return r.UpsertAnswerInTx(r.db, answer)
}

func (r *attemptRepository) UpsertAnswerInTx(tx *gorm.DB, answer *model.AttemptAnswer) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "attempt_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"submitted_value", "updated_at"}),
	}).Create(answer).Error
}

func (r *attemptRepository) MarkSubmitted(tx *gorm.DB, attemptID uint, submittedAt time.Time, timeTakenSeconds int, isLate bool) (bool, error) {
	result := tx.Model(&model.QuizAttempt{}).
		Where("id = ? AND status = ?", attemptID, model.AttemptStatusInProgress).
		Updates(map[string]interface{}{
			"status":             model.AttemptStatusSubmitted,
			"submitted_at":       submittedAt,
			"time_taken_seconds": timeTakenSeconds,
			"is_late":            isLate,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *attemptRepository) SaveGradingResult(tx *gorm.DB, attempt *model.QuizAttempt) error {
	if err := tx.Model(&model.QuizAttempt{}).
		Where("id = ?", attempt.ID).
		Updates(map[string]interface{}{
			"status":     attempt.Status,
			"graded_at":  attempt.GradedAt,
			"score":      attempt.Score,
			"max_score":  attempt.MaxScore,
			"percentage": attempt.Percentage,
			"is_passed":  attempt.IsPassed,
		}).Error; err != nil {
		return err
	}
	for i := range attempt.Answers {
		ans := &attempt.Answers[i]
		if err := tx.Model(&model.AttemptAnswer{}).
			Where("attempt_id = ? AND question_id = ?", attempt.ID, ans.QuestionID).
			Updates(map[string]interface{}{
				"is_correct":              ans.IsCorrect,
				"points_earned":           ans.PointsEarned,
				"requires_manual_grading": ans.RequiresManualGrading,
			}).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *attemptRepository) FindPassedQuizIDs(enrollmentID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.QuizAttempt{}).
		Distinct("quiz_id").
		Where("enrollment_id = ? AND status = ? AND is_passed = ?", enrollmentID, model.AttemptStatusGraded, true).
		Pluck("quiz_id", &ids).Error
	return ids, err
}
