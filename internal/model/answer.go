package model

import (
	"time"

	"gorm.io/gorm"
)

type AttemptAnswer struct {
	ID                     uint           `gorm:"primarykey" json:"id"`
	AttemptID              uint           `json:"attempt_id" gorm:"not null;uniqueIndex:idx_attempt_question"`
	QuestionID             uint           `json:"question_id" gorm:"not null;uniqueIndex:idx_attempt_question"`
	Question               Question       `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	SubmittedValue         string         `json:"submitted_value" gorm:"type:text;not null"`
	IsCorrect              *bool          `json:"is_correct,omitempty"` // nil until graded
	PointsEarned           float64        `json:"points_earned" gorm:"not null;default:0"`
	RequiresManualGrading  bool           `json:"requires_manual_grading" gorm:"not null;default:false"`
	CreatedAt              time.Time      `json:"created_at"`
	UpdatedAt              time.Time      `json:"updated_at"`
	DeletedAt              gorm.DeletedAt `gorm:"index" json:"-"`
}
