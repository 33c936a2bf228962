package model

import (
	"time"

	"gorm.io/gorm"
)

// Attempt lifecycle. Transitions are one-directional:
// in_progress -> submitted -> graded.
const (
	AttemptStatusInProgress = "in_progress"
	AttemptStatusSubmitted  = "submitted"
	AttemptStatusGraded     = "graded"
)

type QuizAttempt struct {
	ID               uint            `gorm:"primarykey" json:"id"`
	QuizID           uint            `json:"quiz_id" gorm:"not null;index;uniqueIndex:idx_enrollment_quiz_attempt"`
	Quiz             Quiz            `json:"quiz,omitempty" gorm:"foreignKey:QuizID"`
	EnrollmentID     uint            `json:"enrollment_id" gorm:"not null;index;uniqueIndex:idx_enrollment_quiz_attempt"`
	AttemptNumber    int             `json:"attempt_number" gorm:"not null;uniqueIndex:idx_enrollment_quiz_attempt"`
	Status           string          `json:"status" gorm:"not null;default:'in_progress'"`
	StartedAt        time.Time       `json:"started_at" gorm:"not null"`
	SubmittedAt      *time.Time      `json:"submitted_at,omitempty"`
	GradedAt         *time.Time      `json:"graded_at,omitempty"`
	TimeTakenSeconds *int            `json:"time_taken_seconds,omitempty"`
	IsLate           bool            `json:"is_late" gorm:"not null;default:false"`
	Score            *float64        `json:"score,omitempty"`
	MaxScore         *float64        `json:"max_score,omitempty"`
	Percentage       *float64        `json:"percentage,omitempty"`
	IsPassed         *bool           `json:"is_passed,omitempty"`
	Answers          []AttemptAnswer `json:"answers,omitempty" gorm:"foreignKey:AttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (a *QuizAttempt) IsInProgress() bool {
	return a.Status == AttemptStatusInProgress
}

func (a *QuizAttempt) IsGraded() bool {
	return a.Status == AttemptStatusGraded
}
