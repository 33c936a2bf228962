package model

import (
	"time"

	"gorm.io/gorm"
)

type Quiz struct {
	ID                     uint           `gorm:"primarykey" json:"id"`
	LessonID               uint           `json:"lesson_id" gorm:"not null;index"`
	Title                  string         `json:"title" gorm:"not null"`
	PassingScorePercentage float64        `json:"passing_score_percentage" gorm:"not null;default:70"`
	TimeLimitMinutes       *int           `json:"time_limit_minutes,omitempty"` // nil = untimed
	MaxAttempts            *int           `json:"max_attempts,omitempty"`       // nil = unlimited
	ShuffleQuestions       bool           `json:"shuffle_questions" gorm:"not null;default:false"`
	ShuffleOptions         bool           `json:"shuffle_options" gorm:"not null;default:false"`
	ShowCorrectAnswers     bool           `json:"show_correct_answers" gorm:"not null;default:false"`
	IsPublished            bool           `json:"is_published" gorm:"not null;default:false;index"`
	Questions              []Question     `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
	CreatedAt              time.Time      `json:"created_at"`
	UpdatedAt              time.Time      `json:"updated_at"`
	DeletedAt              gorm.DeletedAt `gorm:"index" json:"-"`
}

// HasTimeLimit reports whether submissions past the deadline are flagged late.
func (q *Quiz) HasTimeLimit() bool {
	return q.TimeLimitMinutes != nil && *q.TimeLimitMinutes > 0
}

// Deadline returns the submission deadline for an attempt started at startedAt.
// The second return is false for untimed quizzes.
func (q *Quiz) Deadline(startedAt time.Time) (time.Time, bool) {
	if !q.HasTimeLimit() {
		return time.Time{}, false
	}
	return startedAt.Add(time.Duration(*q.TimeLimitMinutes) * time.Minute), true
}
