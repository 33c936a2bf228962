package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Question types supported by the grading engine.
const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeTrueFalse      = "true_false"
	QuestionTypeShortAnswer    = "short_answer"
	QuestionTypeEssay          = "essay"
)

// StringArray stores question options as a JSONB column.
type StringArray []string

// Scan implements sql.Scanner so GORM can read JSONB values.
func (o *StringArray) Scan(value interface{}) error {
	if value == nil {
		*o = StringArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}
	if len(bytes) == 0 {
		*o = StringArray{}
		return nil
	}
	return json.Unmarshal(bytes, o)
}

// Value implements driver.Valuer so GORM can write JSONB values.
func (o StringArray) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(o)
}

type Question struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	QuizID        uint           `json:"quiz_id" gorm:"not null;index"`
	Text          string         `json:"text" gorm:"type:text;not null"`
	Type          string         `json:"type" gorm:"not null"` // multiple_choice, true_false, short_answer, essay
	Options       StringArray    `json:"options,omitempty" gorm:"type:jsonb"`
	CorrectAnswer *string        `json:"-"` // hidden from clients; nil for essay
	Points        float64        `json:"points" gorm:"not null"`
	OrderIndex    int            `json:"order_index" gorm:"not null"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsAutoGradable reports whether the grading engine can score this question
// without human judgement. Essay questions always require manual grading.
func (q *Question) IsAutoGradable() bool {
	return q.Type != QuestionTypeEssay
}

// HasOption reports whether value is one of the question's options.
func (q *Question) HasOption(value string) bool {
	for _, opt := range q.Options {
		if opt == value {
			return true
		}
	}
	return false
}
