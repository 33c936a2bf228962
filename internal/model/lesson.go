package model

import (
	"time"

	"gorm.io/gorm"
)

type Lesson struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	CourseID   uint           `json:"course_id" gorm:"not null;index"`
	Title      string         `json:"title" gorm:"not null"`
	OrderIndex int            `json:"order_index" gorm:"not null"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// LessonCompletion is one completion fact for an enrollment+lesson pair.
// The unique index makes re-completing a lesson a no-op at the persistence
// boundary; progress is always recounted from these rows, never incremented.
type LessonCompletion struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	EnrollmentID uint      `json:"enrollment_id" gorm:"not null;uniqueIndex:idx_enrollment_lesson"`
	LessonID     uint      `json:"lesson_id" gorm:"not null;uniqueIndex:idx_enrollment_lesson"`
	CompletedAt  time.Time `json:"completed_at" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}
