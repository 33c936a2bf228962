package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	EnrollmentStatusActive    = "active"
	EnrollmentStatusCompleted = "completed"
	EnrollmentStatusDropped   = "dropped"
	EnrollmentStatusExpired   = "expired"
)

// Enrollment ties one student to one course. The progress fields are a
// derived aggregate owned by the progress service: they are recomputed from
// LessonCompletion rows and graded attempts, never adjusted in place.
type Enrollment struct {
	ID                    uint           `gorm:"primarykey" json:"id"`
	CourseID              uint           `json:"course_id" gorm:"not null;index;uniqueIndex:idx_course_student"`
	Course                Course         `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	StudentID             uint           `json:"student_id" gorm:"not null;index;uniqueIndex:idx_course_student"`
	Status                string         `json:"status" gorm:"not null;default:'active';index"`
	CompletedLessonsCount int            `json:"completed_lessons_count" gorm:"not null;default:0"`
	TotalLessonsCount     int            `json:"total_lessons_count" gorm:"not null;default:0"`
	ProgressPercentage    float64        `json:"progress_percentage" gorm:"not null;default:0"`
	CompletedAt           *time.Time     `json:"completed_at,omitempty"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`
}

func (e *Enrollment) IsActive() bool {
	return e.Status == EnrollmentStatusActive
}

func (e *Enrollment) IsCompleted() bool {
	return e.Status == EnrollmentStatusCompleted
}
