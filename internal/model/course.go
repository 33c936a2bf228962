package model

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	ID                   uint           `gorm:"primarykey" json:"id"`
	Title                string         `json:"title" gorm:"not null"`
	Description          string         `json:"description,omitempty"`
	RequirePassingGrades bool           `json:"require_passing_grades" gorm:"not null;default:false"`
	Lessons              []Lesson       `json:"lessons,omitempty" gorm:"foreignKey:CourseID"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}
