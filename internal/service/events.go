package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CourseCompletedEvent is emitted exactly once when an enrollment transitions
// to completed. The certificate-issuance collaborator consumes it.
type CourseCompletedEvent struct {
	EventID      uuid.UUID `json:"event_id"`
	EnrollmentID uint      `json:"enrollment_id"`
	StudentID    uint      `json:"student_id"`
	CourseID     uint      `json:"course_id"`
	CompletedAt  time.Time `json:"completed_at"`
}

// QuizGradedEvent notifies the email/notification collaborator that an
// attempt finished grading.
type QuizGradedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	AttemptID  uint      `json:"attempt_id"`
	Score      float64   `json:"score"`
	Percentage float64   `json:"percentage"`
	IsPassed   bool      `json:"is_passed"`
}

// EventPublisher is the outbound boundary for domain events. Delivery
// transport is a collaborator concern; the default publisher just logs.
type EventPublisher interface {
	PublishCourseCompleted(event CourseCompletedEvent)
	PublishQuizGraded(event QuizGradedEvent)
}

type logEventPublisher struct{}

func NewLogEventPublisher() EventPublisher {
	return &logEventPublisher{}
}

func (p *logEventPublisher) PublishCourseCompleted(event CourseCompletedEvent) {
	log.Info().
		Str("event_id", event.EventID.String()).
		Uint("enrollment_id", event.EnrollmentID).
		Uint("student_id", event.StudentID).
		Uint("course_id", event.CourseID).
		Time("completed_at", event.CompletedAt).
		Msg("course_completed event published")
}

func (p *logEventPublisher) PublishQuizGraded(event QuizGradedEvent) {
	log.Info().
		Str("event_id", event.EventID.String()).
		Uint("attempt_id", event.AttemptID).
		Float64("score", event.Score).
		Float64("percentage", event.Percentage).
		Bool("is_passed", event.IsPassed).
		Msg("quiz_graded event published")
}
