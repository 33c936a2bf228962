package service

import (
	"github.com/lshigami/Petrels/internal/apperr"
	"github.com/lshigami/Petrels/internal/model"
)

// AttemptPolicy decides whether a new attempt may be started. It is a pure
// decision function with no side effects: the caller supplies the quiz, the
// enrollment and the count of prior attempts, and gets back the next
// attempt number or a policy error.
type AttemptPolicy interface {
	CheckStartAttempt(quiz *model.Quiz, enrollment *model.Enrollment, priorAttempts int64) (int, error)
}

type attemptPolicy struct{}

func NewAttemptPolicy() AttemptPolicy {
	return &attemptPolicy{}
}

func (p *attemptPolicy) CheckStartAttempt(quiz *model.Quiz, enrollment *model.Enrollment, priorAttempts int64) (int, error) {
	if !quiz.IsPublished {
		return 0, apperr.ErrQuizNotAvailable
	}
	if !enrollment.IsActive() {
		return 0, apperr.ErrEnrollmentNotActive
	}
	if quiz.MaxAttempts != nil && priorAttempts >= int64(*quiz.MaxAttempts) {
		return 0, apperr.ErrMaxAttemptsExceeded
	}
	return int(priorAttempts) + 1, nil
}
