// Package apperr holds the sentinel errors that cross service boundaries.
// Services wrap these with fmt.Errorf("...: %w", err); controllers map them
// to HTTP status codes with errors.Is.
package apperr

import "errors"

// Policy violations. User-correctable, returned to the caller for display.
var (
	// ErrQuizNotAvailable is returned when an attempt is started against an
	// unpublished quiz.
	ErrQuizNotAvailable = errors.New("quiz is not available")

	// ErrEnrollmentNotActive is returned when the enrollment is dropped,
	// expired or already completed.
	ErrEnrollmentNotActive = errors.New("enrollment is not active")

	// ErrMaxAttemptsExceeded is returned when the quiz attempt limit has
	// been reached for this enrollment.
	ErrMaxAttemptsExceeded = errors.New("maximum attempts exceeded")
)

// State violations. Indicate caller misuse or a lost race; the caller decides
// whether to re-fetch state or surface a conflict.
var (
	ErrAttemptAlreadySubmitted = errors.New("attempt already submitted")
	ErrAttemptNotInProgress    = errors.New("attempt is not in progress")

	// ErrSubmissionDeadlinePassed is returned for a late submit when the
	// deployment is configured not to grade late submissions.
	ErrSubmissionDeadlinePassed = errors.New("submission deadline has passed")
)

// Not-found errors.
var (
	ErrAttemptNotFound    = errors.New("attempt not found")
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrQuestionNotFound   = errors.New("question not found")
)

// Validation errors.
var (
	// ErrInvalidAnswerValue is returned when a submitted value does not fit
	// the question's type (e.g. a choice that is not one of the options).
	ErrInvalidAnswerValue = errors.New("submitted value is not valid for this question")

	// ErrInvalidQuestion is returned when question content breaks a per-type
	// rule at authoring time. Wrapped with the specific rule that failed.
	ErrInvalidQuestion = errors.New("invalid question")
)

// Data-integrity errors.
var (
	// ErrQuizHasNoGradableQuestions means the quiz's max score is zero.
	// Fatal for grading; never silently defaulted to 0%.
	ErrQuizHasNoGradableQuestions = errors.New("quiz has no gradable questions")

	// ErrQuizLocked is returned when quiz content is edited after attempts
	// exist against it.
	ErrQuizLocked = errors.New("quiz content is locked by existing attempts")
)
