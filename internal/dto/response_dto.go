package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// QuestionResponseDTO is a question as shown to a student: the correct
// answer never leaves the server.
type QuestionResponseDTO struct {
	ID         uint     `json:"id"`
	QuizID     uint     `json:"quiz_id"`
	Text       string   `json:"text"`
	Type       string   `json:"type"`
	Options    []string `json:"options,omitempty"`
	Points     float64  `json:"points"`
	OrderIndex int      `json:"order_index"`
}

type QuizResponseDTO struct {
	ID                     uint                  `json:"id"`
	LessonID               uint                  `json:"lesson_id"`
	Title                  string                `json:"title"`
	PassingScorePercentage float64               `json:"passing_score_percentage"`
	TimeLimitMinutes       *int                  `json:"time_limit_minutes,omitempty"`
	MaxAttempts            *int                  `json:"max_attempts,omitempty"`
	ShuffleQuestions       bool                  `json:"shuffle_questions"`
	ShuffleOptions         bool                  `json:"shuffle_options"`
	ShowCorrectAnswers     bool                  `json:"show_correct_answers"`
	IsPublished            bool                  `json:"is_published"`
	Questions              []QuestionResponseDTO `json:"questions,omitempty"`
	CreatedAt              time.Time             `json:"created_at"`
}

// AttemptStartDTO is returned when an attempt is created. Questions are in
// presentation order (shuffled when the quiz says so).
type AttemptStartDTO struct {
	ID            uint                  `json:"id"`
	QuizID        uint                  `json:"quiz_id"`
	EnrollmentID  uint                  `json:"enrollment_id"`
	AttemptNumber int                   `json:"attempt_number"`
	Status        string                `json:"status"`
	StartedAt     time.Time             `json:"started_at"`
	Deadline      *time.Time            `json:"deadline,omitempty"`
	Questions     []QuestionResponseDTO `json:"questions"`
}

// AnswerResultDTO is one graded answer within an attempt detail.
// CorrectAnswer is only set for graded attempts of quizzes that opt into
// show_correct_answers.
type AnswerResultDTO struct {
	QuestionID            uint    `json:"question_id"`
	SubmittedValue        string  `json:"submitted_value"`
	IsCorrect             *bool   `json:"is_correct,omitempty"`
	PointsEarned          float64 `json:"points_earned"`
	RequiresManualGrading bool    `json:"requires_manual_grading"`
	CorrectAnswer         *string `json:"correct_answer,omitempty"`
}

type AttemptDetailDTO struct {
	ID               uint              `json:"id"`
	QuizID           uint              `json:"quiz_id"`
	QuizTitle        string            `json:"quiz_title,omitempty"`
	EnrollmentID     uint              `json:"enrollment_id"`
	AttemptNumber    int               `json:"attempt_number"`
	Status           string            `json:"status"`
	StartedAt        time.Time         `json:"started_at"`
	SubmittedAt      *time.Time        `json:"submitted_at,omitempty"`
	GradedAt         *time.Time        `json:"graded_at,omitempty"`
	TimeTakenSeconds *int              `json:"time_taken_seconds,omitempty"`
	IsLate           bool              `json:"is_late"`
	Score            *float64          `json:"score,omitempty"`
	MaxScore         *float64          `json:"max_score,omitempty"`
	Percentage       *float64          `json:"percentage,omitempty"`
	IsPassed         *bool             `json:"is_passed,omitempty"`
	Answers          []AnswerResultDTO `json:"answers,omitempty"`
}

// AttemptSummaryDTO is for listing an enrollment's attempt history.
type AttemptSummaryDTO struct {
	ID            uint       `json:"id"`
	QuizID        uint       `json:"quiz_id"`
	AttemptNumber int        `json:"attempt_number"`
	Status        string     `json:"status"`
	StartedAt     time.Time  `json:"started_at"`
	SubmittedAt   *time.Time `json:"submitted_at,omitempty"`
	IsLate        bool       `json:"is_late"`
	Percentage    *float64   `json:"percentage,omitempty"`
	IsPassed      *bool      `json:"is_passed,omitempty"`
}

// ProgressSnapshotDTO is the enrollment progress aggregate after a recompute.
type ProgressSnapshotDTO struct {
	EnrollmentID          uint       `json:"enrollment_id"`
	CourseID              uint       `json:"course_id"`
	Status                string     `json:"status"`
	CompletedLessonsCount int        `json:"completed_lessons_count"`
	TotalLessonsCount     int        `json:"total_lessons_count"`
	ProgressPercentage    float64    `json:"progress_percentage"`
	CompletedAt           *time.Time `json:"completed_at,omitempty"`
}
