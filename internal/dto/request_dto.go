package dto

// QuestionCreateDTO is used within QuizCreateDTO for admin quiz creation.
type QuestionCreateDTO struct {
	Text          string   `json:"text" binding:"required"`
	Type          string   `json:"type" binding:"required,oneof=multiple_choice true_false short_answer essay"`
	Options       []string `json:"options"`        // required for multiple_choice/true_false
	CorrectAnswer *string  `json:"correct_answer"` // must reference an option for multiple_choice/true_false; nil for essay
	Points        float64  `json:"points" binding:"required,gt=0"`
	OrderIndex    int      `json:"order_index" binding:"required,min=1"`
}

// QuizCreateDTO is for an instructor to create a new quiz with its questions.
type QuizCreateDTO struct {
	LessonID               uint                `json:"lesson_id" binding:"required"`
	Title                  string              `json:"title" binding:"required"`
	PassingScorePercentage float64             `json:"passing_score_percentage" binding:"min=0,max=100"`
	TimeLimitMinutes       *int                `json:"time_limit_minutes" binding:"omitempty,gt=0"`
	MaxAttempts            *int                `json:"max_attempts" binding:"omitempty,gt=0"`
	ShuffleQuestions       bool                `json:"shuffle_questions"`
	ShuffleOptions         bool                `json:"shuffle_options"`
	ShowCorrectAnswers     bool                `json:"show_correct_answers"`
	Questions              []QuestionCreateDTO `json:"questions" binding:"required,min=1,dive"`
}

// QuestionUpdateDTO edits one question's content. Rejected once attempts
// exist against the owning quiz.
type QuestionUpdateDTO struct {
	Text          string   `json:"text" binding:"required"`
	Options       []string `json:"options"`
	CorrectAnswer *string  `json:"correct_answer"`
	Points        float64  `json:"points" binding:"required,gt=0"`
}

// AnswerSubmitDTO is one answer keyed by question identity.
type AnswerSubmitDTO struct {
	QuestionID     uint   `json:"question_id" binding:"required"`
	SubmittedValue string `json:"submitted_value" binding:"required"`
}

// AttemptSubmitDTO is the request body for submitting an attempt. Answers
// are optional here: answers recorded earlier via the partial-save endpoint
// are graded either way, and any answers included are upserted first.
type AttemptSubmitDTO struct {
	Answers []AnswerSubmitDTO `json:"answers" binding:"omitempty,dive"`
}
