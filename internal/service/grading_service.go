package service

import (
	"math"
	"strings"

	"github.com/lshigami/Petrels/config"
	"github.com/lshigami/Petrels/internal/apperr"
	"github.com/lshigami/Petrels/internal/model"
)

// QuestionResult is the grading outcome for a single question.
type QuestionResult struct {
	QuestionID            uint
	IsCorrect             *bool // nil when the question needs manual grading
	PointsEarned          float64
	RequiresManualGrading bool
}

// GradingResult is the outcome of grading one attempt's answer set.
type GradingResult struct {
	PerQuestion []QuestionResult
	Score       float64
	MaxScore    float64
	Percentage  float64
	IsPassed    bool
}

// GradingService scores a submitted answer set against the canonical question
// bank. Grade is deterministic: identical inputs always produce identical
// results, and scoring keys off question identity, never presentation order.
type GradingService interface {
	Grade(quiz *model.Quiz, questions []model.Question, answers map[uint]string) (*GradingResult, error)
}

type gradingService struct {
	essayPointsInMaxScore bool
}

func NewGradingService(cfg *config.Config) GradingService {
	return &gradingService{essayPointsInMaxScore: cfg.Grading.EssayPointsInMaxScore}
}

func (s *gradingService) Grade(quiz *model.Quiz, questions []model.Question, answers map[uint]string) (*GradingResult, error) {
	result := &GradingResult{
		PerQuestion: make([]QuestionResult, 0, len(questions)),
	}

	for i := range questions {
		q := &questions[i]

		if s.essayPointsInMaxScore || q.IsAutoGradable() {
			result.MaxScore += q.Points
		}

		qr := QuestionResult{QuestionID: q.ID}
		submitted, answered := answers[q.ID]

		switch q.Type {
		case model.QuestionTypeEssay:
			// Essays are never auto-scored. Points stay at 0 until an
			// instructor adjusts them; the flag routes the answer to
			// manual grading.
			qr.RequiresManualGrading = true
		default:
			correct := answered && isCorrectAnswer(q, submitted)
			qr.IsCorrect = &correct
			if correct {
				qr.PointsEarned = q.Points
			}
		}

		result.Score += qr.PointsEarned
		result.PerQuestion = append(result.PerQuestion, qr)
	}

	if result.MaxScore <= 0 {
		return nil, apperr.ErrQuizHasNoGradableQuestions
	}

	result.Percentage = roundPercentage(result.Score / result.MaxScore * 100)
	result.IsPassed = result.Percentage >= quiz.PassingScorePercentage
	return result, nil
}

// isCorrectAnswer applies the per-type normalization policy:
// multiple_choice compares option identity exactly (case-sensitive),
// true_false compares trimmed lowercase tokens,
// short_answer compares trimmed values case-insensitively.
func isCorrectAnswer(q *model.Question, submitted string) bool {
	if q.CorrectAnswer == nil {
		return false
	}
	switch q.Type {
	case model.QuestionTypeMultipleChoice:
		return submitted == *q.CorrectAnswer
	case model.QuestionTypeTrueFalse:
		return normalizeToken(submitted) == normalizeToken(*q.CorrectAnswer)
	case model.QuestionTypeShortAnswer:
		return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(*q.CorrectAnswer))
	default:
		return false
	}
}

func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// roundPercentage rounds to two decimal places. This is the documented
// rounding rule for every percentage the system reports.
func roundPercentage(p float64) float64 {
	return math.Round(p*100) / 100
}
