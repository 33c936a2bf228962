package service

import (
	"testing"

	"github.com/lshigami/Petrels/internal/apperr"
	"github.com/lshigami/Petrels/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newTestQuiz(passing float64) *model.Quiz {
	return &model.Quiz{ID: 1, Title: "Unit Quiz", PassingScorePercentage: passing, IsPublished: true}
}

func mcQuestion(id uint, points float64, correct string, options ...string) model.Question {
	return model.Question{
		ID: id, QuizID: 1, Type: model.QuestionTypeMultipleChoice,
		Options: options, CorrectAnswer: strPtr(correct), Points: points,
	}
}

func TestGrade_AllCorrect(t *testing.T) {
	svc := &gradingService{essayPointsInMaxScore: true}
	quiz := newTestQuiz(70)
	questions := []model.Question{
		mcQuestion(1, 2, "B", "A", "B", "C"),
		{ID: 2, QuizID: 1, Type: model.QuestionTypeTrueFalse, Options: []string{"True", "False"}, CorrectAnswer: strPtr("True"), Points: 1},
		{ID: 3, QuizID: 1, Type: model.QuestionTypeShortAnswer, CorrectAnswer: strPtr("Paris"), Points: 2},
	}
	answers := map[uint]string{1: "B", 2: "true", 3: " paris "}

	result, err := svc.Grade(quiz, questions, answers)
	require.NoError(t, err)
	assert.Equal(t, 5.0, result.Score)
	assert.Equal(t, 5.0, result.MaxScore)
	assert.Equal(t, 100.0, result.Percentage)
	assert.True(t, result.IsPassed)
}

func TestGrade_MultipleChoiceIsCaseSensitive(t *testing.T) {
	svc := &gradingService{essayPointsInMaxScore: true}
	quiz := newTestQuiz(50)
	questions := []model.Question{mcQuestion(1, 1, "Paris", "Paris", "paris")}

	result, err := svc.Grade(quiz, questions, map[uint]string{1: "paris"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Score)
	require.NotNil(t, result.PerQuestion[0].IsCorrect)
	assert.False(t, *result.PerQuestion[0].IsCorrect)
}

func TestGrade_TrueFalseNormalization(t *testing.T) {
	svc := &gradingService{essayPointsInMaxScore: true}
	quiz := newTestQuiz(50)
	questions := []model.Question{
		{ID: 1, Type: model.QuestionTypeTrueFalse, Options: []string{"True", "False"}, CorrectAnswer: strPtr("True"), Points: 1},
	}

	for _, submitted := range []string{"True", "true", " TRUE ", "tRuE"} {
		result, err := svc.Grade(quiz, questions, map[uint]string{1: submitted})
		require.NoError(t, err)
		assert.Equal(t, 1.0, result.Score, "submitted %q should match", submitted)
	}
}

func TestGrade_ShortAnswerTrimsAndIgnoresCase(t *testing.T) {
	svc := &gradingService{essayPointsInMaxScore: true}
	quiz := newTestQuiz(50)
	questions := []model.Question{
		{ID: 1, Type: model.QuestionTypeShortAnswer, CorrectAnswer: strPtr("Mitochondria"), Points: 3},
	}

	result, err := svc.Grade(quiz, questions, map[uint]string{1: "  mitochondria "})
	require.NoError(t, err)
	assert.Equal(t, 3.0, result.Score)

	result, err = svc.Grade(quiz, questions, map[uint]string{1: "mito chondria"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Score)
}

func TestGrade_UnansweredQuestionsScoreZero(t *testing.T) {
	svc := &gradingService{essayPointsInMaxScore: true}
	quiz := newTestQuiz(70)
	questions := []model.Question{
		mcQuestion(1, 2, "A", "A", "B"),
		mcQuestion(2, 2, "B", "A", "B"),
	}

	result, err := svc.Grade(quiz, questions, map[uint]string{1: "A"})
	require.NoError(t, err)
	assert.Equal(t, 2.0, result.Score)
	assert.Equal(t, 4.0, result.MaxScore)
	assert.Equal(t, 50.0, result.Percentage)
	assert.False(t, result.IsPassed)

	// An unanswered question is wrong, not skipped.
	require.NotNil(t, result.PerQuestion[1].IsCorrect)
	assert.False(t, *result.PerQuestion[1].IsCorrect)
}

func TestGrade_EssayRequiresManualGrading(t *testing.T) {
	svc := &gradingService{essayPointsInMaxScore: true}
	quiz := newTestQuiz(70)
	questions := []model.Question{
		mcQuestion(1, 5, "A", "A", "B"),
		{ID: 2, Type: model.QuestionTypeEssay, Points: 5},
	}

	result, err := svc.Grade(quiz, questions, map[uint]string{1: "A", 2: "my long essay"})
	require.NoError(t, err)

	essay := result.PerQuestion[1]
	assert.True(t, essay.RequiresManualGrading)
	assert.Nil(t, essay.IsCorrect)
	assert.Equal(t, 0.0, essay.PointsEarned)

	// Essay points count toward max score, so a perfect objective score is
	// only 50% here and the attempt fails a 70% bar.
	assert.Equal(t, 10.0, result.MaxScore)
	assert.Equal(t, 50.0, result.Percentage)
	assert.False(t, result.IsPassed)
}

func TestGrade_EssayExcludedFromMaxScoreWhenConfigured(t *testing.T) {
	svc := &gradingService{essayPointsInMaxScore: false}
	quiz := newTestQuiz(70)
	questions := []model.Question{
		mcQuestion(1, 5, "A", "A", "B"),
		{ID: 2, Type: model.QuestionTypeEssay, Points: 5},
	}

	result, err := svc.Grade(quiz, questions, map[uint]string{1: "A"})
	require.NoError(t, err)
	assert.Equal(t, 5.0, result.MaxScore)
	assert.Equal(t, 100.0, result.Percentage)
	assert.True(t, result.IsPassed)
}

func TestGrade_ExactThresholdPasses(t *testing.T) {
	svc := &gradingService{essayPointsInMaxScore: true}
	quiz := newTestQuiz(70)
	questions := []model.Question{
		mcQuestion(1, 7, "A", "A", "B"),
		mcQuestion(2, 3, "A", "A", "B"),
	}

	result, err := svc.Grade(quiz, questions, map[uint]string{1: "A", 2: "B"})
	require.NoError(t, err)
	assert.Equal(t, 70.0, result.Percentage)
	assert.True(t, result.IsPassed)
}

func TestGrade_PercentageRoundsToTwoDecimals(t *testing.T) {
	svc := &gradingService{essayPointsInMaxScore: true}
	quiz := newTestQuiz(30)
	questions := []model.Question{
		mcQuestion(1, 1, "A", "A", "B"),
		mcQuestion(2, 1, "A", "A", "B"),
		mcQuestion(3, 1, "A", "A", "B"),
	}

	result, err := svc.Grade(quiz, questions, map[uint]string{1: "A"})
	require.NoError(t, err)
	assert.Equal(t, 33.33, result.Percentage)
}

func TestGrade_NoGradableQuestionsIsAnError(t *testing.T) {
	svc := &gradingService{essayPointsInMaxScore: false}
	quiz := newTestQuiz(70)
	questions := []model.Question{{ID: 1, Type: model.QuestionTypeEssay, Points: 5}}

	_, err := svc.Grade(quiz, questions, map[uint]string{})
	assert.ErrorIs(t, err, apperr.ErrQuizHasNoGradableQuestions)
}

func TestGrade_IsDeterministic(t *testing.T) {
	svc := &gradingService{essayPointsInMaxScore: true}
	quiz := newTestQuiz(70)
	questions := []model.Question{
		mcQuestion(1, 2, "B", "A", "B", "C"),
		mcQuestion(2, 2, "C", "A", "B", "C"),
	}
	answers := map[uint]string{1: "B", 2: "A"}

	first, err := svc.Grade(quiz, questions, answers)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := svc.Grade(quiz, questions, answers)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestGrade_IgnoresPresentationOrder(t *testing.T) {
	svc := &gradingService{essayPointsInMaxScore: true}
	quiz := newTestQuiz(70)
	quiz.ShuffleQuestions = true
	quiz.ShuffleOptions = true
	questions := []model.Question{
		mcQuestion(1, 2, "B", "A", "B", "C"),
		mcQuestion(2, 2, "C", "A", "B", "C"),
	}
	answers := map[uint]string{1: "B", 2: "C"}

	baseline, err := svc.Grade(quiz, questions, answers)
	require.NoError(t, err)

	// Grading the shuffled presentation copy must give the same result:
	// scoring keys off question IDs, not positions.
	for seed := int64(1); seed <= 5; seed++ {
		shuffled := presentQuestions(quiz, questions, seed)
		result, err := svc.Grade(quiz, shuffled, answers)
		require.NoError(t, err)
		assert.Equal(t, baseline.Score, result.Score)
		assert.Equal(t, baseline.Percentage, result.Percentage)
	}
}
