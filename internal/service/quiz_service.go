package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Petrels/internal/apperr"
	"github.com/lshigami/Petrels/internal/dto"
	"github.com/lshigami/Petrels/internal/model"
	"github.com/lshigami/Petrels/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// QuizService is the instructor-facing side: authoring, publishing and
// editing quiz content. Content is locked once attempts exist against it so
// every attempt of a quiz is graded against the same answer key.
type QuizService interface {
	CreateQuiz(req dto.QuizCreateDTO) (*dto.QuizResponseDTO, error)
	PublishQuiz(quizID uint) (*dto.QuizResponseDTO, error)
	GetQuiz(quizID uint) (*dto.QuizResponseDTO, error)
	UpdateQuestion(questionID uint, req dto.QuestionUpdateDTO) (*dto.QuestionResponseDTO, error)
}

type quizService struct {
	quizRepo     repository.QuizRepository
	questionRepo repository.QuestionRepository
	attemptRepo  repository.AttemptRepository
	lessonRepo   repository.LessonRepository
}

func NewQuizService(
	quizRepo repository.QuizRepository,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.AttemptRepository,
	lessonRepo repository.LessonRepository,
) QuizService {
	return &quizService{
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		lessonRepo:   lessonRepo,
	}
}

func (s *quizService) CreateQuiz(req dto.QuizCreateDTO) (*dto.QuizResponseDTO, error) {
	if _, err := s.lessonRepo.FindByID(req.LessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to load lesson %d: %w", req.LessonID, err)
	}

	quiz := &model.Quiz{
		LessonID:               req.LessonID,
		Title:                  req.Title,
		PassingScorePercentage: req.PassingScorePercentage,
		TimeLimitMinutes:       req.TimeLimitMinutes,
		MaxAttempts:            req.MaxAttempts,
		ShuffleQuestions:       req.ShuffleQuestions,
		ShuffleOptions:         req.ShuffleOptions,
		ShowCorrectAnswers:     req.ShowCorrectAnswers,
	}
	for i, q := range req.Questions {
		question := model.Question{
			Text:          q.Text,
			Type:          q.Type,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Points:        q.Points,
			OrderIndex:    q.OrderIndex,
		}
		if err := validateQuestionContent(&question); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		quiz.Questions = append(quiz.Questions, question)
	}

	if err := s.quizRepo.Create(quiz); err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}
	log.Info().Uint("quizID", quiz.ID).Uint("lessonID", quiz.LessonID).
		Int("questions", len(quiz.Questions)).Msg("Quiz created")

	return quizToDTO(quiz)
}

func (s *quizService) PublishQuiz(quizID uint) (*dto.QuizResponseDTO, error) {
	quiz, err := s.quizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to load quiz %d: %w", quizID, err)
	}
	if len(quiz.Questions) == 0 {
		return nil, fmt.Errorf("%w: cannot publish a quiz with no questions", apperr.ErrInvalidQuestion)
	}
	if !quiz.IsPublished {
		quiz.IsPublished = true
		if err := s.quizRepo.Update(quiz); err != nil {
			return nil, fmt.Errorf("failed to publish quiz %d: %w", quizID, err)
		}
		log.Info().Uint("quizID", quizID).Msg("Quiz published")
	}
	return quizToDTO(quiz)
}

func (s *quizService) GetQuiz(quizID uint) (*dto.QuizResponseDTO, error) {
	quiz, err := s.quizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to load quiz %d: %w", quizID, err)
	}
	return quizToDTO(quiz)
}

// UpdateQuestion edits question content. Rejected once any attempt exists
// against the owning quiz: graded history must stay reproducible.
func (s *quizService) UpdateQuestion(questionID uint, req dto.QuestionUpdateDTO) (*dto.QuestionResponseDTO, error) {
	question, err := s.questionRepo.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to load question %d: %w", questionID, err)
	}

	attempts, err := s.attemptRepo.CountByQuiz(question.QuizID)
	if err != nil {
		return nil, fmt.Errorf("failed to count attempts for quiz %d: %w", question.QuizID, err)
	}
	if attempts > 0 {
		return nil, apperr.ErrQuizLocked
	}

	question.Text = req.Text
	question.Options = req.Options
	question.CorrectAnswer = req.CorrectAnswer
	question.Points = req.Points
	if err := validateQuestionContent(question); err != nil {
		return nil, err
	}
	if err := s.questionRepo.Update(question); err != nil {
		return nil, fmt.Errorf("failed to update question %d: %w", questionID, err)
	}

	resp := questionToDTO(question)
	return &resp, nil
}

// validateQuestionContent enforces the per-type authoring rules.
func validateQuestionContent(q *model.Question) error {
	switch q.Type {
	case model.QuestionTypeMultipleChoice:
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: multiple_choice needs at least two options", apperr.ErrInvalidQuestion)
		}
		if q.CorrectAnswer == nil || !q.HasOption(*q.CorrectAnswer) {
			return fmt.Errorf("%w: correct_answer must be one of the options", apperr.ErrInvalidQuestion)
		}
	case model.QuestionTypeTrueFalse:
		if len(q.Options) != 2 {
			return fmt.Errorf("%w: true_false needs exactly two options", apperr.ErrInvalidQuestion)
		}
		if q.CorrectAnswer == nil || !q.HasOption(*q.CorrectAnswer) {
			return fmt.Errorf("%w: correct_answer must be one of the options", apperr.ErrInvalidQuestion)
		}
	case model.QuestionTypeShortAnswer:
		if q.CorrectAnswer == nil || *q.CorrectAnswer == "" {
			return fmt.Errorf("%w: short_answer needs a correct_answer", apperr.ErrInvalidQuestion)
		}
	case model.QuestionTypeEssay:
		if q.CorrectAnswer != nil {
			return fmt.Errorf("%w: essay questions cannot carry a correct_answer", apperr.ErrInvalidQuestion)
		}
	default:
		return fmt.Errorf("%w: unknown question type %q", apperr.ErrInvalidQuestion, q.Type)
	}
	return nil
}

func quizToDTO(quiz *model.Quiz) (*dto.QuizResponseDTO, error) {
	var resp dto.QuizResponseDTO
	if err := copier.Copy(&resp, quiz); err != nil {
		return nil, fmt.Errorf("error preparing quiz response: %w", err)
	}
	resp.Questions = make([]dto.QuestionResponseDTO, len(quiz.Questions))
	for i := range quiz.Questions {
		resp.Questions[i] = questionToDTO(&quiz.Questions[i])
	}
	return &resp, nil
}
