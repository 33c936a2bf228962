package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/lshigami/Petrels/config"
	"github.com/lshigami/Petrels/internal/apperr"
	"github.com/lshigami/Petrels/internal/dto"
	"github.com/lshigami/Petrels/internal/model"
	"github.com/lshigami/Petrels/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AttemptService drives the attempt lifecycle:
// in_progress -> submitted -> graded, with no skips and no reversals.
type AttemptService interface {
	StartAttempt(quizID, enrollmentID uint) (*dto.AttemptStartDTO, error)
	RecordAnswer(attemptID uint, req dto.AnswerSubmitDTO) error
	SubmitAttempt(attemptID uint, req dto.AttemptSubmitDTO) (*dto.AttemptDetailDTO, error)
	GetAttemptDetails(attemptID uint) (*dto.AttemptDetailDTO, error)
	GetAttemptHistory(enrollmentID, quizID uint) ([]dto.AttemptSummaryDTO, error)
}

type attemptService struct {
	quizRepo             repository.QuizRepository
	questionRepo         repository.QuestionRepository
	attemptRepo          repository.AttemptRepository
	enrollmentRepo       repository.EnrollmentRepository
	policy               AttemptPolicy
	grading              GradingService
	progress             ProgressService
	events               EventPublisher
	txRunner             func(fn func(tx *gorm.DB) error) error
	creationRetries      int
	gradeLateSubmissions bool
}

func NewAttemptService(
	quizRepo repository.QuizRepository,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.AttemptRepository,
	enrollmentRepo repository.EnrollmentRepository,
	policy AttemptPolicy,
	grading GradingService,
	progress ProgressService,
	events EventPublisher,
	db *gorm.DB,
	cfg *config.Config,
) AttemptService {
	retries := cfg.Grading.AttemptNumberRetries
	if retries < 1 {
		retries = 1
	}
	return &attemptService{
		quizRepo:       quizRepo,
		questionRepo:   questionRepo,
		attemptRepo:    attemptRepo,
		enrollmentRepo: enrollmentRepo,
		policy:         policy,
		grading:        grading,
		progress:       progress,
		events:         events,
		txRunner: func(fn func(tx *gorm.DB) error) error {
			return db.Transaction(fn)
		},
		creationRetries:      retries,
		gradeLateSubmissions: cfg.Grading.GradeLateSubmissions,
	}
}

// StartAttempt validates the attempt policy and creates a new in_progress
// attempt. Attempt numbers are serialized by the unique index on
// (enrollment_id, quiz_id, attempt_number): when two concurrent starts
// collide, the loser re-reads the count and retries a bounded number of
// times, so both the uniqueness and the max-attempts limit hold.
func (s *attemptService) StartAttempt(quizID, enrollmentID uint) (*dto.AttemptStartDTO, error) {
	quiz, err := s.quizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to load quiz %d: %w", quizID, err)
	}

	enrollment, err := s.enrollmentRepo.FindByID(enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to load enrollment %d: %w", enrollmentID, err)
	}

	var attempt *model.QuizAttempt
	for i := 0; i < s.creationRetries; i++ {
		priorAttempts, err := s.attemptRepo.CountByEnrollmentAndQuiz(enrollmentID, quizID)
		if err != nil {
			return nil, fmt.Errorf("failed to count prior attempts: %w", err)
		}

		attemptNumber, err := s.policy.CheckStartAttempt(quiz, enrollment, priorAttempts)
		if err != nil {
			return nil, err
		}

		candidate := &model.QuizAttempt{
			QuizID:        quizID,
			EnrollmentID:  enrollmentID,
			AttemptNumber: attemptNumber,
			Status:        model.AttemptStatusInProgress,
			StartedAt:     time.Now(),
		}
		err = s.attemptRepo.Create(candidate)
		if err == nil {
			attempt = candidate
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Warn().Uint("quizID", quizID).Uint("enrollmentID", enrollmentID).Int("attemptNumber", attemptNumber).
				Msg("StartAttempt: attempt number conflict, retrying")
			continue
		}
		return nil, fmt.Errorf("failed to create attempt: %w", err)
	}
	if attempt == nil {
		return nil, fmt.Errorf("failed to assign attempt number after %d retries", s.creationRetries)
	}

	log.Info().Uint("attemptID", attempt.ID).Uint("quizID", quizID).Uint("enrollmentID", enrollmentID).
		Int("attemptNumber", attempt.AttemptNumber).Msg("Attempt started")

	resp := &dto.AttemptStartDTO{
		ID:            attempt.ID,
		QuizID:        quizID,
		EnrollmentID:  enrollmentID,
		AttemptNumber: attempt.AttemptNumber,
		Status:        attempt.Status,
		StartedAt:     attempt.StartedAt,
	}
	if deadline, ok := quiz.Deadline(attempt.StartedAt); ok {
		resp.Deadline = &deadline
	}

	presented := presentQuestions(quiz, quiz.Questions, int64(attempt.ID))
	resp.Questions = make([]dto.QuestionResponseDTO, len(presented))
	for i := range presented {
		resp.Questions[i] = questionToDTO(&presented[i])
	}
	return resp, nil
}

// RecordAnswer upserts one answer while the attempt is in progress.
func (s *attemptService) RecordAnswer(attemptID uint, req dto.AnswerSubmitDTO) error {
	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrAttemptNotFound
		}
		return fmt.Errorf("failed to load attempt %d: %w", attemptID, err)
	}
	if !attempt.IsInProgress() {
		return apperr.ErrAttemptNotInProgress
	}

	question, err := s.findQuizQuestion(attempt.QuizID, req.QuestionID)
	if err != nil {
		return err
	}
	if err := validateAnswerShape(question, req.SubmittedValue); err != nil {
		return err
	}

	answer := &model.AttemptAnswer{
		AttemptID:      attemptID,
		QuestionID:     req.QuestionID,
		SubmittedValue: req.SubmittedValue,
	}
	if err := s.attemptRepo.UpsertAnswer(answer); err != nil {
		return fmt.Errorf("failed to save answer: %w", err)
	}
	return nil
}

// SubmitAttempt closes the answer window and grades the attempt in one
// transaction. The in_progress -> submitted transition is a compare-and-swap,
// so a concurrent double submit gets ErrAttemptAlreadySubmitted instead of a
// second grading pass. A submission past the deadline is flagged late and
// graded normally, unless the deployment is configured to reject late submits.
func (s *attemptService) SubmitAttempt(attemptID uint, req dto.AttemptSubmitDTO) (*dto.AttemptDetailDTO, error) {
	attempt, err := s.attemptRepo.FindByIDWithDetails(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to load attempt %d: %w", attemptID, err)
	}
	if !attempt.IsInProgress() {
		return nil, apperr.ErrAttemptAlreadySubmitted
	}

	quiz, err := s.quizRepo.FindByID(attempt.QuizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz %d: %w", attempt.QuizID, err)
	}
	questions, err := s.questionRepo.FindByQuizID(attempt.QuizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions for quiz %d: %w", attempt.QuizID, err)
	}
	questionMap := make(map[uint]*model.Question, len(questions))
	for i := range questions {
		questionMap[questions[i].ID] = &questions[i]
	}

	// Answers recorded earlier plus any carried on the submit request.
	// Submit-time answers win; answers for questions outside the quiz are
	// skipped, not fatal. Validation happens here, but the rows are only
	// written after the status CAS is won: a losing double submit must not
	// overwrite the answers the winner was graded on.
	answerValues := make(map[uint]string, len(attempt.Answers))
	for _, ans := range attempt.Answers {
		answerValues[ans.QuestionID] = ans.SubmittedValue
	}
	finalAnswers := make([]model.AttemptAnswer, 0, len(req.Answers))
	for _, ans := range req.Answers {
		question, ok := questionMap[ans.QuestionID]
		if !ok {
			log.Warn().Uint("questionID", ans.QuestionID).Uint("attemptID", attemptID).
				Msg("SubmitAttempt: answer for a question not in this quiz, skipping")
			continue
		}
		if err := validateAnswerShape(question, ans.SubmittedValue); err != nil {
			return nil, err
		}
		finalAnswers = append(finalAnswers, model.AttemptAnswer{
			AttemptID:      attemptID,
			QuestionID:     ans.QuestionID,
			SubmittedValue: ans.SubmittedValue,
		})
		answerValues[ans.QuestionID] = ans.SubmittedValue
	}

	now := time.Now()
	timeTaken := int(now.Sub(attempt.StartedAt).Seconds())
	isLate := false
	if deadline, ok := quiz.Deadline(attempt.StartedAt); ok && now.After(deadline) {
		isLate = true
	}
	if isLate && !s.gradeLateSubmissions {
		return nil, apperr.ErrSubmissionDeadlinePassed
	}

	var result *GradingResult
	err = s.txRunner(func(tx *gorm.DB) error {
		submitted, err := s.attemptRepo.MarkSubmitted(tx, attemptID, now, timeTaken, isLate)
		if err != nil {
			return fmt.Errorf("failed to mark attempt submitted: %w", err)
		}
		if !submitted {
			return apperr.ErrAttemptAlreadySubmitted
		}

		for i := range finalAnswers {
			if err := s.attemptRepo.UpsertAnswerInTx(tx, &finalAnswers[i]); err != nil {
				return fmt.Errorf("failed to save answer: %w", err)
			}
		}

		result, err = s.grading.Grade(quiz, questions, answerValues)
		if err != nil {
			return err
		}

		gradedAt := time.Now()
		attempt.Status = model.AttemptStatusGraded
		attempt.GradedAt = &gradedAt
		attempt.Score = &result.Score
		attempt.MaxScore = &result.MaxScore
		attempt.Percentage = &result.Percentage
		attempt.IsPassed = &result.IsPassed

		perQuestion := make(map[uint]QuestionResult, len(result.PerQuestion))
		for _, qr := range result.PerQuestion {
			perQuestion[qr.QuestionID] = qr
		}
		attempt.Answers = attempt.Answers[:0]
		for questionID := range answerValues {
			qr, ok := perQuestion[questionID]
			if !ok {
				continue
			}
			attempt.Answers = append(attempt.Answers, model.AttemptAnswer{
				AttemptID:             attemptID,
				QuestionID:            questionID,
				SubmittedValue:        answerValues[questionID],
				IsCorrect:             qr.IsCorrect,
				PointsEarned:          qr.PointsEarned,
				RequiresManualGrading: qr.RequiresManualGrading,
			})
		}
		return s.attemptRepo.SaveGradingResult(tx, attempt)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint("attemptID", attemptID).Float64("score", result.Score).
		Float64("percentage", result.Percentage).Bool("isPassed", result.IsPassed).
		Bool("isLate", isLate).Msg("Attempt graded")

	s.events.PublishQuizGraded(QuizGradedEvent{
		EventID:    uuid.New(),
		AttemptID:  attemptID,
		Score:      result.Score,
		Percentage: result.Percentage,
		IsPassed:   result.IsPassed,
	})

	// A passing grade is a completion fact; fold it into the enrollment
	// aggregate. The recompute is idempotent, so a failure here only delays
	// progress until the next trigger.
	if result.IsPassed {
		if _, err := s.progress.RecomputeProgress(attempt.EnrollmentID); err != nil {
			log.Error().Err(err).Uint("enrollmentID", attempt.EnrollmentID).
				Msg("SubmitAttempt: progress recompute after passing grade failed")
		}
	}

	return s.GetAttemptDetails(attemptID)
}

func (s *attemptService) GetAttemptDetails(attemptID uint) (*dto.AttemptDetailDTO, error) {
	attempt, err := s.attemptRepo.FindByIDWithDetails(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to load attempt %d: %w", attemptID, err)
	}

	var resp dto.AttemptDetailDTO
	if err := copier.Copy(&resp, attempt); err != nil {
		return nil, fmt.Errorf("error preparing attempt response: %w", err)
	}
	if attempt.Quiz.ID != 0 {
		resp.QuizTitle = attempt.Quiz.Title
	}
	// The answer key is revealed only once the attempt is graded, and only
	// when the quiz opts in. In-progress attempts never see it.
	revealKey := attempt.IsGraded() && attempt.Quiz.ShowCorrectAnswers
	resp.Answers = make([]dto.AnswerResultDTO, len(attempt.Answers))
	for i, ans := range attempt.Answers {
		resp.Answers[i] = dto.AnswerResultDTO{
			QuestionID:            ans.QuestionID,
			SubmittedValue:        ans.SubmittedValue,
			IsCorrect:             ans.IsCorrect,
			PointsEarned:          ans.PointsEarned,
			RequiresManualGrading: ans.RequiresManualGrading,
		}
		if revealKey {
			resp.Answers[i].CorrectAnswer = ans.Question.CorrectAnswer
		}
	}
	return &resp, nil
}

func (s *attemptService) GetAttemptHistory(enrollmentID, quizID uint) ([]dto.AttemptSummaryDTO, error) {
	attempts, err := s.attemptRepo.FindAllByEnrollmentAndQuiz(enrollmentID, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempts for enrollment %d quiz %d: %w", enrollmentID, quizID, err)
	}
	summaries := make([]dto.AttemptSummaryDTO, len(attempts))
	for i, attempt := range attempts {
		var summary dto.AttemptSummaryDTO
		if err := copier.Copy(&summary, &attempt); err != nil {
			return nil, fmt.Errorf("error preparing attempt summary: %w", err)
		}
		summaries[i] = summary
	}
	return summaries, nil
}

func (s *attemptService) findQuizQuestion(quizID, questionID uint) (*model.Question, error) {
	questions, err := s.questionRepo.FindByQuizID(quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions for quiz %d: %w", quizID, err)
	}
	for i := range questions {
		if questions[i].ID == questionID {
			return &questions[i], nil
		}
	}
	return nil, apperr.ErrQuestionNotFound
}

// validateAnswerShape checks the submitted value against the question type
// at the boundary, before anything is persisted.
func validateAnswerShape(q *model.Question, submitted string) error {
	switch q.Type {
	case model.QuestionTypeMultipleChoice:
		if !q.HasOption(submitted) {
			return apperr.ErrInvalidAnswerValue
		}
	case model.QuestionTypeTrueFalse:
		token := normalizeToken(submitted)
		for _, opt := range q.Options {
			if normalizeToken(opt) == token {
				return nil
			}
		}
		return apperr.ErrInvalidAnswerValue
	}
	return nil
}

func questionToDTO(q *model.Question) dto.QuestionResponseDTO {
	return dto.QuestionResponseDTO{
		ID:         q.ID,
		QuizID:     q.QuizID,
		Text:       q.Text,
		Type:       q.Type,
		Options:    q.Options,
		Points:     q.Points,
		OrderIndex: q.OrderIndex,
	}
}
