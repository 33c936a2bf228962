package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Petrels/internal/apperr"
	"github.com/lshigami/Petrels/internal/dto"
	"github.com/lshigami/Petrels/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminQuizController struct {
	quizService service.QuizService
}

func NewAdminQuizController(qs service.QuizService) *AdminQuizController {
	return &AdminQuizController{quizService: qs}
}

// CreateQuiz godoc
// @Summary (Admin) Create a quiz with its questions
// @Description Create a quiz attached to a lesson. The quiz stays unpublished until explicitly published.
// @Tags Admin - Quizzes
// @Accept json
// @Produce json
// @Param quiz body dto.QuizCreateDTO true "Quiz data including questions"
// @Success 201 {object} dto.QuizResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or question content"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/quizzes [post]
func (c *AdminQuizController) CreateQuiz(ctx *gin.Context) {
	var req dto.QuizCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateQuiz: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	quiz, err := c.quizService.CreateQuiz(req)
	if err != nil {
		respondQuizError(ctx, err, "Failed to create quiz")
		return
	}
	ctx.JSON(http.StatusCreated, quiz)
}

// PublishQuiz godoc
// @Summary (Admin) Publish a quiz
// @Description Make a quiz available for attempts. Publishing an already published quiz is a no-op.
// @Tags Admin - Quizzes
// @Produce json
// @Param quiz_id path int true "Quiz ID"
// @Success 200 {object} dto.QuizResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Quiz ID format or quiz has no questions"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/quizzes/{quiz_id}/publish [post]
func (c *AdminQuizController) PublishQuiz(ctx *gin.Context) {
	quizID, ok := parseIDParam(ctx, "quiz_id")
	if !ok {
		return
	}
	quiz, err := c.quizService.PublishQuiz(quizID)
	if err != nil {
		respondQuizError(ctx, err, "Failed to publish quiz")
		return
	}
	ctx.JSON(http.StatusOK, quiz)
}

// GetQuiz godoc
// @Summary (Admin) Get a quiz with its questions
// @Tags Admin - Quizzes
// @Produce json
// @Param quiz_id path int true "Quiz ID"
// @Success 200 {object} dto.QuizResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Quiz ID format"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /admin/quizzes/{quiz_id} [get]
func (c *AdminQuizController) GetQuiz(ctx *gin.Context) {
	quizID, ok := parseIDParam(ctx, "quiz_id")
	if !ok {
		return
	}
	quiz, err := c.quizService.GetQuiz(quizID)
	if err != nil {
		respondQuizError(ctx, err, "Failed to get quiz")
		return
	}
	ctx.JSON(http.StatusOK, quiz)
}

// UpdateQuestion godoc
// @Summary (Admin) Update question content
// @Description Edit a question's text, options, answer key or points. Rejected once any attempt exists against the owning quiz.
// @Tags Admin - Quizzes
// @Accept json
// @Produce json
// @Param question_id path int true "Question ID"
// @Param question body dto.QuestionUpdateDTO true "Updated question content"
// @Success 200 {object} dto.QuestionResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or question content"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Failure 409 {object} dto.ErrorResponse "Quiz content locked by existing attempts"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/questions/{question_id} [put]
func (c *AdminQuizController) UpdateQuestion(ctx *gin.Context) {
	questionID, ok := parseIDParam(ctx, "question_id")
	if !ok {
		return
	}
	var req dto.QuestionUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("UpdateQuestion: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	question, err := c.quizService.UpdateQuestion(questionID, req)
	if err != nil {
		respondQuizError(ctx, err, "Failed to update question")
		return
	}
	ctx.JSON(http.StatusOK, question)
}

func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(val), true
}

func respondQuizError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, apperr.ErrQuizNotFound),
		errors.Is(err, apperr.ErrQuestionNotFound),
		errors.Is(err, apperr.ErrLessonNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, apperr.ErrInvalidQuestion):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, apperr.ErrQuizLocked):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
	default:
		log.Error().Err(err).Msg(fallback)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: fallback, Details: []string{err.Error()}})
	}
}
