package user

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

type AttemptController struct {
	attemptService service.AttemptService
}

func NewAttemptController(as service.AttemptService) *AttemptController {
	return &AttemptController{attemptService: as}
}

// StartAttempt godoc
// @Summary (User) Start a quiz attempt
// @Description Start a new attempt for a quiz under an enrollment. Fails when the quiz is unpublished, the enrollment is not active or the attempt limit is reached.
// @Tags User - Attempts
// @Produce json
// @Param enrollment_id path int true "Enrollment ID"
// @Param quiz_id path int true "Quiz ID"
// @Success 201 {object} dto.AttemptStartDTO "Attempt created; questions are in presentation order"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 404 {object} dto.ErrorResponse "Quiz or enrollment not found"
// @Failure 409 {object} dto.ErrorResponse "Attempt policy violation"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /enrollments/{enrollment_id}/quizzes/{quiz_id}/attempts [post]
func (c *AttemptController) StartAttempt(ctx *gin.Context) {
	enrollmentID, ok := parseIDParam(ctx, "enrollment_id")
	if !ok {
		return
	}
	quizID, ok := parseIDParam(ctx, "quiz_id")
	if !ok {
		return
	}

	attempt, err := c.attemptService.StartAttempt(quizID, enrollmentID)
	if err != nil {
		respondAttemptError(ctx, err, "Failed to start attempt")
		return
	}
	ctx.JSON(http.StatusCreated, attempt)
}

// SaveAnswer godoc
// @Summary (User) Save one answer on an in-progress attempt
// @Description Upsert a single answer. Re-saving the same question replaces the previous value. Rejected once the attempt is submitted.
// @Tags User - Attempts
// @Accept json
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Param answer body dto.AnswerSubmitDTO true "Answer keyed by question ID"
// @Success 204 "Answer saved"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or answer value"
// @Failure 404 {object} dto.ErrorResponse "Attempt or question not found"
// @Failure 409 {object} dto.ErrorResponse "Attempt is not in progress"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attempts/{attempt_id}/answers [put]
func (c *AttemptController) SaveAnswer(ctx *gin.Context) {
	attemptID, ok := parseIDParam(ctx, "attempt_id")
	if !ok {
		return
	}
	var req dto.AnswerSubmitDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SaveAnswer: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	if err := c.attemptService.RecordAnswer(attemptID, req); err != nil {
		respondAttemptError(ctx, err, "Failed to save answer")
		return
	}
	ctx.Status(http.StatusNoContent)
}

// SubmitAttempt godoc
// @Summary (User) Submit an attempt for grading
// @Description Close the attempt and grade it synchronously. Answers in the body are upserted before grading; answers saved earlier count either way. A late submission is flagged and still graded unless late submits are disabled.
// @Tags User - Attempts
// @Accept json
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Param submission body dto.AttemptSubmitDTO false "Optional final answers"
// @Success 200 {object} dto.AttemptDetailDTO "Graded attempt with per-question results"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or answer value"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 409 {object} dto.ErrorResponse "Attempt already submitted"
// @Failure 422 {object} dto.ErrorResponse "Quiz has no gradable questions"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attempts/{attempt_id}/submit [post]
func (c *AttemptController) SubmitAttempt(ctx *gin.Context) {
	attemptID, ok := parseIDParam(ctx, "attempt_id")
	if !ok {
		return
	}
	var req dto.AttemptSubmitDTO
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			log.Warn().Err(err).Msg("SubmitAttempt: Failed to bind JSON")
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
			return
		}
	}

	detail, err := c.attemptService.SubmitAttempt(attemptID, req)
	if err != nil {
		respondAttemptError(ctx, err, "Failed to submit attempt")
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

// GetAttemptDetails godoc
// @Summary (User) Get one attempt with its graded answers
// @Tags User - Attempts
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.AttemptDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Attempt ID format"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Router /attempts/{attempt_id} [get]
func (c *AttemptController) GetAttemptDetails(ctx *gin.Context) {
	attemptID, ok := parseIDParam(ctx, "attempt_id")
	if !ok {
		return
	}
	detail, err := c.attemptService.GetAttemptDetails(attemptID)
	if err != nil {
		respondAttemptError(ctx, err, "Failed to get attempt")
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

// GetAttemptHistory godoc
// @Summary (User) List all attempts for a quiz under an enrollment
// @Tags User - Attempts
// @Produce json
// @Param enrollment_id path int true "Enrollment ID"
// @Param quiz_id path int true "Quiz ID"
// @Success 200 {array} dto.AttemptSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /enrollments/{enrollment_id}/quizzes/{quiz_id}/attempts [get]
func (c *AttemptController) GetAttemptHistory(ctx *gin.Context) {
	enrollmentID, ok := parseIDParam(ctx, "enrollment_id")
	if !ok {
		return
	}
	quizID, ok := parseIDParam(ctx, "quiz_id")
	if !ok {
		return
	}
	attempts, err := c.attemptService.GetAttemptHistory(enrollmentID, quizID)
	if err != nil {
		respondAttemptError(ctx, err, "Failed to get attempt history")
		return
	}
	ctx.JSON(http.StatusOK, attempts)
}

func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(val), true
}

func respondAttemptError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, apperr.ErrAttemptNotFound),
		errors.Is(err, apperr.ErrQuizNotFound),
		errors.Is(err, apperr.ErrEnrollmentNotFound),
		errors.Is(err, apperr.ErrQuestionNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, apperr.ErrQuizNotAvailable),
		errors.Is(err, apperr.ErrEnrollmentNotActive),
		errors.Is(err, apperr.ErrMaxAttemptsExceeded),
		errors.Is(err, apperr.ErrAttemptAlreadySubmitted),
		errors.Is(err, apperr.ErrAttemptNotInProgress),
		errors.Is(err, apperr.ErrSubmissionDeadlinePassed):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, apperr.ErrInvalidAnswerValue):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, apperr.ErrQuizHasNoGradableQuestions):
		ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Message: err.Error()})
	default:
		log.Error().Err(err).Msg(fallback)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: fallback, Details: []string{err.Error()}})
	}
}
