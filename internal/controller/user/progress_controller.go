package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Petrels/internal/apperr"
	"github.com/lshigami/Petrels/internal/dto"
	"github.com/lshigami/Petrels/internal/service"
	"github.com/rs/zerolog/log"
)

type ProgressController struct {
	progressService service.ProgressService
}

func NewProgressController(ps service.ProgressService) *ProgressController {
	return &ProgressController{progressService: ps}
}

// CompleteLesson godoc
// @Summary (User) Mark a lesson as completed
// @Description Record a lesson completion for an enrollment and recompute progress. Completing the same lesson twice is a no-op.
// @Tags User - Progress
// @Produce json
// @Param enrollment_id path int true "Enrollment ID"
// @Param lesson_id path int true "Lesson ID"
// @Success 200 {object} dto.ProgressSnapshotDTO "Progress after the recompute"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 404 {object} dto.ErrorResponse "Enrollment or lesson not found"
// @Failure 409 {object} dto.ErrorResponse "Enrollment is not active"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /enrollments/{enrollment_id}/lessons/{lesson_id}/complete [post]
func (c *ProgressController) CompleteLesson(ctx *gin.Context) {
	enrollmentID, ok := parseIDParam(ctx, "enrollment_id")
	if !ok {
		return
	}
	lessonID, ok := parseIDParam(ctx, "lesson_id")
	if !ok {
		return
	}

	snapshot, err := c.progressService.CompleteLesson(enrollmentID, lessonID)
	if err != nil {
		respondProgressError(ctx, err, "Failed to complete lesson")
		return
	}
	ctx.JSON(http.StatusOK, snapshot)
}

// GetProgress godoc
// @Summary (User) Get enrollment progress
// @Description Recompute the progress aggregate from completion facts and return the snapshot. The recompute is idempotent, so reading is safe to repeat.
// @Tags User - Progress
// @Produce json
// @Param enrollment_id path int true "Enrollment ID"
// @Success 200 {object} dto.ProgressSnapshotDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Enrollment ID format"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /enrollments/{enrollment_id}/progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	enrollmentID, ok := parseIDParam(ctx, "enrollment_id")
	if !ok {
		return
	}
	snapshot, err := c.progressService.RecomputeProgress(enrollmentID)
	if err != nil {
		respondProgressError(ctx, err, "Failed to get progress")
		return
	}
	ctx.JSON(http.StatusOK, snapshot)
}

func respondProgressError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, apperr.ErrEnrollmentNotFound),
		errors.Is(err, apperr.ErrLessonNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, apperr.ErrEnrollmentNotActive):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
	default:
		log.Error().Err(err).Msg(fallback)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: fallback, Details: []string{err.Error()}})
	}
}
