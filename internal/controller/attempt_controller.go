package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"studyforge/internal/dto"
	"studyforge/internal/service"
)

type AttemptController struct {
	attemptService service.AttemptService
}

func NewAttemptController(attemptService service.AttemptService) *AttemptController {
	return &AttemptController{attemptService: attemptService}
}

// CreateAttempt godoc
// @Summary Start an exam attempt
// @Description Creates an attempt with one empty answer per question. Initial answers may be supplied; is_complete=true finalizes immediately.
// @Tags Attempts
// @Accept json
// @Produce json
// @Param user_id query int true "Owner user ID"
// @Param request body dto.CreateAttemptRequest true "Attempt parameters"
// @Success 201 {object} dto.AttemptResponse
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Failure 500 {object} dto.ErrorResponse
// @Router /attempts [post]
func (c *AttemptController) CreateAttempt(ctx *gin.Context) {
	ownerID, ok := ownerIDFromQuery(ctx)
	if !ok {
		return
	}
	var req dto.CreateAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.attemptService.CreateAttempt(ctx.Request.Context(), ownerID, req)
	if err != nil {
		log.Error().Err(err).Uint("exam_id", req.ExamID).Msg("Failed to create attempt")
		respondServiceError(ctx, err, "Failed to create attempt")
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// GetAttempt godoc
// @Summary Get an attempt with answers, questions and explanations
// @Tags Attempts
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.AttemptResponse
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Router /attempts/{attempt_id} [get]
func (c *AttemptController) GetAttempt(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "attempt_id")
	if !ok {
		return
	}
	resp, err := c.attemptService.GetAttempt(id)
	if err != nil {
		respondServiceError(ctx, err, "Failed to retrieve attempt")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListAttempts godoc
// @Summary List a user's attempts for an exam
// @Tags Attempts
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Param user_id query int true "Owner user ID"
// @Success 200 {object} dto.AttemptListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /exams/{exam_id}/attempts [get]
func (c *AttemptController) ListAttempts(ctx *gin.Context) {
	examID, ok := parseIDParam(ctx, "exam_id")
	if !ok {
		return
	}
	ownerID, ok := ownerIDFromQuery(ctx)
	if !ok {
		return
	}
	resp, err := c.attemptService.ListAttempts(examID, ownerID)
	if err != nil {
		respondServiceError(ctx, err, "Failed to list attempts")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateAttempt godoc
// @Summary Update answers or finalize an attempt
// @Description Saves answer responses and, when is_complete=true, scores the attempt and generates explanations for wrong answers. Completed attempts reject further updates.
// @Tags Attempts
// @Accept json
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Param request body dto.UpdateAttemptRequest true "Answer updates"
// @Success 200 {object} dto.AttemptResponse
// @Failure 404 {object} dto.ErrorResponse "Attempt or answer not found"
// @Failure 409 {object} dto.ErrorResponse "Attempt already complete"
// @Router /attempts/{attempt_id} [patch]
func (c *AttemptController) UpdateAttempt(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "attempt_id")
	if !ok {
		return
	}
	var req dto.UpdateAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.attemptService.UpdateAttempt(ctx.Request.Context(), id, req)
	if err != nil {
		respondServiceError(ctx, err, "Failed to update attempt")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
