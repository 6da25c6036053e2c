package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"studyforge/internal/dto"
	"studyforge/internal/service"
)

type ExamController struct {
	examService service.ExamService
}

func NewExamController(examService service.ExamService) *ExamController {
	return &ExamController{examService: examService}
}

// GenerateExam godoc
// @Summary Generate an exam from documents
// @Description Builds exam questions from the extracted text of the given documents using the language model. Invalid generated items are dropped.
// @Tags Exams
// @Accept json
// @Produce json
// @Param user_id query int true "Owner user ID"
// @Param request body dto.GenerateExamRequest true "Generation parameters"
// @Success 201 {object} dto.ExamResponse
// @Failure 400 {object} dto.ErrorResponse "No usable source text"
// @Failure 500 {object} dto.ErrorResponse "Generation failed"
// @Router /exams/generate [post]
func (c *ExamController) GenerateExam(ctx *gin.Context) {
	ownerID, ok := ownerIDFromQuery(ctx)
	if !ok {
		return
	}
	var req dto.GenerateExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.examService.Generate(ctx.Request.Context(), ownerID, req)
	if err != nil {
		log.Error().Err(err).Uints("document_ids", req.DocumentIDs).Msg("Exam generation failed")
		respondServiceError(ctx, err, "Failed to generate exam")
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// GetExam godoc
// @Summary Get an exam with its questions
// @Tags Exams
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Success 200 {object} dto.ExamResponse
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /exams/{exam_id} [get]
func (c *ExamController) GetExam(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "exam_id")
	if !ok {
		return
	}
	resp, err := c.examService.GetExam(id)
	if err != nil {
		respondServiceError(ctx, err, "Failed to retrieve exam")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListExams godoc
// @Summary List exams for a user
// @Tags Exams
// @Produce json
// @Param user_id query int true "Owner user ID"
// @Param skip query int false "Pagination offset"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.ExamListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /exams [get]
func (c *ExamController) ListExams(ctx *gin.Context) {
	ownerID, ok := ownerIDFromQuery(ctx)
	if !ok {
		return
	}
	skip, limit := paginationFromQuery(ctx)
	resp, err := c.examService.ListExams(ownerID, skip, limit)
	if err != nil {
		respondServiceError(ctx, err, "Failed to list exams")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateExam godoc
// @Summary Update exam metadata
// @Description Updates title, description, duration or publication flag. Questions are not editable.
// @Tags Exams
// @Accept json
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Param request body dto.UpdateExamRequest true "Fields to update"
// @Success 200 {object} dto.ExamResponse
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /exams/{exam_id} [put]
func (c *ExamController) UpdateExam(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "exam_id")
	if !ok {
		return
	}
	var req dto.UpdateExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.examService.UpdateExam(id, req)
	if err != nil {
		respondServiceError(ctx, err, "Failed to update exam")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteExam godoc
// @Summary Delete an exam
// @Description Removes the exam along with its questions, attempts, answers and explanations.
// @Tags Exams
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /exams/{exam_id} [delete]
func (c *ExamController) DeleteExam(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "exam_id")
	if !ok {
		return
	}
	if err := c.examService.DeleteExam(id); err != nil {
		respondServiceError(ctx, err, "Failed to delete exam")
		return
	}
	ctx.Status(http.StatusNoContent)
}
