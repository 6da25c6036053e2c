package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"studyforge/internal/dto"
	"studyforge/internal/service"
)

// parseIDParam reads a positive integer path parameter.
func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	val, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(val), true
}

// ownerIDFromQuery reads the acting user's id from the user_id query
// parameter. Auth middleware would normally supply this.
func ownerIDFromQuery(ctx *gin.Context) (uint, bool) {
	raw := ctx.Query("user_id")
	if raw == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Missing user_id query parameter"})
		return 0, false
	}
	val, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid user_id format"})
		return 0, false
	}
	return uint(val), true
}

func paginationFromQuery(ctx *gin.Context) (skip, limit int) {
	skip, _ = strconv.Atoi(ctx.DefaultQuery("skip", "0"))
	limit, _ = strconv.Atoi(ctx.DefaultQuery("limit", "100"))
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return skip, limit
}

// respondServiceError maps service sentinel errors onto HTTP statuses.
func respondServiceError(ctx *gin.Context, err error, message string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrDocumentNotFound),
		errors.Is(err, service.ErrExamNotFound),
		errors.Is(err, service.ErrAttemptNotFound),
		errors.Is(err, service.ErrAnswerNotFound),
		errors.Is(err, service.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrAnswerMismatch),
		errors.Is(err, service.ErrNoSourceText),
		errors.Is(err, service.ErrUnsupportedFormat):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrAttemptAlreadyComplete):
		status = http.StatusConflict
	}
	ctx.JSON(status, dto.ErrorResponse{Message: message, Details: []string{err.Error()}})
}
