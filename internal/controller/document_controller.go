package controller

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"studyforge/internal/dto"
	"studyforge/internal/service"
)

// isAllowedUploadType mirrors the formats the extraction pipeline understands.
func isAllowedUploadType(contentType string) bool {
	switch contentType {
	case "application/pdf",
		"application/vnd.ms-powerpoint",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"text/plain":
		return true
	}
	return false
}

type DocumentController struct {
	documentService service.DocumentService
}

func NewDocumentController(documentService service.DocumentService) *DocumentController {
	return &DocumentController{documentService: documentService}
}

// UploadDocument godoc
// @Summary Upload a study document
// @Description Stores the file and starts background processing. The document is returned with status "processing"; poll until it becomes "ready" or "failed".
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param user_id query int true "Owner user ID"
// @Param file formData file true "Document file (PDF, DOC, DOCX, PPT, PPTX, TXT)"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} dto.ErrorResponse "Missing file or unsupported type"
// @Failure 500 {object} dto.ErrorResponse "Upload failed"
// @Router /documents [post]
func (c *DocumentController) UploadDocument(ctx *gin.Context) {
	ownerID, ok := ownerIDFromQuery(ctx)
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Missing file in form data"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !isAllowedUploadType(contentType) {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Message: "Unsupported file type: " + contentType + ". Allowed types: PDF, DOC, DOCX, PPT, PPTX, TXT",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to read uploaded file"})
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to read uploaded file"})
		return
	}

	resp, err := c.documentService.Upload(ctx.Request.Context(), ownerID, fileHeader.Filename, contentType, data)
	if err != nil {
		log.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Document upload failed")
		respondServiceError(ctx, err, "Failed to upload document")
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// GetDocument godoc
// @Summary Get a document
// @Tags Documents
// @Produce json
// @Param document_id path int true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Router /documents/{document_id} [get]
func (c *DocumentController) GetDocument(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "document_id")
	if !ok {
		return
	}
	resp, err := c.documentService.GetDocument(id)
	if err != nil {
		respondServiceError(ctx, err, "Failed to retrieve document")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListDocuments godoc
// @Summary List documents for a user
// @Tags Documents
// @Produce json
// @Param user_id query int true "Owner user ID"
// @Param skip query int false "Pagination offset"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.DocumentListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /documents [get]
func (c *DocumentController) ListDocuments(ctx *gin.Context) {
	ownerID, ok := ownerIDFromQuery(ctx)
	if !ok {
		return
	}
	skip, limit := paginationFromQuery(ctx)
	resp, err := c.documentService.ListDocuments(ownerID, skip, limit)
	if err != nil {
		respondServiceError(ctx, err, "Failed to list documents")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateDocument godoc
// @Summary Rename a document
// @Tags Documents
// @Accept json
// @Produce json
// @Param document_id path int true "Document ID"
// @Param request body dto.UpdateDocumentRequest true "New filename"
// @Success 200 {object} dto.DocumentResponse
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Router /documents/{document_id} [put]
func (c *DocumentController) UpdateDocument(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "document_id")
	if !ok {
		return
	}
	var req dto.UpdateDocumentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.documentService.UpdateDocument(id, req)
	if err != nil {
		respondServiceError(ctx, err, "Failed to update document")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteDocument godoc
// @Summary Delete a document and its chunks
// @Tags Documents
// @Produce json
// @Param document_id path int true "Document ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Router /documents/{document_id} [delete]
func (c *DocumentController) DeleteDocument(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "document_id")
	if !ok {
		return
	}
	if err := c.documentService.DeleteDocument(ctx.Request.Context(), id); err != nil {
		respondServiceError(ctx, err, "Failed to delete document")
		return
	}
	ctx.Status(http.StatusNoContent)
}
