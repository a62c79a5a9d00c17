package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"jan-server/services/voicebot-api/internal/domain/document"
	"jan-server/services/voicebot-api/internal/infrastructure/metrics"
	"jan-server/services/voicebot-api/internal/interfaces/httpserver/responses"
	"jan-server/services/voicebot-api/internal/utils/platformerrors"
)

// DocumentService is the subset of document.Service the handler needs.
type DocumentService interface {
	Upload(ctx context.Context, ownerID, botUUID string, params document.UploadParams) (*document.Document, error)
	List(ctx context.Context, ownerID, botUUID string) ([]*document.Document, error)
	Open(ctx context.Context, ownerID, botUUID, id string) (*document.Document, io.ReadCloser, error)
}

// DocumentHandler manages the knowledge files of a bot.
type DocumentHandler struct {
	service DocumentService
	log     zerolog.Logger
}

func NewDocumentHandler(service DocumentService, log zerolog.Logger) *DocumentHandler {
	return &DocumentHandler{
		service: service,
		log:     log.With().Str("handler", "document").Logger(),
	}
}

// Upload handles POST /v1/bots/:uuid/documents
// @Summary Upload a knowledge document
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Bot UUID"
// @Param file formData file true "Document"
// @Success 201 {object} responses.DocumentResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 413 {object} responses.ErrorResponse
// @Router /v1/bots/{uuid}/documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		metrics.RecordDocumentUpload("invalid")
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "file is required", "1b3d5f7a-9c0e-4a2b-8d4f-7a9c1e3b5d80")
		return
	}
	file, err := header.Open()
	if err != nil {
		metrics.RecordDocumentUpload("invalid")
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "file could not be read", "3d5f7b9c-1e2a-4c4d-9f6b-9c1e3a5d7f02")
		return
	}
	defer file.Close()

	doc, err := h.service.Upload(c.Request.Context(), owner, c.Param("uuid"), document.UploadParams{
		FileName: header.Filename,
		Size:     header.Size,
		Body:     file,
	})
	if err != nil {
		metrics.RecordDocumentUpload(uploadOutcome(err))
		responses.HandleError(c, err, "failed to upload document")
		return
	}

	metrics.RecordDocumentUpload("ok")
	h.log.Info().Str("bot_uuid", doc.BotUUID).Str("document_id", doc.ID).Int64("bytes", doc.Bytes).Msg("document uploaded")
	c.JSON(http.StatusCreated, responses.NewDocumentResponse(doc))
}

// List handles GET /v1/bots/:uuid/documents
// @Summary List knowledge documents
// @Tags Documents
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Bot UUID"
// @Success 200 {object} responses.ListResponse[responses.DocumentResponse]
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/bots/{uuid}/documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}

	docs, err := h.service.List(c.Request.Context(), owner, c.Param("uuid"))
	if err != nil {
		responses.HandleError(c, err, "failed to list documents")
		return
	}

	c.JSON(http.StatusOK, responses.NewListResponse(responses.NewDocumentResponses(docs)))
}

// Content handles GET /v1/bots/:uuid/documents/:document_id/content
// @Summary Download a knowledge document
// @Tags Documents
// @Produce octet-stream
// @Security BearerAuth
// @Param uuid path string true "Bot UUID"
// @Param document_id path string true "Document ID"
// @Success 200 {file} file
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/bots/{uuid}/documents/{document_id}/content [get]
func (h *DocumentHandler) Content(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}

	doc, body, err := h.service.Open(c.Request.Context(), owner, c.Param("uuid"), c.Param("document_id"))
	if err != nil {
		responses.HandleError(c, err, "document not found")
		return
	}
	defer body.Close()

	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(doc.FileName))
	c.DataFromReader(http.StatusOK, doc.Bytes, doc.MimeType, body, nil)
}

func uploadOutcome(err error) string {
	switch {
	case platformerrors.IsErrorType(err, platformerrors.ErrorTypeTooLarge):
		return "too_large"
	case platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation):
		return "invalid"
	case platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound):
		return "not_found"
	default:
		return "error"
	}
}
