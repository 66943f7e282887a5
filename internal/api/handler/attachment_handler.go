package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pawhub/pet-platform/internal/core/domain"
	"github.com/pawhub/pet-platform/internal/core/ports"
)

// AttachmentHandler handles file attachment metadata on pet profiles. The
// bytes themselves live in external blob storage; this API only registers
// and lists metadata.
type AttachmentHandler struct {
	service ports.AttachmentService
}

func NewAttachmentHandler(service ports.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{service: service}
}

type registerAttachmentRequest struct {
	FileName    string `json:"file_name"    validate:"required,min=1,max=255"`
	ContentType string `json:"content_type" validate:"required"`
	SizeBytes   int64  `json:"size_bytes"   validate:"required,gt=0"`
}

type attachmentResponse struct {
	ID          string    `json:"id"`
	StorageKey  string    `json:"storage_key"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedBy  string    `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type listAttachmentsResponse struct {
	Data []attachmentResponse `json:"data"`
}

func toAttachmentResponse(a *domain.Attachment) attachmentResponse {
	return attachmentResponse{
		ID:          a.ID,
		StorageKey:  a.StorageKey,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		SizeBytes:   a.SizeBytes,
		UploadedBy:  a.UploadedBy,
		CreatedAt:   a.CreatedAt.UTC(),
	}
}

// Register handles POST /v1/pets/:id/files.
//
// @Summary      Register an uploaded file's metadata
// @Tags         files
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                     true  "Pet ID"
// @Param        body  body      registerAttachmentRequest  true  "File metadata"
// @Success      201   {object}  attachmentResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/pets/{id}/files [post]
func (h *AttachmentHandler) Register(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req registerAttachmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	att, err := h.service.Register(c.Request().Context(), ports.RegisterAttachmentInput{
		PetID:       c.Param("id"),
		UserID:      userID,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toAttachmentResponse(att))
}

// List handles GET /v1/pets/:id/files.
//
// @Summary      List a pet's file attachments
// @Tags         files
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Pet ID"
// @Success      200  {object}  listAttachmentsResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/pets/{id}/files [get]
func (h *AttachmentHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	atts, err := h.service.List(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}

	out := make([]attachmentResponse, len(atts))
	for i, a := range atts {
		out[i] = toAttachmentResponse(a)
	}
	return c.JSON(http.StatusOK, listAttachmentsResponse{Data: out})
}

// Remove handles DELETE /v1/pets/:id/files/:fileID.
//
// @Summary      Remove a file attachment
// @Tags         files
// @Security     BearerAuth
// @Param        id      path  string  true  "Pet ID"
// @Param        fileID  path  string  true  "Attachment ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/pets/{id}/files/{fileID} [delete]
func (h *AttachmentHandler) Remove(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.Remove(c.Request().Context(), c.Param("id"), c.Param("fileID"), userID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
