package handler

import (
	"mime"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"homecare/internal/http/middleware"
)

func attachmentID(c *fiber.Ctx) (string, bool) {
	id := c.Params("attachmentId")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// UploadAttachment godoc
// @Summary Attach a photo or document to a booking
// @Tags attachments
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Booking ID"
// @Param file formData file true "File"
// @Success 201 {object} model.Attachment
// @Failure 413 {object} errorPayload
// @Failure 415 {object} errorPayload
// @Router /api/v1/bookings/{id}/attachments [post]
func (h *Handler) UploadAttachment(c *fiber.Ctx) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.ErrAuthRequired
	}
	id, ok := bookingID(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	}

	f, err := fh.Open()
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
	}
	defer f.Close()

	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}

	a, err := h.attachments.Upload(c.UserContext(), u.ID, id, f, fh.Filename, ct, fh.Size)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}

// ListAttachments godoc
// @Summary List a booking's attachments with short-lived download URLs
// @Tags attachments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {array} model.Attachment
// @Router /api/v1/bookings/{id}/attachments [get]
func (h *Handler) ListAttachments(c *fiber.Ctx) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.ErrAuthRequired
	}
	id, ok := bookingID(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	res, err := h.attachments.List(c.UserContext(), u.ID, id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(res)
}

// DownloadAttachment godoc
// @Summary Download an attachment
// @Tags attachments
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param attachmentId path string true "Attachment ID"
// @Success 200 {file} binary
// @Failure 404 {object} errorPayload
// @Router /api/v1/bookings/{id}/attachments/{attachmentId} [get]
func (h *Handler) DownloadAttachment(c *fiber.Ctx) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.ErrAuthRequired
	}
	id, ok := bookingID(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	aid, ok := attachmentID(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}

	rc, a, err := h.attachments.Open(c.UserContext(), u.ID, id, aid)
	if err != nil {
		return h.respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, a.ContentType)
	c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename}))
	// fasthttp closes rc once the body has been written.
	return c.SendStream(rc, int(a.Size))
}

// DeleteAttachment godoc
// @Summary Delete an attachment
// @Tags attachments
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param attachmentId path string true "Attachment ID"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /api/v1/bookings/{id}/attachments/{attachmentId} [delete]
func (h *Handler) DeleteAttachment(c *fiber.Ctx) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.ErrAuthRequired
	}
	id, ok := bookingID(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	aid, ok := attachmentID(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	if err := h.attachments.Delete(c.UserContext(), u.ID, id, aid); err != nil {
		return h.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
