package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"homecare/internal/booking"
	"homecare/internal/http/middleware"
	"homecare/internal/service"
)

type cancelRequest struct {
	Reason string `json:"reason"`
}

// bookingID validates the :id path parameter.
func bookingID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// CreateBooking godoc
// @Summary Book one or more services
// @Description Prices come from the catalog. The booking is pending until confirmed within the confirmation window.
// @Tags bookings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body booking.Request true "Booking"
// @Success 201 {object} model.Booking
// @Failure 422 {object} errorPayload
// @Router /api/v1/bookings [post]
func (h *Handler) CreateBooking(c *fiber.Ctx) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.ErrAuthRequired
	}
	var req booking.Request
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	b, err := h.bookings.Create(c.UserContext(), u.ID, req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(b)
}

// ListBookings godoc
// @Summary The current user's bookings, newest first
// @Tags bookings
// @Security BearerAuth
// @Produce json
// @Success 200 {array} model.Booking
// @Router /api/v1/bookings [get]
func (h *Handler) ListBookings(c *fiber.Ctx) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.ErrAuthRequired
	}
	res, err := h.bookings.ListForUser(c.UserContext(), u.ID)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(res)
}

// GetBooking godoc
// @Summary One booking with its services and payments
// @Tags bookings
// @Security BearerAuth
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} model.Booking
// @Failure 404 {object} errorPayload
// @Router /api/v1/bookings/{id} [get]
func (h *Handler) GetBooking(c *fiber.Ctx) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.ErrAuthRequired
	}
	id, ok := bookingID(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	b, err := h.bookings.Get(c.UserContext(), u.ID, id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(b)
}

// CancelBooking godoc
// @Summary Cancel a pending or confirmed booking
// @Tags bookings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param body body cancelRequest false "Reason"
// @Success 200 {object} model.Booking
// @Failure 409 {object} errorPayload
// @Router /api/v1/bookings/{id}/cancel [post]
func (h *Handler) CancelBooking(c *fiber.Ctx) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.ErrAuthRequired
	}
	id, ok := bookingID(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}

	var req cancelRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
	}
	if req.Reason == "" {
		req.Reason = service.ReasonCustomerRequest
	}
	if len(req.Reason) > 500 {
		return writeErrorFields(c, fiber.StatusUnprocessableEntity, "VALIDATION_FAILED", "request validation failed",
			map[string]string{"reason": "max"})
	}

	b, err := h.bookings.Cancel(c.UserContext(), u.ID, id, req.Reason)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(b)
}

// CreateReview godoc
// @Summary Rate a completed booking
// @Tags bookings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param body body service.ReviewInput true "Review"
// @Success 201 {object} model.Review
// @Failure 409 {object} errorPayload
// @Router /api/v1/bookings/{id}/review [post]
func (h *Handler) CreateReview(c *fiber.Ctx) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.ErrAuthRequired
	}
	id, ok := bookingID(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	var in service.ReviewInput
	if err := c.BodyParser(&in); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	r, err := h.reviews.Create(c.UserContext(), u.ID, id, in)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(r)
}
