package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"homecare/internal/booking"
	"homecare/internal/http/middleware"
	"homecare/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return writeErrorFields(c, status, code, message, nil)
}

func writeErrorFields(c *fiber.Ctx, status int, code, message string, fields map[string]string) error {
	res := errorPayload{
		RequestID: middleware.RequestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
			Fields:  fields,
		},
	}
	return c.Status(status).JSON(res)
}

// respondError maps service errors onto the error envelope. Anything
// unrecognised is logged and reported as a 500.
func (h *Handler) respondError(c *fiber.Ctx, err error) error {
	var verr *booking.ValidationError
	switch {
	case errors.As(err, &verr):
		return writeErrorFields(c, fiber.StatusUnprocessableEntity, "VALIDATION_FAILED", "request validation failed", verr.Fields)
	case errors.Is(err, booking.ErrDuplicateService):
		return writeError(c, fiber.StatusUnprocessableEntity, "DUPLICATE_SERVICE", "a service can only be selected once")
	case errors.Is(err, service.ErrUnknownService):
		return writeError(c, fiber.StatusUnprocessableEntity, "UNKNOWN_SERVICE", "unknown or inactive service")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "booking not found")
	case errors.Is(err, service.ErrAttachmentNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "attachment not found")
	case errors.Is(err, service.ErrInvalidState):
		return writeError(c, fiber.StatusConflict, "INVALID_STATE", "booking cannot change from its current status")
	case errors.Is(err, service.ErrAlreadyReviewed):
		return writeError(c, fiber.StatusConflict, "ALREADY_REVIEWED", "booking already reviewed")
	case errors.Is(err, service.ErrNotCompleted):
		return writeError(c, fiber.StatusConflict, "NOT_COMPLETED", "only completed bookings can be reviewed")
	case errors.Is(err, service.ErrEmailTaken):
		return writeError(c, fiber.StatusConflict, "EMAIL_TAKEN", "email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
	case errors.Is(err, service.ErrUnauthenticated):
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
	case errors.Is(err, service.ErrUnsupportedType):
		return writeError(c, fiber.StatusUnsupportedMediaType, "UNSUPPORTED_TYPE", "unsupported attachment type")
	case errors.Is(err, service.ErrTooLarge):
		return writeError(c, fiber.StatusRequestEntityTooLarge, "TOO_LARGE", "attachment too large")
	}

	h.log.Error("request_failed",
		zap.String("request_id", middleware.RequestIDFromCtx(c)),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHENTICATED", "authentication required")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "TOO_LARGE", "request body too large")
		case fiber.StatusUnsupportedMediaType:
			return writeError(c, status, "UNSUPPORTED_TYPE", "unsupported media type")
		case fiber.StatusUnprocessableEntity:
			return writeError(c, status, "VALIDATION_FAILED", "request validation failed")
		case fiber.StatusTooManyRequests:
			return writeError(c, status, "RATE_LIMITED", "too many requests")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
