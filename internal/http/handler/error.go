package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"submithub/internal/http/middleware"
	"submithub/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError maps the engine's error taxonomy onto HTTP statuses.
// Error text returned by the service is already bounded, so it is safe to
// echo.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrDuplicateSubmission):
		return writeError(c, fiber.StatusConflict, "DUPLICATE_SUBMISSION", err.Error())
	case errors.Is(err, service.ErrUploadFailed):
		return writeError(c, fiber.StatusBadGateway, "UPLOAD_FAILED", err.Error())
	case errors.Is(err, service.ErrNoRoutingTargets):
		return writeError(c, fiber.StatusUnprocessableEntity, "NO_ROUTING_TARGETS", err.Error())
	case errors.Is(err, service.ErrExpiredSelection):
		return writeError(c, fiber.StatusGone, "EXPIRED_SELECTION", err.Error())
	case errors.Is(err, service.ErrUnknownTarget):
		return writeError(c, fiber.StatusBadRequest, "UNKNOWN_TARGET", err.Error())
	case errors.Is(err, service.ErrPermissionDenied):
		return writeError(c, fiber.StatusForbidden, "PERMISSION_DENIED", err.Error())
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrTargetRequired),
		errors.Is(err, service.ErrFileNameRequired),
		errors.Is(err, service.ErrReaderNil):
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", err.Error())
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
