package handler

import (
	"github.com/gofiber/fiber/v2"

	"docflow/internal/http/middleware"
)

// errorPage is the data passed to the error template.
type errorPage struct {
	Status    int
	Message   string
	RequestID string
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

// ErrorHandler returns a Fiber global error handler that renders a generic
// error page without leaking internal details.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		var message string
		switch status {
		case fiber.StatusBadRequest:
			message = "Bad request"
		case fiber.StatusNotFound:
			message = "Page not found"
		case fiber.StatusMethodNotAllowed:
			message = "Method not allowed"
		default:
			message = "Internal server error"
		}

		c.Status(status)
		return render(c, "error", errorPage{
			Status:    status,
			Message:   message,
			RequestID: requestIDFromCtx(c),
		})
	}
}
