package utils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ErrorBody is the error object carried by failed responses.
type ErrorBody struct {
	Code    string `json:"code"`
	Details string `json:"details"`
}

// Meta carries per-response tracing info.
type Meta struct {
	RequestID string `json:"requestId"`
	Timestamp string `json:"timestamp"`
}

// Envelope is the uniform wrapper applied to every HTTP response. Clients
// depend on this exact shape, so both success and error paths go through it.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Error   *ErrorBody  `json:"error"`
	Meta    Meta        `json:"meta"`
}

func buildMeta(c *fiber.Ctx) Meta {
	rid, _ := c.Locals("requestid").(string)
	if rid == "" {
		rid = uuid.NewString()
	}
	return Meta{
		RequestID: rid,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// SendSuccess writes a 200 envelope with data and a human message.
func SendSuccess(c *fiber.Ctx, data interface{}, message string) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{
		Success: true,
		Message: message,
		Data:    data,
		Error:   nil,
		Meta:    buildMeta(c),
	})
}

// SendError writes an error envelope with the given status, code and details.
func SendError(c *fiber.Ctx, status int, message, code, details string) error {
	if details == "" {
		details = message
	}
	return c.Status(status).JSON(Envelope{
		Success: false,
		Message: message,
		Data:    nil,
		Error:   &ErrorBody{Code: code, Details: details},
		Meta:    buildMeta(c),
	})
}
