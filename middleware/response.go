package middleware

import "github.com/gofiber/fiber/v2"

// Response is the envelope every endpoint answers with
type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError describes one rejected request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func JsonResponse(c *fiber.Ctx, statusCode int, success bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(Response{
		Success: success,
		Message: message,
		Data:    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors []FieldError) error {
	return c.Status(fiber.StatusBadRequest).JSON(Response{
		Success: false,
		Message: "Validation failed!",
		Errors:  errors,
	})
}
