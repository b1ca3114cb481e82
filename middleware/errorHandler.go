package middleware

import (
	"errors"
	"lms/config"
	"lms/services"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ErrorHandler is the fiber.Config ErrorHandler. It answers every error a
// handler returns, and every recovered panic, with the response envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Server Error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	if code >= fiber.StatusInternalServerError {
		log.Printf("[ERROR] %s %s: %v", c.Method(), c.Path(), err)
	}

	body := fiber.Map{
		"success": false,
		"message": message,
	}
	if config.AppConfig == nil || !config.AppConfig.IsProduction() {
		body["stack"] = err.Error()
	}

	return c.Status(code).JSON(body)
}

// serviceErrors maps each domain sentinel to the status it is answered with
var serviceErrors = []struct {
	err    error
	status int
}{
	{services.ErrNotEnrolled, fiber.StatusNotFound},
	{services.ErrCourseNotFound, fiber.StatusNotFound},
	{services.ErrLectureNotFound, fiber.StatusNotFound},
	{services.ErrNoQuiz, fiber.StatusNotFound},
	{services.ErrAlreadyEnrolled, fiber.StatusBadRequest},
	{services.ErrCourseUnpublished, fiber.StatusBadRequest},
	{services.ErrReviewExists, fiber.StatusBadRequest},
	{services.ErrInvalidQuestions, fiber.StatusBadRequest},
	{services.ErrPaymentProcessed, fiber.StatusBadRequest},
	{services.ErrOrderMismatch, fiber.StatusBadRequest},
}

// ServiceError answers the domain errors from services with their status and
// hands anything else to ErrorHandler. The message is the sentinel's own text,
// never the wrapping context.
func ServiceError(c *fiber.Ctx, err error) error {
	for _, se := range serviceErrors {
		if errors.Is(err, se.err) {
			return JsonResponse(c, se.status, false, capitalize(se.err.Error()), nil)
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return JsonResponse(c, fiber.StatusBadRequest, false, "Duplicate field value entered", nil)
	}
	return err
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
