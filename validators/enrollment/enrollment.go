package enrollmentValidator

import (
	"encoding/json"
	"lms/middleware"
	"lms/services"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

// EnrollmentParams validates :courseId and, when present in the route, :lectureId
func EnrollmentParams() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := validators.ParamID(c, "courseId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}
		c.Locals("courseID", courseID)

		if c.Params("lectureId") != "" {
			lectureID, ok := validators.ParamID(c, "lectureId")
			if !ok {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lecture ID!", nil)
			}
			c.Locals("lectureID", lectureID)
		}
		return c.Next()
	}
}

// SubmitQuiz validates the answers body. answers must be a JSON array.
func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := new(struct {
			Answers json.RawMessage `json:"answers"`
		})
		if err := json.Unmarshal(c.Body(), raw); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if len(raw.Answers) == 0 || raw.Answers[0] != '[' {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Answers must be provided as an array", nil)
		}

		var answers []services.QuizAnswer
		if err := json.Unmarshal(raw.Answers, &answers); err != nil {
			return middleware.ValidationErrorResponse(c, []middleware.FieldError{
				{Field: "answers", Message: "each answer needs a questionId and a selectedAnswer"},
			})
		}

		c.Locals("validatedAnswers", answers)
		return c.Next()
	}
}
