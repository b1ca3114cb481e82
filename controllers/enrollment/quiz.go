package enrollmentController

import (
	"lms/database"
	"lms/middleware"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

// SubmitQuiz scores the answers for a lecture quiz and keeps the best score
func SubmitQuiz(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	courseID := c.Locals("courseID").(uint)
	lectureID := c.Locals("lectureID").(uint)
	answers := c.Locals("validatedAnswers").([]services.QuizAnswer)

	result, err := services.SubmitQuizAnswers(database.Database.Db, user.ID, courseID, lectureID, answers)
	if err != nil {
		return middleware.ServiceError(c, err)
	}

	message := "Quiz submitted successfully"
	if result.Improved {
		message = "Quiz submitted successfully, new best score"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, result)
}
