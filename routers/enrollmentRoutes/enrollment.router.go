package enrollmentRoutes

import (
	enrollmentController "lms/controllers/enrollment"
	"lms/middleware"
	"lms/models"
	enrollmentValidator "lms/validators/enrollment"

	"github.com/gofiber/fiber/v2"
)

func SetupEnrollmentRoutes(app *fiber.App) {
	enrollmentGroup := app.Group("/enrollments", middleware.JWTMiddleware)

	enrollmentGroup.Get("/", enrollmentController.GetEnrollments)
	enrollmentGroup.Get("/instructor/students", middleware.Authorize(models.RoleInstructor, models.RoleAdmin), enrollmentController.GetInstructorStudents)
	enrollmentGroup.Get("/:courseId", enrollmentValidator.EnrollmentParams(), enrollmentController.GetEnrollmentDetails)
	enrollmentGroup.Post("/:courseId/lectures/:lectureId/complete", enrollmentValidator.EnrollmentParams(), enrollmentController.MarkLectureCompleted)
	enrollmentGroup.Post("/:courseId/quizzes/:lectureId", enrollmentValidator.EnrollmentParams(), enrollmentValidator.SubmitQuiz(), enrollmentController.SubmitQuiz)
}
