package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/courses")
	authoring := middleware.Authorize(models.RoleInstructor, models.RoleAdmin)

	courseGroup.Get("/", courseValidator.CourseList(), controllers.GetAllCourses)
	courseGroup.Get("/instructor/courses", middleware.JWTMiddleware, authoring, courseValidator.ListQuery(), controllers.GetInstructorCourses)
	courseGroup.Get("/:id", middleware.OptionalAuth, controllers.GetCourse)
	courseGroup.Post("/", middleware.JWTMiddleware, authoring, courseValidator.CreateCourse(), controllers.CreateCourse)
	courseGroup.Put("/:id", middleware.JWTMiddleware, authoring, courseValidator.UpdateCourse(), controllers.UpdateCourse)
	courseGroup.Delete("/:id", middleware.JWTMiddleware, authoring, controllers.DeleteCourse)
	courseGroup.Put("/:id/publish", middleware.JWTMiddleware, authoring, controllers.TogglePublish)
	courseGroup.Patch("/:id/image", middleware.JWTMiddleware, authoring, controllers.UploadCourseImage)

	// Lectures
	courseGroup.Patch("/:id/lectures", middleware.JWTMiddleware, authoring, courseValidator.AddLecture(), controllers.AddLecture)
	courseGroup.Put("/:id/lectures/:lectureId", middleware.JWTMiddleware, authoring, courseValidator.UpdateLecture(), controllers.UpdateLecture)
	courseGroup.Delete("/:id/lectures/:lectureId", middleware.JWTMiddleware, authoring, controllers.DeleteLecture)
	courseGroup.Post("/:id/lectures/:lectureId/video", middleware.JWTMiddleware, authoring, controllers.UploadLectureVideo)

	// Reviews
	courseGroup.Get("/:id/reviews", courseValidator.ListQuery(), controllers.GetCourseReviews)
	courseGroup.Post("/:id/reviews", middleware.JWTMiddleware, courseValidator.CreateReview(), controllers.CreateReview)
}
