package userRoutes

import (
	userController "lms/controllers/userControllers"
	"lms/middleware"
	"lms/models"
	userValidator "lms/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/users")
	admin := middleware.Authorize(models.RoleAdmin)

	userGroup.Get("/", middleware.JWTMiddleware, admin, userValidator.UserList(), userController.GetUsers)
	userGroup.Get("/instructors/:id", userController.GetInstructorProfile)
	userGroup.Get("/:email", middleware.JWTMiddleware, admin, userController.GetUserByEmail)
	userGroup.Patch("/", middleware.JWTMiddleware, userValidator.UpdateProfile(), userController.UpdateProfile)
	userGroup.Put("/:id/role", middleware.JWTMiddleware, admin, userValidator.UpdateRole(), userController.UpdateUserRole)
	userGroup.Delete("/:id", middleware.JWTMiddleware, admin, userController.DeleteUser)
}
