package authRoutes

import (
	authController "lms/controllers/auth"
	"lms/middleware"
	authValidator "lms/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/register", authValidator.Register(), authController.Register)
	authGroup.Post("/login", authValidator.Login(), authController.Login)
	authGroup.Post("/oauth", authValidator.OAuth(), authController.OAuth)
	authGroup.Get("/me", middleware.JWTMiddleware, authController.GetMe)
	authGroup.Put("/change-password", middleware.JWTMiddleware, authValidator.ChangePassword(), authController.ChangePassword)
}
