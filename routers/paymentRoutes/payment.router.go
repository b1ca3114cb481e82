package paymentRoutes

import (
	paymentController "lms/controllers/payment"
	"lms/middleware"
	"lms/models"
	courseValidator "lms/validators/course"
	paymentValidator "lms/validators/payment"

	"github.com/gofiber/fiber/v2"
)

func SetupPaymentRoutes(app *fiber.App) {
	paymentGroup := app.Group("/payments")

	paymentGroup.Get("/razorpay/key", paymentController.GetRazorpayKey)
	paymentGroup.Post("/razorpay/create-order", middleware.JWTMiddleware, paymentValidator.CreateOrder(), paymentController.CreateOrder)
	paymentGroup.Post("/razorpay/verify", middleware.JWTMiddleware, paymentValidator.Verify(), paymentController.VerifyPayment)
	paymentGroup.Get("/orders", middleware.JWTMiddleware, courseValidator.ListQuery(), paymentController.GetOrderHistory)
	paymentGroup.Get("/earnings", middleware.JWTMiddleware, middleware.Authorize(models.RoleInstructor, models.RoleAdmin), courseValidator.ListQuery(), paymentController.GetInstructorEarnings)
}

func SetupOrderRoutes(app *fiber.App) {
	orderGroup := app.Group("/orders", middleware.JWTMiddleware)

	orderGroup.Get("/", middleware.Authorize(models.RoleAdmin), paymentValidator.OrderList(), paymentController.GetOrders)
	orderGroup.Get("/instructor", middleware.Authorize(models.RoleInstructor, models.RoleAdmin), paymentValidator.OrderList(), paymentController.GetInstructorOrders)
	orderGroup.Get("/:id", paymentController.GetOrder)
}
