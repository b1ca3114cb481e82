package routers

import (
	"lms/config"
	"lms/middleware"
	"lms/routers/authRoutes"
	"lms/routers/courseRoutes"
	"lms/routers/enrollmentRoutes"
	"lms/routers/paymentRoutes"
	"lms/routers/userRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// New builds the fiber app with the global middleware and every route group
func New(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
		BodyLimit:    500 * 1024 * 1024, // lecture videos
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CorsOrigins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Server is running", nil)
	})

	// Serve uploaded files when they are kept on local disk
	if cfg.StorageDriver != "supabase" {
		app.Static("/uploads", cfg.UploadDir)
	}

	authRoutes.SetupAuthRoutes(app)
	userRoutes.SetupUserRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	enrollmentRoutes.SetupEnrollmentRoutes(app)
	paymentRoutes.SetupPaymentRoutes(app)
	paymentRoutes.SetupOrderRoutes(app)

	return app
}
