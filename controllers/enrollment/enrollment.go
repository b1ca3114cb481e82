package enrollmentController

import (
	"lms/database"
	"lms/middleware"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

// GetEnrollments lists the caller's enrolled courses with up-to-date progress
func GetEnrollments(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	courses, err := services.ListEnrollments(database.Database.Db, user.ID)
	if err != nil {
		return err
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"courses": courses,
	})
}

// GetEnrollmentDetails returns one enrolled course with its content
func GetEnrollmentDetails(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	courseID := c.Locals("courseID").(uint)

	detail, err := services.EnrollmentDetails(database.Database.Db, user.ID, courseID)
	if err != nil {
		return middleware.ServiceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "", detail)
}

func MarkLectureCompleted(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	courseID := c.Locals("courseID").(uint)
	lectureID := c.Locals("lectureID").(uint)

	result, err := services.MarkLectureCompleted(database.Database.Db, user.ID, courseID, lectureID)
	if err != nil {
		return middleware.ServiceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture marked as completed", result)
}

// GetInstructorStudents lists students enrolled in the caller's courses
func GetInstructorStudents(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	students, err := services.InstructorStudents(database.Database.Db, user.ID)
	if err != nil {
		return err
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Students fetched successfully!", fiber.Map{
		"students": students,
		"count":    len(students),
	})
}
