package controllers

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/services"
	"lms/utils"
	"lms/validators"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// CreateReview records the caller's review of a course they are enrolled in
func CreateReview(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	courseID, ok := validators.ParamID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
	}
	reqData := c.Locals("validatedReview").(*courseValidator.ReviewRequest)

	review, err := services.AddReview(database.Database.Db, user, courseID, reqData.Rating, reqData.Review)
	if errors.Is(err, services.ErrNotEnrolled) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You must be enrolled in this course to review it", nil)
	}
	if err != nil {
		return middleware.ServiceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Review submitted successfully", review)
}

// GetCourseReviews lists a course's reviews, newest first
func GetCourseReviews(c *fiber.Ctx) error {
	courseID, ok := validators.ParamID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
	}
	reqData := c.Locals("validatedPagination").(*validators.Pagination)

	db := database.Database.Db.Model(&models.Review{}).Where("course_id = ?", courseID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return err
	}

	var reviews []models.Review
	if err := db.Order("created_at desc").Offset(reqData.Offset()).Limit(reqData.Limit).Find(&reviews).Error; err != nil {
		return err
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews fetched successfully!", fiber.Map{
		"reviews":    reviews,
		"pagination": utils.Paginate(total, reqData.Page, reqData.Limit),
	})
}
