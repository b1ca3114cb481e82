package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/services"
	"lms/storage"
	"lms/utils"
	"lms/validators"
	courseValidator "lms/validators/course"
	"log"

	"github.com/gofiber/fiber/v2"
)

var sortColumns = map[string]string{
	"":                 "created_at desc",
	"-createdAt":       "created_at desc",
	"createdAt":        "created_at asc",
	"pricing":          "pricing asc",
	"-pricing":         "pricing desc",
	"-enrollmentCount": "enrollment_count desc",
	"-ratingAverage":   "rating_average desc",
}

// canEdit reports whether the user owns the course or is an admin
func canEdit(user *models.User, course *models.Course) bool {
	return user != nil && (user.Role == models.RoleAdmin || course.InstructorID == user.ID)
}

// ownedCourse loads the course named by the :id param and checks the caller may
// edit it. When ok is false the response has been written and err must be returned.
func ownedCourse(c *fiber.Ctx) (course *models.Course, ok bool, err error) {
	courseID, valid := validators.ParamID(c, "id")
	if !valid {
		return nil, false, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
	}

	course, err = services.LoadCourse(database.Database.Db, courseID)
	if err != nil {
		return nil, false, middleware.ServiceError(c, err)
	}

	user, _ := middleware.CurrentUser(c)
	if !canEdit(user, course) {
		return nil, false, middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not authorized to modify this course", nil)
	}
	return course, true, nil
}

// GetAllCourses lists published courses
func GetAllCourses(c *fiber.Ctx) error {
	reqData := c.Locals("validatedList").(*courseValidator.CourseListRequest)

	db := database.Database.Db.Model(&models.Course{}).Where("is_published = ?", true)
	if reqData.Search != "" {
		pattern := utils.LikePattern(reqData.Search)
		db = db.Where("LOWER(title) LIKE ? OR LOWER(subtitle) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern, pattern)
	}
	if reqData.Category != "" {
		db = db.Where("category = ?", reqData.Category)
	}
	if reqData.Level != "" {
		db = db.Where("level = ?", reqData.Level)
	}
	if reqData.MinPrice != nil {
		db = db.Where("pricing >= ?", *reqData.MinPrice)
	}
	if reqData.MaxPrice != nil {
		db = db.Where("pricing <= ?", *reqData.MaxPrice)
	}
	if reqData.Instructor != 0 {
		db = db.Where("instructor_id = ?", reqData.Instructor)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return err
	}

	var courses []models.Course
	if err := db.Order(sortColumns[reqData.Sort]).Offset(reqData.Offset()).Limit(reqData.Limit).Find(&courses).Error; err != nil {
		return err
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses":    courses,
		"pagination": utils.Paginate(total, reqData.Page, reqData.Limit),
	})
}

// GetCourse returns one course by id or slug. Unpublished courses are only
// visible to their owner and admins, and only they see correct answers.
func GetCourse(c *fiber.Ctx) error {
	course, err := services.FindCourse(database.Database.Db, c.Params("id"))
	if err != nil {
		return middleware.ServiceError(c, err)
	}

	user, _ := middleware.CurrentUser(c)
	editor := canEdit(user, course)
	if !course.IsPublished && !editor {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found", nil)
	}
	if !editor {
		course.HideAnswers()
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "", course)
}

func CreateCourse(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	reqData := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)

	course := models.Course{
		InstructorID:    user.ID,
		InstructorName:  user.Name,
		Title:           reqData.Title,
		Category:        reqData.Category,
		Subcategory:     reqData.Subcategory,
		Level:           reqData.Level,
		PrimaryLanguage: reqData.PrimaryLanguage,
		Subtitle:        reqData.Subtitle,
		Description:     reqData.Description,
		Image:           reqData.Image,
		WelcomeMessage:  reqData.WelcomeMessage,
		Pricing:         *reqData.Pricing,
		SalePrice:       reqData.SalePrice,
		SaleEndDate:     reqData.SaleEndDate,
		Objectives:      reqData.Objectives,
		Prerequisites:   reqData.Prerequisites,
		TargetAudience:  reqData.TargetAudience,
		Tags:            reqData.Tags,
		IsPublished:     reqData.IsPublished,
		Lectures:        toLectures(reqData.Curriculum),
	}

	if err := services.CreateCourse(database.Database.Db, &course); err != nil {
		return middleware.ServiceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully", course)
}

func UpdateCourse(c *fiber.Ctx) error {
	course, ok, err := ownedCourse(c)
	if !ok {
		return err
	}
	reqData := c.Locals("validatedCourse").(*courseValidator.UpdateCourseRequest)

	titleChanged := reqData.Title != nil && *reqData.Title != course.Title
	applyCourseUpdate(course, reqData)

	if err := services.SaveCourse(database.Database.Db, course, titleChanged); err != nil {
		return middleware.ServiceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully", course)
}

func applyCourseUpdate(course *models.Course, r *courseValidator.UpdateCourseRequest) {
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setStr(&course.Title, r.Title)
	setStr(&course.Category, r.Category)
	setStr(&course.Subcategory, r.Subcategory)
	setStr(&course.Level, r.Level)
	setStr(&course.PrimaryLanguage, r.PrimaryLanguage)
	setStr(&course.Subtitle, r.Subtitle)
	setStr(&course.Description, r.Description)
	setStr(&course.Image, r.Image)
	setStr(&course.WelcomeMessage, r.WelcomeMessage)
	if r.Pricing != nil {
		course.Pricing = *r.Pricing
	}
	if r.SalePrice != nil {
		course.SalePrice = r.SalePrice
	}
	if r.SaleEndDate != nil {
		course.SaleEndDate = r.SaleEndDate
	}
	if r.Objectives != nil {
		course.Objectives = r.Objectives
	}
	if r.Prerequisites != nil {
		course.Prerequisites = r.Prerequisites
	}
	if r.TargetAudience != nil {
		course.TargetAudience = r.TargetAudience
	}
	if r.Tags != nil {
		course.Tags = r.Tags
	}
}

func DeleteCourse(c *fiber.Ctx) error {
	course, ok, err := ownedCourse(c)
	if !ok {
		return err
	}

	if err := services.DeleteCourse(database.Database.Db, course.ID); err != nil {
		return middleware.ServiceError(c, err)
	}

	removeMedia(course.ImagePublicID)
	for _, l := range course.Lectures {
		removeMedia(l.VideoPublicID)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully", nil)
}

func TogglePublish(c *fiber.Ctx) error {
	course, ok, err := ownedCourse(c)
	if !ok {
		return err
	}

	if err := services.TogglePublish(database.Database.Db, course); err != nil {
		return err
	}

	message := "Course unpublished successfully"
	if course.IsPublished {
		message = "Course published successfully"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, course)
}

// GetInstructorCourses lists the caller's own courses, published or not
func GetInstructorCourses(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	reqData := c.Locals("validatedPagination").(*validators.Pagination)

	db := database.Database.Db.Model(&models.Course{}).Where("instructor_id = ?", user.ID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return err
	}

	var courses []models.Course
	if err := db.Order("created_at desc").Offset(reqData.Offset()).Limit(reqData.Limit).Find(&courses).Error; err != nil {
		return err
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses":    courses,
		"pagination": utils.Paginate(total, reqData.Page, reqData.Limit),
	})
}

func UploadCourseImage(c *fiber.Ctx) error {
	course, ok, err := ownedCourse(c)
	if !ok {
		return err
	}

	file, err := c.FormFile("image")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Please upload an image file", nil)
	}
	if err := storage.CheckType(file, "images"); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
	}

	url, objectID, err := storage.Default.Upload(file, "images")
	if err != nil {
		log.Printf("Error uploading course image: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to upload image!", nil)
	}

	previous := course.ImagePublicID
	if err := database.Database.Db.Model(&models.Course{}).Where("id = ?", course.ID).
		Updates(map[string]interface{}{"image": url, "image_public_id": objectID}).Error; err != nil {
		return err
	}
	removeMedia(previous)

	course.Image = url
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course image uploaded successfully", course)
}

// removeMedia deletes a stored upload, logging failures
func removeMedia(objectID string) {
	if objectID == "" {
		return
	}
	if err := storage.Default.Delete(objectID); err != nil {
		log.Printf("[STORAGE] Failed to delete %s: %v", objectID, err)
	}
}
