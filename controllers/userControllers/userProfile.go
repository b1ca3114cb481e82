package userController

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/storage"
	"lms/utils"
	"lms/validators"
	userValidator "lms/validators/userValidator"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetUsers lists users for admins with role and name/email search filters
func GetUsers(c *fiber.Ctx) error {
	reqData := c.Locals("validatedUserList").(*userValidator.UserListRequest)

	db := database.Database.Db.Model(&models.User{})
	if reqData.Role != "" {
		db = db.Where("role = ?", reqData.Role)
	}
	if reqData.Search != "" {
		pattern := utils.LikePattern(reqData.Search)
		db = db.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return err
	}

	var users []models.User
	if err := db.Order("created_at desc").Offset(reqData.Offset()).Limit(reqData.Limit).Find(&users).Error; err != nil {
		return err
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", fiber.Map{
		"users":      users,
		"pagination": utils.Paginate(total, reqData.Page, reqData.Limit),
	})
}

func GetUserByEmail(c *fiber.Ctx) error {
	var user models.User
	if err := database.Database.Db.Where("email = ?", c.Params("email")).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found", nil)
		}
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", user)
}

// UpdateProfile updates the caller's own profile. An optional multipart
// "resume" file replaces the stored resume.
func UpdateProfile(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	reqData := c.Locals("validatedProfile").(*userValidator.UpdateProfileRequest)
	reqData.Apply(user)

	if file, err := c.FormFile("resume"); err == nil {
		if err := storage.CheckType(file, "resumes"); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
		}
		url, _, err := storage.Default.Upload(file, "resumes")
		if err != nil {
			log.Printf("Error uploading resume: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to upload resume!", nil)
		}
		user.ResumeURL = url
	}

	if err := database.Database.Db.Save(user).Error; err != nil {
		return err
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully", user)
}

func UpdateUserRole(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	reqData := c.Locals("validatedRole").(*userValidator.UpdateRoleRequest)

	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found", nil)
		}
		return err
	}

	if err := database.Database.Db.Model(&user).Update("role", reqData.Role).Error; err != nil {
		return err
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User role updated successfully", user)
}

func DeleteUser(c *fiber.Ctx) error {
	admin, _ := middleware.CurrentUser(c)
	userID, ok := validators.ParamID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user ID!", nil)
	}

	if admin != nil && admin.ID == userID {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You cannot delete your own account", nil)
	}

	res := database.Database.Db.Delete(&models.User{}, userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted successfully", nil)
}

// GetInstructorProfile is the public profile of an instructor with their published courses
func GetInstructorProfile(c *fiber.Ctx) error {
	instructorID, ok := validators.ParamID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid instructor ID!", nil)
	}

	db := database.Database.Db
	var instructor models.User
	if err := db.Where("id = ? AND role IN ?", instructorID, []string{models.RoleInstructor, models.RoleAdmin}).
		First(&instructor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Instructor not found", nil)
		}
		return err
	}

	var courses []models.Course
	if err := db.Where("instructor_id = ? AND is_published = ?", instructorID, true).
		Order("created_at desc").Find(&courses).Error; err != nil {
		return err
	}

	students := 0
	for _, course := range courses {
		students += course.EnrollmentCount
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "", fiber.Map{
		"instructor": fiber.Map{
			"id":            instructor.ID,
			"name":          instructor.Name,
			"qualification": instructor.Qualification,
			"skills":        instructor.Skills,
			"socialLinks":   instructor.SocialLinks,
			"createdAt":     instructor.CreatedAt,
		},
		"courses":       courses,
		"totalCourses":  len(courses),
		"totalStudents": students,
	})
}
