package authController

import (
	"errors"
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	authValidator "lms/validators/auth"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func tokenResponse(c *fiber.Ctx, status int, message string, user *models.User) error {
	token, err := middleware.GenerateJWT(user.ID, user.Role)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
	}
	return middleware.JsonResponse(c, status, true, message, fiber.Map{
		"token": token,
		"user":  user,
	})
}

func Register(c *fiber.Ctx) error {
	reqData := c.Locals("validatedUser").(*authValidator.RegisterRequest)
	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User with this email already exists", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	role := reqData.Role
	if role == "" {
		role = models.RoleStudent
	}

	newUser := models.User{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Password: string(hashedPassword),
		Role:     role,
	}

	if err := db.Create(&newUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User with this email already exists", nil)
		}
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register user!", nil)
	}

	go utils.SendWelcomeEmail(newUser.Email, newUser.Name)

	return tokenResponse(c, fiber.StatusCreated, "User registered successfully", &newUser)
}

func Login(c *fiber.Ctx) error {
	reqData := c.Locals("validatedUser").(*authValidator.LoginRequest)

	var user models.User
	if err := database.Database.Db.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials", nil)
	}

	return tokenResponse(c, fiber.StatusOK, "Login successful", &user)
}

func GetMe(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", user)
}

func ChangePassword(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	reqData := c.Locals("validatedPassword").(*authValidator.ChangePasswordRequest)

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.CurrentPassword)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Current password is incorrect", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	if err := database.Database.Db.Model(user).Update("password", string(hashedPassword)).Error; err != nil {
		return err
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password updated successfully", nil)
}

// OAuth signs in a user verified by an external provider, creating a student
// account on first sight
func OAuth(c *fiber.Ctx) error {
	reqData := c.Locals("validatedUser").(*authValidator.OAuthRequest)
	db := database.Database.Db

	var user models.User
	err := db.Where("email = ?", reqData.Email).First(&user).Error
	if err == nil {
		return tokenResponse(c, fiber.StatusOK, "Login successful", &user)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	// OAuth accounts get an unusable random password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), config.AppConfig.SaltRound)
	if err != nil {
		return err
	}
	user = models.User{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Password: string(hashedPassword),
		Role:     models.RoleStudent,
	}
	if err := db.Create(&user).Error; err != nil {
		return err
	}
	log.Printf("[AUTH] Created %s oauth account for %s", reqData.Provider, user.Email)

	go utils.SendWelcomeEmail(user.Email, user.Name)

	return tokenResponse(c, fiber.StatusCreated, "User registered successfully", &user)
}
