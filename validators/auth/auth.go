package authValidator

import (
	"lms/validators"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=student instructor"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

type OAuthRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Provider string `json:"provider" validate:"required"`
}

// Register validator middleware
func Register() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RegisterRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		reqData.Email = strings.ToLower(strings.TrimSpace(reqData.Email))
		reqData.Name = strings.TrimSpace(reqData.Name)

		c.Locals("validatedUser", reqData)
		return c.Next()
	}
}

// Login validator middleware
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		reqData.Email = strings.ToLower(strings.TrimSpace(reqData.Email))

		c.Locals("validatedUser", reqData)
		return c.Next()
	}
}

// ChangePassword validator middleware
func ChangePassword() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ChangePasswordRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}

		c.Locals("validatedPassword", reqData)
		return c.Next()
	}
}

// OAuth validator middleware
func OAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(OAuthRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		reqData.Email = strings.ToLower(strings.TrimSpace(reqData.Email))

		c.Locals("validatedUser", reqData)
		return c.Next()
	}
}
