package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Authorize returns a middleware that lets the request through only when the
// authenticated user holds one of the given roles. It must run after JWTMiddleware.
func Authorize(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User not found", nil)
		}

		if !user.HasRole(roles...) {
			return JsonResponse(c, fiber.StatusForbidden, false,
				fmt.Sprintf("User role %s is not authorized to access this route", user.Role), nil)
		}

		return c.Next()
	}
}
