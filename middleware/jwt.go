package middleware

import (
	"errors"
	"fmt"
	"lms/config"
	"lms/database"
	"lms/models"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// Claims is the token payload: the user id and role
type Claims struct {
	ID   uint   `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateJWT generates a JWT token for the user
func GenerateJWT(userID uint, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		ID:   userID,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(config.AppConfig.JWTExpireHours) * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTKey))
}

// ParseToken verifies the signature and expiry of a token and returns its claims
func ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.ID == 0 {
		return nil, errors.New("invalid token payload")
	}
	return claims, nil
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(authHeader[len("Bearer "):])
	return token, token != ""
}

// JWTMiddleware is a middleware to check for valid JWT token in the request.
// On success it stores userId, role and the loaded user in the context.
func JWTMiddleware(c *fiber.Ctx) error {
	tokenString, ok := bearerToken(c)
	if !ok {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Not authorized to access this route", nil)
	}

	claims, err := ParseToken(tokenString)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Token expired, please log in again", nil)
		}
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid or expired token", nil)
	}

	var user models.User
	if err := database.Database.Db.First(&user, claims.ID).Error; err != nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	setUser(c, &user)
	return c.Next()
}

// OptionalAuth attaches the user when a valid token is present and never rejects the request
func OptionalAuth(c *fiber.Ctx) error {
	tokenString, ok := bearerToken(c)
	if !ok {
		return c.Next()
	}
	claims, err := ParseToken(tokenString)
	if err != nil {
		return c.Next()
	}
	var user models.User
	if err := database.Database.Db.First(&user, claims.ID).Error; err == nil {
		setUser(c, &user)
	}
	return c.Next()
}

func setUser(c *fiber.Ctx, user *models.User) {
	c.Locals("userId", user.ID)
	c.Locals("role", user.Role)
	c.Locals("user", user)
}

// CurrentUser returns the user attached by JWTMiddleware or OptionalAuth
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals("user").(*models.User)
	return user, ok && user != nil
}
