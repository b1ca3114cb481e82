package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"lms/config"
	"lms/models"
	"lms/services"
	"lms/testutils"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func decode(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func protectedApp(roles ...string) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	handlers := []fiber.Handler{JWTMiddleware}
	if len(roles) > 0 {
		handlers = append(handlers, Authorize(roles...))
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		user, _ := CurrentUser(c)
		return JsonResponse(c, fiber.StatusOK, true, "", fiber.Map{"id": user.ID, "userId": c.Locals("userId")})
	})
	app.Get("/private", handlers...)
	return app
}

func get(t *testing.T, app *fiber.App, token string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("GET", "/private", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode, decode(t, resp.Body)
}

func TestJWTMiddleware(t *testing.T) {
	db := testutils.SetupTestDB(t)
	user := testutils.CreateTestUser(t, db, models.RoleStudent)
	app := protectedApp()

	token, err := GenerateJWT(user.ID, user.Role)
	require.NoError(t, err)

	status, body := get(t, app, token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, user.ID, body["data"].(map[string]interface{})["id"])

	status, body = get(t, app, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Not authorized to access this route", body["message"])

	status, _ = get(t, app, "not-a-token")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	ghost, err := GenerateJWT(user.ID+1000, models.RoleStudent)
	require.NoError(t, err)
	status, body = get(t, app, ghost)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "User not found!", body["message"])
}

func TestJWTMiddleware_Expired(t *testing.T) {
	db := testutils.SetupTestDB(t)
	user := testutils.CreateTestUser(t, db, models.RoleStudent)

	claims := Claims{
		ID:   user.ID,
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(config.AppConfig.JWTKey))
	require.NoError(t, err)

	status, body := get(t, protectedApp(), expired)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Token expired, please log in again", body["message"])
}

func TestParseToken_RejectsForeignSecret(t *testing.T) {
	testutils.SetupTestDB(t)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{ID: 1}).SignedString([]byte("someone-else"))
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestAuthorize(t *testing.T) {
	db := testutils.SetupTestDB(t)
	student := testutils.CreateTestUser(t, db, models.RoleStudent)
	instructor := testutils.CreateTestUser(t, db, models.RoleInstructor)
	app := protectedApp(models.RoleInstructor, models.RoleAdmin)

	token, err := GenerateJWT(student.ID, student.Role)
	require.NoError(t, err)
	status, body := get(t, app, token)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "User role student is not authorized to access this route", body["message"])

	token, err = GenerateJWT(instructor.ID, instructor.Role)
	require.NoError(t, err)
	status, _ = get(t, app, token)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestOptionalAuth(t *testing.T) {
	db := testutils.SetupTestDB(t)
	user := testutils.CreateTestUser(t, db, models.RoleStudent)

	app := fiber.New()
	app.Get("/", OptionalAuth, func(c *fiber.Ctx) error {
		_, ok := CurrentUser(c)
		return c.SendString(fmt.Sprint(ok))
	})

	for _, tc := range []struct {
		header string
		want   string
	}{
		{"", "false"},
		{"Bearer garbage", "false"},
	} {
		req := httptest.NewRequest("GET", "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		b, _ := io.ReadAll(resp.Body)
		assert.Equal(t, tc.want, string(b))
	}

	token, err := GenerateJWT(user.ID, user.Role)
	require.NoError(t, err)
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "true", string(b))
}

func TestErrorHandler(t *testing.T) {
	config.AppConfig = testutils.TestConfig()
	t.Cleanup(func() { config.AppConfig = nil })

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("db is down") })
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	body := decode(t, resp.Body)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Server Error", body["message"])
	assert.Equal(t, "db is down", body["stack"])

	resp, err = app.Test(httptest.NewRequest("GET", "/teapot", nil))
	require.NoError(t, err)
	body = decode(t, resp.Body)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	assert.Equal(t, "short and stout", body["message"])

	config.AppConfig.AppEnv = "production"
	resp, err = app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	body = decode(t, resp.Body)
	assert.NotContains(t, body, "stack")
}

func TestServiceError(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	var current error
	app.Get("/", func(c *fiber.Ctx) error { return ServiceError(c, current) })

	tests := []struct {
		err     error
		status  int
		message string
	}{
		{services.ErrNotEnrolled, fiber.StatusNotFound, "You are not enrolled in this course"},
		{fmt.Errorf("wrapped: %w", services.ErrLectureNotFound), fiber.StatusNotFound, "Lecture not found"},
		{services.ErrNoQuiz, fiber.StatusNotFound, "This lecture does not have a quiz"},
		{services.ErrAlreadyEnrolled, fiber.StatusBadRequest, "You are already enrolled in this course"},
		{services.ErrPaymentProcessed, fiber.StatusBadRequest, "Payment already processed"},
		{fmt.Errorf("record purchase pay_1: %w", services.ErrOrderMismatch), fiber.StatusBadRequest, "Payment does not belong to this order"},
		{fmt.Errorf("load course: %w", services.ErrCourseNotFound), fiber.StatusNotFound, "Course not found"},
		{fmt.Errorf("save: %w", gorm.ErrDuplicatedKey), fiber.StatusBadRequest, "Duplicate field value entered"},
		{errors.New("unexpected"), fiber.StatusInternalServerError, "Server Error"},
	}
	for _, tt := range tests {
		current = tt.err
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Equal(t, tt.status, resp.StatusCode, tt.err.Error())
		assert.Equal(t, tt.message, decode(t, resp.Body)["message"])
	}
}
