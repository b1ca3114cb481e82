package routers

import (
	"encoding/json"
	"fmt"
	"lms/middleware"
	"lms/models"
	"lms/testutils"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := middleware.GenerateJWT(user.ID, user.Role)
	require.NoError(t, err)
	return token
}

func firstAnswer(t *testing.T, res apiResponse) string {
	t.Helper()
	var course models.Course
	require.NoError(t, json.Unmarshal(res.Data, &course))
	require.NotEmpty(t, course.Lectures)
	require.NotEmpty(t, course.Lectures[0].Questions)
	return course.Lectures[0].Questions[0].CorrectAnswer
}

func TestGetCourseHidesAnswersFromNonOwners(t *testing.T) {
	app, db := setupApp(t)
	owner := testutils.CreateTestUser(t, db, models.RoleInstructor)
	student := testutils.CreateTestUser(t, db, models.RoleStudent)
	course := testutils.CreateTestCourse(t, db, owner, testutils.WithQuiz(2))
	path := fmt.Sprintf("/courses/%d", course.ID)

	status, res := call(t, app, "GET", path, tokenFor(t, owner), nil)
	require.Equal(t, fiber.StatusOK, status, res.Message)
	assert.Equal(t, "a", firstAnswer(t, res))

	status, res = call(t, app, "GET", path, tokenFor(t, student), nil)
	require.Equal(t, fiber.StatusOK, status, res.Message)
	assert.Empty(t, firstAnswer(t, res))

	// by slug, anonymously
	status, res = call(t, app, "GET", "/courses/"+course.Slug, "", nil)
	require.Equal(t, fiber.StatusOK, status, res.Message)
	assert.Empty(t, firstAnswer(t, res))
}

func TestUnpublishedCourseVisibleOnlyToOwner(t *testing.T) {
	app, db := setupApp(t)
	owner := testutils.CreateTestUser(t, db, models.RoleInstructor)
	course := testutils.CreateTestCourse(t, db, owner, testutils.Unpublished())
	path := fmt.Sprintf("/courses/%d", course.ID)

	status, _ := call(t, app, "GET", path, "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = call(t, app, "GET", path, tokenFor(t, owner), nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestCourseOwnership(t *testing.T) {
	app, db := setupApp(t)
	owner := testutils.CreateTestUser(t, db, models.RoleInstructor)
	other := testutils.CreateTestUser(t, db, models.RoleInstructor)
	admin := testutils.CreateTestUser(t, db, models.RoleAdmin)
	student := testutils.CreateTestUser(t, db, models.RoleStudent)
	course := testutils.CreateTestCourse(t, db, owner, testutils.WithLectures(1))
	path := fmt.Sprintf("/courses/%d", course.ID)

	status, res := call(t, app, "PUT", path, tokenFor(t, other), fiber.Map{"subtitle": "hijacked"})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "You are not authorized to modify this course", res.Message)

	status, _ = call(t, app, "PUT", path, tokenFor(t, student), fiber.Map{"subtitle": "nope"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, res = call(t, app, "PUT", path, tokenFor(t, admin), fiber.Map{"subtitle": "Reviewed"})
	require.Equal(t, fiber.StatusOK, status, res.Message)

	var stored models.Course
	require.NoError(t, db.First(&stored, course.ID).Error)
	assert.Equal(t, "Reviewed", stored.Subtitle)
}

func TestCreateCourseThroughAPI(t *testing.T) {
	app, db := setupApp(t)
	instructor := testutils.CreateTestUser(t, db, models.RoleInstructor)

	status, res := call(t, app, "POST", "/courses", tokenFor(t, instructor), fiber.Map{
		"title":           "Go Concurrency",
		"category":        "programming",
		"level":           "intermediate",
		"primaryLanguage": "English",
		"description":     "Channels, goroutines and friends",
		"pricing":         999,
		"curriculum": []fiber.Map{
			{"title": "Goroutines", "duration": 12},
			{"title": "Channels", "duration": 18},
		},
	})
	require.Equal(t, fiber.StatusCreated, status, res.Message)

	var course models.Course
	require.NoError(t, json.Unmarshal(res.Data, &course))
	assert.Equal(t, "go-concurrency", course.Slug)
	assert.Equal(t, 2, course.TotalLectures)
	assert.Equal(t, 30, course.TotalDuration)
	assert.Equal(t, instructor.ID, course.InstructorID)
}
