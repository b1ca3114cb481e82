package routers

import (
	"encoding/json"
	"fmt"
	"lms/models"
	"lms/testutils"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserAdministration(t *testing.T) {
	app, db := setupApp(t)
	admin := testutils.CreateTestUser(t, db, models.RoleAdmin)
	student := testutils.CreateTestUser(t, db, models.RoleStudent)
	testutils.CreateTestUser(t, db, models.RoleInstructor)

	status, _ := call(t, app, "GET", "/users", tokenFor(t, student), nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, res := call(t, app, "GET", "/users?role=instructor", tokenFor(t, admin), nil)
	require.Equal(t, fiber.StatusOK, status, res.Message)
	var list struct {
		Users []models.User `json:"users"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &list))
	require.Len(t, list.Users, 1)
	assert.Equal(t, models.RoleInstructor, list.Users[0].Role)

	status, res = call(t, app, "PUT", fmt.Sprintf("/users/%d/role", student.ID), tokenFor(t, admin), fiber.Map{"role": "instructor"})
	require.Equal(t, fiber.StatusOK, status, res.Message)
	var stored models.User
	require.NoError(t, db.First(&stored, student.ID).Error)
	assert.Equal(t, models.RoleInstructor, stored.Role)

	status, res = call(t, app, "DELETE", fmt.Sprintf("/users/%d", admin.ID), tokenFor(t, admin), nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "You cannot delete your own account", res.Message)

	status, _ = call(t, app, "DELETE", fmt.Sprintf("/users/%d", student.ID), tokenFor(t, admin), nil)
	assert.Equal(t, fiber.StatusOK, status)
	status, _ = call(t, app, "DELETE", fmt.Sprintf("/users/%d", student.ID), tokenFor(t, admin), nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestUpdateProfile(t *testing.T) {
	app, db := setupApp(t)
	student := testutils.CreateTestUser(t, db, models.RoleStudent)

	status, res := call(t, app, "PATCH", "/users", tokenFor(t, student), fiber.Map{
		"name":        "  Grace Hopper ",
		"skills":      []string{"go", "sql"},
		"socialLinks": fiber.Map{"github": "https://github.com/grace"},
	})
	require.Equal(t, fiber.StatusOK, status, res.Message)

	var stored models.User
	require.NoError(t, db.First(&stored, student.ID).Error)
	assert.Equal(t, "Grace Hopper", stored.Name)
	assert.Equal(t, []string{"go", "sql"}, []string(stored.Skills))
	assert.Equal(t, "https://github.com/grace", stored.SocialLinks.Github)
	assert.Equal(t, models.RoleStudent, stored.Role)

	status, _ = call(t, app, "PATCH", "/users", tokenFor(t, student), fiber.Map{"gender": "robot"})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestInstructorProfile(t *testing.T) {
	app, db := setupApp(t)
	instructor := testutils.CreateTestUser(t, db, models.RoleInstructor)
	student := testutils.CreateTestUser(t, db, models.RoleStudent)
	testutils.CreateTestCourse(t, db, instructor)
	testutils.CreateTestCourse(t, db, instructor, testutils.Unpublished())

	status, res := call(t, app, "GET", fmt.Sprintf("/users/instructors/%d", instructor.ID), "", nil)
	require.Equal(t, fiber.StatusOK, status, res.Message)
	var profile struct {
		Courses []models.Course `json:"courses"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &profile))
	assert.Len(t, profile.Courses, 1)

	status, _ = call(t, app, "GET", fmt.Sprintf("/users/instructors/%d", student.ID), "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}
