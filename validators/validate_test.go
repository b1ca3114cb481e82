package validators

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
	Level string `json:"level" validate:"omitempty,oneof=beginner advanced"`
}

func TestStruct_ReportsJSONNames(t *testing.T) {
	errs := Struct(&sample{Name: "a", Email: "nope", Level: "expert"})
	require.Len(t, errs, 3)

	byField := map[string]string{}
	for _, e := range errs {
		byField[e.Field] = e.Message
	}
	assert.Equal(t, "name must be at least 2 characters", byField["name"])
	assert.Equal(t, "Please provide a valid email", byField["email"])
	assert.Equal(t, "level must be one of: beginner, advanced", byField["level"])

	assert.Empty(t, Struct(&sample{Name: "ab", Email: "a@b.co"}))
}

func TestPagination(t *testing.T) {
	p := Pagination{}
	p.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 0, p.Offset())

	p = Pagination{Page: 3, Limit: 20}
	assert.Equal(t, 40, p.Offset())

	assert.NotEmpty(t, Struct(&Pagination{Page: 1, Limit: 500}))
}

func TestParamIDAndIDParams(t *testing.T) {
	app := fiber.New()
	app.Get("/items/:id", IDParams("id"), func(c *fiber.Ctx) error {
		id := c.Locals("id").(uint)
		return c.JSON(fiber.Map{"id": id})
	})

	for path, status := range map[string]int{
		"/items/12":  fiber.StatusOK,
		"/items/0":   fiber.StatusBadRequest,
		"/items/-3":  fiber.StatusBadRequest,
		"/items/abc": fiber.StatusBadRequest,
	} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, status, resp.StatusCode, path)
	}
}
