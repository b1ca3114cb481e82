package validators

import (
	"fmt"
	"lms/middleware"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields under their json names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct validates s against its `validate` tags and returns one FieldError per failure
func Struct(s interface{}) []middleware.FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []middleware.FieldError{{Field: "body", Message: err.Error()}}
	}

	out := make([]middleware.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, middleware.FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "Please provide a valid email"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// Body parses the request body into dst and validates it. When it returns
// false the error response has already been written and err must be returned.
func Body(c *fiber.Ctx, dst interface{}) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if errs := Struct(dst); len(errs) > 0 {
		return false, middleware.ValidationErrorResponse(c, errs)
	}
	return true, nil
}

// Query is Body for query string parameters
func Query(c *fiber.Ctx, dst interface{}) (bool, error) {
	if err := c.QueryParser(dst); err != nil {
		return false, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
	}
	if errs := Struct(dst); len(errs) > 0 {
		return false, middleware.ValidationErrorResponse(c, errs)
	}
	return true, nil
}

// ParamID reads a positive integer route parameter
func ParamID(c *fiber.Ctx, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Params(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// IDParams returns a middleware that validates each named route parameter as
// a positive integer and stores it in Locals under the same name
func IDParams(names ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, name := range names {
			id, ok := ParamID(c, name)
			if !ok {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, fmt.Sprintf("Invalid %s!", name), nil)
			}
			c.Locals(name, id)
		}
		return c.Next()
	}
}

// Pagination is the shared page/limit query
type Pagination struct {
	Page  int `query:"page" json:"page" validate:"omitempty,min=1"`
	Limit int `query:"limit" json:"limit" validate:"omitempty,min=1,max=100"`
}

// Normalize fills in defaults of page 1 and limit 10
func (p *Pagination) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
}

// Offset returns the row offset of the current page
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}
