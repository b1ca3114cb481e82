package courseValidator

import (
	"fmt"
	"lms/middleware"
	"lms/validators"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

type QuestionRequest struct {
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"required,min=2,dive,required"`
	CorrectAnswer string   `json:"correctAnswer" validate:"required"`
	Explanation   string   `json:"explanation"`
}

type LectureRequest struct {
	Title       string            `json:"title" validate:"required,max=200"`
	Description string            `json:"description"`
	VideoURL    string            `json:"videoUrl"`
	Duration    int               `json:"duration" validate:"gte=0"`
	FreePreview bool              `json:"freePreview"`
	Questions   []QuestionRequest `json:"questions" validate:"omitempty,dive"`
}

type UpdateLectureRequest struct {
	Title       *string            `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string            `json:"description"`
	VideoURL    *string            `json:"videoUrl"`
	Duration    *int               `json:"duration" validate:"omitempty,gte=0"`
	FreePreview *bool              `json:"freePreview"`
	Position    *int               `json:"position" validate:"omitempty,gte=0"`
	Questions   *[]QuestionRequest `json:"questions" validate:"omitempty,dive"`
}

type CreateCourseRequest struct {
	Title           string           `json:"title" validate:"required,min=3,max=200"`
	Category        string           `json:"category" validate:"required"`
	Subcategory     string           `json:"subcategory"`
	Level           string           `json:"level" validate:"required,oneof=beginner intermediate advanced all-levels"`
	PrimaryLanguage string           `json:"primaryLanguage" validate:"required"`
	Subtitle        string           `json:"subtitle" validate:"max=300"`
	Description     string           `json:"description" validate:"required,min=10"`
	Image           string           `json:"image"`
	WelcomeMessage  string           `json:"welcomeMessage"`
	Pricing         *float64         `json:"pricing" validate:"required,gte=0"`
	SalePrice       *float64         `json:"salePrice" validate:"omitempty,gte=0"`
	SaleEndDate     *time.Time       `json:"saleEndDate"`
	Objectives      []string         `json:"objectives"`
	Prerequisites   []string         `json:"prerequisites"`
	TargetAudience  []string         `json:"targetAudience"`
	Tags            []string         `json:"tags"`
	Curriculum      []LectureRequest `json:"curriculum" validate:"omitempty,dive"`
	IsPublished     bool             `json:"isPublished"`
}

type UpdateCourseRequest struct {
	Title           *string    `json:"title" validate:"omitempty,min=3,max=200"`
	Category        *string    `json:"category" validate:"omitempty,min=1"`
	Subcategory     *string    `json:"subcategory"`
	Level           *string    `json:"level" validate:"omitempty,oneof=beginner intermediate advanced all-levels"`
	PrimaryLanguage *string    `json:"primaryLanguage" validate:"omitempty,min=1"`
	Subtitle        *string    `json:"subtitle" validate:"omitempty,max=300"`
	Description     *string    `json:"description" validate:"omitempty,min=10"`
	Image           *string    `json:"image"`
	WelcomeMessage  *string    `json:"welcomeMessage"`
	Pricing         *float64   `json:"pricing" validate:"omitempty,gte=0"`
	SalePrice       *float64   `json:"salePrice" validate:"omitempty,gte=0"`
	SaleEndDate     *time.Time `json:"saleEndDate"`
	Objectives      []string   `json:"objectives"`
	Prerequisites   []string   `json:"prerequisites"`
	TargetAudience  []string   `json:"targetAudience"`
	Tags            []string   `json:"tags"`
}

type CourseListRequest struct {
	validators.Pagination
	Search     string   `query:"search"`
	Category   string   `query:"category"`
	Level      string   `query:"level" validate:"omitempty,oneof=beginner intermediate advanced all-levels"`
	MinPrice   *float64 `query:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice   *float64 `query:"maxPrice" validate:"omitempty,gte=0"`
	Instructor uint     `query:"instructor"`
	Sort       string   `query:"sort" validate:"omitempty,oneof=-createdAt createdAt pricing -pricing -enrollmentCount -ratingAverage"`
}

type ReviewRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Review string `json:"review" validate:"required,max=1000"`
}

// checkQuestions reports questions whose correct answer is not among their options
func checkQuestions(prefix string, questions []QuestionRequest) []middleware.FieldError {
	var errs []middleware.FieldError
	for i, q := range questions {
		found := false
		for _, o := range q.Options {
			if o == q.CorrectAnswer {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, middleware.FieldError{
				Field:   fmt.Sprintf("%squestions[%d].correctAnswer", prefix, i),
				Message: "correctAnswer must be one of the options",
			})
		}
	}
	return errs
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}

		var errs []middleware.FieldError
		for i, l := range reqData.Curriculum {
			errs = append(errs, checkQuestions(fmt.Sprintf("curriculum[%d].", i), l.Questions)...)
		}
		if len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}
		reqData.Title = strings.TrimSpace(reqData.Title)

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateCourseRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		if reqData.Title != nil {
			title := strings.TrimSpace(*reqData.Title)
			reqData.Title = &title
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func AddLecture() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LectureRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		if errs := checkQuestions("", reqData.Questions); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedLecture", reqData)
		return c.Next()
	}
}

func UpdateLecture() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateLectureRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		if reqData.Questions != nil {
			if errs := checkQuestions("", *reqData.Questions); len(errs) > 0 {
				return middleware.ValidationErrorResponse(c, errs)
			}
		}

		c.Locals("validatedLecture", reqData)
		return c.Next()
	}
}

func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CourseListRequest)
		if ok, err := validators.Query(c, reqData); !ok {
			return err
		}
		reqData.Normalize()
		if reqData.MinPrice != nil && reqData.MaxPrice != nil && *reqData.MinPrice > *reqData.MaxPrice {
			return middleware.ValidationErrorResponse(c, []middleware.FieldError{
				{Field: "minPrice", Message: "minPrice must not exceed maxPrice"},
			})
		}

		c.Locals("validatedList", reqData)
		return c.Next()
	}
}

func CreateReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ReviewRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		reqData.Review = strings.TrimSpace(reqData.Review)

		c.Locals("validatedReview", reqData)
		return c.Next()
	}
}

// ListQuery validates plain page/limit pagination
func ListQuery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(validators.Pagination)
		if ok, err := validators.Query(c, reqData); !ok {
			return err
		}
		reqData.Normalize()

		c.Locals("validatedPagination", reqData)
		return c.Next()
	}
}
