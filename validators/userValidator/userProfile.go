package userValidator

import (
	"lms/middleware"
	"lms/models"
	"lms/validators"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type SocialLinksInput struct {
	Linkedin  *string `json:"linkedin" form:"linkedin" validate:"omitempty,url"`
	Github    *string `json:"github" form:"github" validate:"omitempty,url"`
	Portfolio *string `json:"portfolio" form:"portfolio" validate:"omitempty,url"`
	Other     *string `json:"other" form:"other" validate:"omitempty,url"`
}

// UpdateProfileRequest accepts a JSON body or a multipart form. Nil fields are left unchanged.
type UpdateProfileRequest struct {
	Name                 *string           `json:"name" form:"name" validate:"omitempty,min=2,max=100"`
	PhoneNumber          *string           `json:"phoneNumber" form:"phoneNumber" validate:"omitempty,max=20"`
	Place                *string           `json:"place" form:"place"`
	Gender               *string           `json:"gender" form:"gender" validate:"omitempty,oneof=male female other"`
	Qualification        *string           `json:"qualification" form:"qualification"`
	CompletionGraduation *string           `json:"completionGraduation" form:"completionGraduation"`
	WorkingStatus        *string           `json:"workingStatus" form:"workingStatus"`
	Skills               []string          `json:"skills" form:"skills"`
	SocialLinks          *SocialLinksInput `json:"socialLinks" form:"socialLinks"`
}

type UserListRequest struct {
	validators.Pagination
	Role   string `query:"role" json:"role" validate:"omitempty,oneof=student instructor admin"`
	Search string `query:"search" json:"search"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=student instructor admin"`
}

// UpdateProfile validator middleware
func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateProfileRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}

		// A multipart form may carry skills as one comma separated value
		if len(reqData.Skills) == 1 && strings.Contains(reqData.Skills[0], ",") {
			reqData.Skills = strings.Split(reqData.Skills[0], ",")
		}
		skills := make([]string, 0, len(reqData.Skills))
		for _, s := range reqData.Skills {
			if s = strings.TrimSpace(s); s != "" {
				skills = append(skills, s)
			}
		}
		if reqData.Skills != nil {
			reqData.Skills = skills
		}

		c.Locals("validatedProfile", reqData)
		return c.Next()
	}
}

// Apply copies the provided fields onto user
func (r *UpdateProfileRequest) Apply(user *models.User) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&user.Name, r.Name)
	set(&user.PhoneNumber, r.PhoneNumber)
	set(&user.Place, r.Place)
	set(&user.Gender, r.Gender)
	set(&user.Qualification, r.Qualification)
	set(&user.CompletionGraduation, r.CompletionGraduation)
	set(&user.WorkingStatus, r.WorkingStatus)
	if r.Skills != nil {
		user.Skills = r.Skills
	}
	if r.SocialLinks != nil {
		set(&user.SocialLinks.Linkedin, r.SocialLinks.Linkedin)
		set(&user.SocialLinks.Github, r.SocialLinks.Github)
		set(&user.SocialLinks.Portfolio, r.SocialLinks.Portfolio)
		set(&user.SocialLinks.Other, r.SocialLinks.Other)
	}
}

// UserList validator middleware
func UserList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UserListRequest)
		if ok, err := validators.Query(c, reqData); !ok {
			return err
		}
		reqData.Normalize()

		c.Locals("validatedUserList", reqData)
		return c.Next()
	}
}

// UpdateRole validator middleware
func UpdateRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validators.ParamID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user ID!", nil)
		}

		reqData := new(UpdateRoleRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}

		c.Locals("userID", id)
		c.Locals("validatedRole", reqData)
		return c.Next()
	}
}
