package models

import (
	"time"

	"gorm.io/datatypes"
)

// User roles
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

// ValidRoles lists every role a user may hold
var ValidRoles = []string{RoleStudent, RoleInstructor, RoleAdmin}

type SocialLinks struct {
	Linkedin  string `json:"linkedin" gorm:"default:''"`
	Github    string `json:"github" gorm:"default:''"`
	Portfolio string `json:"portfolio" gorm:"default:''"`
	Other     string `json:"other" gorm:"default:''"`
}

type User struct {
	ID                   uint                       `json:"id" gorm:"primaryKey"`
	Name                 string                     `json:"name" gorm:"not null"`
	Email                string                     `json:"email" gorm:"uniqueIndex;not null"`
	Password             string                     `json:"-" gorm:"not null"`
	Role                 string                     `json:"role" gorm:"type:varchar(20);default:'student';index"`
	PhoneNumber          string                     `json:"phoneNumber" gorm:"default:''"`
	Place                string                     `json:"place" gorm:"default:''"`
	Gender               string                     `json:"gender" gorm:"default:''"`
	Qualification        string                     `json:"qualification" gorm:"default:''"`
	CompletionGraduation string                     `json:"completionGraduation" gorm:"default:''"`
	WorkingStatus        string                     `json:"workingStatus" gorm:"default:''"`
	Skills               datatypes.JSONSlice[string] `json:"skills"`
	ResumeURL            string                     `json:"resumeUrl" gorm:"default:''"`
	SocialLinks          SocialLinks                `json:"socialLinks" gorm:"embedded;embeddedPrefix:social_"`
	CreatedAt            time.Time                  `json:"createdAt"`
	UpdatedAt            time.Time                  `json:"updatedAt"`
}

// HasRole reports whether the user holds one of the given roles
func (u *User) HasRole(roles ...string) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
