package models

import (
	"time"

	"gorm.io/datatypes"
)

// Course levels
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
	LevelAllLevels    = "all-levels"
)

// Course represents a course authored by an instructor
type Course struct {
	ID              uint                        `json:"id" gorm:"primaryKey"`
	InstructorID    uint                        `json:"instructorId" gorm:"index;not null"`
	InstructorName  string                      `json:"instructorName" gorm:"not null"`
	Title           string                      `json:"title" gorm:"not null"`
	Slug            string                      `json:"slug" gorm:"uniqueIndex;not null"`
	Category        string                      `json:"category" gorm:"index"`
	Subcategory     string                      `json:"subcategory"`
	Level           string                      `json:"level" gorm:"type:varchar(20);index"`
	PrimaryLanguage string                      `json:"primaryLanguage"`
	Subtitle        string                      `json:"subtitle"`
	Description     string                      `json:"description" gorm:"type:text"`
	Image           string                      `json:"image"`
	ImagePublicID   string                      `json:"-"`
	WelcomeMessage  string                      `json:"welcomeMessage" gorm:"type:text"`
	Pricing         float64                     `json:"pricing" gorm:"not null;index"`
	SalePrice       *float64                    `json:"salePrice"`
	SaleEndDate     *time.Time                  `json:"saleEndDate"`
	Objectives      datatypes.JSONSlice[string] `json:"objectives"`
	Prerequisites   datatypes.JSONSlice[string] `json:"prerequisites"`
	TargetAudience  datatypes.JSONSlice[string] `json:"targetAudience"`
	Tags            datatypes.JSONSlice[string] `json:"tags"`
	Lectures        []Lecture                   `json:"curriculum" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	TotalLectures   int                         `json:"totalLectures" gorm:"default:0"`
	TotalDuration   int                         `json:"totalDuration" gorm:"default:0"`
	RatingAverage   float64                     `json:"ratingAverage" gorm:"default:0;index"`
	RatingCount     int                         `json:"ratingCount" gorm:"default:0"`
	EnrollmentCount int                         `json:"enrollmentCount" gorm:"default:0;index"`
	IsPublished     bool                        `json:"isPublished" gorm:"default:false;index"`
	PublishedDate   *time.Time                  `json:"publishedDate"`
	LastUpdated     time.Time                   `json:"lastUpdated"`
	CreatedAt       time.Time                   `json:"createdAt"`
	UpdatedAt       time.Time                   `json:"updatedAt"`
}

// Lecture is an ordered unit of course content owned by a Course
type Lecture struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	CourseID      uint       `json:"courseId" gorm:"index;not null"`
	Position      int        `json:"position" gorm:"default:0"`
	Title         string     `json:"title" gorm:"not null"`
	Description   string     `json:"description" gorm:"type:text"`
	VideoURL      string     `json:"videoUrl"`
	VideoPublicID string     `json:"-"`
	Duration      int        `json:"duration" gorm:"default:0"` // minutes
	FreePreview   bool       `json:"freePreview" gorm:"default:false"`
	Questions     []Question `json:"questions" gorm:"foreignKey:LectureID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Question is a quiz question owned by a Lecture
type Question struct {
	ID            uint                        `json:"id" gorm:"primaryKey"`
	LectureID     uint                        `json:"lectureId" gorm:"index;not null"`
	Position      int                         `json:"position" gorm:"default:0"`
	Question      string                      `json:"question" gorm:"type:text;not null"`
	Options       datatypes.JSONSlice[string] `json:"options"`
	CorrectAnswer string                      `json:"correctAnswer,omitempty" gorm:"not null"`
	Explanation   string                      `json:"explanation,omitempty" gorm:"type:text"`
}

// HasQuiz reports whether the lecture carries a question set
func (l *Lecture) HasQuiz() bool {
	return len(l.Questions) > 0
}

// HideAnswers blanks correct answers and explanations on every question,
// for responses sent to anyone but the course owner
func (c *Course) HideAnswers() {
	for i := range c.Lectures {
		for j := range c.Lectures[i].Questions {
			c.Lectures[i].Questions[j].CorrectAnswer = ""
			c.Lectures[i].Questions[j].Explanation = ""
		}
	}
}

// CurrentPrice returns the sale price while the sale is running, the list price otherwise
func (c *Course) CurrentPrice(now time.Time) float64 {
	if c.SalePrice != nil && *c.SalePrice > 0 && c.SaleEndDate != nil && now.Before(*c.SaleEndDate) {
		return *c.SalePrice
	}
	return c.Pricing
}

// LectureIDs returns the ids of the course's lectures in order
func (c *Course) LectureIDs() []uint {
	ids := make([]uint, len(c.Lectures))
	for i, l := range c.Lectures {
		ids[i] = l.ID
	}
	return ids
}

// FindLecture looks up a lecture by id within this course
func (c *Course) FindLecture(lectureID uint) (*Lecture, bool) {
	for i := range c.Lectures {
		if c.Lectures[i].ID == lectureID {
			return &c.Lectures[i], true
		}
	}
	return nil, false
}
