package testutils

import (
	"fmt"
	"lms/models"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain password of every user CreateTestUser makes
const TestPassword = "secret123"

// CreateTestUser creates a user with a unique email and the given role
func CreateTestUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	id := uuid.NewString()[:8]
	user := &models.User{
		Name:     fmt.Sprintf("%s %s", role, id),
		Email:    fmt.Sprintf("%s_%s@example.com", role, id),
		Password: string(hash),
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// CourseOption customizes CreateTestCourse
type CourseOption func(*models.Course)

// WithLectures gives the course n lectures of 10 minutes each
func WithLectures(n int) CourseOption {
	return func(c *models.Course) {
		for i := 0; i < n; i++ {
			c.Lectures = append(c.Lectures, models.Lecture{
				Title:    fmt.Sprintf("Lecture %d", i+1),
				Position: i,
				Duration: 10,
			})
		}
	}
}

// WithQuiz adds a lecture carrying questions whose correct answer is "a"
func WithQuiz(questions int) CourseOption {
	return func(c *models.Course) {
		lecture := models.Lecture{Title: "Quiz", Position: len(c.Lectures)}
		for i := 0; i < questions; i++ {
			lecture.Questions = append(lecture.Questions, models.Question{
				Position:      i,
				Question:      fmt.Sprintf("Question %d", i+1),
				Options:       []string{"a", "b", "c"},
				CorrectAnswer: "a",
				Explanation:   "a is right",
			})
		}
		c.Lectures = append(c.Lectures, lecture)
	}
}

func Unpublished() CourseOption {
	return func(c *models.Course) {
		c.IsPublished = false
		c.PublishedDate = nil
	}
}

// PricedAt sets the list price
func PricedAt(price float64) CourseOption {
	return func(c *models.Course) { c.Pricing = price }
}

// CreateTestCourse creates a published course owned by instructor
func CreateTestCourse(t *testing.T, db *gorm.DB, instructor *models.User, opts ...CourseOption) *models.Course {
	t.Helper()

	now := time.Now()
	title := "Course " + uuid.NewString()[:8]
	course := &models.Course{
		InstructorID:   instructor.ID,
		InstructorName: instructor.Name,
		Title:          title,
		Slug:           "course-" + uuid.NewString(),
		Category:       "programming",
		Level:          models.LevelBeginner,
		Description:    "A course used in tests",
		Pricing:        499,
		IsPublished:    true,
		PublishedDate:  &now,
		LastUpdated:    now,
	}
	for _, opt := range opts {
		opt(course)
	}
	course.TotalLectures = len(course.Lectures)
	for _, l := range course.Lectures {
		course.TotalDuration += l.Duration
	}

	if err := db.Create(course).Error; err != nil {
		t.Fatalf("create course: %v", err)
	}
	return course
}

// Enroll creates the enrollment entry for user in course
func Enroll(t *testing.T, db *gorm.DB, user *models.User, course *models.Course) *models.EnrolledCourse {
	t.Helper()

	var enrollment models.Enrollment
	if err := db.Where(models.Enrollment{UserID: user.ID}).FirstOrCreate(&enrollment).Error; err != nil {
		t.Fatalf("create enrollment: %v", err)
	}
	now := time.Now()
	entry := &models.EnrolledCourse{
		EnrollmentID:   enrollment.ID,
		CourseID:       course.ID,
		Title:          course.Title,
		InstructorID:   course.InstructorID,
		InstructorName: course.InstructorName,
		DateOfPurchase: now,
		LastAccessed:   now,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("create enrolled course: %v", err)
	}
	return entry
}
