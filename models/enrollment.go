package models

import (
	"time"
)

// Enrollment is the per-user container of purchased courses
type Enrollment struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	UserID    uint             `json:"userId" gorm:"uniqueIndex;not null"`
	Courses   []EnrolledCourse `json:"courses" gorm:"foreignKey:EnrollmentID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// EnrolledCourse holds a user's progress in one course
type EnrolledCourse struct {
	ID                uint                `json:"id" gorm:"primaryKey"`
	EnrollmentID      uint                `json:"enrollmentId" gorm:"not null;uniqueIndex:idx_enrollment_course"`
	CourseID          uint                `json:"courseId" gorm:"not null;uniqueIndex:idx_enrollment_course;index"`
	Title             string              `json:"title"`
	InstructorID      uint                `json:"instructorId" gorm:"index"`
	InstructorName    string              `json:"instructorName"`
	CourseImage       string              `json:"courseImage"`
	DateOfPurchase    time.Time           `json:"dateOfPurchase"`
	Progress          int                 `json:"progress" gorm:"default:0"`
	LastAccessed      time.Time           `json:"lastAccessed"`
	CompletedLectures []LectureCompletion `json:"-" gorm:"foreignKey:EnrolledCourseID;constraint:OnDelete:CASCADE"`
	QuizScores        []QuizScore         `json:"quizScores" gorm:"foreignKey:EnrolledCourseID;constraint:OnDelete:CASCADE"`
	// CompletedLectureIDs is filled from CompletedLectures for responses
	CompletedLectureIDs []uint `json:"completedLectures" gorm:"-"`
}

// LectureCompletion marks one lecture as completed within an enrolled course
type LectureCompletion struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	EnrolledCourseID uint      `json:"enrolledCourseId" gorm:"not null;uniqueIndex:idx_completion_lecture"`
	LectureID        uint      `json:"lectureId" gorm:"not null;uniqueIndex:idx_completion_lecture;index"`
	CompletedAt      time.Time `json:"completedAt"`
}

// QuizScore is the best attempt recorded for a lecture's quiz
type QuizScore struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	EnrolledCourseID uint      `json:"-" gorm:"not null;uniqueIndex:idx_quiz_lecture"`
	LectureID        uint      `json:"lectureId" gorm:"not null;uniqueIndex:idx_quiz_lecture;index"`
	Score            int       `json:"score"`
	TotalQuestions   int       `json:"totalQuestions"`
	Attempts         int       `json:"attempts" gorm:"default:1"`
	DateTaken        time.Time `json:"dateTaken"`
}

// FillCompletedIDs copies the completion rows into CompletedLectureIDs
func (e *EnrolledCourse) FillCompletedIDs() {
	ids := make([]uint, 0, len(e.CompletedLectures))
	for _, lc := range e.CompletedLectures {
		ids = append(ids, lc.LectureID)
	}
	e.CompletedLectureIDs = ids
}
