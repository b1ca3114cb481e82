package models

import "time"

// Review is a rating left by an enrolled student, one per user and course
type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"not null;uniqueIndex:idx_review_user_course"`
	CourseID  uint      `json:"courseId" gorm:"not null;uniqueIndex:idx_review_user_course;index"`
	UserName  string    `json:"userName" gorm:"not null"`
	Rating    int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"` // 1–5 rating
	Review    string    `json:"review" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
