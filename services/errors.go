package services

import "errors"

var (
	ErrNotEnrolled       = errors.New("you are not enrolled in this course")
	ErrAlreadyEnrolled   = errors.New("you are already enrolled in this course")
	ErrCourseNotFound    = errors.New("course not found")
	ErrCourseUnpublished = errors.New("course is not available for purchase")
	ErrLectureNotFound   = errors.New("lecture not found")
	ErrNoQuiz            = errors.New("this lecture does not have a quiz")
	ErrReviewExists      = errors.New("you have already reviewed this course")
	ErrInvalidQuestions  = errors.New("correct answer must be one of the options")
	ErrPaymentProcessed  = errors.New("payment already processed")
	ErrOrderMismatch     = errors.New("payment does not belong to this order")
)
