package services

import (
	"errors"
	"fmt"
	"lms/gateway"
	"lms/models"
	"strconv"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Checkout is what the client reports back after a Razorpay checkout
type Checkout struct {
	OrderID   string
	PaymentID string
	Signature string
}

// PurchasableCourse loads a course the user may buy: it must exist, be
// published and not already be owned by the user
func PurchasableCourse(db *gorm.DB, userID, courseID uint) (*models.Course, error) {
	var course models.Course
	err := db.First(&course, courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if !course.IsPublished {
		return nil, ErrCourseUnpublished
	}
	enrolled, err := IsEnrolled(db, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}
	if enrolled {
		return nil, ErrAlreadyEnrolled
	}
	return &course, nil
}

// NewGatewayOrder builds the gateway order for buying the course at its current price
func NewGatewayOrder(course *models.Course, userID uint, now time.Time) gateway.OrderRequest {
	return gateway.OrderRequest{
		Amount:   gateway.ToPaise(course.CurrentPrice(now)),
		Currency: "INR",
		Receipt:  fmt.Sprintf("receipt_order_%d", course.ID),
		Notes: map[string]string{
			"courseId": strconv.FormatUint(uint64(course.ID), 10),
			"userId":   strconv.FormatUint(uint64(userID), 10),
		},
	}
}

// RecordPurchase stores the order for a verified payment and grants the
// enrollment in one transaction. A payment id can only be recorded once.
func RecordPurchase(db *gorm.DB, user *models.User, course *models.Course, checkout Checkout, payment *gateway.Payment) (*models.Order, *models.EnrolledCourse, error) {
	if payment.OrderID != "" && payment.OrderID != checkout.OrderID {
		return nil, nil, ErrOrderMismatch
	}

	status := models.PaymentStatusPending
	if payment.Captured() {
		status = models.PaymentStatusCompleted
	}
	paid := gateway.FromPaise(payment.Amount)

	order := &models.Order{
		UserID:            user.ID,
		UserName:          user.Name,
		UserEmail:         user.Email,
		OrderStatus:       models.OrderStatusCompleted,
		PaymentMethod:     "razorpay",
		PaymentStatus:     status,
		OrderDate:         time.Now(),
		RazorpayOrderID:   checkout.OrderID,
		RazorpayPaymentID: checkout.PaymentID,
		RazorpaySignature: checkout.Signature,
		InstructorID:      course.InstructorID,
		InstructorName:    course.InstructorName,
		CourseImage:       course.Image,
		CourseTitle:       course.Title,
		CourseID:          course.ID,
		CoursePricing:     paid,
		FinalAmount:       paid,
	}
	if len(payment.Raw) > 0 {
		order.PaymentResponse = datatypes.JSON(payment.Raw)
	}

	var entry models.EnrolledCourse
	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Order{}).Where("razorpay_payment_id = ?", checkout.PaymentID).Count(&count).Error; err != nil {
			return fmt.Errorf("check payment: %w", err)
		}
		if count > 0 {
			return ErrPaymentProcessed
		}

		if err := tx.Create(order).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrPaymentProcessed
			}
			return fmt.Errorf("create order: %w", err)
		}

		if _, err := GrantEnrollment(tx, user, course); err != nil {
			return err
		}
		return tx.Where("enrollment_id = (?) AND course_id = ?", enrollmentOf(tx, user.ID), course.ID).
			First(&entry).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return order, &entry, nil
}

// Earnings sums the completed order amounts of an instructor
func Earnings(db *gorm.DB, instructorID uint) (float64, error) {
	var total float64
	err := db.Model(&models.Order{}).
		Where("instructor_id = ? AND payment_status = ?", instructorID, models.PaymentStatusCompleted).
		Select("COALESCE(SUM(final_amount), 0)").
		Row().Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum earnings: %w", err)
	}
	return total, nil
}
