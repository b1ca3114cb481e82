package models

import (
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OrderStatus defines the status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// PaymentStatus defines the status of an order's payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// ErrOrderImmutable is returned by any attempt to update a stored order
var ErrOrderImmutable = errors.New("orders cannot be modified after creation")

// Order records a course purchase. Rows are write-once.
type Order struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	UserID        uint          `gorm:"not null;index" json:"userId"`
	UserName      string        `gorm:"not null" json:"userName"`
	UserEmail     string        `gorm:"not null" json:"userEmail"`
	OrderStatus   OrderStatus   `gorm:"type:varchar(20);not null" json:"orderStatus"`
	PaymentMethod string        `gorm:"type:varchar(50)" json:"paymentMethod"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);default:'pending';index" json:"paymentStatus"`
	OrderDate     time.Time     `gorm:"not null" json:"orderDate"`

	RazorpayOrderID   string `gorm:"type:varchar(100);index" json:"razorpayOrderId"`
	RazorpayPaymentID string `gorm:"type:varchar(100);uniqueIndex" json:"razorpayPaymentId"`
	RazorpaySignature string `gorm:"type:varchar(255)" json:"razorpaySignature"`

	InstructorID   uint    `gorm:"not null;index" json:"instructorId"`
	InstructorName string  `json:"instructorName"`
	CourseImage    string  `json:"courseImage"`
	CourseTitle    string  `gorm:"not null" json:"courseTitle"`
	CourseID       uint    `gorm:"not null;index" json:"courseId"`
	CoursePricing  float64 `gorm:"not null" json:"coursePricing"`
	FinalAmount    float64 `gorm:"not null" json:"finalAmount"`

	PaymentResponse datatypes.JSON `json:"paymentResponse"`

	CreatedAt time.Time `json:"createdAt"`
}

// BeforeUpdate rejects every update so an order stays as it was recorded
func (o *Order) BeforeUpdate(tx *gorm.DB) error {
	return ErrOrderImmutable
}
