package paymentController

import (
	"lms/config"
	"lms/database"
	"lms/gateway"
	"lms/middleware"
	"lms/models"
	"lms/services"
	"lms/utils"
	"lms/validators"
	paymentValidator "lms/validators/payment"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

// GetRazorpayKey returns the public key id the checkout widget needs
func GetRazorpayKey(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", fiber.Map{
		"key": config.AppConfig.RazorpayKeyID,
	})
}

// CreateOrder opens a gateway order for buying a course at its current price
func CreateOrder(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	reqData := c.Locals("validatedOrder").(*paymentValidator.CreateOrderRequest)

	course, err := services.PurchasableCourse(database.Database.Db, user.ID, reqData.CourseID)
	if err != nil {
		return middleware.ServiceError(c, err)
	}

	order, err := gateway.Default.CreateOrder(services.NewGatewayOrder(course, user.ID, time.Now()))
	if err != nil {
		log.Printf("[PAYMENT] Create order for course %d failed: %v", course.ID, err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to create payment order", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "", fiber.Map{
		"order_id": order.ID,
		"currency": order.Currency,
		"amount":   order.Amount,
		"course": fiber.Map{
			"id":    course.ID,
			"title": course.Title,
			"image": course.Image,
		},
	})
}

// VerifyPayment checks the checkout signature, records the order and enrolls the buyer
func VerifyPayment(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	reqData := c.Locals("validatedVerify").(*paymentValidator.VerifyRequest)
	db := database.Database.Db

	course, err := services.LoadCourse(db, reqData.CourseID)
	if err != nil {
		return middleware.ServiceError(c, err)
	}

	if !gateway.VerifySignature(config.AppConfig.RazorpayKeySecret, reqData.RazorpayOrderID, reqData.RazorpayPaymentID, reqData.RazorpaySignature) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid payment signature", nil)
	}

	payment, err := gateway.Default.FetchPayment(reqData.RazorpayPaymentID)
	if err != nil {
		log.Printf("[PAYMENT] Fetch payment %s failed: %v", reqData.RazorpayPaymentID, err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to fetch payment details", nil)
	}

	checkout := services.Checkout{
		OrderID:   reqData.RazorpayOrderID,
		PaymentID: reqData.RazorpayPaymentID,
		Signature: reqData.RazorpaySignature,
	}
	order, entry, err := services.RecordPurchase(db, user, course, checkout, payment)
	if err != nil {
		return middleware.ServiceError(c, err)
	}
	log.Printf("[PAYMENT] User %d enrolled in course %d (payment %s, %s)", user.ID, course.ID, payment.ID, order.PaymentStatus)

	go func() {
		if err := utils.SendEnrollmentEmail(user.Email, user.Name, course.Title, order.FinalAmount); err != nil {
			log.Printf("[PAYMENT] Enrollment email to %s failed: %v", user.Email, err)
		}
	}()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment verified and enrollment successful", fiber.Map{
		"order":      order,
		"enrollment": entry,
	})
}

// GetOrderHistory lists the caller's own orders
func GetOrderHistory(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	reqData := c.Locals("validatedPagination").(*validators.Pagination)

	db := database.Database.Db.Model(&models.Order{}).Where("user_id = ?", user.ID)
	return orderPage(c, db, reqData, nil)
}

// GetInstructorEarnings lists the caller's completed sales with their total
func GetInstructorEarnings(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	reqData := c.Locals("validatedPagination").(*validators.Pagination)

	total, err := services.Earnings(database.Database.Db, user.ID)
	if err != nil {
		return err
	}

	db := database.Database.Db.Model(&models.Order{}).
		Where("instructor_id = ? AND payment_status = ?", user.ID, models.PaymentStatusCompleted)
	return orderPage(c, db, reqData, fiber.Map{"totalEarnings": total})
}
