package paymentValidator

import (
	"lms/middleware"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateOrderRequest struct {
	CourseID uint `json:"courseId" validate:"required"`
}

type VerifyRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
	CourseID          uint   `json:"courseId" validate:"required"`
}

// OrderListRequest filters order listings by order and payment status
type OrderListRequest struct {
	validators.Pagination
	Status  string `query:"status"`
	Payment string `query:"payment" validate:"omitempty,oneof=pending completed failed refunded"`
}

// allFieldsRequired collapses validation failures of the checkout bodies into one message
func allFieldsRequired(c *fiber.Ctx, dst interface{}) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if errs := validators.Struct(dst); len(errs) > 0 {
		return false, c.Status(fiber.StatusBadRequest).JSON(middleware.Response{
			Success: false,
			Message: "All fields are required",
			Errors:  errs,
		})
	}
	return true, nil
}

func CreateOrder() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateOrderRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if reqData.CourseID == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required", nil)
		}

		c.Locals("validatedOrder", reqData)
		return c.Next()
	}
}

func Verify() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(VerifyRequest)
		if ok, err := allFieldsRequired(c, reqData); !ok {
			return err
		}

		c.Locals("validatedVerify", reqData)
		return c.Next()
	}
}

func OrderList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(OrderListRequest)
		if ok, err := validators.Query(c, reqData); !ok {
			return err
		}
		reqData.Normalize()

		c.Locals("validatedOrderList", reqData)
		return c.Next()
	}
}
