package paymentController

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"lms/validators"
	paymentValidator "lms/validators/payment"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// orderPage answers one page of the orders db selects, newest first.
// extra is merged into the response data.
func orderPage(c *fiber.Ctx, db *gorm.DB, page *validators.Pagination, extra fiber.Map) error {
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := db.Order("order_date desc").Offset(page.Offset()).Limit(page.Limit).Find(&orders).Error; err != nil {
		return err
	}

	data := fiber.Map{
		"orders":     orders,
		"count":      len(orders),
		"pagination": utils.Paginate(total, page.Page, page.Limit),
	}
	for k, v := range extra {
		data[k] = v
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Orders fetched successfully!", data)
}

func filtered(db *gorm.DB, reqData *paymentValidator.OrderListRequest) *gorm.DB {
	if reqData.Status != "" {
		db = db.Where("order_status = ?", reqData.Status)
	}
	if reqData.Payment != "" {
		db = db.Where("payment_status = ?", reqData.Payment)
	}
	return db
}

// GetOrders lists every order for admins
func GetOrders(c *fiber.Ctx) error {
	reqData := c.Locals("validatedOrderList").(*paymentValidator.OrderListRequest)

	db := filtered(database.Database.Db.Model(&models.Order{}), reqData)
	return orderPage(c, db, &reqData.Pagination, nil)
}

// GetInstructorOrders lists the orders for the caller's courses
func GetInstructorOrders(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	reqData := c.Locals("validatedOrderList").(*paymentValidator.OrderListRequest)

	db := filtered(database.Database.Db.Model(&models.Order{}).Where("instructor_id = ?", user.ID), reqData)
	return orderPage(c, db, &reqData.Pagination, nil)
}

// GetOrder returns one order to its buyer, the course instructor or an admin
func GetOrder(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	orderID, ok := validators.ParamID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Order ID!", nil)
	}

	var order models.Order
	err := database.Database.Db.First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Order not found", nil)
	}
	if err != nil {
		return err
	}

	if order.UserID != user.ID && order.InstructorID != user.ID && user.Role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized to access this order", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "", order)
}
