package routers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"lms/config"
	"lms/gateway"
	"lms/models"
	"lms/storage"
	"lms/testutils"
	"lms/utils"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeGateway captures every payment for the order it was created against
type fakeGateway struct {
	orders int
}

func (g *fakeGateway) CreateOrder(req gateway.OrderRequest) (*gateway.Order, error) {
	g.orders++
	return &gateway.Order{
		ID:       fmt.Sprintf("order_%d", g.orders),
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Status:   "created",
	}, nil
}

func (g *fakeGateway) FetchPayment(paymentID string) (*gateway.Payment, error) {
	return &gateway.Payment{
		ID:       paymentID,
		Amount:   gateway.ToPaise(499),
		Currency: "INR",
		Status:   "captured",
		OrderID:  "order_1",
		Method:   "card",
	}, nil
}

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := testutils.SetupTestDB(t)
	config.AppConfig.UploadDir = t.TempDir()

	prevGateway, prevStorage := gateway.Default, storage.Default
	gateway.Default = &fakeGateway{}
	storage.Default = storage.NewLocal(config.AppConfig.UploadDir, "/uploads")
	utils.DefaultMailer = nil
	t.Cleanup(func() {
		gateway.Default, storage.Default = prevGateway, prevStorage
	})

	return New(config.AppConfig), db
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, apiResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var out apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func registerAndLogin(t *testing.T, app *fiber.App) string {
	t.Helper()

	status, res := call(t, app, "POST", "/auth/register", "", fiber.Map{
		"name": "Ada Lovelace", "email": "Ada@Example.com", "password": "secret123",
	})
	require.Equal(t, fiber.StatusCreated, status, res.Message)

	status, res = call(t, app, "POST", "/auth/login", "", fiber.Map{
		"email": "ada@example.com", "password": "secret123",
	})
	require.Equal(t, fiber.StatusOK, status, res.Message)

	var data struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &data))
	require.NotEmpty(t, data.Token)
	assert.Equal(t, models.RoleStudent, data.User.Role)
	return data.Token
}

func verifyBody(courseID uint, orderID, paymentID, signature string) fiber.Map {
	return fiber.Map{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
		"razorpay_signature":  signature,
		"courseId":            courseID,
	}
}

func TestHealth(t *testing.T) {
	app, _ := setupApp(t)

	status, res := call(t, app, "GET", "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, res.Success)
}

func TestPurchaseAndProgressFlow(t *testing.T) {
	app, db := setupApp(t)
	instructor := testutils.CreateTestUser(t, db, models.RoleInstructor)
	course := testutils.CreateTestCourse(t, db, instructor, testutils.WithLectures(4))
	token := registerAndLogin(t, app)

	status, res := call(t, app, "POST", "/payments/razorpay/create-order", token, fiber.Map{"courseId": course.ID})
	require.Equal(t, fiber.StatusOK, status, res.Message)
	var order struct {
		OrderID string `json:"order_id"`
		Amount  int64  `json:"amount"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &order))
	assert.Equal(t, "order_1", order.OrderID)
	assert.Equal(t, int64(49900), order.Amount)

	signature := gateway.Sign("rzp_test_secret", order.OrderID, "pay_1")
	status, res = call(t, app, "POST", "/payments/razorpay/verify", token, verifyBody(course.ID, order.OrderID, "pay_1", signature))
	require.Equal(t, fiber.StatusOK, status, res.Message)
	assert.Equal(t, "Payment verified and enrollment successful", res.Message)

	// the same payment cannot enroll twice
	status, res = call(t, app, "POST", "/payments/razorpay/verify", token, verifyBody(course.ID, order.OrderID, "pay_1", signature))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.False(t, res.Success)

	for _, l := range course.Lectures[:2] {
		path := fmt.Sprintf("/enrollments/%d/lectures/%d/complete", course.ID, l.ID)
		status, res = call(t, app, "POST", path, token, nil)
		require.Equal(t, fiber.StatusOK, status, res.Message)
	}

	status, res = call(t, app, "GET", fmt.Sprintf("/enrollments/%d", course.ID), token, nil)
	require.Equal(t, fiber.StatusOK, status, res.Message)
	var detail struct {
		Progress          int    `json:"progress"`
		CompletedLectures []uint `json:"completedLectures"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &detail))
	assert.Equal(t, 50, detail.Progress)
	assert.ElementsMatch(t, []uint{course.Lectures[0].ID, course.Lectures[1].ID}, detail.CompletedLectures)

	var stored models.Course
	require.NoError(t, db.First(&stored, course.ID).Error)
	assert.Equal(t, 1, stored.EnrollmentCount)
}

func TestVerifyRejectsBadSignature(t *testing.T) {
	app, db := setupApp(t)
	instructor := testutils.CreateTestUser(t, db, models.RoleInstructor)
	course := testutils.CreateTestCourse(t, db, instructor, testutils.WithLectures(1))
	token := registerAndLogin(t, app)

	status, res := call(t, app, "POST", "/payments/razorpay/verify", token, verifyBody(course.ID, "order_1", "pay_1", "forged"))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid payment signature", res.Message)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestEnrollmentRoutesRequireAuth(t *testing.T) {
	app, _ := setupApp(t)

	status, res := call(t, app, "GET", "/enrollments", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.False(t, res.Success)
}
