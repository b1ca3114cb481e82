package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"lms/config"
	"math"
	"time"

	"github.com/go-resty/resty/v2"
)

// OrderRequest is the body of a Razorpay order creation
type OrderRequest struct {
	Amount   int64             `json:"amount"` // paise
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// Order is a Razorpay order
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Payment is a Razorpay payment. Raw keeps the full response body.
type Payment struct {
	ID       string          `json:"id"`
	Amount   int64           `json:"amount"`
	Currency string          `json:"currency"`
	Status   string          `json:"status"`
	OrderID  string          `json:"order_id"`
	Method   string          `json:"method"`
	Email    string          `json:"email"`
	Raw      json.RawMessage `json:"-"`
}

// ToPaise converts an INR amount to the gateway's integer paise
func ToPaise(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromPaise converts gateway paise back to INR
func FromPaise(paise int64) float64 {
	return float64(paise) / 100
}

// Captured reports whether the payment has been captured
func (p *Payment) Captured() bool {
	return p.Status == "captured"
}

// Client is the subset of the Razorpay API the payment flow needs
type Client interface {
	CreateOrder(req OrderRequest) (*Order, error)
	FetchPayment(paymentID string) (*Payment, error)
}

// Default is the client used by the payment controllers
var Default Client

// Init builds Default from configuration
func Init(cfg *config.Config) {
	Default = NewRazorpay(cfg.RazorpayApiURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
}

// Razorpay talks to the Razorpay REST API over resty with basic auth
type Razorpay struct {
	client *resty.Client
}

func NewRazorpay(baseURL, keyID, keySecret string) *Razorpay {
	client := resty.New().
		SetBaseURL(baseURL).
		SetBasicAuth(keyID, keySecret).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)
	return &Razorpay{client: client}
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

func statusError(resp *resty.Response) error {
	var e apiError
	if err := json.Unmarshal(resp.Body(), &e); err == nil && e.Error.Description != "" {
		return fmt.Errorf("razorpay %d %s: %s", resp.StatusCode(), e.Error.Code, e.Error.Description)
	}
	return fmt.Errorf("razorpay %d: %s", resp.StatusCode(), resp.String())
}

func (r *Razorpay) CreateOrder(req OrderRequest) (*Order, error) {
	var order Order
	resp, err := r.client.R().
		SetBody(req).
		SetResult(&order).
		Post("/orders")
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	if resp.IsError() {
		return nil, statusError(resp)
	}
	return &order, nil
}

func (r *Razorpay) FetchPayment(paymentID string) (*Payment, error) {
	var payment Payment
	resp, err := r.client.R().
		SetPathParam("id", paymentID).
		SetResult(&payment).
		Get("/payments/{id}")
	if err != nil {
		return nil, fmt.Errorf("fetch payment: %w", err)
	}
	if resp.IsError() {
		return nil, statusError(resp)
	}
	payment.Raw = append(json.RawMessage(nil), resp.Body()...)
	return &payment, nil
}

// Sign returns the hex HMAC-SHA256 of "orderID|paymentID" under secret
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a checkout signature in constant time. An empty
// secret never verifies.
func VerifySignature(secret, orderID, paymentID, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	expected := Sign(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
