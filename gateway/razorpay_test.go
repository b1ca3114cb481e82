package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifySignature(t *testing.T) {
	sig := Sign("secret", "order_1", "pay_1")

	assert.True(t, VerifySignature("secret", "order_1", "pay_1", sig))
	assert.False(t, VerifySignature("secret", "order_1", "pay_2", sig))
	assert.False(t, VerifySignature("other", "order_1", "pay_1", sig))
	assert.False(t, VerifySignature("", "order_1", "pay_1", Sign("", "order_1", "pay_1")))
	assert.False(t, VerifySignature("secret", "order_1", "pay_1", ""))
}

func TestPaiseConversion(t *testing.T) {
	assert.EqualValues(t, 49900, ToPaise(499))
	assert.EqualValues(t, 1999, ToPaise(19.99))
	assert.InDelta(t, 19.99, FromPaise(1999), 0.0001)
}

func TestRazorpay_CreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)

		var req OrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.EqualValues(t, 49900, req.Amount)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Order{ID: "order_abc", Amount: req.Amount, Currency: req.Currency, Receipt: req.Receipt, Status: "created"})
	}))
	defer server.Close()

	client := NewRazorpay(server.URL, "key", "secret")
	order, err := client.CreateOrder(OrderRequest{Amount: 49900, Currency: "INR", Receipt: "receipt_order_1"})

	require.NoError(t, err)
	assert.Equal(t, "order_abc", order.ID)
	assert.Equal(t, "receipt_order_1", order.Receipt)
}

func TestRazorpay_FetchPayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/pay_1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"pay_1","amount":49900,"currency":"INR","status":"captured","order_id":"order_abc","method":"upi"}`))
	}))
	defer server.Close()

	payment, err := NewRazorpay(server.URL, "key", "secret").FetchPayment("pay_1")

	require.NoError(t, err)
	assert.True(t, payment.Captured())
	assert.Equal(t, "order_abc", payment.OrderID)
	assert.Contains(t, string(payment.Raw), `"method":"upi"`)
}

func TestRazorpay_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"The id provided does not exist"}}`))
	}))
	defer server.Close()

	_, err := NewRazorpay(server.URL, "key", "secret").FetchPayment("pay_missing")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "BAD_REQUEST_ERROR")
	assert.Contains(t, err.Error(), "does not exist")
}
