package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"weddinglk-payments/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stripeServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestStripeAdapter_CreatePayment(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		srv := stripeServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/payment_intents", r.URL.Path)
			assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

			require.NoError(t, r.ParseForm())
			// 25000 LKR in minor units, currency lowercased.
			assert.Equal(t, "2500000", r.PostForm.Get("amount"))
			assert.Equal(t, "lkr", r.PostForm.Get("currency"))
			assert.Equal(t, "WP-20260830-0001", r.PostForm.Get("metadata[order_id]"))

			json.NewEncoder(w).Encode(map[string]any{
				"id":            "pi_123",
				"client_secret": "pi_123_secret_abc",
				"status":        "requires_payment_method",
			})
		})

		adapter := NewStripeAdapter(config.StripeConfig{SecretKey: "sk_test_123", BaseURL: srv.URL}, srv.Client())
		resp := adapter.CreatePayment(ctx, testRequest(MethodStripe))

		assert.True(t, resp.Success)
		assert.Equal(t, "pi_123", resp.PaymentID)
		assert.Equal(t, StatusPending, resp.Status)
		assert.Equal(t, "pi_123_secret_abc", resp.Metadata["client_secret"])
	})

	t.Run("Provider error surfaces as structured failure", func(t *testing.T) {
		srv := stripeServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusPaymentRequired)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "Your card was declined."},
			})
		})

		adapter := NewStripeAdapter(config.StripeConfig{SecretKey: "sk_test_123", BaseURL: srv.URL}, srv.Client())
		resp := adapter.CreatePayment(ctx, testRequest(MethodStripe))

		assert.False(t, resp.Success)
		assert.Equal(t, StatusFailed, resp.Status)
		assert.Contains(t, resp.Error, "declined")
	})

	t.Run("Network failure is structured failure", func(t *testing.T) {
		adapter := NewStripeAdapter(config.StripeConfig{SecretKey: "sk_test_123", BaseURL: "http://127.0.0.1:1"}, &http.Client{})
		resp := adapter.CreatePayment(ctx, testRequest(MethodStripe))

		assert.False(t, resp.Success)
		assert.Equal(t, StatusFailed, resp.Status)
		assert.NotEmpty(t, resp.Error)
	})

	t.Run("Missing secret key", func(t *testing.T) {
		adapter := NewStripeAdapter(config.StripeConfig{}, &http.Client{})
		resp := adapter.CreatePayment(ctx, testRequest(MethodStripe))

		assert.False(t, resp.Success)
		assert.Contains(t, resp.Error, "credentials")
	})
}

func TestStripeAdapter_ConfirmPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("Succeeded maps to completed", func(t *testing.T) {
		srv := stripeServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/payment_intents/pi_123", r.URL.Path)
			json.NewEncoder(w).Encode(map[string]any{"id": "pi_123", "status": "succeeded"})
		})

		adapter := NewStripeAdapter(config.StripeConfig{SecretKey: "sk_test_123", BaseURL: srv.URL}, srv.Client())
		resp := adapter.ConfirmPayment(ctx, "pi_123")

		assert.True(t, resp.Success)
		assert.Equal(t, StatusCompleted, resp.Status)
	})

	t.Run("Anything else maps to failed", func(t *testing.T) {
		srv := stripeServer(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"id": "pi_123", "status": "requires_action"})
		})

		adapter := NewStripeAdapter(config.StripeConfig{SecretKey: "sk_test_123", BaseURL: srv.URL}, srv.Client())
		resp := adapter.ConfirmPayment(ctx, "pi_123")

		assert.False(t, resp.Success)
		assert.Equal(t, StatusFailed, resp.Status)
		assert.Contains(t, resp.Error, "requires_action")
	})
}
