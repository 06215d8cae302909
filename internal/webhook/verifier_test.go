package webhook

import (
	"testing"

	"weddinglk-payments/internal/config"
	"weddinglk-payments/internal/signature"

	"github.com/stretchr/testify/assert"
)

func payhereVerifier() *Verifier {
	return NewPayHereVerifier(config.PayHereConfig{MerchantSecret: "payhere-secret"})
}

func signedPayHereFields(t *testing.T, mutate func(map[string]string)) map[string]string {
	t.Helper()
	fields := map[string]string{
		"merchant_id":    "1211149",
		"order_id":       "WP-20260830-0001",
		"payment_id":     "320012345",
		"payhere_amount": "25000.00",
		"currency":       "LKR",
		"payment_status": "completed",
	}
	if mutate != nil {
		mutate(fields)
	}
	fields["hash"] = signature.Sign(fields, "payhere-secret", signature.AlgMD5Upper)
	return fields
}

func TestVerifier_Verify(t *testing.T) {
	v := payhereVerifier()

	t.Run("Valid notification", func(t *testing.T) {
		result := v.Verify(signedPayHereFields(t, nil))

		assert.True(t, result.IsValid)
		assert.Equal(t, "completed", result.PaymentStatus)
		assert.Equal(t, "WP-20260830-0001", result.OrderID)
		assert.Equal(t, float64(25000), result.Amount)
		assert.Equal(t, "320012345", result.TransactionID)
	})

	t.Run("Hash mismatch", func(t *testing.T) {
		fields := signedPayHereFields(t, nil)
		fields["payhere_amount"] = "1.00" // tampered after signing

		result := v.Verify(fields)
		assert.False(t, result.IsValid)
		assert.Equal(t, StatusVerificationFailed, result.PaymentStatus)
	})

	t.Run("Missing hash", func(t *testing.T) {
		fields := signedPayHereFields(t, nil)
		delete(fields, "hash")

		result := v.Verify(fields)
		assert.False(t, result.IsValid)
		assert.Equal(t, StatusVerificationFailed, result.PaymentStatus)
	})

	t.Run("Unparsable amount", func(t *testing.T) {
		fields := signedPayHereFields(t, func(f map[string]string) {
			f["payhere_amount"] = "twenty-five"
		})

		result := v.Verify(fields)
		assert.False(t, result.IsValid)
		assert.Equal(t, StatusVerificationFailed, result.PaymentStatus)
	})

	t.Run("Missing order id", func(t *testing.T) {
		fields := signedPayHereFields(t, func(f map[string]string) {
			delete(f, "order_id")
		})

		result := v.Verify(fields)
		assert.False(t, result.IsValid)
	})

	t.Run("Status code fallback", func(t *testing.T) {
		fields := signedPayHereFields(t, func(f map[string]string) {
			delete(f, "payment_status")
			f["status_code"] = "2"
		})

		result := v.Verify(fields)
		assert.True(t, result.IsValid)
		assert.Equal(t, "completed", result.PaymentStatus)
	})

	t.Run("Cancelled status code", func(t *testing.T) {
		fields := signedPayHereFields(t, func(f map[string]string) {
			delete(f, "payment_status")
			f["status_code"] = "-1"
		})

		result := v.Verify(fields)
		assert.True(t, result.IsValid)
		assert.Equal(t, "cancelled", result.PaymentStatus)
	})

	t.Run("Unconfigured secret never validates", func(t *testing.T) {
		bare := NewPayHereVerifier(config.PayHereConfig{})
		result := bare.Verify(signedPayHereFields(t, nil))
		assert.False(t, result.IsValid)
	})
}

func TestWalletVerifier(t *testing.T) {
	v := NewWalletVerifier("ezcash", config.WalletConfig{APIKey: "ez-key"})

	fields := map[string]string{
		"order_id":       "WP-20260830-0001_EZCASH",
		"transaction_id": "EZTX-9",
		"amount":         "12500.00",
		"payment_status": "completed",
	}
	fields["signature"] = signature.Sign(fields, "ez-key", signature.AlgHMACSHA256)

	t.Run("Valid", func(t *testing.T) {
		result := v.Verify(fields)
		assert.True(t, result.IsValid)
		assert.Equal(t, "WP-20260830-0001_EZCASH", result.OrderID)
		assert.Equal(t, "EZTX-9", result.TransactionID)
		assert.Equal(t, float64(12500), result.Amount)
	})

	t.Run("Wrong key", func(t *testing.T) {
		other := NewWalletVerifier("ezcash", config.WalletConfig{APIKey: "wrong"})
		result := other.Verify(fields)
		assert.False(t, result.IsValid)
	})
}
