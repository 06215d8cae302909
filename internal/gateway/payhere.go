package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"weddinglk-payments/internal/config"
	"weddinglk-payments/internal/signature"
)

const (
	payhereLiveCheckout    = "https://www.payhere.lk/pay/checkout"
	payhereSandboxCheckout = "https://sandbox.payhere.lk/pay/checkout"
)

// PayHereAdapter builds signed redirect URLs for PayHere hosted
// checkout. PayHere's merchant API mandates the uppercase-MD5 digest;
// that is a provider contract, not our choice.
type PayHereAdapter struct {
	cfg config.PayHereConfig
}

func NewPayHereAdapter(cfg config.PayHereConfig) *PayHereAdapter {
	return &PayHereAdapter{cfg: cfg}
}

func (a *PayHereAdapter) checkoutURL() string {
	if a.cfg.Sandbox {
		return payhereSandboxCheckout
	}
	return payhereLiveCheckout
}

func (a *PayHereAdapter) CreatePayment(ctx context.Context, req *PaymentRequest) *PaymentResponse {
	if a.cfg.MerchantID == "" || a.cfg.MerchantSecret == "" {
		return failure("payhere: %v", ErrMissingCredentials)
	}

	firstName, lastName := splitName(req.CustomerName)

	params := map[string]string{
		"merchant_id": a.cfg.MerchantID,
		"order_id":    req.OrderID,
		"items":       req.Description,
		"amount":      fmt.Sprintf("%.2f", req.Amount),
		"currency":    req.Currency,
		"first_name":  firstName,
		"last_name":   lastName,
		"email":       req.CustomerEmail,
		"phone":       req.CustomerPhone,
		"return_url":  req.ReturnURL,
		"cancel_url":  req.CancelURL,
		"notify_url":  a.cfg.NotifyURL,
	}
	if v, ok := req.Metadata["custom_1"]; ok {
		params["custom_1"] = v
	}
	if v, ok := req.Metadata["custom_2"]; ok {
		params["custom_2"] = v
	}

	params["hash"] = signature.Sign(params, a.cfg.MerchantSecret, signature.AlgMD5Upper)

	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}

	return &PaymentResponse{
		Success:    true,
		PaymentID:  req.OrderID,
		Status:     StatusPending,
		PaymentURL: a.checkoutURL() + "?" + q.Encode(),
		Metadata: map[string]any{
			"order_id": req.OrderID,
			"sandbox":  a.cfg.Sandbox,
		},
	}
}

func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
