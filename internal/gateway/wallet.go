package gateway

import (
	"context"
	"fmt"
	"net/url"

	"weddinglk-payments/internal/config"
	"weddinglk-payments/internal/signature"
)

// WalletAdapter covers the mobile-wallet gateways (eZ Cash, mCash).
// Both take a signed flat parameter map and redirect the customer to a
// hosted payment page; they differ only in credentials, endpoint and
// the order-id suffix that keeps their transactions distinguishable.
type WalletAdapter struct {
	name   string
	suffix string
	cfg    config.WalletConfig
}

func NewEzCashAdapter(cfg config.WalletConfig) *WalletAdapter {
	return &WalletAdapter{name: "ezcash", suffix: "_EZCASH", cfg: cfg}
}

func NewMCashAdapter(cfg config.WalletConfig) *WalletAdapter {
	return &WalletAdapter{name: "mcash", suffix: "_MCASH", cfg: cfg}
}

func (a *WalletAdapter) CreatePayment(ctx context.Context, req *PaymentRequest) *PaymentResponse {
	if a.cfg.MerchantID == "" || a.cfg.APIKey == "" {
		return failure("%s: %v", a.name, ErrMissingCredentials)
	}

	orderID := req.OrderID + a.suffix

	params := map[string]string{
		"merchant_id": a.cfg.MerchantID,
		"order_id":    orderID,
		"amount":      fmt.Sprintf("%.2f", req.Amount),
		"currency":    req.Currency,
		"description": req.Description,
		"msisdn":      req.CustomerPhone,
		"email":       req.CustomerEmail,
		"return_url":  req.ReturnURL,
		"cancel_url":  req.CancelURL,
	}
	params["signature"] = signature.Sign(params, a.cfg.APIKey, signature.AlgHMACSHA256)

	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}

	return &PaymentResponse{
		Success:    true,
		PaymentID:  orderID,
		Status:     StatusPending,
		PaymentURL: a.cfg.BaseURL + "?" + q.Encode(),
		Metadata: map[string]any{
			"provider": a.name,
			"order_id": orderID,
		},
	}
}
