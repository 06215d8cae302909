package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"weddinglk-payments/internal/config"
	"weddinglk-payments/internal/logger"

	"go.uber.org/zap"
)

// StripeAdapter talks to the Stripe payment-intent API. Payment is
// confirmed by polling the intent, not by webhook.
type StripeAdapter struct {
	cfg    config.StripeConfig
	client *http.Client
}

func NewStripeAdapter(cfg config.StripeConfig, client *http.Client) *StripeAdapter {
	return &StripeAdapter{cfg: cfg, client: client}
}

type stripeIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Error        *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (a *StripeAdapter) CreatePayment(ctx context.Context, req *PaymentRequest) *PaymentResponse {
	if a.cfg.SecretKey == "" {
		return failure("stripe: %v", ErrMissingCredentials)
	}

	form := url.Values{}
	// Stripe wants the amount in minor units and the currency lowercased.
	form.Set("amount", strconv.FormatInt(int64(math.Round(req.Amount*100)), 10))
	form.Set("currency", strings.ToLower(req.Currency))
	form.Set("description", req.Description)
	form.Set("receipt_email", req.CustomerEmail)
	form.Set("metadata[order_id]", req.OrderID)
	for k, v := range req.Metadata {
		form.Set("metadata["+k+"]", v)
	}

	intent, err := a.do(ctx, http.MethodPost, "/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return failure("stripe: create payment intent: %v", err)
	}
	if intent.Error != nil {
		return failure("stripe: %s", intent.Error.Message)
	}

	logger.FromCtx(ctx).Debug("stripe payment intent created",
		zap.String("intent_id", intent.ID),
		zap.String("order_id", req.OrderID),
	)

	return &PaymentResponse{
		Success:   true,
		PaymentID: intent.ID,
		Status:    StatusPending,
		Metadata: map[string]any{
			"client_secret": intent.ClientSecret,
			"order_id":      req.OrderID,
		},
	}
}

// ConfirmPayment polls the intent and maps Stripe's terminal states onto
// ours. Only "succeeded" counts as completed.
func (a *StripeAdapter) ConfirmPayment(ctx context.Context, paymentID string) *PaymentResponse {
	if a.cfg.SecretKey == "" {
		return failure("stripe: %v", ErrMissingCredentials)
	}

	intent, err := a.do(ctx, http.MethodGet, "/v1/payment_intents/"+url.PathEscape(paymentID), nil)
	if err != nil {
		return failure("stripe: confirm payment: %v", err)
	}
	if intent.Error != nil {
		return failure("stripe: %s", intent.Error.Message)
	}

	if intent.Status == "succeeded" {
		return &PaymentResponse{
			Success:   true,
			PaymentID: intent.ID,
			Status:    StatusCompleted,
		}
	}
	return &PaymentResponse{
		Success:   false,
		PaymentID: intent.ID,
		Status:    StatusFailed,
		Error:     fmt.Sprintf("stripe: payment not completed (status %q)", intent.Status),
	}
}

func (a *StripeAdapter) do(ctx context.Context, method, path string, body io.Reader) (*stripeIntent, error) {
	httpReq, err := http.NewRequestWithContext(ctx, method, a.cfg.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+a.cfg.SecretKey)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	var intent stripeIntent
	if err := json.Unmarshal(raw, &intent); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= 400 && intent.Error == nil {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return &intent, nil
}
