package payment

import (
	"context"
	"fmt"

	"weddinglk-payments/internal/gateway"
	"weddinglk-payments/internal/logger"
	"weddinglk-payments/internal/metrics"
	"weddinglk-payments/internal/utils"

	"go.uber.org/zap"
)

// PaymentGateway is the slice of the gateway facade this service needs.
type PaymentGateway interface {
	ProcessPayment(ctx context.Context, req *gateway.PaymentRequest) *gateway.PaymentResponse
	CreateInstallmentPayment(ctx context.Context, req *gateway.PaymentRequest, installments int) *gateway.PaymentResponse
	ConfirmPayment(ctx context.Context, paymentID string, method gateway.PaymentMethod) *gateway.PaymentResponse
}

// TokenIssuer signs the return token appended to the post-payment
// redirect so the landing page can trust the checkout context.
type TokenIssuer interface {
	IssueReturnToken(orderID string, amount float64, method string) (string, error)
}

type Service interface {
	Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error)
	GetStatus(ctx context.Context, orderID string) (*Payment, error)
	MarkAsPaid(ctx context.Context, gatewayRef, transactionID string) error
	MarkAsFailed(ctx context.Context, gatewayRef string) error
}

type service struct {
	repo   Repository
	gate   PaymentGateway
	tokens TokenIssuer
}

func NewService(repo Repository, gate PaymentGateway, tokens TokenIssuer) Service {
	return &service{repo: repo, gate: gate, tokens: tokens}
}

func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	if input.BookingID == "" {
		return nil, ErrMissingBooking
	}

	orderID := utils.GenerateOrderNumber()
	ctx = logger.WithOrderID(ctx, orderID)

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("booking_id", input.BookingID),
		zap.String("method", string(input.Method)),
	)

	req := &gateway.PaymentRequest{
		OrderID:       orderID,
		Amount:        input.Amount,
		Currency:      input.Currency,
		Description:   input.Description,
		CustomerEmail: input.CustomerEmail,
		CustomerName:  input.CustomerName,
		CustomerPhone: input.CustomerPhone,
		Method:        input.Method,
		Metadata:      input.Metadata,
		ReturnURL:     input.ReturnURL,
		CancelURL:     input.CancelURL,
	}

	var resp *gateway.PaymentResponse
	if input.Installments > 0 {
		resp = s.gate.CreateInstallmentPayment(ctx, req, input.Installments)
	} else {
		resp = s.gate.ProcessPayment(ctx, req)
	}

	metrics.ObservePayment(string(input.Method), string(resp.Status), input.Amount)

	result := &CheckoutResult{OrderID: orderID, Response: resp}
	if !resp.Success {
		log.Warn("checkout rejected by gateway", zap.String("error", resp.Error))
		return result, nil
	}

	p := &Payment{
		OrderID:    orderID,
		GatewayRef: resp.PaymentID,
		Provider:   string(input.Method),
		Method:     string(input.Method),
		Amount:     input.Amount,
		Currency:   input.Currency,
		Status:     string(resp.Status),
		PaymentURL: resp.PaymentURL,
	}
	if err := s.repo.SavePayment(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	token, err := s.tokens.IssueReturnToken(orderID, input.Amount, string(input.Method))
	if err != nil {
		// The payment is already created; a broken token only degrades
		// the return page, so log and continue.
		log.Error("failed to issue return token", zap.Error(err))
	} else {
		result.ReturnToken = token
	}

	log.Info("checkout created", zap.String("gateway_ref", resp.PaymentID))
	return result, nil
}

func (s *service) GetStatus(ctx context.Context, orderID string) (*Payment, error) {
	return s.repo.GetByOrderID(ctx, orderID)
}

func (s *service) MarkAsPaid(ctx context.Context, gatewayRef, transactionID string) error {
	err := s.repo.UpdateStatusByGatewayRef(ctx, gatewayRef, string(gateway.StatusCompleted), transactionID)
	if err != nil {
		return err
	}
	logger.FromCtx(ctx).Info("payment completed",
		zap.String("gateway_ref", gatewayRef),
		zap.String("transaction_id", transactionID),
	)
	return nil
}

func (s *service) MarkAsFailed(ctx context.Context, gatewayRef string) error {
	return s.repo.UpdateStatusByGatewayRef(ctx, gatewayRef, string(gateway.StatusFailed), "")
}
