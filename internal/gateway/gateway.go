package gateway

import (
	"context"
	"net/http"
	"time"

	"weddinglk-payments/internal/config"
	"weddinglk-payments/internal/logger"

	"go.uber.org/zap"
)

// Gateway is the single entry point for charging a customer. It is
// constructed explicitly at the composition root with its credentials;
// there is no package-level instance and no ambient env access.
type Gateway struct {
	stripe  *StripeAdapter
	payhere *PayHereAdapter
	ezcash  *WalletAdapter
	mcash   *WalletAdapter
	bank    *BankTransferAdapter
	plans   []InstallmentPlan
}

// Option tweaks gateway construction; used by tests to swap endpoints
// and plan tables.
type Option func(*Gateway)

func WithPlans(plans []InstallmentPlan) Option {
	return func(g *Gateway) { g.plans = plans }
}

func New(cfg *config.Config, client *http.Client, opts ...Option) *Gateway {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	g := &Gateway{
		stripe:  NewStripeAdapter(cfg.Stripe, client),
		payhere: NewPayHereAdapter(cfg.PayHere),
		ezcash:  NewEzCashAdapter(cfg.EzCash),
		mcash:   NewMCashAdapter(cfg.MCash),
		bank:    NewBankTransferAdapter(cfg.BankTransfer),
		plans:   DefaultPlans,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ProcessPayment validates the request and dispatches to the adapter
// for its method. Every outcome, including an unknown method, is a
// structured PaymentResponse; nothing escapes as an error.
func (g *Gateway) ProcessPayment(ctx context.Context, req *PaymentRequest) *PaymentResponse {
	if req.Amount <= 0 {
		return failure("%v", ErrInvalidAmount)
	}
	if len(req.Currency) != 3 {
		return failure("%v", ErrInvalidCurrency)
	}

	log := logger.FromCtx(ctx).With(zap.String("method", string(req.Method)))

	var resp *PaymentResponse
	switch req.Method {
	case MethodStripe:
		resp = g.stripe.CreatePayment(ctx, req)
	case MethodPayHere:
		resp = g.payhere.CreatePayment(ctx, req)
	case MethodEzCash:
		resp = g.ezcash.CreatePayment(ctx, req)
	case MethodMCash:
		resp = g.mcash.CreatePayment(ctx, req)
	case MethodBankTransfer:
		resp = g.bank.CreatePayment(ctx, req)
	default:
		return failure("Unsupported payment method: %s", req.Method)
	}

	if resp.Success {
		log.Info("payment created", zap.String("payment_id", resp.PaymentID), zap.String("status", string(resp.Status)))
	} else {
		log.Warn("payment creation failed", zap.String("error", resp.Error))
	}
	return resp
}

// ConfirmPayment resolves the final state of a payment. Stripe intents
// are polled; redirect methods are confirmed exclusively through the
// provider webhook, so they get a synthetic completed response here.
func (g *Gateway) ConfirmPayment(ctx context.Context, paymentID string, method PaymentMethod) *PaymentResponse {
	switch method {
	case MethodStripe:
		return g.stripe.ConfirmPayment(ctx, paymentID)
	case MethodPayHere, MethodEzCash, MethodMCash, MethodBankTransfer:
		return &PaymentResponse{
			Success:   true,
			PaymentID: paymentID,
			Status:    StatusCompleted,
			Metadata:  map[string]any{"confirmed_via": "webhook"},
		}
	default:
		return failure("Unsupported payment method: %s", method)
	}
}

// Plans exposes the configured installment schedules.
func (g *Gateway) Plans() []InstallmentPlan {
	return g.plans
}
