package payment

import (
	"time"

	"weddinglk-payments/internal/gateway"
)

// Payment is one checkout attempt against a booking. GatewayRef is the
// provider-side reference (suffixed order id or Stripe intent id) that
// webhook notifications carry back.
type Payment struct {
	ID            uint
	OrderID       string
	GatewayRef    string
	Provider      string
	Method        string
	Amount        float64
	Currency      string
	Status        string
	PaymentURL    string
	TransactionID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CheckoutInput is what the booking flow supplies to start a payment.
type CheckoutInput struct {
	BookingID     string                `json:"booking_id"`
	Amount        float64               `json:"amount"`
	Currency      string                `json:"currency"`
	Description   string                `json:"description"`
	CustomerEmail string                `json:"customer_email"`
	CustomerName  string                `json:"customer_name,omitempty"`
	CustomerPhone string                `json:"customer_phone,omitempty"`
	Method        gateway.PaymentMethod `json:"payment_method"`
	Installments  int                   `json:"installments,omitempty"`
	ReturnURL     string                `json:"return_url,omitempty"`
	CancelURL     string                `json:"cancel_url,omitempty"`
	Metadata      map[string]string     `json:"metadata,omitempty"`
}

type CheckoutResult struct {
	OrderID     string                   `json:"order_id"`
	ReturnToken string                   `json:"return_token,omitempty"`
	Response    *gateway.PaymentResponse `json:"payment"`
}
