package gateway

import "fmt"

// PaymentMethod is the closed set of payment channels the marketplace
// supports. Dispatch over it is exhaustive; anything else is rejected
// with a structured failure.
type PaymentMethod string

const (
	MethodStripe       PaymentMethod = "stripe"
	MethodPayHere      PaymentMethod = "payhere"
	MethodEzCash       PaymentMethod = "ezcash"
	MethodMCash        PaymentMethod = "mcash"
	MethodBankTransfer PaymentMethod = "bank_transfer"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodStripe, MethodPayHere, MethodEzCash, MethodMCash, MethodBankTransfer:
		return true
	}
	return false
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// PaymentRequest is built by the caller per checkout attempt and
// consumed once. Metadata is opaque passthrough.
type PaymentRequest struct {
	OrderID       string            `json:"order_id"`
	Amount        float64           `json:"amount"`
	Currency      string            `json:"currency"`
	Description   string            `json:"description"`
	CustomerEmail string            `json:"customer_email"`
	CustomerName  string            `json:"customer_name,omitempty"`
	CustomerPhone string            `json:"customer_phone,omitempty"`
	Method        PaymentMethod     `json:"payment_method"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	ReturnURL     string            `json:"return_url,omitempty"`
	CancelURL     string            `json:"cancel_url,omitempty"`
}

func (r *PaymentRequest) Validate() error {
	if r.Amount <= 0 {
		return ErrInvalidAmount
	}
	if len(r.Currency) != 3 {
		return ErrInvalidCurrency
	}
	if !r.Method.Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedMethod, r.Method)
	}
	return nil
}

type PaymentResponse struct {
	Success    bool           `json:"success"`
	PaymentID  string         `json:"payment_id,omitempty"`
	Status     Status         `json:"status"`
	PaymentURL string         `json:"payment_url,omitempty"`
	Error      string         `json:"error,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// failure builds the structured failed response adapters return instead
// of surfacing errors to the HTTP layer.
func failure(format string, args ...any) *PaymentResponse {
	return &PaymentResponse{
		Success: false,
		Status:  StatusFailed,
		Error:   fmt.Sprintf(format, args...),
	}
}
