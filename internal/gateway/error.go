package gateway

import "errors"

var (
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrInvalidCurrency    = errors.New("currency must be a 3-letter ISO code")
	ErrUnsupportedMethod  = errors.New("unsupported payment method")
	ErrMissingCredentials = errors.New("provider credentials not configured")
	ErrNoInstallmentPlan  = errors.New("no suitable installment plan")
)
