package payment

import "errors"

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrMissingBooking  = errors.New("booking id is required")
)
