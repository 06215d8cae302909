package gateway

import (
	"context"
	"fmt"
	"strings"

	"weddinglk-payments/internal/config"

	"github.com/google/uuid"
)

// BankTransferAdapter issues no outbound call. It hands the customer
// the marketplace's bank details plus a deposit reference, and the
// payment stays pending until finance reconciles the transfer.
type BankTransferAdapter struct {
	cfg config.BankTransferConfig
}

func NewBankTransferAdapter(cfg config.BankTransferConfig) *BankTransferAdapter {
	return &BankTransferAdapter{cfg: cfg}
}

func (a *BankTransferAdapter) CreatePayment(ctx context.Context, req *PaymentRequest) *PaymentResponse {
	if a.cfg.AccountNumber == "" {
		return failure("bank_transfer: %v", ErrMissingCredentials)
	}

	orderID := req.OrderID + "_BANK"
	reference := strings.ToUpper(strings.ReplaceAll(uuid.New().String()[:13], "-", ""))

	details := map[string]string{
		"amount":            fmt.Sprintf("%.2f", req.Amount),
		"currency":          req.Currency,
		"deposit_reference": reference,
		"bank_name":         a.cfg.BankName,
		"account_name":      a.cfg.AccountName,
		"account_number":    a.cfg.AccountNumber,
		"branch_code":       a.cfg.BranchCode,
	}

	return &PaymentResponse{
		Success:   true,
		PaymentID: orderID,
		Status:    StatusPending,
		Metadata: map[string]any{
			"order_id":          orderID,
			"deposit_reference": reference,
			"bank_name":         a.cfg.BankName,
			"account_name":      a.cfg.AccountName,
			"account_number":    a.cfg.AccountNumber,
			"branch_code":       a.cfg.BranchCode,
			"instructions":      Instructions(MethodBankTransfer, details),
		},
	}
}
