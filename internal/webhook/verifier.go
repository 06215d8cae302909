package webhook

import (
	"strconv"

	"weddinglk-payments/internal/config"
	"weddinglk-payments/internal/signature"
)

// StatusVerificationFailed is reported whenever the notification cannot
// be trusted: bad signature, unparsable amount, missing fields.
const StatusVerificationFailed = "verification_failed"

// Result is what the verifier hands back for every notification. It is
// always populated; verification problems never surface as errors.
type Result struct {
	IsValid       bool
	PaymentStatus string
	OrderID       string
	Amount        float64
	TransactionID string
}

// Verifier recomputes the provider signature over a notification's
// fields and normalizes the interesting ones.
type Verifier struct {
	provider string
	secret   string
	alg      signature.Algorithm
}

func NewPayHereVerifier(cfg config.PayHereConfig) *Verifier {
	return &Verifier{provider: "payhere", secret: cfg.MerchantSecret, alg: signature.AlgMD5Upper}
}

func NewWalletVerifier(provider string, cfg config.WalletConfig) *Verifier {
	return &Verifier{provider: provider, secret: cfg.APIKey, alg: signature.AlgHMACSHA256}
}

func (v *Verifier) Provider() string {
	return v.provider
}

// Verify checks the digest the provider supplied against a recomputed
// one over the same field set. Any inconsistency yields an invalid
// result rather than an error.
func (v *Verifier) Verify(fields map[string]string) Result {
	invalid := Result{IsValid: false, PaymentStatus: StatusVerificationFailed}

	provided := fields["hash"]
	if provided == "" {
		provided = fields["signature"]
	}
	if provided == "" {
		provided = fields["md5sig"]
	}

	if v.secret == "" || !signature.Verify(fields, v.secret, v.alg, provided) {
		return invalid
	}

	orderID := fields["order_id"]
	if orderID == "" {
		return invalid
	}

	rawAmount := fields["payhere_amount"]
	if rawAmount == "" {
		rawAmount = fields["amount"]
	}
	amount, err := strconv.ParseFloat(rawAmount, 64)
	if err != nil {
		return invalid
	}

	status := fields["payment_status"]
	if status == "" {
		status = statusFromCode(fields["status_code"])
	}
	if status == "" {
		return invalid
	}

	txID := fields["payment_id"]
	if txID == "" {
		txID = fields["transaction_id"]
	}

	return Result{
		IsValid:       true,
		PaymentStatus: status,
		OrderID:       orderID,
		Amount:        amount,
		TransactionID: txID,
	}
}

// statusFromCode maps PayHere's numeric status codes onto our states.
func statusFromCode(code string) string {
	switch code {
	case "2":
		return "completed"
	case "0":
		return "pending"
	case "-1":
		return "cancelled"
	case "-2":
		return "failed"
	case "-3":
		return "chargedback"
	default:
		return ""
	}
}
