package webhook

import (
	"context"
	"encoding/json"
	"net/http"

	"weddinglk-payments/internal/logger"
	"weddinglk-payments/internal/metrics"
	"weddinglk-payments/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Journal is the slice of the payment repository the handler needs to
// record and deduplicate notifications.
type Journal interface {
	SaveWebhookEvent(ctx context.Context, provider, eventID, eventType, gatewayRef string, payload json.RawMessage, signatureValid bool) (int64, bool, error)
	MarkWebhookProcessed(ctx context.Context, webhookID int64) error
	MarkWebhookFailed(ctx context.Context, webhookID int64, reason string) error
}

// StatusUpdater transitions the payment a verified notification refers to.
type StatusUpdater interface {
	MarkAsPaid(ctx context.Context, gatewayRef, transactionID string) error
	MarkAsFailed(ctx context.Context, gatewayRef string) error
}

type Handler struct {
	verifier *Verifier
	journal  Journal
	payments StatusUpdater
}

func NewHandler(verifier *Verifier, journal Journal, payments StatusUpdater) *Handler {
	return &Handler{verifier: verifier, journal: journal, payments: payments}
}

// ServeHTTP receives a form-encoded provider notification. Invalid
// signatures get a 400; everything else is acknowledged with 200 so the
// provider stops retrying, including duplicates.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromCtx(ctx).With(zap.String("provider", h.verifier.Provider()))

	if err := r.ParseForm(); err != nil {
		metrics.ObserveWebhook(h.verifier.Provider(), "malformed")
		utils.WriteJSONError(w, "malformed notification body", http.StatusBadRequest)
		return
	}

	fields := make(map[string]string, len(r.PostForm))
	for k := range r.PostForm {
		fields[k] = r.PostForm.Get(k)
	}

	result := h.verifier.Verify(fields)

	// Journal every notification, valid or not; the event id keyed on
	// provider makes redelivery idempotent. Only verified notifications
	// may claim the provider's event id: the fields are attacker
	// controllable until the signature checks out, and a forged delivery
	// must not make the genuine one look like a duplicate.
	eventID := uuid.New().String()
	if result.IsValid {
		if id := fields["payment_id"]; id != "" {
			eventID = id
		} else if id := fields["order_id"]; id != "" {
			eventID = id
		}
	}

	payload, _ := json.Marshal(fields)
	webhookID, duplicate, err := h.journal.SaveWebhookEvent(
		ctx, h.verifier.Provider(), eventID, result.PaymentStatus, result.OrderID, payload, result.IsValid,
	)
	if err != nil {
		log.Error("failed to journal webhook", zap.Error(err))
		utils.WriteJSONError(w, "internal error", http.StatusInternalServerError)
		return
	}
	if duplicate {
		metrics.ObserveWebhook(h.verifier.Provider(), "duplicate")
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "duplicate"})
		return
	}

	if !result.IsValid {
		metrics.ObserveWebhook(h.verifier.Provider(), "invalid_signature")
		log.Warn("webhook signature mismatch", zap.String("event_id", eventID))
		_ = h.journal.MarkWebhookFailed(ctx, webhookID, StatusVerificationFailed)
		utils.WriteJSONError(w, StatusVerificationFailed, http.StatusBadRequest)
		return
	}

	ctx = logger.WithOrderID(ctx, result.OrderID)
	if err := h.applyTransition(ctx, result); err != nil {
		metrics.ObserveWebhook(h.verifier.Provider(), "process_error")
		log.Error("failed to apply webhook", zap.Error(err), zap.String("order_id", result.OrderID))
		_ = h.journal.MarkWebhookFailed(ctx, webhookID, err.Error())
		utils.WriteJSONError(w, "failed to process notification", http.StatusInternalServerError)
		return
	}

	_ = h.journal.MarkWebhookProcessed(ctx, webhookID)
	metrics.ObserveWebhook(h.verifier.Provider(), "processed")
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) applyTransition(ctx context.Context, result Result) error {
	switch result.PaymentStatus {
	case "completed":
		return h.payments.MarkAsPaid(ctx, result.OrderID, result.TransactionID)
	case "failed", "cancelled", "chargedback":
		return h.payments.MarkAsFailed(ctx, result.OrderID)
	default:
		// pending and friends carry no state change
		return nil
	}
}
