package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"weddinglk-payments/internal/payment"
	"weddinglk-payments/internal/utils"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the payment service over REST.
type Handler struct {
	payments payment.Service
}

func NewHandler(payments payment.Service) *Handler {
	return &Handler{payments: payments}
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var input payment.CheckoutInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	// This route is full payment only; installments have their own.
	input.Installments = 0

	h.respondCheckout(w, r, input)
}

func (h *Handler) InstallmentCheckout(w http.ResponseWriter, r *http.Request) {
	var input payment.CheckoutInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if input.Installments <= 0 {
		utils.WriteJSONError(w, "installments must be greater than zero", http.StatusBadRequest)
		return
	}

	h.respondCheckout(w, r, input)
}

func (h *Handler) respondCheckout(w http.ResponseWriter, r *http.Request, input payment.CheckoutInput) {
	result, err := h.payments.Checkout(r.Context(), input)
	if err != nil {
		if errors.Is(err, payment.ErrMissingBooking) {
			utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		utils.WriteJSONError(w, "failed to create payment", http.StatusInternalServerError)
		return
	}

	// Gateway-level rejections are structured results, not errors; the
	// client gets the reason with a 422.
	if !result.Response.Success {
		utils.WriteJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) PaymentStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	p, err := h.payments.GetStatus(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, payment.ErrPaymentNotFound) {
			utils.WriteJSONError(w, "payment not found", http.StatusNotFound)
			return
		}
		utils.WriteJSONError(w, "failed to load payment", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"order_id":       p.OrderID,
		"gateway_ref":    p.GatewayRef,
		"provider":       p.Provider,
		"amount":         p.Amount,
		"currency":       p.Currency,
		"status":         p.Status,
		"transaction_id": p.TransactionID,
		"created_at":     p.CreatedAt,
		"updated_at":     p.UpdatedAt,
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
