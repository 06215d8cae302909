package payment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

type Repository interface {
	SavePayment(ctx context.Context, p *Payment) error
	UpdateStatusByGatewayRef(ctx context.Context, gatewayRef, status, transactionID string) error
	GetByOrderID(ctx context.Context, orderID string) (*Payment, error)

	SaveWebhookEvent(
		ctx context.Context,
		provider string,
		eventID string,
		eventType string,
		gatewayRef string,
		payload json.RawMessage,
		signatureValid bool,
	) (webhookID int64, isDuplicate bool, err error)

	MarkWebhookProcessed(ctx context.Context, webhookID int64) error
	MarkWebhookFailed(ctx context.Context, webhookID int64, reason string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SavePayment(ctx context.Context, p *Payment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payments (order_id,
		gateway_ref,
		provider,
		method,
		amount,
		currency,
		status,
		payment_url,
		transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		p.OrderID, p.GatewayRef, p.Provider, p.Method, p.Amount,
		p.Currency, p.Status, p.PaymentURL, p.TransactionID,
	)
	return err
}

func (r *repository) UpdateStatusByGatewayRef(ctx context.Context, gatewayRef, status, transactionID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET status = $1, transaction_id = $2, updated_at = now()
		WHERE gateway_ref = $3
	`, status, transactionID, gatewayRef)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: gateway_ref %s", ErrPaymentNotFound, gatewayRef)
	}
	return nil
}

func (r *repository) GetByOrderID(ctx context.Context, orderID string) (*Payment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, order_id, gateway_ref, provider, method, amount, currency, status, payment_url, transaction_id, created_at, updated_at
		FROM payments WHERE order_id = $1
	`, orderID)

	var p Payment
	err := row.Scan(
		&p.ID, &p.OrderID, &p.GatewayRef, &p.Provider, &p.Method,
		&p.Amount, &p.Currency, &p.Status, &p.PaymentURL, &p.TransactionID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) SaveWebhookEvent(
	ctx context.Context,
	provider string,
	eventID string,
	eventType string,
	gatewayRef string,
	payload json.RawMessage,
	signatureValid bool,
) (int64, bool, error) {

	const q = `
	INSERT INTO payment_webhooks (
		provider,
		event_type,
		event_id,
		gateway_ref,
		signature_valid,
		payload
	)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (provider, event_id)
	DO NOTHING
	RETURNING id;
	`

	var id int64
	err := r.db.QueryRowContext(
		ctx,
		q,
		provider,
		eventType,
		eventID,
		gatewayRef,
		signatureValid,
		payload,
	).Scan(&id)

	if err != nil {
		// Duplicate notification → idempotent success
		if errors.Is(err, sql.ErrNoRows) {
			return 0, true, nil
		}
		return 0, false, err
	}

	return id, false, nil
}

func (r *repository) MarkWebhookProcessed(ctx context.Context, webhookID int64) error {
	const q = `
	UPDATE payment_webhooks
	SET processed_at = now()
	WHERE id = $1;
	`

	_, err := r.db.ExecContext(ctx, q, webhookID)
	return err
}

func (r *repository) MarkWebhookFailed(ctx context.Context, webhookID int64, reason string) error {
	const q = `
	UPDATE payment_webhooks
	SET process_error = $2
	WHERE id = $1;
	`

	_, err := r.db.ExecContext(ctx, q, webhookID, reason)
	return err
}
