package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

type MockJournal struct {
	mock.Mock
}

func (m *MockJournal) SaveWebhookEvent(ctx context.Context, provider, eventID, eventType, gatewayRef string, payload json.RawMessage, signatureValid bool) (int64, bool, error) {
	args := m.Called(ctx, provider, eventID, eventType, gatewayRef, payload, signatureValid)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockJournal) MarkWebhookProcessed(ctx context.Context, webhookID int64) error {
	args := m.Called(ctx, webhookID)
	return args.Error(0)
}

func (m *MockJournal) MarkWebhookFailed(ctx context.Context, webhookID int64, reason string) error {
	args := m.Called(ctx, webhookID, reason)
	return args.Error(0)
}

type MockUpdater struct {
	mock.Mock
}

func (m *MockUpdater) MarkAsPaid(ctx context.Context, gatewayRef, transactionID string) error {
	args := m.Called(ctx, gatewayRef, transactionID)
	return args.Error(0)
}

func (m *MockUpdater) MarkAsFailed(ctx context.Context, gatewayRef string) error {
	args := m.Called(ctx, gatewayRef)
	return args.Error(0)
}

// --- Helpers ---

func postForm(h http.Handler, fields map[string]string) *httptest.ResponseRecorder {
	form := url.Values{}
	for k, v := range fields {
		form.Set(k, v)
	}
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payhere", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestHandler_ServeHTTP(t *testing.T) {
	t.Run("Completed notification marks payment paid", func(t *testing.T) {
		journal := new(MockJournal)
		updater := new(MockUpdater)
		h := NewHandler(payhereVerifier(), journal, updater)

		fields := signedPayHereFields(t, nil)

		journal.On("SaveWebhookEvent", mock.Anything, "payhere", "320012345", "completed",
			"WP-20260830-0001", mock.Anything, true).Return(int64(7), false, nil)
		updater.On("MarkAsPaid", mock.Anything, "WP-20260830-0001", "320012345").Return(nil)
		journal.On("MarkWebhookProcessed", mock.Anything, int64(7)).Return(nil)

		rec := postForm(h, fields)

		assert.Equal(t, http.StatusOK, rec.Code)
		journal.AssertExpectations(t)
		updater.AssertExpectations(t)
	})

	t.Run("Failed notification marks payment failed", func(t *testing.T) {
		journal := new(MockJournal)
		updater := new(MockUpdater)
		h := NewHandler(payhereVerifier(), journal, updater)

		fields := signedPayHereFields(t, func(f map[string]string) {
			f["payment_status"] = "failed"
		})

		journal.On("SaveWebhookEvent", mock.Anything, "payhere", "320012345", "failed",
			"WP-20260830-0001", mock.Anything, true).Return(int64(8), false, nil)
		updater.On("MarkAsFailed", mock.Anything, "WP-20260830-0001").Return(nil)
		journal.On("MarkWebhookProcessed", mock.Anything, int64(8)).Return(nil)

		rec := postForm(h, fields)
		assert.Equal(t, http.StatusOK, rec.Code)
		updater.AssertExpectations(t)
	})

	t.Run("Invalid signature returns 400 and no state change", func(t *testing.T) {
		journal := new(MockJournal)
		updater := new(MockUpdater)
		h := NewHandler(payhereVerifier(), journal, updater)

		fields := signedPayHereFields(t, nil)
		fields["payhere_amount"] = "1.00"

		journal.On("SaveWebhookEvent", mock.Anything, "payhere", mock.Anything, StatusVerificationFailed,
			"", mock.Anything, false).Return(int64(9), false, nil)
		journal.On("MarkWebhookFailed", mock.Anything, int64(9), StatusVerificationFailed).Return(nil)

		rec := postForm(h, fields)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), StatusVerificationFailed)
		updater.AssertNotCalled(t, "MarkAsPaid", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Forged delivery cannot claim the event id", func(t *testing.T) {
		journal := new(MockJournal)
		updater := new(MockUpdater)
		h := NewHandler(payhereVerifier(), journal, updater)

		// A bad-hash notification carrying the victim's payment_id is
		// journaled under a fresh id, never under the provider's.
		forged := signedPayHereFields(t, nil)
		forged["hash"] = strings.Repeat("0", 32)

		freshID := mock.MatchedBy(func(id string) bool { return id != "320012345" })
		journal.On("SaveWebhookEvent", mock.Anything, "payhere", freshID, StatusVerificationFailed,
			"", mock.Anything, false).Return(int64(12), false, nil)
		journal.On("MarkWebhookFailed", mock.Anything, int64(12), StatusVerificationFailed).Return(nil)

		rec := postForm(h, forged)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		// The genuine signed delivery that follows still claims the
		// event id and completes the payment.
		journal.On("SaveWebhookEvent", mock.Anything, "payhere", "320012345", "completed",
			"WP-20260830-0001", mock.Anything, true).Return(int64(13), false, nil)
		updater.On("MarkAsPaid", mock.Anything, "WP-20260830-0001", "320012345").Return(nil)
		journal.On("MarkWebhookProcessed", mock.Anything, int64(13)).Return(nil)

		rec = postForm(h, signedPayHereFields(t, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		journal.AssertExpectations(t)
		updater.AssertExpectations(t)
	})

	t.Run("Duplicate delivery acknowledged with 200", func(t *testing.T) {
		journal := new(MockJournal)
		updater := new(MockUpdater)
		h := NewHandler(payhereVerifier(), journal, updater)

		journal.On("SaveWebhookEvent", mock.Anything, "payhere", "320012345", "completed",
			"WP-20260830-0001", mock.Anything, true).Return(int64(0), true, nil)

		rec := postForm(h, signedPayHereFields(t, nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "duplicate")
		updater.AssertNotCalled(t, "MarkAsPaid", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Journal error returns 500", func(t *testing.T) {
		journal := new(MockJournal)
		updater := new(MockUpdater)
		h := NewHandler(payhereVerifier(), journal, updater)

		journal.On("SaveWebhookEvent", mock.Anything, "payhere", "320012345", "completed",
			"WP-20260830-0001", mock.Anything, true).Return(int64(0), false, errors.New("db down"))

		rec := postForm(h, signedPayHereFields(t, nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("Updater error marks webhook failed", func(t *testing.T) {
		journal := new(MockJournal)
		updater := new(MockUpdater)
		h := NewHandler(payhereVerifier(), journal, updater)

		journal.On("SaveWebhookEvent", mock.Anything, "payhere", "320012345", "completed",
			"WP-20260830-0001", mock.Anything, true).Return(int64(10), false, nil)
		updater.On("MarkAsPaid", mock.Anything, "WP-20260830-0001", "320012345").Return(errors.New("payment not found"))
		journal.On("MarkWebhookFailed", mock.Anything, int64(10), "payment not found").Return(nil)

		rec := postForm(h, signedPayHereFields(t, nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		journal.AssertExpectations(t)
	})

	t.Run("Pending notification journals without transition", func(t *testing.T) {
		journal := new(MockJournal)
		updater := new(MockUpdater)
		h := NewHandler(payhereVerifier(), journal, updater)

		fields := signedPayHereFields(t, func(f map[string]string) {
			f["payment_status"] = "pending"
		})

		journal.On("SaveWebhookEvent", mock.Anything, "payhere", "320012345", "pending",
			"WP-20260830-0001", mock.Anything, true).Return(int64(11), false, nil)
		journal.On("MarkWebhookProcessed", mock.Anything, int64(11)).Return(nil)

		rec := postForm(h, fields)
		assert.Equal(t, http.StatusOK, rec.Code)
		updater.AssertNotCalled(t, "MarkAsPaid", mock.Anything, mock.Anything, mock.Anything)
		updater.AssertNotCalled(t, "MarkAsFailed", mock.Anything, mock.Anything)
	})
}
