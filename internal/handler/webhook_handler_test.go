package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v82"

	"eventhub/internal/service"
)

func postWebhook(h *WebhookHandler) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", strings.NewReader(`{}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=sig")
	rec := httptest.NewRecorder()
	_ = h.Handle(e.NewContext(req, rec))
	return rec
}

func TestWebhook_InvalidSignatureRejected(t *testing.T) {
	h := NewWebhookHandlerWithVerify(&mockRegistrationService{}, func(payload []byte, sigHeader string) (stripe.Event, error) {
		return stripe.Event{}, errors.New("signature mismatch")
	})

	rec := postWebhook(h)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhook_PaymentSucceededApplied(t *testing.T) {
	var gotIntent string
	var gotAmount int64
	svc := &mockRegistrationService{
		handlePaymentSucceededFn: func(ctx context.Context, intentID string, amountMinor int64) error {
			gotIntent = intentID
			gotAmount = amountMinor
			return nil
		},
	}
	h := NewWebhookHandlerWithVerify(svc, func(payload []byte, sigHeader string) (stripe.Event, error) {
		return stripe.Event{
			Type: "payment_intent.succeeded",
			Data: &stripe.EventData{Raw: []byte(`{"id": "pi_123", "amount_received": 2500}`)},
		}, nil
	})

	rec := postWebhook(h)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pi_123", gotIntent)
	assert.Equal(t, int64(2500), gotAmount)
}

func TestWebhook_PaymentFailedApplied(t *testing.T) {
	var gotIntent string
	svc := &mockRegistrationService{
		handlePaymentFailedFn: func(ctx context.Context, intentID string) error {
			gotIntent = intentID
			return nil
		},
	}
	h := NewWebhookHandlerWithVerify(svc, func(payload []byte, sigHeader string) (stripe.Event, error) {
		return stripe.Event{
			Type: "payment_intent.payment_failed",
			Data: &stripe.EventData{Raw: []byte(`{"id": "pi_456"}`)},
		}, nil
	})

	rec := postWebhook(h)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pi_456", gotIntent)
}

func TestWebhook_UnknownIntentStillAcknowledged(t *testing.T) {
	svc := &mockRegistrationService{
		handlePaymentSucceededFn: func(ctx context.Context, intentID string, amountMinor int64) error {
			return service.ErrRegistrationNotFound
		},
	}
	h := NewWebhookHandlerWithVerify(svc, func(payload []byte, sigHeader string) (stripe.Event, error) {
		return stripe.Event{
			Type: "payment_intent.succeeded",
			Data: &stripe.EventData{Raw: []byte(`{"id": "pi_unknown"}`)},
		}, nil
	})

	rec := postWebhook(h)

	// 200 so the provider stops retrying an event we can never match
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhook_UnhandledEventTypeIgnored(t *testing.T) {
	h := NewWebhookHandlerWithVerify(&mockRegistrationService{}, func(payload []byte, sigHeader string) (stripe.Event, error) {
		return stripe.Event{
			Type: "charge.refunded",
			Data: &stripe.EventData{Raw: []byte(`{}`)},
		}, nil
	})

	rec := postWebhook(h)

	assert.Equal(t, http.StatusOK, rec.Code)
}
