package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"

	"eventhub/internal/service"
	"eventhub/pkg/logger"
	"eventhub/prometheus"
)

// VerifyFunc turns a raw webhook payload and signature header into a
// verified event. Injected so tests can bypass real signature checks.
type VerifyFunc func(payload []byte, sigHeader string) (stripe.Event, error)

type WebhookHandler struct {
	registrations service.RegistrationService
	verify        VerifyFunc
}

func NewWebhookHandler(registrations service.RegistrationService, webhookSecret string) *WebhookHandler {
	return &WebhookHandler{
		registrations: registrations,
		verify: func(payload []byte, sigHeader string) (stripe.Event, error) {
			return webhook.ConstructEvent(payload, sigHeader, webhookSecret)
		},
	}
}

// NewWebhookHandlerWithVerify is the test seam
func NewWebhookHandlerWithVerify(registrations service.RegistrationService, verify VerifyFunc) *WebhookHandler {
	return &WebhookHandler{registrations: registrations, verify: verify}
}

// Handle receives payment provider events. Unverifiable payloads get 400;
// everything verified is acknowledged with 200 even when no registration
// matches, so the provider does not retry forever.
func (h *WebhookHandler) Handle(c echo.Context) error {
	log := logger.FromEcho(c)

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.String(http.StatusBadRequest, "failed to read body")
	}

	event, err := h.verify(payload, c.Request().Header.Get("Stripe-Signature"))
	if err != nil {
		log.Warn("Webhook signature verification failed", zap.Error(err))
		prometheus.RecordWebhook("invalid_signature")
		return c.String(http.StatusBadRequest, "invalid signature")
	}

	prometheus.RecordWebhook(string(event.Type))

	switch event.Type {
	case "payment_intent.succeeded":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			log.Error("Failed to decode payment intent payload", zap.Error(err))
			return c.String(http.StatusBadRequest, "malformed event payload")
		}
		err = h.registrations.HandlePaymentSucceeded(c.Request().Context(), intent.ID, intent.AmountReceived)
		if errors.Is(err, service.ErrRegistrationNotFound) {
			log.Warn("Webhook for unknown payment intent", zap.String("intent_id", intent.ID))
			return c.NoContent(http.StatusOK)
		}
		if err != nil {
			log.Error("Failed to apply payment success", zap.Error(err), zap.String("intent_id", intent.ID))
			return c.String(http.StatusInternalServerError, "processing failed")
		}
		log.Info("Payment succeeded", zap.String("intent_id", intent.ID))

	case "payment_intent.payment_failed":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			log.Error("Failed to decode payment intent payload", zap.Error(err))
			return c.String(http.StatusBadRequest, "malformed event payload")
		}
		err = h.registrations.HandlePaymentFailed(c.Request().Context(), intent.ID)
		if errors.Is(err, service.ErrRegistrationNotFound) {
			log.Warn("Webhook for unknown payment intent", zap.String("intent_id", intent.ID))
			return c.NoContent(http.StatusOK)
		}
		if err != nil {
			log.Error("Failed to apply payment failure", zap.Error(err), zap.String("intent_id", intent.ID))
			return c.String(http.StatusInternalServerError, "processing failed")
		}
		log.Info("Payment failed", zap.String("intent_id", intent.ID))

	default:
		// Acknowledge and ignore event types we do not act on
		log.Debug("Ignoring webhook event", zap.String("type", string(event.Type)))
	}

	return c.NoContent(http.StatusOK)
}

// RegisterRoutes mounts the webhook endpoint outside the authenticated API
func (h *WebhookHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/payments/webhook", h.Handle)
}
