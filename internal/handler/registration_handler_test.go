package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"eventhub/internal/dto"
	"eventhub/internal/model"
	"eventhub/internal/service"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = dto.NewValidator()
	return e
}

const createBody = `{
	"event_id": 1,
	"ticket_id": 10,
	"email": "ada@example.com",
	"first_name": "Ada",
	"last_name": "Lovelace"
}`

func TestCreateRegistration_FreeTicket(t *testing.T) {
	svc := &mockRegistrationService{
		registerFn: func(ctx context.Context, input service.RegisterInput) (*model.Registration, string, error) {
			assert.Equal(t, uint(1), input.EventID)
			assert.Equal(t, "ada@example.com", input.Email)
			assert.Nil(t, input.UserID, "anonymous request carries no user")
			return &model.Registration{ID: 5, EventID: 1, Status: model.RegistrationConfirmed}, "", nil
		},
	}
	h := NewRegistrationHandler(svc)

	e := newEcho()
	req := httptest.NewRequest(http.MethodPost, "/api/registrations", strings.NewReader(createBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := h.Create(e.NewContext(req, rec))

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.CreateRegistrationResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint(5), resp.Registration.ID)
	assert.Empty(t, resp.ClientSecret)
	assert.Equal(t, "registration confirmed", resp.Message)
}

func TestCreateRegistration_PaidTicketReturnsClientSecret(t *testing.T) {
	svc := &mockRegistrationService{
		registerFn: func(ctx context.Context, input service.RegisterInput) (*model.Registration, string, error) {
			return &model.Registration{ID: 5, Status: model.RegistrationPending}, "pi_secret", nil
		},
	}
	h := NewRegistrationHandler(svc)

	e := newEcho()
	req := httptest.NewRequest(http.MethodPost, "/api/registrations", strings.NewReader(createBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := h.Create(e.NewContext(req, rec))

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.CreateRegistrationResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "pi_secret", resp.ClientSecret)
	assert.Equal(t, "registration pending payment", resp.Message)
}

func TestCreateRegistration_ValidationFailure(t *testing.T) {
	h := NewRegistrationHandler(&mockRegistrationService{})

	e := newEcho()
	body := `{"event_id": 1, "ticket_id": 10, "email": "not-an-email", "first_name": "A", "last_name": "B"}`
	req := httptest.NewRequest(http.MethodPost, "/api/registrations", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := h.Create(e.NewContext(req, rec))

	var httpErr *echo.HTTPError
	assert.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestCreateRegistration_ErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"event not found", service.ErrEventNotFound, http.StatusNotFound},
		{"not published", service.ErrEventNotPublished, http.StatusBadRequest},
		{"sold out", service.ErrTicketSoldOut, http.StatusBadRequest},
		{"sale not started", service.ErrSaleNotStarted, http.StatusBadRequest},
		{"event full", service.ErrEventFull, http.StatusBadRequest},
		{"duplicate", service.ErrAlreadyRegistered, http.StatusBadRequest},
		{"provider down", service.ErrPaymentProvider, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockRegistrationService{
				registerFn: func(ctx context.Context, input service.RegisterInput) (*model.Registration, string, error) {
					return nil, "", tc.err
				},
			}
			h := NewRegistrationHandler(svc)

			e := newEcho()
			req := httptest.NewRequest(http.MethodPost, "/api/registrations", strings.NewReader(createBody))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()

			err := h.Create(e.NewContext(req, rec))

			assert.NoError(t, err)
			assert.Equal(t, tc.wantCode, rec.Code)
		})
	}
}

func TestConfirmPayment_Handler(t *testing.T) {
	svc := &mockRegistrationService{
		confirmPaymentFn: func(ctx context.Context, registrationID uint, intentID string) (*model.Registration, error) {
			assert.Equal(t, uint(5), registrationID)
			assert.Equal(t, "pi_123", intentID)
			return &model.Registration{ID: 5, Status: model.RegistrationConfirmed, PaymentStatus: model.PaymentPaid}, nil
		},
	}
	h := NewRegistrationHandler(svc)

	e := newEcho()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"payment_intent_id": "pi_123"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("5")

	err := h.ConfirmPayment(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestConfirmPayment_NotCompleted(t *testing.T) {
	svc := &mockRegistrationService{
		confirmPaymentFn: func(ctx context.Context, registrationID uint, intentID string) (*model.Registration, error) {
			return nil, service.ErrPaymentNotCompleted
		},
	}
	h := NewRegistrationHandler(svc)

	e := newEcho()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"payment_intent_id": "pi_123"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("5")

	err := h.ConfirmPayment(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
