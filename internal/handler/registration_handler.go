package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"eventhub/internal/dto"
	"eventhub/internal/middleware"
	"eventhub/internal/model"
	"eventhub/internal/service"
	"eventhub/pkg/logger"
	"eventhub/prometheus"
)

type RegistrationHandler struct {
	registrations service.RegistrationService
}

func NewRegistrationHandler(registrations service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations}
}

// Create is the public registration endpoint. Anonymous guests register by
// email; an authenticated attendee's registration is linked to their account.
func (h *RegistrationHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	var req dto.CreateRegistrationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := service.RegisterInput{
		EventID:   req.EventID,
		TicketID:  req.TicketID,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}
	if actor := middleware.ActorFromEcho(c); actor != nil {
		input.UserID = &actor.ID
	}

	reg, clientSecret, err := h.registrations.Register(c.Request().Context(), input)
	if err != nil {
		return h.mapRegisterError(c, err)
	}

	resp := dto.CreateRegistrationResponse{Registration: reg, ClientSecret: clientSecret}
	if reg.Status == model.RegistrationConfirmed {
		prometheus.RecordRegistration("confirmed")
		resp.Message = "registration confirmed"
	} else {
		prometheus.RecordRegistration("pending_payment")
		prometheus.PaymentIntentCounter.Inc()
		resp.Message = "registration pending payment"
	}

	log.Info("Registration created",
		zap.Uint("registration_id", reg.ID),
		zap.Uint("event_id", reg.EventID),
		zap.String("status", string(reg.Status)))
	return c.JSON(http.StatusCreated, resp)
}

func (h *RegistrationHandler) mapRegisterError(c echo.Context, err error) error {
	log := logger.FromEcho(c)

	switch {
	case errors.Is(err, service.ErrEventNotFound),
		errors.Is(err, service.ErrTicketNotFound):
		prometheus.RecordRegistration("rejected")
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrEventNotPublished),
		errors.Is(err, service.ErrTicketUnavailable),
		errors.Is(err, service.ErrTicketSoldOut),
		errors.Is(err, service.ErrSaleNotStarted),
		errors.Is(err, service.ErrSaleEnded),
		errors.Is(err, service.ErrEventFull),
		errors.Is(err, service.ErrAlreadyRegistered):
		prometheus.RecordRegistration("rejected")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrPaymentProvider):
		prometheus.RecordRegistration("error")
		log.Error("Payment provider error during registration", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment provider unavailable"})
	default:
		prometheus.RecordRegistration("error")
		log.Error("Registration failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}
}

// ConfirmPayment lets the frontend reconcile a registration immediately after
// the charge completes, without waiting for the webhook
func (h *RegistrationHandler) ConfirmPayment(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid registration id"})
	}

	var req dto.ConfirmPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	reg, err := h.registrations.ConfirmPayment(c.Request().Context(), id, req.PaymentIntentID)
	switch {
	case errors.Is(err, service.ErrRegistrationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrIntentMismatch):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrPaymentNotCompleted):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrPaymentProvider):
		log.Error("Payment provider error during confirmation", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment provider unavailable"})
	case err != nil:
		log.Error("Payment confirmation failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "confirmation failed"})
	}

	log.Info("Payment confirmed", zap.Uint("registration_id", reg.ID))
	return c.JSON(http.StatusOK, reg)
}

// MyRegistrations lists the authenticated attendee's own registrations
func (h *RegistrationHandler) MyRegistrations(c echo.Context) error {
	actor := middleware.ActorFromEcho(c)

	regs, err := h.registrations.ListForUser(c.Request().Context(), actor.ID)
	if err != nil {
		logger.FromEcho(c).Error("Failed to list registrations", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load registrations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"registrations": regs})
}

func (h *RegistrationHandler) Get(c echo.Context) error {
	actor := middleware.ActorFromEcho(c)

	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid registration id"})
	}

	reg, err := h.registrations.Get(c.Request().Context(), id, actor.ID, actor.Role, actor.TenantID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "registration not found"})
	}
	return c.JSON(http.StatusOK, reg)
}

// ListForEvent returns all registrations of one event, for staff
func (h *RegistrationHandler) ListForEvent(c echo.Context) error {
	actor := middleware.ActorFromEcho(c)

	eventID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	regs, err := h.registrations.ListForEvent(c.Request().Context(), eventID, actor.TenantID)
	if errors.Is(err, service.ErrEventNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	}
	if err != nil {
		logger.FromEcho(c).Error("Failed to list event registrations", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load registrations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"registrations": regs})
}

func (h *RegistrationHandler) UpdateStatus(c echo.Context) error {
	log := logger.FromEcho(c)
	actor := middleware.ActorFromEcho(c)

	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid registration id"})
	}

	var req dto.UpdateRegistrationStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	reg, err := h.registrations.UpdateStatus(c.Request().Context(), id, actor.TenantID, model.RegistrationStatus(req.Status))
	if errors.Is(err, service.ErrRegistrationNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "registration not found"})
	}
	if err != nil {
		log.Error("Failed to update registration status", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update status"})
	}

	log.Info("Registration status updated",
		zap.Uint("registration_id", reg.ID),
		zap.String("status", string(reg.Status)))
	return c.JSON(http.StatusOK, reg)
}

// CheckIn marks a confirmed attendee as present at the door
func (h *RegistrationHandler) CheckIn(c echo.Context) error {
	log := logger.FromEcho(c)
	actor := middleware.ActorFromEcho(c)

	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid registration id"})
	}

	var req dto.CheckInRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	reg, err := h.registrations.CheckIn(c.Request().Context(), id, actor.TenantID, actor.ID, req.Notes)
	switch {
	case errors.Is(err, service.ErrRegistrationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNotConfirmed):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyCheckedIn):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case err != nil:
		log.Error("Check-in failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "check-in failed"})
	}

	prometheus.CheckInCounter.Inc()
	log.Info("Attendee checked in", zap.Uint("registration_id", reg.ID))
	return c.JSON(http.StatusOK, reg)
}

// RegisterRoutes mounts the registration workflow endpoints. Create and
// ConfirmPayment are public; optionalAuthn links registrations to logged-in
// attendees when a token is present.
func (h *RegistrationHandler) RegisterRoutes(api *echo.Group, authn, optionalAuthn, staff echo.MiddlewareFunc) {
	regs := api.Group("/registrations")
	regs.POST("", h.Create, optionalAuthn)
	regs.POST("/:id/confirm-payment", h.ConfirmPayment)
	regs.GET("/my-registrations", h.MyRegistrations, authn)
	regs.GET("/:id", h.Get, authn)
	regs.PUT("/:id/status", h.UpdateStatus, authn, staff)
	regs.POST("/:id/check-in", h.CheckIn, authn, staff)
	regs.GET("/event/:id", h.ListForEvent, authn, staff)
}
