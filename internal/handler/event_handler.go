package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"eventhub/internal/dto"
	"eventhub/internal/middleware"
	"eventhub/internal/service"
	"eventhub/pkg/logger"
	"eventhub/prometheus"
)

type EventHandler struct {
	events service.EventService
}

func NewEventHandler(events service.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// PublicList is the unauthenticated catalog browse with pagination and search
func (h *EventHandler) PublicList(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.events.PublicList(c.Request().Context(), dto.PublicListParams{
		Page:       page,
		Limit:      limit,
		Search:     c.QueryParam("search"),
		TenantSlug: c.QueryParam("tenantSlug"),
		When:       c.QueryParam("status"),
	})
	if err != nil {
		logger.FromEcho(c).Error("Failed to list public events", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load events"})
	}
	return c.JSON(http.StatusOK, result)
}

// PublicGet resolves a published event by slug, optionally narrowed to a
// tenant with the ?tenantSlug= query parameter
func (h *EventHandler) PublicGet(c echo.Context) error {
	event, err := h.events.PublicGetBySlug(c.Request().Context(), c.Param("slug"), c.QueryParam("tenantSlug"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	}
	return c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	actor := middleware.ActorFromEcho(c)
	prometheus.RecordEventOperation("create")

	tenantID, ok := resolveTenantID(c, actor)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant is required"})
	}

	var req dto.CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	event, err := h.events.Create(c.Request().Context(), tenantID, actor.ID, &req)
	switch {
	case errors.Is(err, service.ErrEventQuotaExceeded):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrSlugTaken):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrTenantNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case err != nil:
		log.Error("Failed to create event", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create event"})
	}

	log.Info("Event created",
		zap.Uint("event_id", event.ID),
		zap.Uint("tenant_id", tenantID),
		zap.String("slug", event.Slug))
	return c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) List(c echo.Context) error {
	actor := middleware.ActorFromEcho(c)
	tenantID, ok := resolveTenantID(c, actor)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant is required"})
	}

	events, err := h.events.ListForTenant(c.Request().Context(), tenantID)
	if err != nil {
		logger.FromEcho(c).Error("Failed to list events", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load events"})
	}
	return c.JSON(http.StatusOK, echo.Map{"events": events})
}

func (h *EventHandler) Get(c echo.Context) error {
	actor := middleware.ActorFromEcho(c)
	tenantID, ok := resolveTenantID(c, actor)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant is required"})
	}

	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	event, err := h.events.Get(c.Request().Context(), id, tenantID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	}
	return c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)
	actor := middleware.ActorFromEcho(c)
	prometheus.RecordEventOperation("update")

	tenantID, ok := resolveTenantID(c, actor)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant is required"})
	}

	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	var req dto.UpdateEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	event, err := h.events.Update(c.Request().Context(), id, tenantID, &req)
	if errors.Is(err, service.ErrEventNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	}
	if err != nil {
		log.Error("Failed to update event", zap.Error(err), zap.Uint("event_id", id))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update event"})
	}

	log.Info("Event updated", zap.Uint("event_id", event.ID))
	return c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)
	actor := middleware.ActorFromEcho(c)
	prometheus.RecordEventOperation("delete")

	tenantID, ok := resolveTenantID(c, actor)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant is required"})
	}

	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	err = h.events.Delete(c.Request().Context(), id, tenantID)
	if errors.Is(err, service.ErrEventNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	}
	if err != nil {
		log.Error("Failed to delete event", zap.Error(err), zap.Uint("event_id", id))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete event"})
	}

	log.Info("Event deleted", zap.Uint("event_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "event deleted"})
}

func (h *EventHandler) CreateTicket(c echo.Context) error {
	log := logger.FromEcho(c)
	actor := middleware.ActorFromEcho(c)
	prometheus.RecordEventOperation("ticket_create")

	tenantID, ok := resolveTenantID(c, actor)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant is required"})
	}

	eventID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	var req dto.CreateTicketRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ticket, err := h.events.CreateTicket(c.Request().Context(), eventID, tenantID, &req)
	if errors.Is(err, service.ErrEventNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	}
	if err != nil {
		log.Error("Failed to create ticket", zap.Error(err), zap.Uint("event_id", eventID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create ticket"})
	}

	log.Info("Ticket created", zap.Uint("ticket_id", ticket.ID), zap.Uint("event_id", eventID))
	return c.JSON(http.StatusCreated, ticket)
}

func (h *EventHandler) UpdateTicket(c echo.Context) error {
	log := logger.FromEcho(c)
	actor := middleware.ActorFromEcho(c)
	prometheus.RecordEventOperation("ticket_update")

	tenantID, ok := resolveTenantID(c, actor)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant is required"})
	}

	eventID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ticketID, err := parseID(c, "ticketId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}

	var req dto.UpdateTicketRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ticket, err := h.events.UpdateTicket(c.Request().Context(), ticketID, eventID, tenantID, &req)
	if errors.Is(err, service.ErrTicketNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
	}
	if err != nil {
		log.Error("Failed to update ticket", zap.Error(err), zap.Uint("ticket_id", ticketID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update ticket"})
	}
	return c.JSON(http.StatusOK, ticket)
}

func (h *EventHandler) DeleteTicket(c echo.Context) error {
	log := logger.FromEcho(c)
	actor := middleware.ActorFromEcho(c)
	prometheus.RecordEventOperation("ticket_delete")

	tenantID, ok := resolveTenantID(c, actor)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant is required"})
	}

	eventID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ticketID, err := parseID(c, "ticketId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}

	err = h.events.DeleteTicket(c.Request().Context(), ticketID, eventID, tenantID)
	if errors.Is(err, service.ErrTicketNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
	}
	if err != nil {
		log.Error("Failed to delete ticket", zap.Error(err), zap.Uint("ticket_id", ticketID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete ticket"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "ticket deleted"})
}

// RegisterRoutes mounts the public catalog and the staff event management
// endpoints
func (h *EventHandler) RegisterRoutes(api *echo.Group, authn, staff echo.MiddlewareFunc) {
	api.GET("/events/public", h.PublicList)
	api.GET("/events/public/:slug", h.PublicGet)

	events := api.Group("/events", authn, staff)
	events.POST("", h.Create)
	events.GET("", h.List)
	events.GET("/:id", h.Get)
	events.PUT("/:id", h.Update)
	events.DELETE("/:id", h.Delete)
	events.POST("/:id/tickets", h.CreateTicket)
	events.PUT("/:id/tickets/:ticketId", h.UpdateTicket)
	events.DELETE("/:id/tickets/:ticketId", h.DeleteTicket)
}

// resolveTenantID returns the tenant the actor operates on. Staff are bound
// to their own tenant; super admins pick one with the ?tenant_id= parameter.
func resolveTenantID(c echo.Context, actor *middleware.Actor) (uint, bool) {
	if actor.TenantID != nil {
		return *actor.TenantID, true
	}
	if actor.IsSuperAdmin() {
		id, err := strconv.ParseUint(c.QueryParam("tenant_id"), 10, 32)
		if err == nil && id > 0 {
			return uint(id), true
		}
	}
	return 0, false
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
