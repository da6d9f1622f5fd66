package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"eventhub/internal/dto"
	"eventhub/internal/middleware"
	"eventhub/internal/model"
	"eventhub/internal/repository"
	"eventhub/pkg/logger"
)

type FeedbackHandler struct {
	feedback repository.FeedbackRepository
	events   repository.EventRepository
}

func NewFeedbackHandler(feedback repository.FeedbackRepository, events repository.EventRepository) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback, events: events}
}

// Create records a rating for an event. Authenticated attendees are linked to
// the feedback row; anonymous feedback is allowed.
func (h *FeedbackHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	eventID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	if _, err := h.events.FindByID(c.Request().Context(), eventID); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	}

	var req dto.CreateFeedbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	feedback := &model.Feedback{
		EventID:        eventID,
		RegistrationID: req.RegistrationID,
		Rating:         req.Rating,
		Comment:        req.Comment,
	}
	if actor := middleware.ActorFromEcho(c); actor != nil {
		feedback.UserID = &actor.ID
	}

	if err := h.feedback.Create(c.Request().Context(), feedback); err != nil {
		log.Error("Failed to create feedback", zap.Error(err), zap.Uint("event_id", eventID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save feedback"})
	}

	log.Info("Feedback recorded", zap.Uint("event_id", eventID), zap.Int("rating", feedback.Rating))
	return c.JSON(http.StatusCreated, feedback)
}

// ListForEvent returns all feedback for one of the tenant's events, for staff
func (h *FeedbackHandler) ListForEvent(c echo.Context) error {
	actor := middleware.ActorFromEcho(c)

	eventID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	if actor.TenantID != nil {
		if _, err := h.events.FindByIDForTenant(c.Request().Context(), eventID, *actor.TenantID); err != nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
	} else if _, err := h.events.FindByID(c.Request().Context(), eventID); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	}

	feedback, err := h.feedback.ListByEvent(c.Request().Context(), eventID)
	if err != nil {
		logger.FromEcho(c).Error("Failed to list feedback", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load feedback"})
	}
	return c.JSON(http.StatusOK, echo.Map{"feedback": feedback})
}

// RegisterRoutes mounts the feedback endpoints
func (h *FeedbackHandler) RegisterRoutes(api *echo.Group, authn, optionalAuthn, staff echo.MiddlewareFunc) {
	api.POST("/events/:id/feedback", h.Create, optionalAuthn)
	api.GET("/events/:id/feedback", h.ListForEvent, authn, staff)
}
