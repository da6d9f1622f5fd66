package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"eventhub/internal/dto"
	"eventhub/internal/middleware"
	"eventhub/internal/repository"
	"eventhub/internal/service"
	"eventhub/pkg/logger"
	"eventhub/prometheus"
)

// TenantHandler is the tenant-admin surface: staff management, settings and
// the tenant dashboard.
type TenantHandler struct {
	tenants   service.TenantService
	analytics repository.AnalyticsRepository
}

func NewTenantHandler(tenants service.TenantService, analytics repository.AnalyticsRepository) *TenantHandler {
	return &TenantHandler{tenants: tenants, analytics: analytics}
}

func (h *TenantHandler) InviteUser(c echo.Context) error {
	log := logger.FromEcho(c)
	actor := middleware.ActorFromEcho(c)
	prometheus.RecordTenantOperation("invite_user")

	tenantID, ok := resolveTenantID(c, actor)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant is required"})
	}

	var req dto.InviteUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.tenants.InviteUser(c.Request().Context(), tenantID, &req)
	switch {
	case errors.Is(err, service.ErrUserQuotaExceeded):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrEmailTaken):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrTenantNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case err != nil:
		log.Error("Failed to invite user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to invite user"})
	}

	log.Info("User invited",
		zap.Uint("user_id", user.ID),
		zap.Uint("tenant_id", tenantID),
		zap.String("role", string(user.Role)))
	return c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

func (h *TenantHandler) ListUsers(c echo.Context) error {
	actor := middleware.ActorFromEcho(c)
	tenantID, ok := resolveTenantID(c, actor)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant is required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	users, err := h.tenants.ListUsers(c.Request().Context(), tenantID)
	if err != nil {
		logger.FromEcho(c).Error("Failed to list users", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load users"})
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, dto.ToUserResponse(&users[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"users": responses})
}

func (h *TenantHandler) UpdateUser(c echo.Context) error {
	log := logger.FromEcho(c)
	actor := middleware.ActorFromEcho(c)

	tenantID, ok := resolveTenantID(c, actor)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant is required"})
	}

	userID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	var req dto.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.tenants.UpdateUser(c.Request().Context(), tenantID, userID, &req)
	if errors.Is(err, service.ErrUserNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if err != nil {
		log.Error("Failed to update user", zap.Error(err), zap.Uint("user_id", userID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update user"})
	}

	log.Info("User updated", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

func (h *TenantHandler) DeactivateUser(c echo.Context) error {
	log := logger.FromEcho(c)
	actor := middleware.ActorFromEcho(c)
	prometheus.RecordTenantOperation("deactivate_user")

	tenantID, ok := resolveTenantID(c, actor)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant is required"})
	}

	userID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	err = h.tenants.DeactivateUser(c.Request().Context(), tenantID, userID)
	if errors.Is(err, service.ErrUserNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if err != nil {
		log.Error("Failed to deactivate user", zap.Error(err), zap.Uint("user_id", userID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to deactivate user"})
	}

	log.Info("User deactivated", zap.Uint("user_id", userID))
	return c.JSON(http.StatusOK, echo.Map{"message": "user deactivated"})
}

func (h *TenantHandler) GetSettings(c echo.Context) error {
	actor := middleware.ActorFromEcho(c)
	tenantID, ok := resolveTenantID(c, actor)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant is required"})
	}

	settings, err := h.tenants.GetSettings(c.Request().Context(), tenantID)
	if errors.Is(err, service.ErrTenantNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}
	if err != nil {
		logger.FromEcho(c).Error("Failed to load settings", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load settings"})
	}
	return c.JSON(http.StatusOK, settings)
}

func (h *TenantHandler) UpdateSettings(c echo.Context) error {
	log := logger.FromEcho(c)
	actor := middleware.ActorFromEcho(c)
	prometheus.RecordTenantOperation("update_settings")

	tenantID, ok := resolveTenantID(c, actor)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant is required"})
	}

	var req dto.UpdateTenantSettingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	settings, err := h.tenants.UpdateSettings(c.Request().Context(), tenantID, &req)
	if errors.Is(err, service.ErrTenantNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}
	if err != nil {
		log.Error("Failed to update settings", zap.Error(err), zap.Uint("tenant_id", tenantID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update settings"})
	}

	log.Info("Settings updated", zap.Uint("tenant_id", tenantID))
	return c.JSON(http.StatusOK, settings)
}

// Dashboard is the tenant analytics aggregation
func (h *TenantHandler) Dashboard(c echo.Context) error {
	actor := middleware.ActorFromEcho(c)
	tenantID, ok := resolveTenantID(c, actor)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant is required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	stats, err := h.analytics.TenantStats(c.Request().Context(), tenantID)
	if err != nil {
		logger.FromEcho(c).Error("Failed to compute tenant stats", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load stats"})
	}
	return c.JSON(http.StatusOK, stats)
}

// RegisterRoutes mounts the tenant administration endpoints. User management
// and settings need TENANT_ADMIN; the dashboard is open to all staff.
func (h *TenantHandler) RegisterRoutes(api *echo.Group, authn, tenantAdmin, staff echo.MiddlewareFunc) {
	tenant := api.Group("/tenant", authn)
	tenant.POST("/users", h.InviteUser, tenantAdmin)
	tenant.GET("/users", h.ListUsers, tenantAdmin)
	tenant.PUT("/users/:id", h.UpdateUser, tenantAdmin)
	tenant.DELETE("/users/:id", h.DeactivateUser, tenantAdmin)
	tenant.GET("/settings", h.GetSettings, tenantAdmin)
	tenant.PUT("/settings", h.UpdateSettings, tenantAdmin)
	tenant.GET("/dashboard", h.Dashboard, staff)
}
