package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"eventhub/internal/dto"
	"eventhub/internal/repository"
	"eventhub/internal/service"
	"eventhub/pkg/logger"
	"eventhub/prometheus"
)

// AdminHandler is the super-admin surface: tenant lifecycle, platform
// analytics and billing records across all tenants.
type AdminHandler struct {
	tenants   service.TenantService
	analytics repository.AnalyticsRepository
	billing   repository.BillingRepository
}

func NewAdminHandler(
	tenants service.TenantService,
	analytics repository.AnalyticsRepository,
	billing repository.BillingRepository,
) *AdminHandler {
	return &AdminHandler{tenants: tenants, analytics: analytics, billing: billing}
}

func (h *AdminHandler) CreateTenant(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordTenantOperation("create")

	var req struct {
		dto.CreateTenantRequest
		AdminPassword string `json:"admin_password" validate:"required,min=8"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tenant, err := h.tenants.CreateTenant(c.Request().Context(), &req.CreateTenantRequest, req.AdminPassword)
	switch {
	case errors.Is(err, service.ErrTenantSlugTaken), errors.Is(err, service.ErrEmailTaken):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case err != nil:
		log.Error("Failed to create tenant", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create tenant"})
	}

	log.Info("Tenant created", zap.Uint("tenant_id", tenant.ID), zap.String("slug", tenant.Slug))
	return c.JSON(http.StatusCreated, tenant)
}

func (h *AdminHandler) ListTenants(c echo.Context) error {
	defer prometheus.TrackDBOperation("query")(time.Now())
	tenants, err := h.tenants.ListTenants(c.Request().Context())
	if err != nil {
		logger.FromEcho(c).Error("Failed to list tenants", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load tenants"})
	}
	return c.JSON(http.StatusOK, echo.Map{"tenants": tenants})
}

func (h *AdminHandler) GetTenant(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tenant id"})
	}

	tenant, err := h.tenants.GetTenant(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}
	return c.JSON(http.StatusOK, tenant)
}

func (h *AdminHandler) UpdateTenant(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordTenantOperation("update")

	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tenant id"})
	}

	var req dto.UpdateTenantRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tenant, err := h.tenants.UpdateTenant(c.Request().Context(), id, &req)
	if errors.Is(err, service.ErrTenantNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}
	if err != nil {
		log.Error("Failed to update tenant", zap.Error(err), zap.Uint("tenant_id", id))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update tenant"})
	}

	log.Info("Tenant updated", zap.Uint("tenant_id", tenant.ID))
	return c.JSON(http.StatusOK, tenant)
}

func (h *AdminHandler) DeleteTenant(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordTenantOperation("delete")

	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tenant id"})
	}

	err = h.tenants.DeleteTenant(c.Request().Context(), id)
	if errors.Is(err, service.ErrTenantNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}
	if err != nil {
		log.Error("Failed to delete tenant", zap.Error(err), zap.Uint("tenant_id", id))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete tenant"})
	}

	log.Info("Tenant deleted", zap.Uint("tenant_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "tenant deleted"})
}

func (h *AdminHandler) SuspendTenant(c echo.Context) error {
	return h.setTenantStatus(c, "suspend")
}

func (h *AdminHandler) ActivateTenant(c echo.Context) error {
	return h.setTenantStatus(c, "activate")
}

func (h *AdminHandler) setTenantStatus(c echo.Context, op string) error {
	log := logger.FromEcho(c)
	prometheus.RecordTenantOperation(op)

	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tenant id"})
	}

	var tenant interface{}
	if op == "suspend" {
		tenant, err = h.tenants.SuspendTenant(c.Request().Context(), id)
	} else {
		tenant, err = h.tenants.ActivateTenant(c.Request().Context(), id)
	}
	if errors.Is(err, service.ErrTenantNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}
	if err != nil {
		log.Error("Failed to change tenant status", zap.Error(err), zap.Uint("tenant_id", id))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update tenant"})
	}

	log.Info("Tenant status changed", zap.Uint("tenant_id", id), zap.String("operation", op))
	return c.JSON(http.StatusOK, tenant)
}

// PlatformStats is the cross-tenant dashboard aggregation
func (h *AdminHandler) PlatformStats(c echo.Context) error {
	defer prometheus.TrackDBOperation("query")(time.Now())
	stats, err := h.analytics.PlatformStats(c.Request().Context())
	if err != nil {
		logger.FromEcho(c).Error("Failed to compute platform stats", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load stats"})
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) TenantInvoices(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tenant id"})
	}

	invoices, err := h.billing.ListInvoices(c.Request().Context(), id)
	if err != nil {
		logger.FromEcho(c).Error("Failed to list invoices", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load invoices"})
	}
	return c.JSON(http.StatusOK, echo.Map{"invoices": invoices})
}

func (h *AdminHandler) TenantUsage(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tenant id"})
	}

	usage, err := h.billing.ListUsage(c.Request().Context(), id)
	if err != nil {
		logger.FromEcho(c).Error("Failed to list usage", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load usage"})
	}
	return c.JSON(http.StatusOK, echo.Map{"usage": usage})
}

// RegisterRoutes mounts the super-admin endpoints
func (h *AdminHandler) RegisterRoutes(api *echo.Group, authn, superAdmin echo.MiddlewareFunc) {
	admin := api.Group("/super-admin", authn, superAdmin)
	admin.POST("/tenants", h.CreateTenant)
	admin.GET("/tenants", h.ListTenants)
	admin.GET("/tenants/:id", h.GetTenant)
	admin.PUT("/tenants/:id", h.UpdateTenant)
	admin.DELETE("/tenants/:id", h.DeleteTenant)
	admin.POST("/tenants/:id/suspend", h.SuspendTenant)
	admin.POST("/tenants/:id/activate", h.ActivateTenant)
	admin.GET("/tenants/:id/invoices", h.TenantInvoices)
	admin.GET("/tenants/:id/usage", h.TenantUsage)
	admin.GET("/stats", h.PlatformStats)
}
