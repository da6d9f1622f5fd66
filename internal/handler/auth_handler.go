package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"eventhub/internal/dto"
	"eventhub/internal/middleware"
	"eventhub/internal/model"
	"eventhub/internal/repository"
	"eventhub/internal/service"
	"eventhub/pkg/jwtutil"
	"eventhub/pkg/logger"
	"eventhub/prometheus"
)

type AuthHandler struct {
	users   repository.UserRepository
	tenants service.TenantService
	jwt     *jwtutil.JWTUtil
}

func NewAuthHandler(users repository.UserRepository, tenants service.TenantService, jwt *jwtutil.JWTUtil) *AuthHandler {
	return &AuthHandler{users: users, tenants: tenants, jwt: jwt}
}

// Register creates an attendee account. Staff accounts are created through
// tenant signup or invitation, never here.
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.SignupCounter.Inc()

	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	email := strings.ToLower(req.Email)
	defer prometheus.TrackDBOperation("query")(time.Now())
	if _, err := h.users.FindByEmail(c.Request().Context(), email); err == nil {
		log.Warn("Signup with existing email", zap.String("email", email))
		prometheus.RecordAuthError("email_already_exists")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already registered"})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	user := &model.User{
		Email:     email,
		Password:  string(hashed),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      model.RoleAttendee,
		IsActive:  true,
	}
	if err := h.users.Create(c.Request().Context(), nil, user); err != nil {
		log.Error("Failed to create user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	token, err := h.jwt.GenerateToken(user.ID, user.Email, string(user.Role), user.TenantID)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("User registered", zap.String("email", user.Email))
	return c.JSON(http.StatusCreated, dto.AuthResponse{User: dto.ToUserResponse(user), Token: token})
}

func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.Inc()

	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	user, err := h.users.FindByEmail(c.Request().Context(), strings.ToLower(req.Email))
	if err != nil {
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Warn("Invalid password", zap.String("email", user.Email))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if !user.IsActive {
		prometheus.RecordAuthError("user_inactive")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "account is deactivated"})
	}
	if user.Tenant != nil && user.Tenant.Status != model.TenantActive {
		prometheus.RecordAuthError("tenant_suspended")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "organization is suspended"})
	}

	token, err := h.jwt.GenerateToken(user.ID, user.Email, string(user.Role), user.TenantID)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("User logged in", zap.String("email", user.Email), zap.String("role", string(user.Role)))
	return c.JSON(http.StatusOK, dto.AuthResponse{User: dto.ToUserResponse(user), Token: token})
}

// RegisterTenant is the public self-service signup: organization plus its
// first admin account in one call.
func (h *AuthHandler) RegisterTenant(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordTenantOperation("signup")

	var req dto.TenantRegisterRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse tenant signup request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tenant, admin, err := h.tenants.RegisterTenant(c.Request().Context(), &req)
	switch {
	case errors.Is(err, service.ErrTenantSlugTaken):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrEmailTaken):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case err != nil:
		log.Error("Tenant signup failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "signup failed"})
	}

	token, err := h.jwt.GenerateToken(admin.ID, admin.Email, string(admin.Role), admin.TenantID)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("Tenant registered",
		zap.Uint("tenant_id", tenant.ID),
		zap.String("slug", tenant.Slug),
		zap.String("admin_email", admin.Email))
	return c.JSON(http.StatusCreated, echo.Map{
		"tenant": tenant,
		"user":   dto.ToUserResponse(admin),
		"token":  token,
	})
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(c echo.Context) error {
	actor := middleware.ActorFromEcho(c)

	user, err := h.users.FindByID(c.Request().Context(), actor.ID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	return c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	log := logger.FromEcho(c)
	actor := middleware.ActorFromEcho(c)

	var req dto.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.FindByID(c.Request().Context(), actor.ID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Error("Failed to hash password", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
		user.Password = string(hashed)
	}

	if err := h.users.Update(c.Request().Context(), user); err != nil {
		log.Error("Failed to update profile", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	log.Info("Profile updated", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// RegisterRoutes mounts the public auth endpoints and the profile endpoints
func (h *AuthHandler) RegisterRoutes(api *echo.Group, authn echo.MiddlewareFunc) {
	auth := api.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.POST("/tenant/register", h.RegisterTenant)
	auth.GET("/me", h.Me, authn)

	user := api.Group("/user", authn)
	user.GET("/profile", h.Me)
	user.PUT("/profile", h.UpdateProfile)
}
