package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"eventhub/internal/model"
	"eventhub/internal/repository"
	"eventhub/pkg/jwtutil"
	"eventhub/pkg/logger"
	"eventhub/prometheus"
)

const actorKey = "actor"

// Actor is the authenticated identity attached to the request context
type Actor struct {
	ID       uint
	Email    string
	Role     model.UserRole
	TenantID *uint
}

// IsSuperAdmin reports whether the actor bypasses tenant scoping
func (a *Actor) IsSuperAdmin() bool {
	return a.Role == model.RoleSuperAdmin
}

// CanAccessTenant reports whether the actor may touch resources of the given
// tenant. Super admins bypass scoping entirely.
func (a *Actor) CanAccessTenant(tenantID uint) bool {
	if a.IsSuperAdmin() {
		return true
	}
	return a.TenantID != nil && *a.TenantID == tenantID
}

// ActorFromEcho returns the actor set by Authenticate, or nil on public routes
func ActorFromEcho(c echo.Context) *Actor {
	actor, _ := c.Get(actorKey).(*Actor)
	return actor
}

// Authenticate validates the bearer token, then re-fetches the user so stale
// claims and deactivated accounts are rejected.
func Authenticate(jwtUtil *jwtutil.JWTUtil, users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				prometheus.RecordAuthError("missing_header")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization header"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				prometheus.RecordAuthError("invalid_header")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization header format"})
			}

			claims, err := jwtUtil.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			user, err := users.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				log.Warn("Token user no longer exists", zap.Uint("user_id", claims.UserID))
				prometheus.RecordAuthError("user_not_found")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}
			if !user.IsActive {
				log.Warn("Deactivated user attempted access", zap.Uint("user_id", user.ID))
				prometheus.RecordAuthError("user_inactive")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "account is deactivated"})
			}

			c.Set(actorKey, &Actor{
				ID:       user.ID,
				Email:    user.Email,
				Role:     user.Role,
				TenantID: user.TenantID,
			})

			return next(c)
		}
	}
}

// OptionalAuthenticate attaches an actor when a valid bearer token is
// present and lets the request through anonymously otherwise. Used on public
// endpoints that personalize for logged-in users.
func OptionalAuthenticate(jwtUtil *jwtutil.JWTUtil, users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return next(c)
			}

			claims, err := jwtUtil.ValidateToken(parts[1])
			if err != nil {
				return next(c)
			}

			user, err := users.FindByID(c.Request().Context(), claims.UserID)
			if err != nil || !user.IsActive {
				return next(c)
			}

			c.Set(actorKey, &Actor{
				ID:       user.ID,
				Email:    user.Email,
				Role:     user.Role,
				TenantID: user.TenantID,
			})
			return next(c)
		}
	}
}

// RequireRole rejects actors whose role is not in the allowed set
func RequireRole(roles ...model.UserRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := ActorFromEcho(c)
			if actor == nil {
				prometheus.RecordAuthError("missing_actor")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}

			for _, role := range roles {
				if actor.Role == role {
					return next(c)
				}
			}

			prometheus.RecordAuthError("role_denied")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient permissions"})
		}
	}
}

// RequireSuperAdmin limits a route to platform administrators
func RequireSuperAdmin() echo.MiddlewareFunc {
	return RequireRole(model.RoleSuperAdmin)
}

// RequireTenantAdmin limits a route to tenant admins and super admins
func RequireTenantAdmin() echo.MiddlewareFunc {
	return RequireRole(model.RoleSuperAdmin, model.RoleTenantAdmin)
}

// RequireStaff limits a route to any tenant staff or super admins
func RequireStaff() echo.MiddlewareFunc {
	return RequireRole(model.RoleSuperAdmin, model.RoleTenantAdmin, model.RoleTenantUser)
}
