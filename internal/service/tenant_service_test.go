package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"eventhub/internal/dto"
	"eventhub/internal/model"
)

func tenantSignupRequest() *dto.TenantRegisterRequest {
	return &dto.TenantRegisterRequest{
		TenantName: "Acme Events",
		TenantSlug: "acme",
		Email:      "Admin@Acme.com",
		Password:   "supersecret",
		FirstName:  "Grace",
		LastName:   "Hopper",
	}
}

func TestRegisterTenant_CreatesTenantSettingsAndAdmin(t *testing.T) {
	var createdSettings *model.TenantSettings
	tenants := &mockTenantRepo{
		createSettingsFn: func(ctx context.Context, tx *gorm.DB, settings *model.TenantSettings) error {
			createdSettings = settings
			return nil
		},
	}
	users := &mockUserRepo{}

	svc := NewTenantService(tenants, users, &mockGateway{})
	tenant, admin, err := svc.RegisterTenant(context.Background(), tenantSignupRequest())

	assert.NoError(t, err)
	assert.Equal(t, "acme", tenant.Slug)
	assert.Equal(t, model.TenantActive, tenant.Status)
	assert.Equal(t, "free", tenant.PlanType)
	assert.Equal(t, model.RoleTenantAdmin, admin.Role)
	assert.Equal(t, "admin@acme.com", admin.Email, "emails are stored lowercased")
	assert.Equal(t, tenant.ID, *admin.TenantID)
	assert.NotNil(t, createdSettings)
	assert.Equal(t, tenant.ID, createdSettings.TenantID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("supersecret")))
}

func TestRegisterTenant_SlugTaken(t *testing.T) {
	tenants := &mockTenantRepo{
		findBySlugFn: func(ctx context.Context, slug string) (*model.Tenant, error) {
			return activeTenant(), nil
		},
	}

	svc := NewTenantService(tenants, &mockUserRepo{}, nil)
	_, _, err := svc.RegisterTenant(context.Background(), tenantSignupRequest())

	assert.ErrorIs(t, err, ErrTenantSlugTaken)
}

func TestRegisterTenant_EmailTaken(t *testing.T) {
	users := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: 1, Email: email}, nil
		},
	}

	svc := NewTenantService(&mockTenantRepo{}, users, nil)
	_, _, err := svc.RegisterTenant(context.Background(), tenantSignupRequest())

	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterTenant_BillingCustomerAttached(t *testing.T) {
	var updated *model.Tenant
	tenants := &mockTenantRepo{
		updateFn: func(ctx context.Context, tenant *model.Tenant) error {
			updated = tenant
			return nil
		},
	}
	gw := &mockGateway{
		createCustomerFn: func(ctx context.Context, email, name string) (string, error) {
			return "cus_abc", nil
		},
	}

	svc := NewTenantService(tenants, &mockUserRepo{}, gw)
	tenant, _, err := svc.RegisterTenant(context.Background(), tenantSignupRequest())

	assert.NoError(t, err)
	assert.NotNil(t, tenant.BillingCustomerID)
	assert.Equal(t, "cus_abc", *tenant.BillingCustomerID)
	assert.Same(t, tenant, updated)
}

func TestRegisterTenant_BillingFailureIsNotFatal(t *testing.T) {
	gw := &mockGateway{
		createCustomerFn: func(ctx context.Context, email, name string) (string, error) {
			return "", assert.AnError
		},
	}

	svc := NewTenantService(&mockTenantRepo{}, &mockUserRepo{}, gw)
	tenant, _, err := svc.RegisterTenant(context.Background(), tenantSignupRequest())

	assert.NoError(t, err, "signup must survive a billing provider outage")
	assert.Nil(t, tenant.BillingCustomerID)
}

func TestInviteUser_QuotaEnforced(t *testing.T) {
	tenants := &mockTenantRepo{
		findByIDFn: func(ctx context.Context, id uint) (*model.Tenant, error) {
			return activeTenant(), nil // MaxUsers 5
		},
	}
	users := &mockUserRepo{
		countByTenantFn: func(ctx context.Context, tenantID uint) (int64, error) {
			return 5, nil
		},
	}

	svc := NewTenantService(tenants, users, nil)
	_, err := svc.InviteUser(context.Background(), 1, &dto.InviteUserRequest{
		Email:     "new@acme.com",
		Password:  "supersecret",
		FirstName: "New",
		LastName:  "Member",
		Role:      "TENANT_USER",
	})

	assert.ErrorIs(t, err, ErrUserQuotaExceeded)
}

func TestInviteUser_Success(t *testing.T) {
	tenants := &mockTenantRepo{
		findByIDFn: func(ctx context.Context, id uint) (*model.Tenant, error) {
			return activeTenant(), nil
		},
	}
	users := &mockUserRepo{}

	svc := NewTenantService(tenants, users, nil)
	user, err := svc.InviteUser(context.Background(), 1, &dto.InviteUserRequest{
		Email:     "New@Acme.com",
		Password:  "supersecret",
		FirstName: "New",
		LastName:  "Member",
		Role:      "TENANT_USER",
	})

	assert.NoError(t, err)
	assert.Equal(t, model.RoleTenantUser, user.Role)
	assert.Equal(t, "new@acme.com", user.Email)
	assert.Equal(t, uint(1), *user.TenantID)
	assert.True(t, user.IsActive)
}

func TestUpdateUser_ForeignTenantUserIsNotFound(t *testing.T) {
	foreign := uint(2)
	users := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id uint) (*model.User, error) {
			return &model.User{ID: id, TenantID: &foreign}, nil
		},
	}

	svc := NewTenantService(&mockTenantRepo{}, users, nil)
	isActive := false
	_, err := svc.UpdateUser(context.Background(), 1, 9, &dto.UpdateUserRequest{IsActive: &isActive})

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSuspendTenant(t *testing.T) {
	stored := activeTenant()
	tenants := &mockTenantRepo{
		findByIDFn: func(ctx context.Context, id uint) (*model.Tenant, error) {
			return stored, nil
		},
	}

	svc := NewTenantService(tenants, &mockUserRepo{}, nil)
	tenant, err := svc.SuspendTenant(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, model.TenantSuspended, tenant.Status)
}
