package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"eventhub/internal/dto"
	"eventhub/internal/model"
	"eventhub/internal/payment"
	"eventhub/internal/repository"
	"eventhub/pkg/logger"
)

var (
	ErrTenantSlugTaken   = errors.New("a tenant with this slug already exists")
	ErrEmailTaken        = errors.New("email is already registered")
	ErrUserQuotaExceeded = errors.New("user limit reached for this plan")
	ErrUserNotFound      = errors.New("user not found")
)

const (
	defaultMaxEvents    = 5
	defaultMaxUsers     = 5
	defaultMaxAttendees = 100
)

type TenantService interface {
	// RegisterTenant is the public self-service signup: tenant, settings and
	// the first TENANT_ADMIN in a single transaction.
	RegisterTenant(ctx context.Context, req *dto.TenantRegisterRequest) (*model.Tenant, *model.User, error)

	// CreateTenant is the super-admin provisioning path.
	CreateTenant(ctx context.Context, req *dto.CreateTenantRequest, adminPassword string) (*model.Tenant, error)
	GetTenant(ctx context.Context, id uint) (*model.Tenant, error)
	ListTenants(ctx context.Context) ([]model.Tenant, error)
	UpdateTenant(ctx context.Context, id uint, req *dto.UpdateTenantRequest) (*model.Tenant, error)
	DeleteTenant(ctx context.Context, id uint) error
	SuspendTenant(ctx context.Context, id uint) (*model.Tenant, error)
	ActivateTenant(ctx context.Context, id uint) (*model.Tenant, error)

	InviteUser(ctx context.Context, tenantID uint, req *dto.InviteUserRequest) (*model.User, error)
	ListUsers(ctx context.Context, tenantID uint) ([]model.User, error)
	UpdateUser(ctx context.Context, tenantID, userID uint, req *dto.UpdateUserRequest) (*model.User, error)
	DeactivateUser(ctx context.Context, tenantID, userID uint) error

	GetSettings(ctx context.Context, tenantID uint) (*model.TenantSettings, error)
	UpdateSettings(ctx context.Context, tenantID uint, req *dto.UpdateTenantSettingsRequest) (*model.TenantSettings, error)
}

type tenantService struct {
	tenants repository.TenantRepository
	users   repository.UserRepository
	gateway payment.Gateway
}

func NewTenantService(
	tenants repository.TenantRepository,
	users repository.UserRepository,
	gateway payment.Gateway,
) TenantService {
	return &tenantService{tenants: tenants, users: users, gateway: gateway}
}

func (s *tenantService) RegisterTenant(ctx context.Context, req *dto.TenantRegisterRequest) (*model.Tenant, *model.User, error) {
	if _, err := s.tenants.FindBySlug(ctx, req.TenantSlug); err == nil {
		return nil, nil, ErrTenantSlugTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	if _, err := s.users.FindByEmail(ctx, strings.ToLower(req.Email)); err == nil {
		return nil, nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	tenant := &model.Tenant{
		Name:         req.TenantName,
		Slug:         req.TenantSlug,
		Status:       model.TenantActive,
		PlanType:     "free",
		MaxEvents:    defaultMaxEvents,
		MaxUsers:     defaultMaxUsers,
		MaxAttendees: defaultMaxAttendees,
	}
	admin := &model.User{
		Email:     strings.ToLower(req.Email),
		Password:  string(hashed),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      model.RoleTenantAdmin,
		IsActive:  true,
	}

	err = s.tenants.InTx(ctx, func(tx *gorm.DB) error {
		if err := s.tenants.Create(ctx, tx, tenant); err != nil {
			return err
		}
		if err := s.tenants.CreateSettings(ctx, tx, &model.TenantSettings{TenantID: tenant.ID}); err != nil {
			return err
		}
		admin.TenantID = &tenant.ID
		return s.users.Create(ctx, tx, admin)
	})
	if err != nil {
		return nil, nil, err
	}

	s.attachBillingCustomer(ctx, tenant, admin.Email)
	return tenant, admin, nil
}

func (s *tenantService) CreateTenant(ctx context.Context, req *dto.CreateTenantRequest, adminPassword string) (*model.Tenant, error) {
	if _, err := s.tenants.FindBySlug(ctx, req.Slug); err == nil {
		return nil, ErrTenantSlugTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, strings.ToLower(req.AdminEmail)); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	tenant := &model.Tenant{
		Name:         req.Name,
		Slug:         req.Slug,
		Domain:       req.Domain,
		Status:       model.TenantActive,
		PlanType:     "free",
		MaxEvents:    defaultMaxEvents,
		MaxUsers:     defaultMaxUsers,
		MaxAttendees: defaultMaxAttendees,
	}
	if req.PlanType != "" {
		tenant.PlanType = req.PlanType
	}
	if req.MaxEvents != nil {
		tenant.MaxEvents = *req.MaxEvents
	}
	if req.MaxUsers != nil {
		tenant.MaxUsers = *req.MaxUsers
	}
	if req.MaxAttendees != nil {
		tenant.MaxAttendees = *req.MaxAttendees
	}

	first, last := splitName(req.AdminName)
	admin := &model.User{
		Email:     strings.ToLower(req.AdminEmail),
		Password:  string(hashed),
		FirstName: first,
		LastName:  last,
		Role:      model.RoleTenantAdmin,
		IsActive:  true,
	}

	err = s.tenants.InTx(ctx, func(tx *gorm.DB) error {
		if err := s.tenants.Create(ctx, tx, tenant); err != nil {
			return err
		}
		if err := s.tenants.CreateSettings(ctx, tx, &model.TenantSettings{TenantID: tenant.ID}); err != nil {
			return err
		}
		admin.TenantID = &tenant.ID
		return s.users.Create(ctx, tx, admin)
	})
	if err != nil {
		return nil, err
	}

	s.attachBillingCustomer(ctx, tenant, admin.Email)
	return tenant, nil
}

// attachBillingCustomer creates the billing-provider customer record after the
// tenant is committed. Failures are logged, never fatal: billing can be
// attached later and signup must not depend on the provider being up.
func (s *tenantService) attachBillingCustomer(ctx context.Context, tenant *model.Tenant, email string) {
	if s.gateway == nil {
		return
	}
	customerID, err := s.gateway.CreateCustomer(ctx, email, tenant.Name)
	if err != nil {
		logger.FromContext(ctx).Sugar().Warnw("billing customer creation failed",
			"tenant_id", tenant.ID, "error", err)
		return
	}
	tenant.BillingCustomerID = &customerID
	if err := s.tenants.Update(ctx, tenant); err != nil {
		logger.FromContext(ctx).Sugar().Warnw("failed to store billing customer id",
			"tenant_id", tenant.ID, "error", err)
	}
}

func (s *tenantService) GetTenant(ctx context.Context, id uint) (*model.Tenant, error) {
	tenant, err := s.tenants.FindByID(ctx, id)
	if err != nil {
		return nil, ErrTenantNotFound
	}
	return tenant, nil
}

func (s *tenantService) ListTenants(ctx context.Context) ([]model.Tenant, error) {
	return s.tenants.List(ctx)
}

func (s *tenantService) UpdateTenant(ctx context.Context, id uint, req *dto.UpdateTenantRequest) (*model.Tenant, error) {
	tenant, err := s.tenants.FindByID(ctx, id)
	if err != nil {
		return nil, ErrTenantNotFound
	}

	if req.Name != nil {
		tenant.Name = *req.Name
	}
	if req.Domain != nil {
		tenant.Domain = req.Domain
	}
	if req.Status != nil {
		tenant.Status = model.TenantStatus(*req.Status)
	}
	if req.PlanType != nil {
		tenant.PlanType = *req.PlanType
	}
	if req.MaxEvents != nil {
		tenant.MaxEvents = *req.MaxEvents
	}
	if req.MaxUsers != nil {
		tenant.MaxUsers = *req.MaxUsers
	}
	if req.MaxAttendees != nil {
		tenant.MaxAttendees = *req.MaxAttendees
	}
	if req.Logo != nil {
		tenant.Logo = *req.Logo
	}
	if req.PrimaryColor != nil {
		tenant.PrimaryColor = *req.PrimaryColor
	}
	if req.SecondaryColor != nil {
		tenant.SecondaryColor = *req.SecondaryColor
	}

	if err := s.tenants.Update(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

func (s *tenantService) DeleteTenant(ctx context.Context, id uint) error {
	if _, err := s.tenants.FindByID(ctx, id); err != nil {
		return ErrTenantNotFound
	}
	return s.tenants.InTx(ctx, func(tx *gorm.DB) error {
		return s.tenants.Delete(ctx, tx, id)
	})
}

func (s *tenantService) SuspendTenant(ctx context.Context, id uint) (*model.Tenant, error) {
	return s.setStatus(ctx, id, model.TenantSuspended)
}

func (s *tenantService) ActivateTenant(ctx context.Context, id uint) (*model.Tenant, error) {
	return s.setStatus(ctx, id, model.TenantActive)
}

func (s *tenantService) setStatus(ctx context.Context, id uint, status model.TenantStatus) (*model.Tenant, error) {
	tenant, err := s.tenants.FindByID(ctx, id)
	if err != nil {
		return nil, ErrTenantNotFound
	}
	tenant.Status = status
	if err := s.tenants.Update(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

// InviteUser creates a staff account inside the tenant, enforcing the plan's
// user quota.
func (s *tenantService) InviteUser(ctx context.Context, tenantID uint, req *dto.InviteUserRequest) (*model.User, error) {
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, ErrTenantNotFound
	}

	count, err := s.users.CountByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if count >= int64(tenant.MaxUsers) {
		return nil, ErrUserQuotaExceeded
	}

	if _, err := s.users.FindByEmail(ctx, strings.ToLower(req.Email)); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:     strings.ToLower(req.Email),
		Password:  string(hashed),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      model.UserRole(req.Role),
		TenantID:  &tenantID,
		IsActive:  true,
	}
	if err := s.users.Create(ctx, nil, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *tenantService) ListUsers(ctx context.Context, tenantID uint) ([]model.User, error) {
	return s.users.ListByTenant(ctx, tenantID)
}

func (s *tenantService) UpdateUser(ctx context.Context, tenantID, userID uint, req *dto.UpdateUserRequest) (*model.User, error) {
	user, err := s.findTenantUser(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Role != nil {
		user.Role = model.UserRole(*req.Role)
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *tenantService) DeactivateUser(ctx context.Context, tenantID, userID uint) error {
	user, err := s.findTenantUser(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	user.IsActive = false
	return s.users.Update(ctx, user)
}

// findTenantUser treats users outside the tenant as not found
func (s *tenantService) findTenantUser(ctx context.Context, tenantID, userID uint) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if user.TenantID == nil || *user.TenantID != tenantID {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *tenantService) GetSettings(ctx context.Context, tenantID uint) (*model.TenantSettings, error) {
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, ErrTenantNotFound
	}
	if tenant.Settings == nil {
		return &model.TenantSettings{TenantID: tenantID, AllowPublicEvents: true, EmailNotifications: true}, nil
	}
	return tenant.Settings, nil
}

func (s *tenantService) UpdateSettings(ctx context.Context, tenantID uint, req *dto.UpdateTenantSettingsRequest) (*model.TenantSettings, error) {
	settings, err := s.GetSettings(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if req.AllowPublicEvents != nil {
		settings.AllowPublicEvents = *req.AllowPublicEvents
	}
	if req.RequireApproval != nil {
		settings.RequireApproval = *req.RequireApproval
	}
	if req.EmailNotifications != nil {
		settings.EmailNotifications = *req.EmailNotifications
	}
	if req.CustomDomain != nil {
		settings.CustomDomain = req.CustomDomain
	}

	if err := s.tenants.UpdateSettings(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func splitName(full string) (string, string) {
	parts := strings.SplitN(strings.TrimSpace(full), " ", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], ""
}
