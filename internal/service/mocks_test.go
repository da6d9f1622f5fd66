package service

import (
	"context"

	"gorm.io/gorm"

	"eventhub/internal/dto"
	"eventhub/internal/model"
	"eventhub/internal/payment"
)

// Function-field mocks: tests set only the funcs they need, the rest fall
// back to "not found" / no-op defaults.

// --- Mock RegistrationRepository ---

type mockRegistrationRepo struct {
	inTxFn              func(ctx context.Context, fn func(tx *gorm.DB) error) error
	createFn            func(ctx context.Context, tx *gorm.DB, reg *model.Registration) error
	findByIDFn          func(ctx context.Context, id uint) (*model.Registration, error)
	findByIDForTenantFn func(ctx context.Context, id, tenantID uint) (*model.Registration, error)
	findActiveByUserFn  func(ctx context.Context, tx *gorm.DB, eventID, userID uint) (*model.Registration, error)
	findActiveByEmailFn func(ctx context.Context, tx *gorm.DB, eventID uint, email string) (*model.Registration, error)
	countAttendingFn    func(ctx context.Context, tx *gorm.DB, eventID uint) (int64, error)
	findByIntentFn      func(ctx context.Context, intentID string) (*model.Registration, error)
	listByUserFn        func(ctx context.Context, userID uint) ([]model.Registration, error)
	listByEventFn       func(ctx context.Context, eventID uint) ([]model.Registration, error)
	saveFn              func(ctx context.Context, reg *model.Registration) error
	updateStatusFn      func(ctx context.Context, tx *gorm.DB, id uint, status model.RegistrationStatus) error
}

func (m *mockRegistrationRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if m.inTxFn != nil {
		return m.inTxFn(ctx, fn)
	}
	return fn(nil)
}

func (m *mockRegistrationRepo) Create(ctx context.Context, tx *gorm.DB, reg *model.Registration) error {
	if m.createFn != nil {
		return m.createFn(ctx, tx, reg)
	}
	reg.ID = 1
	return nil
}

func (m *mockRegistrationRepo) FindByID(ctx context.Context, id uint) (*model.Registration, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRegistrationRepo) FindByIDForTenant(ctx context.Context, id, tenantID uint) (*model.Registration, error) {
	if m.findByIDForTenantFn != nil {
		return m.findByIDForTenantFn(ctx, id, tenantID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRegistrationRepo) FindActiveByEventAndUser(ctx context.Context, tx *gorm.DB, eventID, userID uint) (*model.Registration, error) {
	if m.findActiveByUserFn != nil {
		return m.findActiveByUserFn(ctx, tx, eventID, userID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRegistrationRepo) FindActiveByEventAndEmail(ctx context.Context, tx *gorm.DB, eventID uint, email string) (*model.Registration, error) {
	if m.findActiveByEmailFn != nil {
		return m.findActiveByEmailFn(ctx, tx, eventID, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRegistrationRepo) CountAttendingByEvent(ctx context.Context, tx *gorm.DB, eventID uint) (int64, error) {
	if m.countAttendingFn != nil {
		return m.countAttendingFn(ctx, tx, eventID)
	}
	return 0, nil
}

func (m *mockRegistrationRepo) FindByPaymentIntentID(ctx context.Context, intentID string) (*model.Registration, error) {
	if m.findByIntentFn != nil {
		return m.findByIntentFn(ctx, intentID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRegistrationRepo) ListByUser(ctx context.Context, userID uint) ([]model.Registration, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockRegistrationRepo) ListByEvent(ctx context.Context, eventID uint) ([]model.Registration, error) {
	if m.listByEventFn != nil {
		return m.listByEventFn(ctx, eventID)
	}
	return nil, nil
}

func (m *mockRegistrationRepo) Save(ctx context.Context, reg *model.Registration) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, reg)
	}
	return nil
}

func (m *mockRegistrationRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status model.RegistrationStatus) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, tx, id, status)
	}
	return nil
}

// --- Mock TicketRepository ---

type mockTicketRepo struct {
	createFn            func(ctx context.Context, ticket *model.Ticket) error
	findByIDFn          func(ctx context.Context, id uint) (*model.Ticket, error)
	findForTenantFn     func(ctx context.Context, id, eventID, tenantID uint) (*model.Ticket, error)
	findByIDForUpdateFn func(ctx context.Context, tx *gorm.DB, id uint) (*model.Ticket, error)
	reserveSeatFn       func(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
	listByEventFn       func(ctx context.Context, eventID uint) ([]model.Ticket, error)
	updateFn            func(ctx context.Context, ticket *model.Ticket) error
	deleteFn            func(ctx context.Context, id uint) error
}

func (m *mockTicketRepo) Create(ctx context.Context, ticket *model.Ticket) error {
	if m.createFn != nil {
		return m.createFn(ctx, ticket)
	}
	ticket.ID = 1
	return nil
}

func (m *mockTicketRepo) FindByID(ctx context.Context, id uint) (*model.Ticket, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTicketRepo) FindForTenant(ctx context.Context, id, eventID, tenantID uint) (*model.Ticket, error) {
	if m.findForTenantFn != nil {
		return m.findForTenantFn(ctx, id, eventID, tenantID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTicketRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*model.Ticket, error) {
	if m.findByIDForUpdateFn != nil {
		return m.findByIDForUpdateFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTicketRepo) ReserveSeat(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	if m.reserveSeatFn != nil {
		return m.reserveSeatFn(ctx, tx, id)
	}
	return true, nil
}

func (m *mockTicketRepo) ListByEvent(ctx context.Context, eventID uint) ([]model.Ticket, error) {
	if m.listByEventFn != nil {
		return m.listByEventFn(ctx, eventID)
	}
	return nil, nil
}

func (m *mockTicketRepo) Update(ctx context.Context, ticket *model.Ticket) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, ticket)
	}
	return nil
}

func (m *mockTicketRepo) Delete(ctx context.Context, id uint) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- Mock EventRepository ---

type mockEventRepo struct {
	createFn            func(ctx context.Context, event *model.Event) error
	findByIDFn          func(ctx context.Context, id uint) (*model.Event, error)
	findByIDForTenantFn func(ctx context.Context, id, tenantID uint) (*model.Event, error)
	findPublicFn        func(ctx context.Context, params dto.PublicListParams) ([]model.Event, int64, error)
	findPublicBySlugFn  func(ctx context.Context, slug, tenantSlug string) (*model.Event, error)
	listByTenantFn      func(ctx context.Context, tenantID uint) ([]model.Event, error)
	countByTenantFn     func(ctx context.Context, tenantID uint) (int64, error)
	slugExistsFn        func(ctx context.Context, tenantID uint, slug string) (bool, error)
	updateFn            func(ctx context.Context, event *model.Event) error
	deleteFn            func(ctx context.Context, id, tenantID uint) error
}

func (m *mockEventRepo) Create(ctx context.Context, event *model.Event) error {
	if m.createFn != nil {
		return m.createFn(ctx, event)
	}
	event.ID = 1
	return nil
}

func (m *mockEventRepo) FindByID(ctx context.Context, id uint) (*model.Event, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) FindByIDForTenant(ctx context.Context, id, tenantID uint) (*model.Event, error) {
	if m.findByIDForTenantFn != nil {
		return m.findByIDForTenantFn(ctx, id, tenantID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) FindPublic(ctx context.Context, params dto.PublicListParams) ([]model.Event, int64, error) {
	if m.findPublicFn != nil {
		return m.findPublicFn(ctx, params)
	}
	return nil, 0, nil
}

func (m *mockEventRepo) FindPublicBySlug(ctx context.Context, slug, tenantSlug string) (*model.Event, error) {
	if m.findPublicBySlugFn != nil {
		return m.findPublicBySlugFn(ctx, slug, tenantSlug)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) ListByTenant(ctx context.Context, tenantID uint) ([]model.Event, error) {
	if m.listByTenantFn != nil {
		return m.listByTenantFn(ctx, tenantID)
	}
	return nil, nil
}

func (m *mockEventRepo) CountByTenant(ctx context.Context, tenantID uint) (int64, error) {
	if m.countByTenantFn != nil {
		return m.countByTenantFn(ctx, tenantID)
	}
	return 0, nil
}

func (m *mockEventRepo) SlugExists(ctx context.Context, tenantID uint, slug string) (bool, error) {
	if m.slugExistsFn != nil {
		return m.slugExistsFn(ctx, tenantID, slug)
	}
	return false, nil
}

func (m *mockEventRepo) Update(ctx context.Context, event *model.Event) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, event)
	}
	return nil
}

func (m *mockEventRepo) Delete(ctx context.Context, id, tenantID uint) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, tenantID)
	}
	return nil
}

// --- Mock CheckInRepository ---

type mockCheckInRepo struct {
	createFn             func(ctx context.Context, tx *gorm.DB, checkIn *model.CheckIn) error
	findByRegistrationFn func(ctx context.Context, tx *gorm.DB, registrationID uint) (*model.CheckIn, error)
}

func (m *mockCheckInRepo) Create(ctx context.Context, tx *gorm.DB, checkIn *model.CheckIn) error {
	if m.createFn != nil {
		return m.createFn(ctx, tx, checkIn)
	}
	checkIn.ID = 1
	return nil
}

func (m *mockCheckInRepo) FindByRegistration(ctx context.Context, tx *gorm.DB, registrationID uint) (*model.CheckIn, error) {
	if m.findByRegistrationFn != nil {
		return m.findByRegistrationFn(ctx, tx, registrationID)
	}
	return nil, gorm.ErrRecordNotFound
}

// --- Mock TenantRepository ---

type mockTenantRepo struct {
	inTxFn           func(ctx context.Context, fn func(tx *gorm.DB) error) error
	createFn         func(ctx context.Context, tx *gorm.DB, tenant *model.Tenant) error
	createSettingsFn func(ctx context.Context, tx *gorm.DB, settings *model.TenantSettings) error
	findByIDFn       func(ctx context.Context, id uint) (*model.Tenant, error)
	findBySlugFn     func(ctx context.Context, slug string) (*model.Tenant, error)
	listFn           func(ctx context.Context) ([]model.Tenant, error)
	updateFn         func(ctx context.Context, tenant *model.Tenant) error
	updateSettingsFn func(ctx context.Context, settings *model.TenantSettings) error
	deleteFn         func(ctx context.Context, tx *gorm.DB, id uint) error
}

func (m *mockTenantRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if m.inTxFn != nil {
		return m.inTxFn(ctx, fn)
	}
	return fn(nil)
}

func (m *mockTenantRepo) Create(ctx context.Context, tx *gorm.DB, tenant *model.Tenant) error {
	if m.createFn != nil {
		return m.createFn(ctx, tx, tenant)
	}
	tenant.ID = 1
	return nil
}

func (m *mockTenantRepo) CreateSettings(ctx context.Context, tx *gorm.DB, settings *model.TenantSettings) error {
	if m.createSettingsFn != nil {
		return m.createSettingsFn(ctx, tx, settings)
	}
	settings.ID = 1
	return nil
}

func (m *mockTenantRepo) FindByID(ctx context.Context, id uint) (*model.Tenant, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTenantRepo) FindBySlug(ctx context.Context, slug string) (*model.Tenant, error) {
	if m.findBySlugFn != nil {
		return m.findBySlugFn(ctx, slug)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTenantRepo) List(ctx context.Context) ([]model.Tenant, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockTenantRepo) Update(ctx context.Context, tenant *model.Tenant) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, tenant)
	}
	return nil
}

func (m *mockTenantRepo) UpdateSettings(ctx context.Context, settings *model.TenantSettings) error {
	if m.updateSettingsFn != nil {
		return m.updateSettingsFn(ctx, settings)
	}
	return nil
}

func (m *mockTenantRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, tx, id)
	}
	return nil
}

// --- Mock UserRepository ---

type mockUserRepo struct {
	createFn        func(ctx context.Context, tx *gorm.DB, user *model.User) error
	findByIDFn      func(ctx context.Context, id uint) (*model.User, error)
	findByEmailFn   func(ctx context.Context, email string) (*model.User, error)
	listByTenantFn  func(ctx context.Context, tenantID uint) ([]model.User, error)
	countByTenantFn func(ctx context.Context, tenantID uint) (int64, error)
	updateFn        func(ctx context.Context, user *model.User) error
}

func (m *mockUserRepo) Create(ctx context.Context, tx *gorm.DB, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, tx, user)
	}
	user.ID = 1
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uint) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ListByTenant(ctx context.Context, tenantID uint) ([]model.User, error) {
	if m.listByTenantFn != nil {
		return m.listByTenantFn(ctx, tenantID)
	}
	return nil, nil
}

func (m *mockUserRepo) CountByTenant(ctx context.Context, tenantID uint) (int64, error) {
	if m.countByTenantFn != nil {
		return m.countByTenantFn(ctx, tenantID)
	}
	return 0, nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return nil
}

// --- Mock payment gateway ---

type mockGateway struct {
	createIntentFn   func(ctx context.Context, req *payment.IntentRequest) (*payment.Intent, error)
	getIntentFn      func(ctx context.Context, intentID string) (*payment.Intent, error)
	createCustomerFn func(ctx context.Context, email, name string) (string, error)
}

func (m *mockGateway) CreatePaymentIntent(ctx context.Context, req *payment.IntentRequest) (*payment.Intent, error) {
	if m.createIntentFn != nil {
		return m.createIntentFn(ctx, req)
	}
	return &payment.Intent{
		ID:           "pi_test",
		ClientSecret: "pi_test_secret",
		Status:       payment.IntentPending,
		Amount:       req.Amount,
	}, nil
}

func (m *mockGateway) GetPaymentIntent(ctx context.Context, intentID string) (*payment.Intent, error) {
	if m.getIntentFn != nil {
		return m.getIntentFn(ctx, intentID)
	}
	return &payment.Intent{ID: intentID, Status: payment.IntentSucceeded, Amount: 2500}, nil
}

func (m *mockGateway) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	if m.createCustomerFn != nil {
		return m.createCustomerFn(ctx, email, name)
	}
	return "cus_test", nil
}

// --- Mock publisher ---

type mockPublisher struct {
	published []string
}

func (m *mockPublisher) Publish(routingKey string, payload any) error {
	m.published = append(m.published, routingKey)
	return nil
}
