package handler

import (
	"context"

	"eventhub/internal/model"
	"eventhub/internal/service"
)

// mockRegistrationService is a function-field stand-in for the registration
// workflow; tests set only what the handler under test calls.
type mockRegistrationService struct {
	registerFn               func(ctx context.Context, input service.RegisterInput) (*model.Registration, string, error)
	confirmPaymentFn         func(ctx context.Context, registrationID uint, intentID string) (*model.Registration, error)
	handlePaymentSucceededFn func(ctx context.Context, intentID string, amountMinor int64) error
	handlePaymentFailedFn    func(ctx context.Context, intentID string) error
	getFn                    func(ctx context.Context, id, actorID uint, role model.UserRole, tenantID *uint) (*model.Registration, error)
	listForUserFn            func(ctx context.Context, userID uint) ([]model.Registration, error)
	listForEventFn           func(ctx context.Context, eventID uint, tenantID *uint) ([]model.Registration, error)
	updateStatusFn           func(ctx context.Context, id uint, tenantID *uint, status model.RegistrationStatus) (*model.Registration, error)
	checkInFn                func(ctx context.Context, id uint, tenantID *uint, staffID uint, notes string) (*model.Registration, error)
}

func (m *mockRegistrationService) Register(ctx context.Context, input service.RegisterInput) (*model.Registration, string, error) {
	return m.registerFn(ctx, input)
}

func (m *mockRegistrationService) ConfirmPayment(ctx context.Context, registrationID uint, intentID string) (*model.Registration, error) {
	return m.confirmPaymentFn(ctx, registrationID, intentID)
}

func (m *mockRegistrationService) HandlePaymentSucceeded(ctx context.Context, intentID string, amountMinor int64) error {
	return m.handlePaymentSucceededFn(ctx, intentID, amountMinor)
}

func (m *mockRegistrationService) HandlePaymentFailed(ctx context.Context, intentID string) error {
	return m.handlePaymentFailedFn(ctx, intentID)
}

func (m *mockRegistrationService) Get(ctx context.Context, id, actorID uint, role model.UserRole, tenantID *uint) (*model.Registration, error) {
	return m.getFn(ctx, id, actorID, role, tenantID)
}

func (m *mockRegistrationService) ListForUser(ctx context.Context, userID uint) ([]model.Registration, error) {
	return m.listForUserFn(ctx, userID)
}

func (m *mockRegistrationService) ListForEvent(ctx context.Context, eventID uint, tenantID *uint) ([]model.Registration, error) {
	return m.listForEventFn(ctx, eventID, tenantID)
}

func (m *mockRegistrationService) UpdateStatus(ctx context.Context, id uint, tenantID *uint, status model.RegistrationStatus) (*model.Registration, error) {
	return m.updateStatusFn(ctx, id, tenantID, status)
}

func (m *mockRegistrationService) CheckIn(ctx context.Context, id uint, tenantID *uint, staffID uint, notes string) (*model.Registration, error) {
	return m.checkInFn(ctx, id, tenantID, staffID, notes)
}
