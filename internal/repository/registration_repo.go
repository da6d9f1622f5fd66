package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"eventhub/internal/model"
)

type RegistrationRepository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error
	Create(ctx context.Context, tx *gorm.DB, reg *model.Registration) error
	FindByID(ctx context.Context, id uint) (*model.Registration, error)
	FindByIDForTenant(ctx context.Context, id, tenantID uint) (*model.Registration, error)
	FindActiveByEventAndUser(ctx context.Context, tx *gorm.DB, eventID, userID uint) (*model.Registration, error)
	FindActiveByEventAndEmail(ctx context.Context, tx *gorm.DB, eventID uint, email string) (*model.Registration, error)
	CountAttendingByEvent(ctx context.Context, tx *gorm.DB, eventID uint) (int64, error)
	FindByPaymentIntentID(ctx context.Context, intentID string) (*model.Registration, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Registration, error)
	ListByEvent(ctx context.Context, eventID uint) ([]model.Registration, error)
	Save(ctx context.Context, reg *model.Registration) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status model.RegistrationStatus) error
}

type registrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

func (r *registrationRepository) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *registrationRepository) Create(ctx context.Context, tx *gorm.DB, reg *model.Registration) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(reg).Error
}

func (r *registrationRepository) FindByID(ctx context.Context, id uint) (*model.Registration, error) {
	var reg model.Registration
	err := r.db.WithContext(ctx).
		Preload("Event").
		Preload("Ticket").
		First(&reg, id).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// FindByIDForTenant joins through the event so staff can only reach
// registrations of their own tenant.
func (r *registrationRepository) FindByIDForTenant(ctx context.Context, id, tenantID uint) (*model.Registration, error) {
	var reg model.Registration
	err := r.db.WithContext(ctx).
		Preload("Event").
		Preload("Ticket").
		Joins("JOIN events ON events.id = registrations.event_id").
		Where("registrations.id = ? AND events.tenant_id = ?", id, tenantID).
		First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registrationRepository) FindActiveByEventAndUser(ctx context.Context, tx *gorm.DB, eventID, userID uint) (*model.Registration, error) {
	if tx == nil {
		tx = r.db
	}
	var reg model.Registration
	err := tx.WithContext(ctx).
		Where("event_id = ? AND user_id = ? AND status <> ?", eventID, userID, model.RegistrationCancelled).
		First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registrationRepository) FindActiveByEventAndEmail(ctx context.Context, tx *gorm.DB, eventID uint, email string) (*model.Registration, error) {
	if tx == nil {
		tx = r.db
	}
	var reg model.Registration
	err := tx.WithContext(ctx).
		Where("event_id = ? AND lower(email) = ? AND status <> ?",
			eventID, strings.ToLower(email), model.RegistrationCancelled).
		First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// CountAttendingByEvent counts registrations that occupy event capacity
func (r *registrationRepository) CountAttendingByEvent(ctx context.Context, tx *gorm.DB, eventID uint) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	var count int64
	err := tx.WithContext(ctx).
		Model(&model.Registration{}).
		Where("event_id = ? AND status IN ?", eventID,
			[]model.RegistrationStatus{model.RegistrationConfirmed, model.RegistrationCheckedIn}).
		Count(&count).Error
	return count, err
}

func (r *registrationRepository) FindByPaymentIntentID(ctx context.Context, intentID string) (*model.Registration, error) {
	var reg model.Registration
	err := r.db.WithContext(ctx).
		Where("payment_intent_id = ?", intentID).
		First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registrationRepository) ListByUser(ctx context.Context, userID uint) ([]model.Registration, error) {
	var regs []model.Registration
	err := r.db.WithContext(ctx).
		Preload("Event").
		Preload("Ticket").
		Where("user_id = ?", userID).
		Order("registered_at DESC").
		Find(&regs).Error
	return regs, err
}

func (r *registrationRepository) ListByEvent(ctx context.Context, eventID uint) ([]model.Registration, error) {
	var regs []model.Registration
	err := r.db.WithContext(ctx).
		Preload("Ticket").
		Where("event_id = ?", eventID).
		Order("registered_at ASC").
		Find(&regs).Error
	return regs, err
}

func (r *registrationRepository) Save(ctx context.Context, reg *model.Registration) error {
	return r.db.WithContext(ctx).Save(reg).Error
}

func (r *registrationRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status model.RegistrationStatus) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).
		Model(&model.Registration{}).
		Where("id = ?", id).
		Update("status", status).Error
}
