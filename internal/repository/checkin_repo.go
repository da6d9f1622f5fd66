package repository

import (
	"context"

	"gorm.io/gorm"

	"eventhub/internal/model"
)

type CheckInRepository interface {
	Create(ctx context.Context, tx *gorm.DB, checkIn *model.CheckIn) error
	FindByRegistration(ctx context.Context, tx *gorm.DB, registrationID uint) (*model.CheckIn, error)
}

type checkInRepository struct {
	db *gorm.DB
}

func NewCheckInRepository(db *gorm.DB) CheckInRepository {
	return &checkInRepository{db: db}
}

func (r *checkInRepository) Create(ctx context.Context, tx *gorm.DB, checkIn *model.CheckIn) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(checkIn).Error
}

func (r *checkInRepository) FindByRegistration(ctx context.Context, tx *gorm.DB, registrationID uint) (*model.CheckIn, error) {
	if tx == nil {
		tx = r.db
	}
	var checkIn model.CheckIn
	err := tx.WithContext(ctx).
		Where("registration_id = ?", registrationID).
		First(&checkIn).Error
	if err != nil {
		return nil, err
	}
	return &checkIn, nil
}
