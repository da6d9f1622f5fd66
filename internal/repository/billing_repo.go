package repository

import (
	"context"

	"gorm.io/gorm"

	"eventhub/internal/model"
)

// BillingRepository is read-only: invoices and usage rows are produced by
// the external billing pipeline.
type BillingRepository interface {
	ListInvoices(ctx context.Context, tenantID uint) ([]model.Invoice, error)
	ListUsage(ctx context.Context, tenantID uint) ([]model.UsageLog, error)
}

type billingRepository struct {
	db *gorm.DB
}

func NewBillingRepository(db *gorm.DB) BillingRepository {
	return &billingRepository{db: db}
}

func (r *billingRepository) ListInvoices(ctx context.Context, tenantID uint) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("issued_at DESC").
		Find(&invoices).Error
	return invoices, err
}

func (r *billingRepository) ListUsage(ctx context.Context, tenantID uint) ([]model.UsageLog, error) {
	var usage []model.UsageLog
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("recorded_at DESC").
		Find(&usage).Error
	return usage, err
}
