package repository

import (
	"context"

	"gorm.io/gorm"

	"eventhub/internal/model"
)

type TenantRepository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error
	Create(ctx context.Context, tx *gorm.DB, tenant *model.Tenant) error
	CreateSettings(ctx context.Context, tx *gorm.DB, settings *model.TenantSettings) error
	FindByID(ctx context.Context, id uint) (*model.Tenant, error)
	FindBySlug(ctx context.Context, slug string) (*model.Tenant, error)
	List(ctx context.Context) ([]model.Tenant, error)
	Update(ctx context.Context, tenant *model.Tenant) error
	UpdateSettings(ctx context.Context, settings *model.TenantSettings) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type tenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &tenantRepository{db: db}
}

func (r *tenantRepository) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *tenantRepository) Create(ctx context.Context, tx *gorm.DB, tenant *model.Tenant) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(tenant).Error
}

func (r *tenantRepository) CreateSettings(ctx context.Context, tx *gorm.DB, settings *model.TenantSettings) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(settings).Error
}

func (r *tenantRepository) FindByID(ctx context.Context, id uint) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := r.db.WithContext(ctx).Preload("Settings").First(&tenant, id).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepository) FindBySlug(ctx context.Context, slug string) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := r.db.WithContext(ctx).Preload("Settings").Where("slug = ?", slug).First(&tenant).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepository) List(ctx context.Context) ([]model.Tenant, error) {
	var tenants []model.Tenant
	err := r.db.WithContext(ctx).Preload("Settings").Order("id ASC").Find(&tenants).Error
	return tenants, err
}

func (r *tenantRepository) Update(ctx context.Context, tenant *model.Tenant) error {
	return r.db.WithContext(ctx).Save(tenant).Error
}

func (r *tenantRepository) UpdateSettings(ctx context.Context, settings *model.TenantSettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}

// Delete removes a tenant and everything it owns. Only reachable through the
// super-admin path.
func (r *tenantRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if tx == nil {
		tx = r.db
	}
	tx = tx.WithContext(ctx)

	eventIDs := tx.Model(&model.Event{}).Select("id").Where("tenant_id = ?", id)

	if err := tx.Where("event_id IN (?)", eventIDs).Delete(&model.CheckIn{}).Error; err != nil {
		return err
	}
	if err := tx.Where("event_id IN (?)", eventIDs).Delete(&model.Feedback{}).Error; err != nil {
		return err
	}
	if err := tx.Where("event_id IN (?)", eventIDs).Delete(&model.Registration{}).Error; err != nil {
		return err
	}
	if err := tx.Where("event_id IN (?)", eventIDs).Delete(&model.Ticket{}).Error; err != nil {
		return err
	}
	if err := tx.Where("tenant_id = ?", id).Delete(&model.Event{}).Error; err != nil {
		return err
	}
	if err := tx.Where("tenant_id = ?", id).Delete(&model.User{}).Error; err != nil {
		return err
	}
	if err := tx.Where("tenant_id = ?", id).Delete(&model.TenantSettings{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Tenant{}, id).Error
}
