package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"eventhub/internal/dto"
	"eventhub/internal/model"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	FindByID(ctx context.Context, id uint) (*model.Event, error)
	FindByIDForTenant(ctx context.Context, id, tenantID uint) (*model.Event, error)
	FindPublic(ctx context.Context, params dto.PublicListParams) ([]model.Event, int64, error)
	FindPublicBySlug(ctx context.Context, slug, tenantSlug string) (*model.Event, error)
	ListByTenant(ctx context.Context, tenantID uint) ([]model.Event, error)
	CountByTenant(ctx context.Context, tenantID uint) (int64, error)
	SlugExists(ctx context.Context, tenantID uint, slug string) (bool, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id, tenantID uint) error
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) FindByID(ctx context.Context, id uint) (*model.Event, error) {
	var event model.Event
	if err := r.db.WithContext(ctx).Preload("Tickets").First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// FindByIDForTenant scopes the fetch by tenant so a foreign event reads as
// not found rather than forbidden.
func (r *eventRepository) FindByIDForTenant(ctx context.Context, id, tenantID uint) (*model.Event, error) {
	var event model.Event
	err := r.db.WithContext(ctx).
		Preload("Tickets").
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) publicQuery(ctx context.Context, params dto.PublicListParams) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&model.Event{}).
		Where("status = ? AND is_public = ?", model.EventPublished, true)

	if params.TenantSlug != "" {
		q = q.Joins("JOIN tenants ON tenants.id = events.tenant_id").
			Where("tenants.slug = ?", params.TenantSlug)
	}
	if params.Search != "" {
		like := "%" + params.Search + "%"
		q = q.Where("events.title ILIKE ? OR events.description ILIKE ?", like, like)
	}
	switch params.When {
	case "upcoming":
		q = q.Where("events.start_date >= ?", time.Now())
	case "past":
		q = q.Where("events.start_date < ?", time.Now())
	}
	return q
}

func (r *eventRepository) FindPublic(ctx context.Context, params dto.PublicListParams) ([]model.Event, int64, error) {
	var total int64
	if err := r.publicQuery(ctx, params).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (params.Page - 1) * params.Limit

	var events []model.Event
	err := r.publicQuery(ctx, params).
		Preload("Tickets").
		Order("events.start_date ASC").
		Offset(offset).
		Limit(params.Limit).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepository) FindPublicBySlug(ctx context.Context, slug, tenantSlug string) (*model.Event, error) {
	q := r.db.WithContext(ctx).
		Preload("Tickets").
		Where("events.slug = ? AND events.status = ? AND events.is_public = ?", slug, model.EventPublished, true)

	if tenantSlug != "" {
		q = q.Joins("JOIN tenants ON tenants.id = events.tenant_id").
			Where("tenants.slug = ?", tenantSlug)
	}

	var event model.Event
	if err := q.First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) ListByTenant(ctx context.Context, tenantID uint) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Preload("Tickets").
		Where("tenant_id = ?", tenantID).
		Order("start_date ASC").
		Find(&events).Error
	return events, err
}

func (r *eventRepository) CountByTenant(ctx context.Context, tenantID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Event{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error
	return count, err
}

func (r *eventRepository) SlugExists(ctx context.Context, tenantID uint, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Event{}).
		Where("tenant_id = ? AND slug = ?", tenantID, slug).
		Count(&count).Error
	return count > 0, err
}

func (r *eventRepository) Update(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *eventRepository) Delete(ctx context.Context, id, tenantID uint) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Delete(&model.Event{}).Error
}
