package repository

import (
	"context"

	"gorm.io/gorm"

	"eventhub/internal/model"
)

// PlatformStats is the super-admin dashboard aggregation
type PlatformStats struct {
	Tenants       int64   `json:"tenants"`
	ActiveTenants int64   `json:"active_tenants"`
	Users         int64   `json:"users"`
	Events        int64   `json:"events"`
	Registrations int64   `json:"registrations"`
	Revenue       float64 `json:"revenue"`
}

// TenantStats is the tenant dashboard aggregation
type TenantStats struct {
	Events                int64                              `json:"events"`
	PublishedEvents       int64                              `json:"published_events"`
	TicketsSold           int64                              `json:"tickets_sold"`
	Revenue               float64                            `json:"revenue"`
	RegistrationsByStatus map[model.RegistrationStatus]int64 `json:"registrations_by_status"`
}

type AnalyticsRepository interface {
	PlatformStats(ctx context.Context) (*PlatformStats, error)
	TenantStats(ctx context.Context, tenantID uint) (*TenantStats, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) PlatformStats(ctx context.Context) (*PlatformStats, error) {
	db := r.db.WithContext(ctx)
	stats := &PlatformStats{}

	if err := db.Model(&model.Tenant{}).Count(&stats.Tenants).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Tenant{}).Where("status = ?", model.TenantActive).Count(&stats.ActiveTenants).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.User{}).Count(&stats.Users).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Event{}).Count(&stats.Events).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Registration{}).Count(&stats.Registrations).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Registration{}).
		Where("payment_status = ?", model.PaymentPaid).
		Select("COALESCE(SUM(amount_paid), 0)").
		Scan(&stats.Revenue).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *analyticsRepository) TenantStats(ctx context.Context, tenantID uint) (*TenantStats, error) {
	db := r.db.WithContext(ctx)
	stats := &TenantStats{
		RegistrationsByStatus: make(map[model.RegistrationStatus]int64),
	}

	if err := db.Model(&model.Event{}).Where("tenant_id = ?", tenantID).Count(&stats.Events).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Event{}).
		Where("tenant_id = ? AND status = ?", tenantID, model.EventPublished).
		Count(&stats.PublishedEvents).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Ticket{}).
		Joins("JOIN events ON events.id = tickets.event_id").
		Where("events.tenant_id = ?", tenantID).
		Select("COALESCE(SUM(tickets.sold), 0)").
		Scan(&stats.TicketsSold).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Registration{}).
		Joins("JOIN events ON events.id = registrations.event_id").
		Where("events.tenant_id = ? AND registrations.payment_status = ?", tenantID, model.PaymentPaid).
		Select("COALESCE(SUM(registrations.amount_paid), 0)").
		Scan(&stats.Revenue).Error; err != nil {
		return nil, err
	}

	type statusCount struct {
		Status model.RegistrationStatus
		Count  int64
	}
	var rows []statusCount
	if err := db.Model(&model.Registration{}).
		Joins("JOIN events ON events.id = registrations.event_id").
		Where("events.tenant_id = ?", tenantID).
		Select("registrations.status AS status, COUNT(*) AS count").
		Group("registrations.status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.RegistrationsByStatus[row.Status] = row.Count
	}

	return stats, nil
}
