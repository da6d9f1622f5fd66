package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eventhub/internal/model"
)

type TicketRepository interface {
	Create(ctx context.Context, ticket *model.Ticket) error
	FindByID(ctx context.Context, id uint) (*model.Ticket, error)
	// FindForTenant verifies through a joined fetch that the ticket belongs
	// to the event and the event to the tenant.
	FindForTenant(ctx context.Context, id, eventID, tenantID uint) (*model.Ticket, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*model.Ticket, error)
	// ReserveSeat increments sold by one only while sold < quantity (or
	// quantity is unlimited). Returns false when the ticket is sold out.
	ReserveSeat(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
	ListByEvent(ctx context.Context, eventID uint) ([]model.Ticket, error)
	Update(ctx context.Context, ticket *model.Ticket) error
	Delete(ctx context.Context, id uint) error
}

type ticketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *model.Ticket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

func (r *ticketRepository) FindByID(ctx context.Context, id uint) (*model.Ticket, error) {
	var ticket model.Ticket
	if err := r.db.WithContext(ctx).First(&ticket, id).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) FindForTenant(ctx context.Context, id, eventID, tenantID uint) (*model.Ticket, error) {
	var ticket model.Ticket
	err := r.db.WithContext(ctx).
		Joins("JOIN events ON events.id = tickets.event_id").
		Where("tickets.id = ? AND tickets.event_id = ? AND events.tenant_id = ?", id, eventID, tenantID).
		First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// FindByIDForUpdate locks the ticket row, serializing concurrent
// registration attempts against the same ticket.
func (r *ticketRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*model.Ticket, error) {
	var ticket model.Ticket
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&ticket, id).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ReserveSeat(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	result := tx.WithContext(ctx).
		Model(&model.Ticket{}).
		Where("id = ? AND (quantity IS NULL OR sold < quantity)", id).
		UpdateColumn("sold", gorm.Expr("sold + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *ticketRepository) ListByEvent(ctx context.Context, eventID uint) ([]model.Ticket, error) {
	var tickets []model.Ticket
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("id ASC").
		Find(&tickets).Error
	return tickets, err
}

func (r *ticketRepository) Update(ctx context.Context, ticket *model.Ticket) error {
	return r.db.WithContext(ctx).Save(ticket).Error
}

func (r *ticketRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Ticket{}, id).Error
}
