package service

import (
	"context"
	"errors"
	"math"

	"eventhub/internal/dto"
	"eventhub/internal/model"
	"eventhub/internal/repository"
)

var (
	ErrEventQuotaExceeded = errors.New("event limit reached for this plan")
	ErrSlugTaken          = errors.New("an event with this slug already exists")
	ErrTenantNotFound     = errors.New("tenant not found")
)

type EventService interface {
	Create(ctx context.Context, tenantID, createdByID uint, req *dto.CreateEventRequest) (*model.Event, error)
	Get(ctx context.Context, id, tenantID uint) (*model.Event, error)
	ListForTenant(ctx context.Context, tenantID uint) ([]model.Event, error)
	Update(ctx context.Context, id, tenantID uint, req *dto.UpdateEventRequest) (*model.Event, error)
	Delete(ctx context.Context, id, tenantID uint) error

	PublicList(ctx context.Context, params dto.PublicListParams) (*dto.EventListResponse, error)
	PublicGetBySlug(ctx context.Context, slug, tenantSlug string) (*model.Event, error)

	CreateTicket(ctx context.Context, eventID, tenantID uint, req *dto.CreateTicketRequest) (*model.Ticket, error)
	UpdateTicket(ctx context.Context, ticketID, eventID, tenantID uint, req *dto.UpdateTicketRequest) (*model.Ticket, error)
	DeleteTicket(ctx context.Context, ticketID, eventID, tenantID uint) error
}

type eventService struct {
	events  repository.EventRepository
	tickets repository.TicketRepository
	tenants repository.TenantRepository
}

func NewEventService(
	events repository.EventRepository,
	tickets repository.TicketRepository,
	tenants repository.TenantRepository,
) EventService {
	return &eventService{events: events, tickets: tickets, tenants: tenants}
}

// Create enforces the tenant's plan quota and per-tenant slug uniqueness
// before inserting. The unique index on (tenant_id, slug) remains as the
// backstop for concurrent creates.
func (s *eventService) Create(ctx context.Context, tenantID, createdByID uint, req *dto.CreateEventRequest) (*model.Event, error) {
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, ErrTenantNotFound
	}

	count, err := s.events.CountByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if count >= int64(tenant.MaxEvents) {
		return nil, ErrEventQuotaExceeded
	}

	taken, err := s.events.SlugExists(ctx, tenantID, req.Slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlugTaken
	}

	event := &model.Event{
		TenantID:    tenantID,
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		Image:       req.Image,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Timezone:    req.Timezone,
		Location:    req.Location,
		OnlineURL:   req.OnlineURL,
		Status:      model.EventDraft,
		IsPublic:    true,
		CreatedByID: createdByID,
	}
	if event.Timezone == "" {
		event.Timezone = "UTC"
	}
	if req.LocationType != "" {
		event.LocationType = model.LocationType(req.LocationType)
	} else {
		event.LocationType = model.LocationVenue
	}
	if req.IsPublic != nil {
		event.IsPublic = *req.IsPublic
	}
	event.MaxAttendees = req.MaxAttendees

	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) Get(ctx context.Context, id, tenantID uint) (*model.Event, error) {
	event, err := s.events.FindByIDForTenant(ctx, id, tenantID)
	if err != nil {
		return nil, ErrEventNotFound
	}
	return event, nil
}

func (s *eventService) ListForTenant(ctx context.Context, tenantID uint) ([]model.Event, error) {
	return s.events.ListByTenant(ctx, tenantID)
}

// Update refetches the event scoped to the tenant before writing, so a
// guessed foreign ID cannot be edited.
func (s *eventService) Update(ctx context.Context, id, tenantID uint, req *dto.UpdateEventRequest) (*model.Event, error) {
	event, err := s.events.FindByIDForTenant(ctx, id, tenantID)
	if err != nil {
		return nil, ErrEventNotFound
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Image != nil {
		event.Image = *req.Image
	}
	if req.StartDate != nil {
		event.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		event.EndDate = *req.EndDate
	}
	if req.Timezone != nil {
		event.Timezone = *req.Timezone
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.LocationType != nil {
		event.LocationType = model.LocationType(*req.LocationType)
	}
	if req.OnlineURL != nil {
		event.OnlineURL = *req.OnlineURL
	}
	if req.Status != nil {
		event.Status = model.EventStatus(*req.Status)
	}
	if req.IsPublic != nil {
		event.IsPublic = *req.IsPublic
	}
	if req.MaxAttendees != nil {
		event.MaxAttendees = req.MaxAttendees
	}

	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, id, tenantID uint) error {
	if _, err := s.events.FindByIDForTenant(ctx, id, tenantID); err != nil {
		return ErrEventNotFound
	}
	return s.events.Delete(ctx, id, tenantID)
}

func (s *eventService) PublicList(ctx context.Context, params dto.PublicListParams) (*dto.EventListResponse, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = 10
	}

	events, total, err := s.events.FindPublic(ctx, params)
	if err != nil {
		return nil, err
	}

	return &dto.EventListResponse{
		Events: events,
		Total:  total,
		Page:   params.Page,
		Pages:  int(math.Ceil(float64(total) / float64(params.Limit))),
	}, nil
}

func (s *eventService) PublicGetBySlug(ctx context.Context, slug, tenantSlug string) (*model.Event, error) {
	event, err := s.events.FindPublicBySlug(ctx, slug, tenantSlug)
	if err != nil {
		return nil, ErrEventNotFound
	}
	return event, nil
}

func (s *eventService) CreateTicket(ctx context.Context, eventID, tenantID uint, req *dto.CreateTicketRequest) (*model.Ticket, error) {
	if _, err := s.events.FindByIDForTenant(ctx, eventID, tenantID); err != nil {
		return nil, ErrEventNotFound
	}

	ticket := &model.Ticket{
		EventID:       eventID,
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Quantity:      req.Quantity,
		SaleStartDate: req.SaleStartDate,
		SaleEndDate:   req.SaleEndDate,
		Status:        model.TicketAvailable,
	}
	if req.Status != "" {
		ticket.Status = model.TicketStatus(req.Status)
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *eventService) UpdateTicket(ctx context.Context, ticketID, eventID, tenantID uint, req *dto.UpdateTicketRequest) (*model.Ticket, error) {
	ticket, err := s.tickets.FindForTenant(ctx, ticketID, eventID, tenantID)
	if err != nil {
		return nil, ErrTicketNotFound
	}

	if req.Name != nil {
		ticket.Name = *req.Name
	}
	if req.Description != nil {
		ticket.Description = *req.Description
	}
	if req.Price != nil {
		ticket.Price = *req.Price
	}
	if req.Quantity != nil {
		ticket.Quantity = req.Quantity
	}
	if req.SaleStartDate != nil {
		ticket.SaleStartDate = req.SaleStartDate
	}
	if req.SaleEndDate != nil {
		ticket.SaleEndDate = req.SaleEndDate
	}
	if req.Status != nil {
		ticket.Status = model.TicketStatus(*req.Status)
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *eventService) DeleteTicket(ctx context.Context, ticketID, eventID, tenantID uint) error {
	if _, err := s.tickets.FindForTenant(ctx, ticketID, eventID, tenantID); err != nil {
		return ErrTicketNotFound
	}
	return s.tickets.Delete(ctx, ticketID)
}
