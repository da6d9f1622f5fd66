package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"eventhub/internal/dto"
	"eventhub/internal/model"
)

func activeTenant() *model.Tenant {
	return &model.Tenant{
		ID:        1,
		Name:      "Acme Events",
		Slug:      "acme",
		Status:    model.TenantActive,
		MaxEvents: 5,
		MaxUsers:  5,
	}
}

func createEventRequest() *dto.CreateEventRequest {
	return &dto.CreateEventRequest{
		Title:     "Go Conference",
		Slug:      "go-conference",
		StartDate: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC),
	}
}

func TestCreateEvent_Success(t *testing.T) {
	tenants := &mockTenantRepo{
		findByIDFn: func(ctx context.Context, id uint) (*model.Tenant, error) {
			return activeTenant(), nil
		},
	}
	events := &mockEventRepo{}

	svc := NewEventService(events, &mockTicketRepo{}, tenants)
	event, err := svc.Create(context.Background(), 1, 7, createEventRequest())

	assert.NoError(t, err)
	assert.Equal(t, uint(1), event.ID)
	assert.Equal(t, uint(1), event.TenantID)
	assert.Equal(t, uint(7), event.CreatedByID)
	assert.Equal(t, model.EventDraft, event.Status, "new events start as drafts")
	assert.Equal(t, "UTC", event.Timezone)
}

func TestCreateEvent_QuotaExceeded(t *testing.T) {
	tenants := &mockTenantRepo{
		findByIDFn: func(ctx context.Context, id uint) (*model.Tenant, error) {
			return activeTenant(), nil
		},
	}
	events := &mockEventRepo{
		countByTenantFn: func(ctx context.Context, tenantID uint) (int64, error) {
			return 5, nil // at the plan limit
		},
	}

	svc := NewEventService(events, &mockTicketRepo{}, tenants)
	_, err := svc.Create(context.Background(), 1, 7, createEventRequest())

	assert.ErrorIs(t, err, ErrEventQuotaExceeded)
}

func TestCreateEvent_DuplicateSlugWithinTenant(t *testing.T) {
	tenants := &mockTenantRepo{
		findByIDFn: func(ctx context.Context, id uint) (*model.Tenant, error) {
			return activeTenant(), nil
		},
	}
	events := &mockEventRepo{
		slugExistsFn: func(ctx context.Context, tenantID uint, slug string) (bool, error) {
			return true, nil
		},
	}

	svc := NewEventService(events, &mockTicketRepo{}, tenants)
	_, err := svc.Create(context.Background(), 1, 7, createEventRequest())

	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestUpdateEvent_ForeignEventIsNotFound(t *testing.T) {
	events := &mockEventRepo{} // FindByIDForTenant defaults to not found

	svc := NewEventService(events, &mockTicketRepo{}, &mockTenantRepo{})
	title := "Renamed"
	_, err := svc.Update(context.Background(), 1, 2, &dto.UpdateEventRequest{Title: &title})

	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestUpdateEvent_PartialUpdate(t *testing.T) {
	events := &mockEventRepo{
		findByIDForTenantFn: func(ctx context.Context, id, tenantID uint) (*model.Event, error) {
			return &model.Event{ID: id, TenantID: tenantID, Title: "Old", Status: model.EventDraft}, nil
		},
	}

	svc := NewEventService(events, &mockTicketRepo{}, &mockTenantRepo{})
	status := "PUBLISHED"
	event, err := svc.Update(context.Background(), 1, 1, &dto.UpdateEventRequest{Status: &status})

	assert.NoError(t, err)
	assert.Equal(t, model.EventPublished, event.Status)
	assert.Equal(t, "Old", event.Title, "unset fields stay untouched")
}

func TestPublicList_PaginationDefaultsAndPages(t *testing.T) {
	var captured dto.PublicListParams
	events := &mockEventRepo{
		findPublicFn: func(ctx context.Context, params dto.PublicListParams) ([]model.Event, int64, error) {
			captured = params
			return []model.Event{{ID: 1}, {ID: 2}}, 25, nil
		},
	}

	svc := NewEventService(events, &mockTicketRepo{}, &mockTenantRepo{})
	result, err := svc.PublicList(context.Background(), dto.PublicListParams{Page: 0, Limit: 0})

	assert.NoError(t, err)
	assert.Equal(t, 1, captured.Page)
	assert.Equal(t, 10, captured.Limit)
	assert.Equal(t, int64(25), result.Total)
	assert.Equal(t, 3, result.Pages) // ceil(25/10)
}

func TestCreateTicket_EventOwnershipChecked(t *testing.T) {
	svc := NewEventService(&mockEventRepo{}, &mockTicketRepo{}, &mockTenantRepo{})
	_, err := svc.CreateTicket(context.Background(), 1, 1, &dto.CreateTicketRequest{Name: "GA", Price: 10})

	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestCreateTicket_Defaults(t *testing.T) {
	events := &mockEventRepo{
		findByIDForTenantFn: func(ctx context.Context, id, tenantID uint) (*model.Event, error) {
			return &model.Event{ID: id, TenantID: tenantID}, nil
		},
	}

	svc := NewEventService(events, &mockTicketRepo{}, &mockTenantRepo{})
	ticket, err := svc.CreateTicket(context.Background(), 1, 1, &dto.CreateTicketRequest{Name: "GA", Price: 10})

	assert.NoError(t, err)
	assert.Equal(t, model.TicketAvailable, ticket.Status)
	assert.Nil(t, ticket.Quantity, "nil quantity means unlimited")
}
