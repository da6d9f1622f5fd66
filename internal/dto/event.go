package dto

import (
	"time"

	"eventhub/internal/model"
)

type CreateEventRequest struct {
	Title        string     `json:"title" validate:"required,max=200"`
	Slug         string     `json:"slug" validate:"required,max=200,lowercase,excludesall= "`
	Description  string     `json:"description"`
	Image        string     `json:"image" validate:"omitempty,url"`
	StartDate    time.Time  `json:"start_date" validate:"required"`
	EndDate      time.Time  `json:"end_date" validate:"required"`
	Timezone     string     `json:"timezone"`
	Location     string     `json:"location"`
	LocationType string     `json:"location_type" validate:"omitempty,oneof=VENUE ONLINE HYBRID"`
	OnlineURL    string     `json:"online_url" validate:"omitempty,url"`
	IsPublic     *bool      `json:"is_public"`
	MaxAttendees *int       `json:"max_attendees" validate:"omitempty,gt=0"`
}

type UpdateEventRequest struct {
	Title        *string    `json:"title" validate:"omitempty,max=200"`
	Description  *string    `json:"description"`
	Image        *string    `json:"image" validate:"omitempty,url"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	Timezone     *string    `json:"timezone"`
	Location     *string    `json:"location"`
	LocationType *string    `json:"location_type" validate:"omitempty,oneof=VENUE ONLINE HYBRID"`
	OnlineURL    *string    `json:"online_url" validate:"omitempty,url"`
	Status       *string    `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED CANCELLED COMPLETED"`
	IsPublic     *bool      `json:"is_public"`
	MaxAttendees *int       `json:"max_attendees" validate:"omitempty,gt=0"`
}

// PublicListParams are the query parameters of the public catalog browse
type PublicListParams struct {
	Page       int
	Limit      int
	Search     string
	TenantSlug string
	// When filters by start date: "upcoming" or "past". Empty means both.
	When string
}

type EventListResponse struct {
	Events []model.Event `json:"events"`
	Total  int64         `json:"total"`
	Page   int           `json:"page"`
	Pages  int           `json:"pages"`
}

type CreateTicketRequest struct {
	Name          string     `json:"name" validate:"required,max=100"`
	Description   string     `json:"description"`
	Price         float64    `json:"price" validate:"gte=0"`
	Quantity      *int       `json:"quantity" validate:"omitempty,gt=0"`
	SaleStartDate *time.Time `json:"sale_start_date"`
	SaleEndDate   *time.Time `json:"sale_end_date"`
	Status        string     `json:"status" validate:"omitempty,oneof=AVAILABLE SOLD_OUT HIDDEN"`
}

type UpdateTicketRequest struct {
	Name          *string    `json:"name" validate:"omitempty,max=100"`
	Description   *string    `json:"description"`
	Price         *float64   `json:"price" validate:"omitempty,gte=0"`
	Quantity      *int       `json:"quantity" validate:"omitempty,gt=0"`
	SaleStartDate *time.Time `json:"sale_start_date"`
	SaleEndDate   *time.Time `json:"sale_end_date"`
	Status        *string    `json:"status" validate:"omitempty,oneof=AVAILABLE SOLD_OUT HIDDEN"`
}
