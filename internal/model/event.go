package model

import (
	"time"

	"gorm.io/gorm"
)

type EventStatus string

const (
	EventDraft     EventStatus = "DRAFT"
	EventPublished EventStatus = "PUBLISHED"
	EventCancelled EventStatus = "CANCELLED"
	EventCompleted EventStatus = "COMPLETED"
)

type LocationType string

const (
	LocationVenue  LocationType = "VENUE"
	LocationOnline LocationType = "ONLINE"
	LocationHybrid LocationType = "HYBRID"
)

// Event is owned by exactly one tenant. Slug is unique within the tenant,
// not globally.
type Event struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	TenantID     uint           `json:"tenant_id" gorm:"not null;uniqueIndex:idx_events_tenant_slug"`
	Title        string         `json:"title" gorm:"type:varchar(200);not null"`
	Slug         string         `json:"slug" gorm:"type:varchar(200);not null;uniqueIndex:idx_events_tenant_slug"`
	Description  string         `json:"description" gorm:"type:text"`
	Image        string         `json:"image,omitempty" gorm:"type:varchar(500)"`
	StartDate    time.Time      `json:"start_date" gorm:"not null"`
	EndDate      time.Time      `json:"end_date" gorm:"not null"`
	Timezone     string         `json:"timezone" gorm:"type:varchar(50);default:'UTC'"`
	Location     string         `json:"location,omitempty" gorm:"type:varchar(255)"`
	LocationType LocationType   `json:"location_type" gorm:"type:varchar(20);default:'VENUE'"`
	OnlineURL    string         `json:"online_url,omitempty" gorm:"type:varchar(500)"`
	Status       EventStatus    `json:"status" gorm:"type:varchar(20);not null;default:'DRAFT'"`
	IsPublic     bool           `json:"is_public" gorm:"default:true"`
	MaxAttendees *int           `json:"max_attendees,omitempty"` // nil means unlimited
	CreatedByID  uint           `json:"created_by_id" gorm:"not null"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	Tenant  *Tenant  `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
	Tickets []Ticket `json:"tickets,omitempty" gorm:"foreignKey:EventID"`
}
