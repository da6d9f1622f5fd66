package model

import (
	"time"

	"gorm.io/gorm"
)

type TenantStatus string

const (
	TenantActive    TenantStatus = "ACTIVE"
	TenantSuspended TenantStatus = "SUSPENDED"
	TenantInactive  TenantStatus = "INACTIVE"
)

// Tenant represents a customer organization. Every event, staff user and
// registration hangs off exactly one tenant.
type Tenant struct {
	ID                uint           `json:"id" gorm:"primaryKey"`
	Name              string         `json:"name" gorm:"type:varchar(100);not null"`
	Slug              string         `json:"slug" gorm:"type:varchar(100);uniqueIndex;not null"`
	Domain            *string        `json:"domain,omitempty" gorm:"type:varchar(255)"`
	Status            TenantStatus   `json:"status" gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	PlanType          string         `json:"plan_type" gorm:"type:varchar(50);not null;default:'free'"`
	MaxEvents         int            `json:"max_events" gorm:"not null;default:5"`
	MaxUsers          int            `json:"max_users" gorm:"not null;default:5"`
	MaxAttendees      int            `json:"max_attendees" gorm:"not null;default:100"`
	Logo              string         `json:"logo,omitempty" gorm:"type:varchar(500)"`
	PrimaryColor      string         `json:"primary_color,omitempty" gorm:"type:varchar(20)"`
	SecondaryColor    string         `json:"secondary_color,omitempty" gorm:"type:varchar(20)"`
	BillingCustomerID *string        `json:"-" gorm:"type:varchar(100)"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`

	Settings *TenantSettings `json:"settings,omitempty" gorm:"foreignKey:TenantID"`
}

// TenantSettings is the 1:1 settings record for a tenant
type TenantSettings struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	TenantID           uint      `json:"tenant_id" gorm:"uniqueIndex;not null"`
	AllowPublicEvents  bool      `json:"allow_public_events" gorm:"default:true"`
	RequireApproval    bool      `json:"require_approval" gorm:"default:false"`
	EmailNotifications bool      `json:"email_notifications" gorm:"default:true"`
	CustomDomain       *string   `json:"custom_domain,omitempty" gorm:"type:varchar(255)"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
