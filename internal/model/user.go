package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleSuperAdmin  UserRole = "SUPER_ADMIN"
	RoleTenantAdmin UserRole = "TENANT_ADMIN"
	RoleTenantUser  UserRole = "TENANT_USER"
	RoleAttendee    UserRole = "ATTENDEE"
)

// User represents the user model stored in the database. TenantID is nil for
// super admins and for attendees not bound to any tenant.
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Email     string         `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"type:varchar(255);not null"`
	FirstName string         `json:"first_name" gorm:"type:varchar(100)"`
	LastName  string         `json:"last_name" gorm:"type:varchar(100)"`
	Role      UserRole       `json:"role" gorm:"type:varchar(20);not null;default:'ATTENDEE'"`
	TenantID  *uint          `json:"tenant_id,omitempty" gorm:"index"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Tenant *Tenant `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
}

// IsStaff reports whether the role can manage tenant resources
func (u *User) IsStaff() bool {
	return u.Role == RoleSuperAdmin || u.Role == RoleTenantAdmin || u.Role == RoleTenantUser
}
