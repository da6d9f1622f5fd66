package model

import "time"

type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "PENDING"
	RegistrationConfirmed RegistrationStatus = "CONFIRMED"
	RegistrationCheckedIn RegistrationStatus = "CHECKED_IN"
	RegistrationCancelled RegistrationStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// Registration is an attendee's claim on one ticket for one event. UserID is
// nil for guest registrations identified by email only. A partial unique
// index (see pkg/database) guarantees at most one non-cancelled registration
// per (event, user) or (event, email).
type Registration struct {
	ID              uint               `json:"id" gorm:"primaryKey"`
	EventID         uint               `json:"event_id" gorm:"index;not null"`
	TicketID        uint               `json:"ticket_id" gorm:"index;not null"`
	UserID          *uint              `json:"user_id,omitempty" gorm:"index"`
	Email           string             `json:"email" gorm:"type:varchar(100);not null"`
	FirstName       string             `json:"first_name" gorm:"type:varchar(100);not null"`
	LastName        string             `json:"last_name" gorm:"type:varchar(100);not null"`
	Phone           string             `json:"phone,omitempty" gorm:"type:varchar(30)"`
	Status          RegistrationStatus `json:"status" gorm:"type:varchar(20);not null;default:'PENDING'"`
	PaymentStatus   PaymentStatus      `json:"payment_status" gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentIntentID *string            `json:"payment_intent_id,omitempty" gorm:"type:varchar(100);index"`
	AmountPaid      *float64           `json:"amount_paid,omitempty" gorm:"type:decimal(10,2)"`
	RegisteredAt    time.Time          `json:"registered_at" gorm:"not null"`
	ConfirmedAt     *time.Time         `json:"confirmed_at,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`

	Event  *Event  `json:"event,omitempty" gorm:"foreignKey:EventID"`
	Ticket *Ticket `json:"ticket,omitempty" gorm:"foreignKey:TicketID"`
}
