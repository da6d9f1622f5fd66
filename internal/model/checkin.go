package model

import "time"

// CheckIn is 1:1 with a registration; the unique index on RegistrationID is
// what makes a second check-in impossible.
type CheckIn struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	RegistrationID uint      `json:"registration_id" gorm:"uniqueIndex;not null"`
	EventID        uint      `json:"event_id" gorm:"index;not null"`
	CheckedInByID  uint      `json:"checked_in_by_id" gorm:"not null"`
	Notes          string    `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at"`

	Registration *Registration `json:"registration,omitempty" gorm:"foreignKey:RegistrationID"`
}
