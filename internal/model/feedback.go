package model

import "time"

// Feedback is a post-event rating and optional comment for an event
type Feedback struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	EventID        uint      `json:"event_id" gorm:"index;not null"`
	RegistrationID *uint     `json:"registration_id,omitempty" gorm:"index"`
	UserID         *uint     `json:"user_id,omitempty" gorm:"index"`
	Rating         int       `json:"rating" gorm:"not null"` // 1..5
	Comment        string    `json:"comment,omitempty" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at"`
}
