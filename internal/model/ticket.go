package model

import "time"

type TicketStatus string

const (
	TicketAvailable TicketStatus = "AVAILABLE"
	TicketSoldOut   TicketStatus = "SOLD_OUT"
	TicketHidden    TicketStatus = "HIDDEN"
)

// Ticket is a purchasable category within an event. Sold is only ever
// mutated by the registration workflow, through a conditional update that
// keeps sold <= quantity when quantity is set.
type Ticket struct {
	ID            uint         `json:"id" gorm:"primaryKey"`
	EventID       uint         `json:"event_id" gorm:"index;not null"`
	Name          string       `json:"name" gorm:"type:varchar(100);not null"`
	Description   string       `json:"description,omitempty" gorm:"type:text"`
	Price         float64      `json:"price" gorm:"type:decimal(10,2);not null;default:0"`
	Quantity      *int         `json:"quantity,omitempty"` // nil means unlimited
	Sold          int          `json:"sold" gorm:"not null;default:0"`
	SaleStartDate *time.Time   `json:"sale_start_date,omitempty"`
	SaleEndDate   *time.Time   `json:"sale_end_date,omitempty"`
	Status        TicketStatus `json:"status" gorm:"type:varchar(20);not null;default:'AVAILABLE'"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`

	Event *Event `json:"event,omitempty" gorm:"foreignKey:EventID"`
}
