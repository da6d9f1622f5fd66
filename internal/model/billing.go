package model

import "time"

// Invoice is a billing record for a tenant. Read-only through the API;
// rows are produced by the billing pipeline, not this service.
type Invoice struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	TenantID  uint       `json:"tenant_id" gorm:"index;not null"`
	Number    string     `json:"number" gorm:"type:varchar(50);uniqueIndex;not null"`
	Amount    float64    `json:"amount" gorm:"type:decimal(10,2);not null"`
	Currency  string     `json:"currency" gorm:"type:varchar(10);not null;default:'usd'"`
	Status    string     `json:"status" gorm:"type:varchar(20);not null;default:'open'"`
	IssuedAt  time.Time  `json:"issued_at" gorm:"not null"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// UsageLog is an audit record of metered platform usage per tenant
type UsageLog struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	TenantID   uint      `json:"tenant_id" gorm:"index;not null"`
	Metric     string    `json:"metric" gorm:"type:varchar(50);not null"`
	Value      int64     `json:"value" gorm:"not null"`
	RecordedAt time.Time `json:"recorded_at" gorm:"not null"`
}
