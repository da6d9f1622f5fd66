package dto

import (
	"eventhub/internal/model"
)

type CreateRegistrationRequest struct {
	EventID   uint   `json:"event_id" validate:"required"`
	TicketID  uint   `json:"ticket_id" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"omitempty,max=30"`
}

type CreateRegistrationResponse struct {
	Registration *model.Registration `json:"registration"`
	ClientSecret string              `json:"client_secret,omitempty"`
	Message      string              `json:"message"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
}

type UpdateRegistrationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING CONFIRMED CHECKED_IN CANCELLED"`
}

type CheckInRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=1000"`
}

type CreateFeedbackRequest struct {
	RegistrationID *uint  `json:"registration_id"`
	Rating         int    `json:"rating" validate:"required,min=1,max=5"`
	Comment        string `json:"comment" validate:"omitempty,max=2000"`
}
