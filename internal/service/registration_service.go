package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"eventhub/internal/model"
	"eventhub/internal/payment"
	"eventhub/internal/repository"
	"eventhub/pkg/rabbitmq"
)

var (
	ErrEventNotFound        = errors.New("event not found")
	ErrEventNotPublished    = errors.New("event is not available for registration")
	ErrTicketNotFound       = errors.New("ticket not found")
	ErrTicketUnavailable    = errors.New("ticket is not available")
	ErrTicketSoldOut        = errors.New("ticket is sold out")
	ErrSaleNotStarted       = errors.New("ticket sales have not started yet")
	ErrSaleEnded            = errors.New("ticket sales have ended")
	ErrEventFull            = errors.New("event is full")
	ErrAlreadyRegistered    = errors.New("already registered for this event")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrPaymentProvider      = errors.New("payment provider error")
	ErrIntentMismatch       = errors.New("payment intent does not match this registration")
	ErrPaymentNotCompleted  = errors.New("payment has not completed")
	ErrNotConfirmed         = errors.New("registration is not confirmed")
	ErrAlreadyCheckedIn     = errors.New("already checked in")
)

// EventPublisher emits registration lifecycle events to the message broker.
// A nil publisher disables publishing.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

// RegisterInput is the validated public registration request. UserID is set
// when an authenticated attendee self-registers.
type RegisterInput struct {
	EventID   uint
	TicketID  uint
	UserID    *uint
	Email     string
	FirstName string
	LastName  string
	Phone     string
}

type RegistrationService interface {
	Register(ctx context.Context, input RegisterInput) (*model.Registration, string, error)
	ConfirmPayment(ctx context.Context, registrationID uint, intentID string) (*model.Registration, error)
	HandlePaymentSucceeded(ctx context.Context, intentID string, amountMinor int64) error
	HandlePaymentFailed(ctx context.Context, intentID string) error
	Get(ctx context.Context, id, actorID uint, role model.UserRole, tenantID *uint) (*model.Registration, error)
	ListForUser(ctx context.Context, userID uint) ([]model.Registration, error)
	ListForEvent(ctx context.Context, eventID uint, tenantID *uint) ([]model.Registration, error)
	UpdateStatus(ctx context.Context, id uint, tenantID *uint, status model.RegistrationStatus) (*model.Registration, error)
	CheckIn(ctx context.Context, id uint, tenantID *uint, staffID uint, notes string) (*model.Registration, error)
}

type registrationService struct {
	registrations repository.RegistrationRepository
	tickets       repository.TicketRepository
	events        repository.EventRepository
	checkIns      repository.CheckInRepository
	gateway       payment.Gateway
	publisher     EventPublisher
}

func NewRegistrationService(
	registrations repository.RegistrationRepository,
	tickets repository.TicketRepository,
	events repository.EventRepository,
	checkIns repository.CheckInRepository,
	gateway payment.Gateway,
	publisher EventPublisher,
) RegistrationService {
	return &registrationService{
		registrations: registrations,
		tickets:       tickets,
		events:        events,
		checkIns:      checkIns,
		gateway:       gateway,
		publisher:     publisher,
	}
}

// Register runs the whole admission ladder and the inventory reservation in
// one transaction. The ticket row is locked up front, so the availability
// check and the sold increment cannot interleave with a concurrent request;
// overselling is impossible by construction.
func (s *registrationService) Register(ctx context.Context, input RegisterInput) (*model.Registration, string, error) {
	var reg *model.Registration
	var clientSecret string

	err := s.registrations.InTx(ctx, func(tx *gorm.DB) error {
		event, err := s.events.FindByID(ctx, input.EventID)
		if err != nil {
			return ErrEventNotFound
		}
		if event.Status != model.EventPublished {
			return ErrEventNotPublished
		}

		ticket, err := s.tickets.FindByIDForUpdate(ctx, tx, input.TicketID)
		if err != nil || ticket.EventID != event.ID {
			return ErrTicketNotFound
		}
		if ticket.Status != model.TicketAvailable {
			return ErrTicketUnavailable
		}
		if ticket.Quantity != nil && ticket.Sold >= *ticket.Quantity {
			return ErrTicketSoldOut
		}

		now := time.Now()
		if ticket.SaleStartDate != nil && now.Before(*ticket.SaleStartDate) {
			return ErrSaleNotStarted
		}
		if ticket.SaleEndDate != nil && now.After(*ticket.SaleEndDate) {
			return ErrSaleEnded
		}

		if event.MaxAttendees != nil {
			attending, err := s.registrations.CountAttendingByEvent(ctx, tx, event.ID)
			if err != nil {
				return err
			}
			if attending >= int64(*event.MaxAttendees) {
				return ErrEventFull
			}
		}

		if err := s.checkDuplicate(ctx, tx, input); err != nil {
			return err
		}

		reg = &model.Registration{
			EventID:      event.ID,
			TicketID:     ticket.ID,
			UserID:       input.UserID,
			Email:        input.Email,
			FirstName:    input.FirstName,
			LastName:     input.LastName,
			Phone:        input.Phone,
			RegisteredAt: now,
		}

		if ticket.Price > 0 {
			// The row lock is held across the provider call; that is the
			// price of never persisting a registration without its intent.
			intent, err := s.gateway.CreatePaymentIntent(ctx, &payment.IntentRequest{
				Amount: int64(math.Round(ticket.Price * 100)),
				Email:  input.Email,
				Metadata: map[string]string{
					"event_id":  fmt.Sprint(event.ID),
					"ticket_id": fmt.Sprint(ticket.ID),
					"email":     input.Email,
				},
			})
			if err != nil {
				return fmt.Errorf("%w: %v", ErrPaymentProvider, err)
			}
			reg.Status = model.RegistrationPending
			reg.PaymentStatus = model.PaymentPending
			reg.PaymentIntentID = &intent.ID
			clientSecret = intent.ClientSecret
		} else {
			zero := 0.0
			reg.Status = model.RegistrationConfirmed
			reg.PaymentStatus = model.PaymentPaid
			reg.AmountPaid = &zero
			reg.ConfirmedAt = &now
		}

		if err := s.registrations.Create(ctx, tx, reg); err != nil {
			return err
		}

		reserved, err := s.tickets.ReserveSeat(ctx, tx, ticket.ID)
		if err != nil {
			return err
		}
		if !reserved {
			return ErrTicketSoldOut
		}

		return nil
	})
	if err != nil {
		return nil, "", err
	}

	s.publish(rabbitKeyForStatus(reg.Status), reg)
	return reg, clientSecret, nil
}

func (s *registrationService) checkDuplicate(ctx context.Context, tx *gorm.DB, input RegisterInput) error {
	var err error
	if input.UserID != nil {
		_, err = s.registrations.FindActiveByEventAndUser(ctx, tx, input.EventID, *input.UserID)
	} else {
		_, err = s.registrations.FindActiveByEventAndEmail(ctx, tx, input.EventID, input.Email)
	}
	if err == nil {
		return ErrAlreadyRegistered
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// ConfirmPayment is the client-driven reconciliation path. It re-queries the
// provider rather than trusting the caller, then converges on the same state
// the webhook writes.
func (s *registrationService) ConfirmPayment(ctx context.Context, registrationID uint, intentID string) (*model.Registration, error) {
	reg, err := s.registrations.FindByID(ctx, registrationID)
	if err != nil {
		return nil, ErrRegistrationNotFound
	}
	if reg.PaymentIntentID == nil || *reg.PaymentIntentID != intentID {
		return nil, ErrIntentMismatch
	}

	intent, err := s.gateway.GetPaymentIntent(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}
	if intent.Status != payment.IntentSucceeded {
		return nil, ErrPaymentNotCompleted
	}

	if err := s.markPaid(ctx, reg, float64(intent.Amount)/100); err != nil {
		return nil, err
	}
	return reg, nil
}

// HandlePaymentSucceeded is the webhook path for payment_intent.succeeded
func (s *registrationService) HandlePaymentSucceeded(ctx context.Context, intentID string, amountMinor int64) error {
	reg, err := s.registrations.FindByPaymentIntentID(ctx, intentID)
	if err != nil {
		return ErrRegistrationNotFound
	}
	return s.markPaid(ctx, reg, float64(amountMinor)/100)
}

// HandlePaymentFailed records the failure but leaves the registration
// PENDING so the attendee can retry the charge.
func (s *registrationService) HandlePaymentFailed(ctx context.Context, intentID string) error {
	reg, err := s.registrations.FindByPaymentIntentID(ctx, intentID)
	if err != nil {
		return ErrRegistrationNotFound
	}
	if reg.PaymentStatus == model.PaymentPaid {
		// A failure event racing behind a success never unwinds a paid state
		return nil
	}
	reg.PaymentStatus = model.PaymentFailed
	if err := s.registrations.Save(ctx, reg); err != nil {
		return err
	}
	s.publish(rabbitmq.KeyPaymentFailed, reg)
	return nil
}

// markPaid is the single place terminal payment state is written, so the
// webhook and manual confirmation paths cannot diverge. Re-applying it to an
// already-paid registration is a no-op.
func (s *registrationService) markPaid(ctx context.Context, reg *model.Registration, amount float64) error {
	if reg.PaymentStatus == model.PaymentPaid && reg.Status != model.RegistrationPending {
		return nil
	}

	now := time.Now()
	if reg.Status == model.RegistrationPending {
		reg.Status = model.RegistrationConfirmed
	}
	reg.PaymentStatus = model.PaymentPaid
	reg.AmountPaid = &amount
	if reg.ConfirmedAt == nil {
		reg.ConfirmedAt = &now
	}

	if err := s.registrations.Save(ctx, reg); err != nil {
		return err
	}
	s.publish(rabbitmq.KeyRegistrationConfirmed, reg)
	return nil
}

func (s *registrationService) Get(ctx context.Context, id, actorID uint, role model.UserRole, tenantID *uint) (*model.Registration, error) {
	switch role {
	case model.RoleSuperAdmin:
		reg, err := s.registrations.FindByID(ctx, id)
		if err != nil {
			return nil, ErrRegistrationNotFound
		}
		return reg, nil
	case model.RoleTenantAdmin, model.RoleTenantUser:
		if tenantID == nil {
			return nil, ErrRegistrationNotFound
		}
		reg, err := s.registrations.FindByIDForTenant(ctx, id, *tenantID)
		if err != nil {
			return nil, ErrRegistrationNotFound
		}
		return reg, nil
	default:
		reg, err := s.registrations.FindByID(ctx, id)
		if err != nil || reg.UserID == nil || *reg.UserID != actorID {
			return nil, ErrRegistrationNotFound
		}
		return reg, nil
	}
}

func (s *registrationService) ListForUser(ctx context.Context, userID uint) ([]model.Registration, error) {
	return s.registrations.ListByUser(ctx, userID)
}

func (s *registrationService) ListForEvent(ctx context.Context, eventID uint, tenantID *uint) ([]model.Registration, error) {
	if tenantID != nil {
		if _, err := s.events.FindByIDForTenant(ctx, eventID, *tenantID); err != nil {
			return nil, ErrEventNotFound
		}
	} else if _, err := s.events.FindByID(ctx, eventID); err != nil {
		return nil, ErrEventNotFound
	}
	return s.registrations.ListByEvent(ctx, eventID)
}

// UpdateStatus applies the requested status after ownership verification.
// There is deliberately no transition table; staff may move a registration
// to any state in the closed set.
func (s *registrationService) UpdateStatus(ctx context.Context, id uint, tenantID *uint, status model.RegistrationStatus) (*model.Registration, error) {
	reg, err := s.findScoped(ctx, id, tenantID)
	if err != nil {
		return nil, err
	}

	reg.Status = status
	if err := s.registrations.Save(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *registrationService) CheckIn(ctx context.Context, id uint, tenantID *uint, staffID uint, notes string) (*model.Registration, error) {
	reg, err := s.findScoped(ctx, id, tenantID)
	if err != nil {
		return nil, err
	}
	if reg.Status != model.RegistrationConfirmed {
		return nil, ErrNotConfirmed
	}

	err = s.registrations.InTx(ctx, func(tx *gorm.DB) error {
		_, err := s.checkIns.FindByRegistration(ctx, tx, reg.ID)
		if err == nil {
			return ErrAlreadyCheckedIn
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := s.checkIns.Create(ctx, tx, &model.CheckIn{
			RegistrationID: reg.ID,
			EventID:        reg.EventID,
			CheckedInByID:  staffID,
			Notes:          notes,
		}); err != nil {
			return err
		}

		return s.registrations.UpdateStatus(ctx, tx, reg.ID, model.RegistrationCheckedIn)
	})
	if err != nil {
		return nil, err
	}

	reg.Status = model.RegistrationCheckedIn
	s.publish(rabbitmq.KeyRegistrationCheckedIn, reg)
	return reg, nil
}

func (s *registrationService) findScoped(ctx context.Context, id uint, tenantID *uint) (*model.Registration, error) {
	var reg *model.Registration
	var err error
	if tenantID == nil {
		reg, err = s.registrations.FindByID(ctx, id)
	} else {
		reg, err = s.registrations.FindByIDForTenant(ctx, id, *tenantID)
	}
	if err != nil {
		return nil, ErrRegistrationNotFound
	}
	return reg, nil
}

func (s *registrationService) publish(routingKey string, reg *model.Registration) {
	if s.publisher == nil {
		return
	}
	// Best effort: broker trouble never fails the request
	_ = s.publisher.Publish(routingKey, reg)
}

func rabbitKeyForStatus(status model.RegistrationStatus) string {
	if status == model.RegistrationConfirmed {
		return rabbitmq.KeyRegistrationConfirmed
	}
	return rabbitmq.KeyRegistrationCreated
}
