package payment

import "context"

// Gateway is the payment provider boundary. Handlers and services only see
// this interface; tests substitute a fake.
type Gateway interface {
	// CreatePaymentIntent creates a provider payment intent and returns its
	// client secret for the frontend to complete the charge.
	CreatePaymentIntent(ctx context.Context, req *IntentRequest) (*Intent, error)

	// GetPaymentIntent fetches the live state of an intent from the provider
	GetPaymentIntent(ctx context.Context, intentID string) (*Intent, error)

	// CreateCustomer creates a provider billing customer for a tenant
	CreateCustomer(ctx context.Context, email, name string) (string, error)
}

// IntentRequest describes a charge attempt in provider-minor units
type IntentRequest struct {
	Amount   int64 // minor units, e.g. cents
	Currency string
	Email    string
	Metadata map[string]string
}

// Intent is the provider-agnostic view of a payment intent
type Intent struct {
	ID           string
	ClientSecret string
	Status       IntentStatus
	Amount       int64
	Currency     string
}

type IntentStatus string

const (
	IntentSucceeded IntentStatus = "succeeded"
	IntentPending   IntentStatus = "pending"
	IntentFailed    IntentStatus = "failed"
)
