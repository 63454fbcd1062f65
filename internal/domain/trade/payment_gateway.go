package trade

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrGatewayNoItems      = errors.New("gateway: preference needs at least one item")
	ErrGatewayInvalidPayer = errors.New("gateway: payer name and email are required")
	ErrGatewayNotFound     = errors.New("gateway: payment not found")
)

// PreferenceItem is one checkout line sent to the gateway
type PreferenceItem struct {
	ProductID uuid.UUID
	Title     string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Payer identifies the buyer at the gateway
type Payer struct {
	Name    string
	Surname string
	Email   string
	Phone   string
}

// PreferenceRequest asks the gateway for a hosted checkout of an order
type PreferenceRequest struct {
	OrderID uuid.UUID
	Items   []PreferenceItem
	Payer   Payer
}

// Validate checks the request before it leaves the process
func (r PreferenceRequest) Validate() error {
	if len(r.Items) == 0 {
		return ErrGatewayNoItems
	}
	if r.Payer.Name == "" || r.Payer.Email == "" {
		return ErrGatewayInvalidPayer
	}
	return nil
}

// Preference is the hosted checkout the gateway created
type Preference struct {
	ID               string
	InitPoint        string
	SandboxInitPoint string
}

// GatewayPayment is the gateway's view of a payment
type GatewayPayment struct {
	ID                string
	Status            string
	ExternalReference string
	Amount            decimal.Decimal
	MethodID          string
}

// PaymentGateway is the port for the hosted checkout provider.
// Implementations live in the infrastructure layer.
type PaymentGateway interface {
	// CreatePreference registers a checkout for an order
	CreatePreference(ctx context.Context, req PreferenceRequest) (*Preference, error)
	// GetPayment fetches a payment by the gateway's id
	GetPayment(ctx context.Context, paymentID string) (*GatewayPayment, error)
	// VerifySignature checks a webhook signature over the raw request body
	VerifySignature(body []byte, signature string) bool
}
