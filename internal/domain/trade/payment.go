package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SaleTransaction records one successful payment against an order
type SaleTransaction struct {
	ID                     uuid.UUID        `gorm:"type:uuid;primaryKey"`
	OrderID                uuid.UUID        `gorm:"type:uuid;not null;index"`
	ClientID               *uuid.UUID       `gorm:"type:uuid;index"`
	StoreID                *uuid.UUID       `gorm:"type:uuid;index"`
	SellerID               *uuid.UUID       `gorm:"type:uuid;index"`
	SaleChannel            SaleChannel      `gorm:"type:varchar(20);not null"`
	PaymentMethod          PaymentMethod    `gorm:"type:varchar(30);not null"`
	Amount                 decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	PaymentGatewayID       string           `gorm:"type:varchar(100);index"`
	PaymentGatewayStatus   string           `gorm:"type:varchar(50)"`
	POSTransactionID       string           `gorm:"column:pos_transaction_id;type:varchar(100)"`
	BankTransferReference  string           `gorm:"type:varchar(100)"`
	AmountReceivedByClient *decimal.Decimal `gorm:"type:decimal(18,2)"`
	ChangeGivenToClient    *decimal.Decimal `gorm:"type:decimal(18,2)"`
	Notes                  string           `gorm:"type:text"`
	ProcessedBy            *uuid.UUID       `gorm:"type:uuid"`
	TransactionDate        time.Time        `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (SaleTransaction) TableName() string {
	return "sale_transactions"
}

// PaymentAttempt is a payment presented against an order
type PaymentAttempt struct {
	Method                 PaymentMethod
	Amount                 decimal.Decimal
	GatewayID              string
	GatewayStatus          string
	POSTransactionID       string
	BankTransferReference  string
	AmountReceivedByClient *decimal.Decimal
	ChangeGivenToClient    *decimal.Decimal
	Notes                  string
	ProcessedBy            *uuid.UUID
}

// ApplyPayment moves the order through the payment state machine.
//
// It returns a SaleTransaction when the payment settles the order. A gateway
// payment that is not approved leaves the order PROCESSING and returns nil
// without error; the caller decides how to report it.
func (o *Order) ApplyPayment(p PaymentAttempt) (*SaleTransaction, error) {
	if !o.Status.AcceptsPayment() {
		return nil, shared.NewDomainErrorf("INVALID_ORDER_STATE", "Order is already %s and cannot accept payments", o.Status)
	}
	if !p.Method.IsValid() {
		return nil, shared.NewDomainError("UNSUPPORTED_PAYMENT", "Invalid payment method")
	}
	if !p.Amount.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Payment amount must be greater than zero")
	}

	switch {
	case o.SaleChannel == SaleChannelOnlineWeb && p.Method == PaymentMethodMercadoPagoOnline:
		if p.GatewayStatus != GatewayStatusApproved {
			if err := o.MarkProcessing(); err != nil {
				return nil, err
			}
			return nil, nil
		}
		if err := o.MarkPaid(); err != nil {
			return nil, err
		}

	case o.SaleChannel == SaleChannelInPersonStore:
		if p.Amount.LessThan(o.Total) {
			return nil, shared.NewDomainErrorf("INSUFFICIENT_PAYMENT", "Amount %s is less than the order total %s", p.Amount.StringFixed(2), o.Total.StringFixed(2))
		}
		if err := o.MarkPaid(); err != nil {
			return nil, err
		}
		if err := o.MarkDelivered(); err != nil {
			return nil, err
		}

	default:
		return nil, shared.NewDomainErrorf("UNSUPPORTED_PAYMENT", "Payment method %s is not supported for %s orders", p.Method, o.SaleChannel)
	}

	return o.newSaleTransaction(p), nil
}

func (o *Order) newSaleTransaction(p PaymentAttempt) *SaleTransaction {
	change := p.ChangeGivenToClient
	if change == nil && p.Method == PaymentMethodCash && p.AmountReceivedByClient != nil {
		c := p.AmountReceivedByClient.Sub(p.Amount)
		if c.IsPositive() {
			change = &c
		}
	}

	return &SaleTransaction{
		ID:                     uuid.New(),
		OrderID:                o.ID,
		ClientID:               o.ClientID,
		StoreID:                o.StoreID,
		SellerID:               o.SellerID,
		SaleChannel:            o.SaleChannel,
		PaymentMethod:          p.Method,
		Amount:                 p.Amount,
		PaymentGatewayID:       p.GatewayID,
		PaymentGatewayStatus:   p.GatewayStatus,
		POSTransactionID:       p.POSTransactionID,
		BankTransferReference:  p.BankTransferReference,
		AmountReceivedByClient: p.AmountReceivedByClient,
		ChangeGivenToClient:    change,
		Notes:                  p.Notes,
		ProcessedBy:            p.ProcessedBy,
		TransactionDate:        time.Now(),
	}
}
