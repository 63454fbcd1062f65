package trade

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Order is a customer order with its captured line prices
type Order struct {
	shared.BaseAggregateRoot
	ClientID            *uuid.UUID      `gorm:"type:uuid;index"`
	StoreID             *uuid.UUID      `gorm:"type:uuid;index"`
	SellerID            *uuid.UUID      `gorm:"type:uuid;index"`
	Total               decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	SaleChannel         SaleChannel     `gorm:"type:varchar(20);not null;index"`
	Status              OrderStatus     `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	ShippingAddress     string          `gorm:"type:text"`
	ShippingCity        string          `gorm:"type:varchar(100)"`
	ShippingState       string          `gorm:"type:varchar(100)"`
	ShippingZipCode     string          `gorm:"type:varchar(20)"`
	GatewayPreferenceID string          `gorm:"type:varchar(100)"`
	Items               []OrderItem     `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a product line captured at order time
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200)"`
	Quantity    int             `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Total       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderLine is one requested product line
type OrderLine struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	Price       decimal.Decimal
}

// Shipping holds the delivery address of an online order
type Shipping struct {
	Address string
	City    string
	State   string
	ZipCode string
}

// OrderDraft is the validated input for a new order
type OrderDraft struct {
	ClientID *uuid.UUID
	StoreID  *uuid.UUID
	SellerID *uuid.UUID
	Channel  SaleChannel
	Total    decimal.Decimal
	Shipping Shipping
	Lines    []OrderLine
}

// Validate checks the draft without touching stock
func (d OrderDraft) Validate() error {
	if !d.Channel.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", "Invalid sale channel")
	}
	if d.Channel == SaleChannelInPersonStore && (d.StoreID == nil || *d.StoreID == uuid.Nil) {
		return shared.NewDomainError("INVALID_INPUT", "Store is required for in-person sales")
	}
	if len(d.Lines) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Order must contain at least one item")
	}
	if d.Total.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Order total cannot be negative")
	}
	for _, l := range d.Lines {
		if l.ProductID == uuid.Nil {
			return shared.NewDomainError("VALIDATION_ERROR", "Product is required for every item")
		}
		if l.Quantity <= 0 {
			return shared.NewDomainError("VALIDATION_ERROR", "Item quantity must be greater than zero")
		}
		if l.Price.IsNegative() {
			return shared.NewDomainError("VALIDATION_ERROR", "Item price cannot be negative")
		}
	}
	return nil
}

// LinesTotal sums quantity times price over the lines
func (d OrderDraft) LinesTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range d.Lines {
		sum = sum.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

// NewOrder creates a PENDING order from a draft
func NewOrder(d OrderDraft) (*Order, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ClientID:          d.ClientID,
		StoreID:           d.StoreID,
		SellerID:          d.SellerID,
		Total:             d.Total,
		SaleChannel:       d.Channel,
		Status:            OrderStatusPending,
		ShippingAddress:   strings.TrimSpace(d.Shipping.Address),
		ShippingCity:      strings.TrimSpace(d.Shipping.City),
		ShippingState:     strings.TrimSpace(d.Shipping.State),
		ShippingZipCode:   strings.TrimSpace(d.Shipping.ZipCode),
	}
	o.Items = make([]OrderItem, 0, len(d.Lines))
	for _, l := range d.Lines {
		o.Items = append(o.Items, OrderItem{
			ID:          uuid.New(),
			OrderID:     o.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			Price:       l.Price,
			Total:       l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))),
		})
	}
	return o, nil
}

// MarkProcessing records that a gateway payment is awaiting confirmation
func (o *Order) MarkProcessing() error {
	if !o.Status.AcceptsPayment() {
		return o.invalidTransition(OrderStatusProcessing)
	}
	o.setStatus(OrderStatusProcessing)
	return nil
}

// MarkPaid settles the order
func (o *Order) MarkPaid() error {
	if !o.Status.AcceptsPayment() {
		return o.invalidTransition(OrderStatusPaid)
	}
	o.setStatus(OrderStatusPaid)
	return nil
}

// MarkDelivered hands a paid order to the client
func (o *Order) MarkDelivered() error {
	if o.Status != OrderStatusPaid {
		return o.invalidTransition(OrderStatusDelivered)
	}
	o.setStatus(OrderStatusDelivered)
	return nil
}

// Cancel cancels an unpaid order. Stock is not restored.
func (o *Order) Cancel() error {
	if !o.Status.AcceptsPayment() {
		return o.invalidTransition(OrderStatusCancelled)
	}
	o.setStatus(OrderStatusCancelled)
	return nil
}

// Refund reverses a paid or delivered order
func (o *Order) Refund() error {
	if o.Status != OrderStatusPaid && o.Status != OrderStatusDelivered {
		return o.invalidTransition(OrderStatusRefunded)
	}
	o.setStatus(OrderStatusRefunded)
	return nil
}

// TransitionTo applies an administrative status change through the lifecycle rules
func (o *Order) TransitionTo(status OrderStatus) error {
	switch status {
	case OrderStatusProcessing:
		return o.MarkProcessing()
	case OrderStatusPaid:
		return o.MarkPaid()
	case OrderStatusDelivered:
		return o.MarkDelivered()
	case OrderStatusCancelled:
		return o.Cancel()
	case OrderStatusRefunded:
		return o.Refund()
	default:
		return shared.NewDomainErrorf("INVALID_ORDER_STATE", "Cannot move order to status %s", status)
	}
}

// SetGatewayPreference records the checkout preference created for the order
func (o *Order) SetGatewayPreference(id string) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainErrorf("INVALID_ORDER_STATE", "Payment preference can only be created for pending orders, current status is %s", o.Status)
	}
	o.GatewayPreferenceID = id
	o.UpdatedAt = time.Now()
	return nil
}

func (o *Order) setStatus(status OrderStatus) {
	o.Status = status
	o.Touch()
}

func (o *Order) invalidTransition(to OrderStatus) error {
	return shared.NewDomainErrorf("INVALID_ORDER_STATE", "Order %s cannot move from %s to %s", o.ID, o.Status, to)
}
