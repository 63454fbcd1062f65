package trade

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusPaid       OrderStatus = "PAID"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusRefunded   OrderStatus = "REFUNDED"
)

// IsValid reports whether the status is a known value
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusPaid,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// AcceptsPayment reports whether a payment may still be applied
func (s OrderStatus) AcceptsPayment() bool {
	return s == OrderStatusPending || s == OrderStatusProcessing
}

// SaleChannel identifies where an order was placed
type SaleChannel string

const (
	SaleChannelOnlineWeb     SaleChannel = "ONLINE_WEB"
	SaleChannelInPersonStore SaleChannel = "IN_PERSON_STORE"
)

// IsValid reports whether the channel is a known value
func (c SaleChannel) IsValid() bool {
	return c == SaleChannelOnlineWeb || c == SaleChannelInPersonStore
}

// PaymentMethod is how a sale was paid
type PaymentMethod string

const (
	PaymentMethodCash              PaymentMethod = "CASH"
	PaymentMethodBankTransfer      PaymentMethod = "BANK_TRANSFER"
	PaymentMethodDebitCard         PaymentMethod = "DEBIT_CARD"
	PaymentMethodCreditCard        PaymentMethod = "CREDIT_CARD"
	PaymentMethodPOS               PaymentMethod = "POS"
	PaymentMethodMercadoPagoOnline PaymentMethod = "MERCADO_PAGO_ONLINE"
)

// IsValid reports whether the method is a known value
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodDebitCard,
		PaymentMethodCreditCard, PaymentMethodPOS, PaymentMethodMercadoPagoOnline:
		return true
	}
	return false
}

// GatewayStatusApproved is the gateway status that settles an online payment
const GatewayStatusApproved = "approved"
