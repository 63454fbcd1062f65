package trade

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// ==================== Order DTOs ====================

// CreateOrderItemInput is one requested line of an order
type CreateOrderItemInput struct {
	ProductID uuid.UUID       `json:"productId" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,gt=0"`
	Price     decimal.Decimal `json:"price" binding:"decimalgte0"`
}

// CreateOrderRequest represents a request to place an order
type CreateOrderRequest struct {
	ClientID        *uuid.UUID             `json:"clientId"`
	StoreID         *uuid.UUID             `json:"storeId"`
	SellerID        *uuid.UUID             `json:"sellerId"`
	SaleChannel     string                 `json:"saleChannel" binding:"required,oneof=ONLINE_WEB IN_PERSON_STORE"`
	Total           decimal.Decimal        `json:"total" binding:"decimalgte0"`
	ShippingAddress string                 `json:"shippingAddress" binding:"max=500"`
	ShippingCity    string                 `json:"shippingCity" binding:"max=100"`
	ShippingState   string                 `json:"shippingState" binding:"max=100"`
	ShippingZipCode string                 `json:"shippingZipCode" binding:"max=20"`
	Items           []CreateOrderItemInput `json:"items" binding:"required,min=1,dive"`
}

func (r CreateOrderRequest) toDraft() trade.OrderDraft {
	lines := make([]trade.OrderLine, len(r.Items))
	for i, it := range r.Items {
		lines[i] = trade.OrderLine{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price}
	}
	return trade.OrderDraft{
		ClientID: r.ClientID,
		StoreID:  r.StoreID,
		SellerID: r.SellerID,
		Channel:  trade.SaleChannel(r.SaleChannel),
		Total:    r.Total,
		Shipping: trade.Shipping{
			Address: r.ShippingAddress,
			City:    r.ShippingCity,
			State:   r.ShippingState,
			ZipCode: r.ShippingZipCode,
		},
		Lines: lines,
	}
}

// UpdateOrderStatusRequest is an administrative status change
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=DELIVERED CANCELLED REFUNDED"`
}

// OrderListFilter represents filter options for order lists
type OrderListFilter struct {
	Status      string     `form:"status" binding:"omitempty,oneof=PENDING PROCESSING PAID DELIVERED CANCELLED REFUNDED"`
	SaleChannel string     `form:"saleChannel" binding:"omitempty,oneof=ONLINE_WEB IN_PERSON_STORE"`
	StoreID     *uuid.UUID `form:"-"` // storeId, parsed by the handler
	SellerID    *uuid.UUID `form:"-"` // sellerId, parsed by the handler
	ClientID    *uuid.UUID `form:"-"` // clientId, parsed by the handler
	Page        int        `form:"page" binding:"omitempty,min=1"`
	PageSize    int        `form:"pageSize" binding:"omitempty,min=1,max=100"`
	OrderBy     string     `form:"orderBy"`
	OrderDir    string     `form:"orderDir" binding:"omitempty,oneof=asc desc"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID                  uuid.UUID           `json:"id"`
	ClientID            *uuid.UUID          `json:"clientId,omitempty"`
	StoreID             *uuid.UUID          `json:"storeId,omitempty"`
	SellerID            *uuid.UUID          `json:"sellerId,omitempty"`
	Total               decimal.Decimal     `json:"total"`
	SaleChannel         string              `json:"saleChannel"`
	Status              string              `json:"status"`
	ShippingAddress     string              `json:"shippingAddress,omitempty"`
	ShippingCity        string              `json:"shippingCity,omitempty"`
	ShippingState       string              `json:"shippingState,omitempty"`
	ShippingZipCode     string              `json:"shippingZipCode,omitempty"`
	GatewayPreferenceID string              `json:"gatewayPreferenceId,omitempty"`
	Items               []OrderItemResponse `json:"items"`
	Version             int                 `json:"version"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
}

// ToOrderResponse converts a domain order to a response
func ToOrderResponse(o *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price,
			Total:       it.Total,
		}
	}
	return OrderResponse{
		ID:                  o.ID,
		ClientID:            o.ClientID,
		StoreID:             o.StoreID,
		SellerID:            o.SellerID,
		Total:               o.Total,
		SaleChannel:         string(o.SaleChannel),
		Status:              string(o.Status),
		ShippingAddress:     o.ShippingAddress,
		ShippingCity:        o.ShippingCity,
		ShippingState:       o.ShippingState,
		ShippingZipCode:     o.ShippingZipCode,
		GatewayPreferenceID: o.GatewayPreferenceID,
		Items:               items,
		Version:             o.GetVersion(),
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}
}

// ==================== Payment DTOs ====================

// ProcessPaymentRequest presents a payment against an order
type ProcessPaymentRequest struct {
	OrderID                uuid.UUID        `json:"orderId" binding:"required"`
	PaymentMethod          string           `json:"paymentMethod" binding:"required,oneof=CASH BANK_TRANSFER DEBIT_CARD CREDIT_CARD POS MERCADO_PAGO_ONLINE"`
	Amount                 decimal.Decimal  `json:"amount" binding:"decimalgte0"`
	PaymentGatewayID       string           `json:"paymentGatewayId" binding:"max=100"`
	PaymentGatewayStatus   string           `json:"paymentGatewayStatus" binding:"max=50"`
	POSTransactionID       string           `json:"posTransactionId" binding:"max=100"`
	BankTransferReference  string           `json:"bankTransferReference" binding:"max=100"`
	AmountReceivedByClient *decimal.Decimal `json:"amountReceivedByClient"`
	ChangeGivenToClient    *decimal.Decimal `json:"changeGivenToClient"`
	Notes                  string           `json:"notes" binding:"max=1000"`
	// ProcessedBy is filled from the authenticated user
	ProcessedBy *uuid.UUID `json:"-"`
}

func (r ProcessPaymentRequest) toAttempt() trade.PaymentAttempt {
	return trade.PaymentAttempt{
		Method:                 trade.PaymentMethod(r.PaymentMethod),
		Amount:                 r.Amount,
		GatewayID:              r.PaymentGatewayID,
		GatewayStatus:          r.PaymentGatewayStatus,
		POSTransactionID:       r.POSTransactionID,
		BankTransferReference:  r.BankTransferReference,
		AmountReceivedByClient: r.AmountReceivedByClient,
		ChangeGivenToClient:    r.ChangeGivenToClient,
		Notes:                  r.Notes,
		ProcessedBy:            r.ProcessedBy,
	}
}

// SaleTransactionResponse represents a recorded payment
type SaleTransactionResponse struct {
	ID                     uuid.UUID        `json:"id"`
	OrderID                uuid.UUID        `json:"orderId"`
	SaleChannel            string           `json:"saleChannel"`
	PaymentMethod          string           `json:"paymentMethod"`
	Amount                 decimal.Decimal  `json:"amount"`
	PaymentGatewayID       string           `json:"paymentGatewayId,omitempty"`
	PaymentGatewayStatus   string           `json:"paymentGatewayStatus,omitempty"`
	POSTransactionID       string           `json:"posTransactionId,omitempty"`
	BankTransferReference  string           `json:"bankTransferReference,omitempty"`
	AmountReceivedByClient *decimal.Decimal `json:"amountReceivedByClient,omitempty"`
	ChangeGivenToClient    *decimal.Decimal `json:"changeGivenToClient,omitempty"`
	Notes                  string           `json:"notes,omitempty"`
	ProcessedBy            *uuid.UUID       `json:"processedBy,omitempty"`
	TransactionDate        time.Time        `json:"transactionDate"`
}

func toSaleTransactionResponse(t *trade.SaleTransaction) SaleTransactionResponse {
	return SaleTransactionResponse{
		ID:                     t.ID,
		OrderID:                t.OrderID,
		SaleChannel:            string(t.SaleChannel),
		PaymentMethod:          string(t.PaymentMethod),
		Amount:                 t.Amount,
		PaymentGatewayID:       t.PaymentGatewayID,
		PaymentGatewayStatus:   t.PaymentGatewayStatus,
		POSTransactionID:       t.POSTransactionID,
		BankTransferReference:  t.BankTransferReference,
		AmountReceivedByClient: t.AmountReceivedByClient,
		ChangeGivenToClient:    t.ChangeGivenToClient,
		Notes:                  t.Notes,
		ProcessedBy:            t.ProcessedBy,
		TransactionDate:        t.TransactionDate,
	}
}

// PaymentResponse is the settled order with the payment that settled it
type PaymentResponse struct {
	Order       OrderResponse           `json:"order"`
	Transaction SaleTransactionResponse `json:"transaction"`
}

// ==================== Gateway DTOs ====================

// CreatePreferenceRequest carries the payer for a hosted checkout.
// Empty fields are filled from the order's client when one is linked.
type CreatePreferenceRequest struct {
	PayerName    string `json:"payerName" binding:"max=100"`
	PayerSurname string `json:"payerSurname" binding:"max=100"`
	PayerEmail   string `json:"payerEmail" binding:"omitempty,email"`
	PayerPhone   string `json:"payerPhone" binding:"max=50"`
}

// PreferenceResponse is the hosted checkout created for an order
type PreferenceResponse struct {
	PreferenceID     string `json:"preferenceId"`
	InitPoint        string `json:"initPoint"`
	SandboxInitPoint string `json:"sandboxInitPoint,omitempty"`
}

// GatewayResourceID accepts the notification resource id as a JSON string or number
type GatewayResourceID string

// UnmarshalJSON implements json.Unmarshaler
func (g *GatewayResourceID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*g = GatewayResourceID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*g = GatewayResourceID(n.String())
	return nil
}

// GatewayNotification is the webhook body sent by the gateway
type GatewayNotification struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID GatewayResourceID `json:"id"`
	} `json:"data"`
}
