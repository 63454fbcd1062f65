package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/catalog"
	"github.com/retail/backoffice/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// StockProductSummary is the product part of a stock row
type StockProductSummary struct {
	ID      uuid.UUID       `json:"id"`
	Name    string          `json:"name"`
	Code    string          `json:"code"`
	Price   decimal.Decimal `json:"price"`
	Images  []string        `json:"images"`
	Hidden  bool            `json:"hidden"`
	IsLow   bool            `json:"isLowStock"`
	OnOffer bool            `json:"onOffer"`
	Stock   int             `json:"stock"`
	// SubcategoryID is the product's placement in the catalog tree
	SubcategoryID uuid.UUID `json:"subcategoryId"`
}

// StoreStockResponse represents one store stock row in API responses
type StoreStockResponse struct {
	ID        uuid.UUID            `json:"id"`
	StoreID   uuid.UUID            `json:"storeId"`
	ProductID uuid.UUID            `json:"productId"`
	Quantity  int                  `json:"quantity"`
	Product   *StockProductSummary `json:"product,omitempty"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// TransferItemRequest is one product line of a transfer
type TransferItemRequest struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
}

// TransferStockRequest moves units of one or more products between stores
type TransferStockRequest struct {
	FromStoreID uuid.UUID             `json:"fromStoreId" binding:"required"`
	ToStoreID   uuid.UUID             `json:"toStoreId" binding:"required"`
	Items       []TransferItemRequest `json:"items" binding:"dive"`
	// TransferredBy is filled from the authenticated user
	TransferredBy *uuid.UUID `json:"-"`
}

// UpdateStockRequest sets the absolute quantity of a store stock row
type UpdateStockRequest struct {
	StoreID   uuid.UUID `json:"storeId" binding:"required"`
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Quantity  *int      `json:"quantity" binding:"required,gte=0"`
}

// TransferHistoryFilter selects ledger rows
type TransferHistoryFilter struct {
	StoreID   *uuid.UUID `form:"-"` // storeId, parsed by the handler
	ProductID *uuid.UUID `form:"-"` // productId, parsed by the handler
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"pageSize" binding:"omitempty,min=1,max=100"`
}

// TransferHistoryResponse is one ledger row with display names
type TransferHistoryResponse struct {
	ID            uuid.UUID  `json:"id"`
	FromStoreID   uuid.UUID  `json:"fromStoreId"`
	FromStoreName string     `json:"fromStoreName"`
	ToStoreID     uuid.UUID  `json:"toStoreId"`
	ToStoreName   string     `json:"toStoreName"`
	ProductID     uuid.UUID  `json:"productId"`
	ProductName   string     `json:"productName"`
	Quantity      int        `json:"quantity"`
	TransferredBy *uuid.UUID `json:"transferredBy,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// ToStoreStockResponse converts a domain stock row to a response
func ToStoreStockResponse(s *inventory.StoreStock) StoreStockResponse {
	resp := StoreStockResponse{
		ID:        s.ID,
		StoreID:   s.StoreID,
		ProductID: s.ProductID,
		Quantity:  s.Quantity,
		UpdatedAt: s.UpdatedAt,
	}
	if s.Product != nil {
		resp.Product = toStockProductSummary(s.Product)
	}
	return resp
}

// ToStoreStockResponses converts a slice of stock rows
func ToStoreStockResponses(stocks []inventory.StoreStock) []StoreStockResponse {
	out := make([]StoreStockResponse, len(stocks))
	for i := range stocks {
		out[i] = ToStoreStockResponse(&stocks[i])
	}
	return out
}

func toStockProductSummary(p *catalog.Product) *StockProductSummary {
	return &StockProductSummary{
		ID:            p.ID,
		Name:          p.Name,
		Code:          p.Code,
		Price:         p.Price,
		Images:        p.Images,
		Hidden:        p.Hidden,
		IsLow:         p.IsLowStock(),
		OnOffer:       p.OnOffer,
		Stock:         p.Stock,
		SubcategoryID: p.SubcategoryID,
	}
}

func toTransferHistoryResponse(e inventory.TransferHistoryEntry) TransferHistoryResponse {
	return TransferHistoryResponse{
		ID:            e.ID,
		FromStoreID:   e.FromStoreID,
		FromStoreName: e.FromStoreName,
		ToStoreID:     e.ToStoreID,
		ToStoreName:   e.ToStoreName,
		ProductID:     e.ProductID,
		ProductName:   e.ProductName,
		Quantity:      e.Quantity,
		TransferredBy: e.TransferredBy,
		CreatedAt:     e.CreatedAt,
	}
}
