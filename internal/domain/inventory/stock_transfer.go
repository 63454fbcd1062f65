package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/shared"
)

// StockTransfer is an immutable ledger row recording units moved between stores
type StockTransfer struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	FromStoreID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	ToStoreID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	Quantity      int        `gorm:"not null"`
	TransferredBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt     time.Time  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockTransfer) TableName() string {
	return "stock_transfers"
}

// NewStockTransfer creates a ledger row for one moved product
func NewStockTransfer(fromStoreID, toStoreID, productID uuid.UUID, quantity int, by *uuid.UUID) *StockTransfer {
	return &StockTransfer{
		ID:            uuid.New(),
		FromStoreID:   fromStoreID,
		ToStoreID:     toStoreID,
		ProductID:     productID,
		Quantity:      quantity,
		TransferredBy: by,
		CreatedAt:     time.Now(),
	}
}

// TransferItem is one product line of a transfer request
type TransferItem struct {
	ProductID uuid.UUID
	Quantity  int
}

// ValidateTransfer checks the shape of a transfer request before any stock is read
func ValidateTransfer(fromStoreID, toStoreID uuid.UUID, items []TransferItem) error {
	if fromStoreID == uuid.Nil || toStoreID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Source and destination stores are required")
	}
	for _, item := range items {
		if item.ProductID == uuid.Nil {
			return shared.NewDomainError("VALIDATION_ERROR", "Product is required for every transfer item")
		}
		if item.Quantity <= 0 {
			return shared.NewDomainErrorf("VALIDATION_ERROR", "Transfer quantity for product %s must be greater than zero", item.ProductID)
		}
	}
	return nil
}

// TransferHistoryEntry is a ledger row enriched with display names
type TransferHistoryEntry struct {
	StockTransfer
	FromStoreName string
	ToStoreName   string
	ProductName   string
}
