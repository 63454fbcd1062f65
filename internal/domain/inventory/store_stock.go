package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/catalog"
	"github.com/retail/backoffice/internal/domain/shared"
)

// StoreStock is the quantity of one product held by one store.
// At most one row exists per (store, product) pair.
type StoreStock struct {
	shared.BaseEntity
	StoreID   uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_store_stocks_store_product,priority:1"`
	ProductID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_store_stocks_store_product,priority:2;index"`
	Quantity  int              `gorm:"not null;default:0"`
	Product   *catalog.Product `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (StoreStock) TableName() string {
	return "store_stocks"
}

// NewStoreStock creates a stock row for a product in a store
func NewStoreStock(storeID, productID uuid.UUID, quantity int) (*StoreStock, error) {
	if storeID == uuid.Nil || productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Store and product are required")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	return &StoreStock{
		BaseEntity: shared.NewBaseEntity(),
		StoreID:    storeID,
		ProductID:  productID,
		Quantity:   quantity,
	}, nil
}

// CanSupply reports whether the row covers the requested quantity
func (s *StoreStock) CanSupply(quantity int) bool {
	return s.Quantity >= quantity
}

// SetQuantity overwrites the quantity held
func (s *StoreStock) SetQuantity(quantity int) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	s.Quantity = quantity
	s.UpdatedAt = time.Now()
	return nil
}
