package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/shared"
)

// StoreStockRepository defines the interface for per-store stock persistence
type StoreStockRepository interface {
	// FindByStoreAndProduct finds the stock row of a product in a store
	FindByStoreAndProduct(ctx context.Context, storeID, productID uuid.UUID) (*StoreStock, error)

	// FindByStore lists the stock rows of a store with their products loaded
	FindByStore(ctx context.Context, storeID uuid.UUID) ([]StoreStock, error)

	// Create inserts a new stock row
	Create(ctx context.Context, stock *StoreStock) error

	// SetQuantity overwrites the quantity of an existing row
	SetQuantity(ctx context.Context, storeID, productID uuid.UUID, quantity int) error

	// Decrement subtracts quantity only if enough is held.
	// Returns false when the conditional update matched no row.
	Decrement(ctx context.Context, storeID, productID uuid.UUID, quantity int) (bool, error)

	// Increment adds quantity, creating the row when absent, and returns the resulting row
	Increment(ctx context.Context, storeID, productID uuid.UUID, quantity int) (*StoreStock, error)

	// DeleteByStoreAndProduct removes a single row
	DeleteByStoreAndProduct(ctx context.Context, storeID, productID uuid.UUID) error

	// CountByStore counts rows of a store holding any quantity
	CountByStore(ctx context.Context, storeID uuid.UUID) (int64, error)
}

// StockTransferRepository defines the interface for the append-only transfer ledger
type StockTransferRepository interface {
	// Create appends a ledger row
	Create(ctx context.Context, transfer *StockTransfer) error

	// FindHistory lists ledger rows, newest first.
	// Supported filter keys: store_id (either side), from_store_id, to_store_id, product_id.
	FindHistory(ctx context.Context, filter shared.Filter) ([]TransferHistoryEntry, error)

	// Count counts ledger rows matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
