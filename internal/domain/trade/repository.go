package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForUpdate finds an order and locks its row for the current transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindAll finds orders matching the filter.
	// Supported filter keys: status, sale_channel, store_id, seller_id, client_id.
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Create inserts an order with its items
	Create(ctx context.Context, order *Order) error

	// Save updates the order row only
	Save(ctx context.Context, order *Order) error
}

// SaleTransactionRepository defines the interface for payment records
type SaleTransactionRepository interface {
	Create(ctx context.Context, tx *SaleTransaction) error
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]SaleTransaction, error)
}
