package inventory

import (
	"context"

	"github.com/retail/backoffice/internal/domain/inventory"
)

// TransactionScope provides transactional access to inventory repositories.
// All repository calls made inside fn share one database transaction; an error
// returned from fn rolls every write back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories a stock transfer writes to.
type TransactionalRepositories interface {
	// StoreStockRepo returns the per-store stock repository bound to the transaction
	StoreStockRepo() inventory.StoreStockRepository
	// TransferRepo returns the append-only transfer ledger bound to the transaction
	TransferRepo() inventory.StockTransferRepository
}

// NoOpTransactionScope runs fn directly against the given repositories.
// Useful for unit tests where atomicity is not under test.
type NoOpTransactionScope struct {
	stockRepo    inventory.StoreStockRepository
	transferRepo inventory.StockTransferRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(stockRepo inventory.StoreStockRepository, transferRepo inventory.StockTransferRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{stockRepo: stockRepo, transferRepo: transferRepo}
}

// Execute calls fn without opening a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// StoreStockRepo returns the stock repository
func (s *NoOpTransactionScope) StoreStockRepo() inventory.StoreStockRepository {
	return s.stockRepo
}

// TransferRepo returns the transfer ledger repository
func (s *NoOpTransactionScope) TransferRepo() inventory.StockTransferRepository {
	return s.transferRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
