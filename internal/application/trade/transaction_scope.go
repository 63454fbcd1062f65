package trade

import (
	"context"

	"github.com/retail/backoffice/internal/domain/catalog"
	"github.com/retail/backoffice/internal/domain/inventory"
	"github.com/retail/backoffice/internal/domain/trade"
)

// TransactionScope runs order and payment writes atomically.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories touched by order creation and payment.
// Product and store stock counters are only changed through their conditional decrement methods.
type TransactionalRepositories interface {
	OrderRepo() trade.OrderRepository
	SaleTransactionRepo() trade.SaleTransactionRepository
	ProductRepo() catalog.ProductRepository
	StoreStockRepo() inventory.StoreStockRepository
}

// NoOpTransactionScope calls fn with plain repositories
type NoOpTransactionScope struct {
	orderRepo   trade.OrderRepository
	saleTxRepo  trade.SaleTransactionRepository
	productRepo catalog.ProductRepository
	stockRepo   inventory.StoreStockRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(
	orderRepo trade.OrderRepository,
	saleTxRepo trade.SaleTransactionRepository,
	productRepo catalog.ProductRepository,
	stockRepo inventory.StoreStockRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:   orderRepo,
		saleTxRepo:  saleTxRepo,
		productRepo: productRepo,
		stockRepo:   stockRepo,
	}
}

// Execute calls fn without opening a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the order repository
func (s *NoOpTransactionScope) OrderRepo() trade.OrderRepository {
	return s.orderRepo
}

// SaleTransactionRepo returns the payment record repository
func (s *NoOpTransactionScope) SaleTransactionRepo() trade.SaleTransactionRepository {
	return s.saleTxRepo
}

// ProductRepo returns the product repository
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// StoreStockRepo returns the store stock repository
func (s *NoOpTransactionScope) StoreStockRepo() inventory.StoreStockRepository {
	return s.stockRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
