package catalog

import (
	"context"

	"github.com/retail/backoffice/internal/domain/catalog"
	"github.com/retail/backoffice/internal/domain/inventory"
)

// TransactionScope runs catalog writes that span several repositories atomically
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes repositories bound to the running transaction
type TransactionalRepositories interface {
	CategoryRepo() catalog.CategoryRepository
	SubcategoryRepo() catalog.SubcategoryRepository
	ProductRepo() catalog.ProductRepository
	StoreStockRepo() inventory.StoreStockRepository
}

// NoOpTransactionScope runs the callback against plain repositories without a transaction.
// Used in tests and when no database transaction support is wired.
type NoOpTransactionScope struct {
	repos noOpRepositories
}

type noOpRepositories struct {
	categoryRepo    catalog.CategoryRepository
	subcategoryRepo catalog.SubcategoryRepository
	productRepo     catalog.ProductRepository
	stockRepo       inventory.StoreStockRepository
}

func (r noOpRepositories) CategoryRepo() catalog.CategoryRepository       { return r.categoryRepo }
func (r noOpRepositories) SubcategoryRepo() catalog.SubcategoryRepository { return r.subcategoryRepo }
func (r noOpRepositories) ProductRepo() catalog.ProductRepository         { return r.productRepo }
func (r noOpRepositories) StoreStockRepo() inventory.StoreStockRepository { return r.stockRepo }

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(
	categoryRepo catalog.CategoryRepository,
	subcategoryRepo catalog.SubcategoryRepository,
	productRepo catalog.ProductRepository,
	stockRepo inventory.StoreStockRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: noOpRepositories{
		categoryRepo:    categoryRepo,
		subcategoryRepo: subcategoryRepo,
		productRepo:     productRepo,
		stockRepo:       stockRepo,
	}}
}

// Execute runs fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.repos)
}
