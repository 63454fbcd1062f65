package persistence

import (
	"context"

	appcatalog "github.com/retail/backoffice/internal/application/catalog"
	appidentity "github.com/retail/backoffice/internal/application/identity"
	appinv "github.com/retail/backoffice/internal/application/inventory"
	apptrade "github.com/retail/backoffice/internal/application/trade"
	"github.com/retail/backoffice/internal/domain/catalog"
	"github.com/retail/backoffice/internal/domain/identity"
	"github.com/retail/backoffice/internal/domain/inventory"
	"github.com/retail/backoffice/internal/domain/partner"
	"github.com/retail/backoffice/internal/domain/trade"
	"gorm.io/gorm"
)

// gormTransactionalRepositories builds repositories bound to one transaction.
// It satisfies the TransactionalRepositories interface of every application package.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) CategoryRepo() catalog.CategoryRepository {
	return NewGormCategoryRepository(r.tx)
}

func (r *gormTransactionalRepositories) SubcategoryRepo() catalog.SubcategoryRepository {
	return NewGormSubcategoryRepository(r.tx)
}

func (r *gormTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormTransactionalRepositories) StoreStockRepo() inventory.StoreStockRepository {
	return NewGormStoreStockRepository(r.tx)
}

func (r *gormTransactionalRepositories) TransferRepo() inventory.StockTransferRepository {
	return NewGormStockTransferRepository(r.tx)
}

func (r *gormTransactionalRepositories) OrderRepo() trade.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) SaleTransactionRepo() trade.SaleTransactionRepository {
	return NewGormSaleTransactionRepository(r.tx)
}

func (r *gormTransactionalRepositories) UserRepo() identity.UserRepository {
	return NewGormUserRepository(r.tx)
}

func (r *gormTransactionalRepositories) SellerRepo() partner.SellerRepository {
	return NewGormSellerRepository(r.tx)
}

// transact runs fn in a database transaction. An error from fn rolls back every write.
func transact(ctx context.Context, db *gorm.DB, fn func(repos *gormTransactionalRepositories) error) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// GormInventoryTransactionScope runs stock transfers in a GORM transaction
type GormInventoryTransactionScope struct {
	db *gorm.DB
}

// NewGormInventoryTransactionScope creates a new GormInventoryTransactionScope
func NewGormInventoryTransactionScope(db *gorm.DB) *GormInventoryTransactionScope {
	return &GormInventoryTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormInventoryTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return transact(ctx, s.db, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

// GormTradeTransactionScope runs order creation and payment in a GORM transaction
type GormTradeTransactionScope struct {
	db *gorm.DB
}

// NewGormTradeTransactionScope creates a new GormTradeTransactionScope
func NewGormTradeTransactionScope(db *gorm.DB) *GormTradeTransactionScope {
	return &GormTradeTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormTradeTransactionScope) Execute(ctx context.Context, fn func(repos apptrade.TransactionalRepositories) error) error {
	return transact(ctx, s.db, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

// GormCatalogTransactionScope runs multi-table catalog writes in a GORM transaction
type GormCatalogTransactionScope struct {
	db *gorm.DB
}

// NewGormCatalogTransactionScope creates a new GormCatalogTransactionScope
func NewGormCatalogTransactionScope(db *gorm.DB) *GormCatalogTransactionScope {
	return &GormCatalogTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormCatalogTransactionScope) Execute(ctx context.Context, fn func(repos appcatalog.TransactionalRepositories) error) error {
	return transact(ctx, s.db, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

// GormIdentityTransactionScope runs account and seller link writes in a GORM transaction
type GormIdentityTransactionScope struct {
	db *gorm.DB
}

// NewGormIdentityTransactionScope creates a new GormIdentityTransactionScope
func NewGormIdentityTransactionScope(db *gorm.DB) *GormIdentityTransactionScope {
	return &GormIdentityTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormIdentityTransactionScope) Execute(ctx context.Context, fn func(repos appidentity.TransactionalRepositories) error) error {
	return transact(ctx, s.db, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

var (
	_ appinv.TransactionScope      = (*GormInventoryTransactionScope)(nil)
	_ apptrade.TransactionScope    = (*GormTradeTransactionScope)(nil)
	_ appcatalog.TransactionScope  = (*GormCatalogTransactionScope)(nil)
	_ appidentity.TransactionScope = (*GormIdentityTransactionScope)(nil)

	_ appinv.TransactionalRepositories      = (*gormTransactionalRepositories)(nil)
	_ apptrade.TransactionalRepositories    = (*gormTransactionalRepositories)(nil)
	_ appcatalog.TransactionalRepositories  = (*gormTransactionalRepositories)(nil)
	_ appidentity.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
