package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/retail/backoffice/internal/domain/trade"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var order trade.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &order, nil
}

// FindByIDForUpdate finds an order and locks its row for the current transaction
func (r *GormOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var order trade.Order
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	var items []trade.OrderItem
	if err := r.db.WithContext(ctx).Where("order_id = ?", id).Find(&items).Error; err != nil {
		return nil, err
	}
	order.Items = items
	return &order, nil
}

// FindAll finds orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	var orders []trade.Order
	query := paginate(r.applyFilter(r.db.WithContext(ctx).Model(&trade.Order{}), filter), filter, orderSortFields, "created_at")
	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&trade.Order{}), filter).Count(&count).Error
	return count, err
}

// Create inserts an order with its items
func (r *GormOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	return translateError(r.db.WithContext(ctx).Create(order).Error)
}

// Save updates the order row only
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Save(order).Error)
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "sale_channel":
			query = query.Where("sale_channel = ?", value)
		case "store_id":
			query = query.Where("store_id = ?", value)
		case "seller_id":
			query = query.Where("seller_id = ?", value)
		case "client_id":
			query = query.Where("client_id = ?", value)
		}
	}
	return query
}

// Ensure GormOrderRepository implements OrderRepository
var _ trade.OrderRepository = (*GormOrderRepository)(nil)

// GormSaleTransactionRepository implements SaleTransactionRepository using GORM
type GormSaleTransactionRepository struct {
	db *gorm.DB
}

// NewGormSaleTransactionRepository creates a new GormSaleTransactionRepository
func NewGormSaleTransactionRepository(db *gorm.DB) *GormSaleTransactionRepository {
	return &GormSaleTransactionRepository{db: db}
}

// Create records a payment
func (r *GormSaleTransactionRepository) Create(ctx context.Context, tx *trade.SaleTransaction) error {
	return translateError(r.db.WithContext(ctx).Create(tx).Error)
}

// FindByOrder lists the payments of an order, oldest first
func (r *GormSaleTransactionRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]trade.SaleTransaction, error) {
	var txs []trade.SaleTransaction
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("transaction_date ASC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// Ensure GormSaleTransactionRepository implements SaleTransactionRepository
var _ trade.SaleTransactionRepository = (*GormSaleTransactionRepository)(nil)
