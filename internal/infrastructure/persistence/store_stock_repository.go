package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/inventory"
	"github.com/retail/backoffice/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStoreStockRepository implements StoreStockRepository using GORM
type GormStoreStockRepository struct {
	db *gorm.DB
}

// NewGormStoreStockRepository creates a new GormStoreStockRepository
func NewGormStoreStockRepository(db *gorm.DB) *GormStoreStockRepository {
	return &GormStoreStockRepository{db: db}
}

// FindByStoreAndProduct finds the stock row of a product in a store
func (r *GormStoreStockRepository) FindByStoreAndProduct(ctx context.Context, storeID, productID uuid.UUID) (*inventory.StoreStock, error) {
	var stock inventory.StoreStock
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Where("store_id = ? AND product_id = ?", storeID, productID).
		First(&stock).Error; err != nil {
		return nil, translateError(err)
	}
	return &stock, nil
}

// FindByStore lists the stock rows of a store with their products loaded
func (r *GormStoreStockRepository) FindByStore(ctx context.Context, storeID uuid.UUID) ([]inventory.StoreStock, error) {
	var stocks []inventory.StoreStock
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Where("store_id = ?", storeID).
		Order("created_at ASC").
		Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// Create inserts a new stock row
func (r *GormStoreStockRepository) Create(ctx context.Context, stock *inventory.StoreStock) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(stock).Error)
}

// SetQuantity overwrites the quantity of an existing row
func (r *GormStoreStockRepository) SetQuantity(ctx context.Context, storeID, productID uuid.UUID, quantity int) error {
	result := r.db.WithContext(ctx).Model(&inventory.StoreStock{}).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		UpdateColumns(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Decrement subtracts quantity only if enough is held
func (r *GormStoreStockRepository) Decrement(ctx context.Context, storeID, productID uuid.UUID, quantity int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&inventory.StoreStock{}).
		Where("store_id = ? AND product_id = ? AND quantity >= ?", storeID, productID, quantity).
		UpdateColumns(map[string]interface{}{
			"quantity":   gorm.Expr("quantity - ?", quantity),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Increment adds quantity, creating the row when absent
func (r *GormStoreStockRepository) Increment(ctx context.Context, storeID, productID uuid.UUID, quantity int) (*inventory.StoreStock, error) {
	row, err := inventory.NewStoreStock(storeID, productID, quantity)
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "store_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("store_stocks.quantity + excluded.quantity"),
			"updated_at": row.UpdatedAt,
		}),
	}).Create(row).Error
	if err != nil {
		return nil, translateError(err)
	}

	return r.FindByStoreAndProduct(ctx, storeID, productID)
}

// DeleteByStoreAndProduct removes a single row
func (r *GormStoreStockRepository) DeleteByStoreAndProduct(ctx context.Context, storeID, productID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		Delete(&inventory.StoreStock{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByStore counts rows of a store holding any quantity
func (r *GormStoreStockRepository) CountByStore(ctx context.Context, storeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&inventory.StoreStock{}).
		Where("store_id = ? AND quantity > 0", storeID).
		Count(&count).Error
	return count, err
}

// Ensure GormStoreStockRepository implements StoreStockRepository
var _ inventory.StoreStockRepository = (*GormStoreStockRepository)(nil)

// GormStockTransferRepository implements StockTransferRepository using GORM
type GormStockTransferRepository struct {
	db *gorm.DB
}

// NewGormStockTransferRepository creates a new GormStockTransferRepository
func NewGormStockTransferRepository(db *gorm.DB) *GormStockTransferRepository {
	return &GormStockTransferRepository{db: db}
}

// Create appends a ledger row
func (r *GormStockTransferRepository) Create(ctx context.Context, transfer *inventory.StockTransfer) error {
	return r.db.WithContext(ctx).Create(transfer).Error
}

// FindHistory lists ledger rows with store and product names, newest first
func (r *GormStockTransferRepository) FindHistory(ctx context.Context, filter shared.Filter) ([]inventory.TransferHistoryEntry, error) {
	var entries []inventory.TransferHistoryEntry
	query := r.applyFilter(r.db.WithContext(ctx).Table("stock_transfers AS t"), filter).
		Select("t.*, fs.name AS from_store_name, ts.name AS to_store_name, p.name AS product_name").
		Joins("LEFT JOIN stores fs ON fs.id = t.from_store_id").
		Joins("LEFT JOIN stores ts ON ts.id = t.to_store_id").
		Joins("LEFT JOIN products p ON p.id = t.product_id").
		Order("t.created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Scan(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Count counts ledger rows matching the filter
func (r *GormStockTransferRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Table("stock_transfers AS t"), filter).Count(&count).Error
	return count, err
}

func (r *GormStockTransferRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "store_id":
			query = query.Where("(t.from_store_id = ? OR t.to_store_id = ?)", value, value)
		case "from_store_id":
			query = query.Where("t.from_store_id = ?", value)
		case "to_store_id":
			query = query.Where("t.to_store_id = ?", value)
		case "product_id":
			query = query.Where("t.product_id = ?", value)
		}
	}
	return query
}

// Ensure GormStockTransferRepository implements StockTransferRepository
var _ inventory.StockTransferRepository = (*GormStockTransferRepository)(nil)
