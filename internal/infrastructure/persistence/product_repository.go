package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/catalog"
	"github.com/retail/backoffice/internal/domain/inventory"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/retail/backoffice/internal/domain/trade"
	"github.com/retail/backoffice/internal/domain/wholesale"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) withOptions(query *gorm.DB) *gorm.DB {
	return query.
		Preload("VolumeDiscounts", func(db *gorm.DB) *gorm.DB { return db.Order("min_quantity ASC") }).
		Preload("BoxConfigurations", func(db *gorm.DB) *gorm.DB { return db.Order("quantity_in_box ASC") })
}

// FindByID finds a product with its discounts and box configurations
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.withOptions(r.db.WithContext(ctx)).First(&product, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &product, nil
}

// FindByIDForUpdate finds a product and locks its row for the current transaction
func (r *GormProductRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &product, nil
}

// FindByIDs finds multiple products by their IDs
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var products []catalog.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindAll finds products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}), filter)
	query = paginate(query, filter, productSortFields, "created_at")
	if err := r.withOptions(query).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}), filter).Count(&count).Error
	return count, err
}

// CountBySubcategories counts products in any of the subcategories
func (r *GormProductRepository) CountBySubcategories(ctx context.Context, subcategoryIDs []uuid.UUID) (int64, error) {
	if len(subcategoryIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("subcategory_id IN ?", subcategoryIDs).
		Count(&count).Error
	return count, err
}

// Create inserts a product with its discounts and box configurations
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	return translateError(r.db.WithContext(ctx).Create(product).Error)
}

// Save updates the product row only
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Save(product).Error)
}

// ReplaceOptions swaps the discount tiers and box configurations of a product
func (r *GormProductRepository) ReplaceOptions(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&catalog.VolumeDiscount{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&catalog.BoxConfiguration{}).Error; err != nil {
			return err
		}
		if len(product.VolumeDiscounts) > 0 {
			if err := tx.Create(&product.VolumeDiscounts).Error; err != nil {
				return translateError(err)
			}
		}
		if len(product.BoxConfigurations) > 0 {
			if err := tx.Create(&product.BoxConfigurations).Error; err != nil {
				return translateError(err)
			}
		}
		return nil
	})
}

// DecrementStock subtracts quantity from the global counter if enough is left
func (r *GormProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		UpdateColumns(map[string]interface{}{
			"stock":      gorm.Expr("stock - ?", quantity),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Delete removes the product and its owned rows
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := []interface{}{
			&catalog.VolumeDiscount{},
			&catalog.BoxConfiguration{},
			&inventory.StoreStock{},
			&wholesale.LinkProduct{},
		}
		for _, model := range owned {
			if err := tx.Where("product_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		result := tx.Delete(&catalog.Product{}, "id = ?", id)
		if result.Error != nil {
			return translateError(result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// IsReferenced reports whether order items or transfer history point at the product
func (r *GormProductRepository) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	for _, model := range []interface{}{&trade.OrderItem{}, &inventory.StockTransfer{}} {
		var count int64
		if err := r.db.WithContext(ctx).Model(model).Where("product_id = ?", id).Count(&count).Error; err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchAny(query, filter.Search, "name", "code", "barcode", "brand")

	for key, value := range filter.Filters {
		switch key {
		case "subcategory_id":
			query = query.Where("subcategory_id = ?", value)
		case "category_id":
			query = query.Where("subcategory_id IN (?)",
				r.db.Model(&catalog.Subcategory{}).Select("id").Where("category_id = ?", value))
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "on_offer":
			if v, ok := boolFilter(value); ok {
				query = query.Where("on_offer = ?", v)
			}
		case "is_new":
			if v, ok := boolFilter(value); ok {
				query = query.Where("is_new = ?", v)
			}
		case "hidden":
			if v, ok := boolFilter(value); ok {
				query = query.Where("hidden = ?", v)
			}
		case "low_stock":
			if v, ok := boolFilter(value); ok && v {
				query = query.Where("stock > 0 AND stock <= ?", catalog.LowStockThreshold)
			}
		case "out_of_stock":
			if v, ok := boolFilter(value); ok && v {
				query = query.Where("stock = 0")
			}
		case "with_wholesale_price":
			if v, ok := boolFilter(value); ok && v {
				query = query.Where("wholesale_price > 0")
			}
		case "wholesale_link_id":
			query = query.Where("(id IN (?) OR wholesale_price > 0)",
				r.db.Model(&wholesale.LinkProduct{}).Select("product_id").Where("link_id = ?", value))
		}
	}
	return query
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
