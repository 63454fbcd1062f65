package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/shared"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindAll finds all categories matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)

	// Count counts categories matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error

	// Delete deletes a category
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByName checks if another category already uses the name
	ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)
}

// SubcategoryRepository defines the interface for subcategory persistence
type SubcategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Subcategory, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Subcategory, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]Subcategory, error)
	Save(ctx context.Context, subcategory *Subcategory) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByCategory(ctx context.Context, categoryID uuid.UUID) error
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product with its discounts and box configurations
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDForUpdate finds a product and locks its row for the current transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll finds products matching the filter.
	// Supported filter keys: subcategory_id, category_id, supplier_id, on_offer,
	// is_new, hidden, low_stock, out_of_stock, with_wholesale_price.
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountBySubcategories counts products in any of the subcategories
	CountBySubcategories(ctx context.Context, subcategoryIDs []uuid.UUID) (int64, error)

	// Create inserts a product with its discounts and box configurations
	Create(ctx context.Context, product *Product) error

	// Save updates the product row only
	Save(ctx context.Context, product *Product) error

	// ReplaceOptions swaps the discount tiers and box configurations of a product
	ReplaceOptions(ctx context.Context, product *Product) error

	// DecrementStock subtracts quantity from the global counter if enough is left.
	// Returns false when the conditional update matched no row.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error)

	// Delete removes the product and its owned rows
	Delete(ctx context.Context, id uuid.UUID) error

	// IsReferenced reports whether order items or transfer history point at the product
	IsReferenced(ctx context.Context, id uuid.UUID) (bool, error)
}
