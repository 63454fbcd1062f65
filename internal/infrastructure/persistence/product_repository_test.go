package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/catalog"
	"github.com/retail/backoffice/internal/domain/inventory"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/retail/backoffice/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormProductRepository_CreateWithOptions(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	product, err := catalog.NewProduct(catalog.ProductDetails{
		Name:          "Campera",
		Code:          "CAMP-01",
		Price:         decimal.NewFromInt(5000),
		SubcategoryID: seedSubcategory(t, db).ID,
	}, 20)
	require.NoError(t, err)

	tier10, err := catalog.NewVolumeDiscount(10, decimal.NewFromInt(10))
	require.NoError(t, err)
	tier5, err := catalog.NewVolumeDiscount(5, decimal.NewFromInt(5))
	require.NoError(t, err)
	require.NoError(t, product.SetVolumeDiscounts([]catalog.VolumeDiscount{tier10, tier5}))

	box, err := catalog.NewBoxConfiguration("Caja x6", 6, decimal.NewFromInt(27000), nil)
	require.NoError(t, err)
	require.NoError(t, product.SetBoxConfigurations([]catalog.BoxConfiguration{box}))

	require.NoError(t, repo.Create(ctx, product))

	loaded, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, loaded.VolumeDiscounts, 2)
	assert.Equal(t, 5, loaded.VolumeDiscounts[0].MinQuantity)
	require.Len(t, loaded.BoxConfigurations, 1)
	assert.True(t, loaded.BoxConfigurations[0].TotalBoxPrice.Equal(decimal.NewFromInt(27000)))

	duplicate, err := catalog.NewProduct(catalog.ProductDetails{
		Name:          "Otra campera",
		Code:          "CAMP-01",
		SubcategoryID: product.SubcategoryID,
	}, 0)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, duplicate), shared.ErrAlreadyExists)
}

func TestGormProductRepository_DecrementStock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	product := seedProduct(t, db, seedSubcategory(t, db).ID, "D-1", 5)

	ok, err := repo.DecrementStock(ctx, product.ID, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DecrementStock(ctx, product.ID, 1)
	require.NoError(t, err)
	assert.False(t, ok, "stock never goes below zero")

	loaded, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Stock)
	assert.Equal(t, 5, loaded.InitialStock)
}

func TestGormProductRepository_FindAllFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	sub := seedSubcategory(t, db)
	otherSub := seedSubcategory(t, db)
	seedProduct(t, db, sub.ID, "F-LOW", 3)
	seedProduct(t, db, sub.ID, "F-OUT", 0)
	seedProduct(t, db, otherSub.ID, "F-FULL", 50)

	tests := []struct {
		name    string
		filter  shared.Filter
		matches int
	}{
		{"low stock", shared.Filter{Filters: map[string]interface{}{"low_stock": "true"}}, 1},
		{"out of stock", shared.Filter{Filters: map[string]interface{}{"out_of_stock": true}}, 1},
		{"by subcategory", shared.Filter{Filters: map[string]interface{}{"subcategory_id": otherSub.ID}}, 1},
		{"by category", shared.Filter{Filters: map[string]interface{}{"category_id": sub.CategoryID}}, 2},
		{"search by code", shared.Filter{Search: "f-ful"}, 1},
		{"everything", shared.Filter{}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := repo.FindAll(ctx, tt.filter.Normalize())
			require.NoError(t, err)
			assert.Len(t, products, tt.matches)

			count, err := repo.Count(ctx, tt.filter.Normalize())
			require.NoError(t, err)
			assert.Equal(t, int64(tt.matches), count)
		})
	}
}

func TestGormProductRepository_DeleteAndReferences(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	stockRepo := NewGormStoreStockRepository(db)
	ctx := context.Background()

	store := seedStore(t, db, "Centro")
	sub := seedSubcategory(t, db)

	t.Run("free product is removed with its stock rows", func(t *testing.T) {
		product := seedProduct(t, db, sub.ID, "DEL-1", 2)
		_, err := stockRepo.Increment(ctx, store.ID, product.ID, 2)
		require.NoError(t, err)

		referenced, err := repo.IsReferenced(ctx, product.ID)
		require.NoError(t, err)
		assert.False(t, referenced)

		require.NoError(t, repo.Delete(ctx, product.ID))
		_, err = repo.FindByID(ctx, product.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		_, err = stockRepo.FindByStoreAndProduct(ctx, store.ID, product.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("sold product is referenced", func(t *testing.T) {
		product := seedProduct(t, db, sub.ID, "DEL-2", 2)
		order, err := trade.NewOrder(trade.OrderDraft{
			Channel: trade.SaleChannelOnlineWeb,
			Total:   decimal.NewFromInt(100),
			Lines:   []trade.OrderLine{{ProductID: product.ID, Quantity: 1, Price: decimal.NewFromInt(100)}},
		})
		require.NoError(t, err)
		require.NoError(t, NewGormOrderRepository(db).Create(ctx, order))

		referenced, err := repo.IsReferenced(ctx, product.ID)
		require.NoError(t, err)
		assert.True(t, referenced)
	})

	t.Run("transferred product is referenced", func(t *testing.T) {
		product := seedProduct(t, db, sub.ID, "DEL-3", 2)
		transfer := inventory.NewStockTransfer(store.ID, uuid.New(), product.ID, 1, nil)
		require.NoError(t, NewGormStockTransferRepository(db).Create(ctx, transfer))

		referenced, err := repo.IsReferenced(ctx, product.ID)
		require.NoError(t, err)
		assert.True(t, referenced)
	})

	t.Run("unknown product", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), shared.ErrNotFound)
	})
}
