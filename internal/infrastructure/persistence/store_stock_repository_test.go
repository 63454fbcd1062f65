package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/inventory"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormStoreStockRepository_Decrement(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStoreStockRepository(db)
	ctx := context.Background()

	store := seedStore(t, db, "Centro")
	product := seedProduct(t, db, seedSubcategory(t, db).ID, "P-1", 10)
	_, err := repo.Increment(ctx, store.ID, product.ID, 5)
	require.NoError(t, err)

	t.Run("subtracts when enough is held", func(t *testing.T) {
		ok, err := repo.Decrement(ctx, store.ID, product.ID, 3)
		require.NoError(t, err)
		assert.True(t, ok)

		row, err := repo.FindByStoreAndProduct(ctx, store.ID, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, row.Quantity)
	})

	t.Run("leaves the row untouched when short", func(t *testing.T) {
		ok, err := repo.Decrement(ctx, store.ID, product.ID, 3)
		require.NoError(t, err)
		assert.False(t, ok)

		row, err := repo.FindByStoreAndProduct(ctx, store.ID, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, row.Quantity)
	})

	t.Run("missing row", func(t *testing.T) {
		ok, err := repo.Decrement(ctx, uuid.New(), product.ID, 1)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestGormStoreStockRepository_Increment(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStoreStockRepository(db)
	ctx := context.Background()

	store := seedStore(t, db, "Norte")
	product := seedProduct(t, db, seedSubcategory(t, db).ID, "P-2", 0)

	row, err := repo.Increment(ctx, store.ID, product.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, row.Quantity)
	require.NotNil(t, row.Product)
	assert.Equal(t, "P-2", row.Product.Code)

	row, err = repo.Increment(ctx, store.ID, product.ID, 6)
	require.NoError(t, err)
	assert.Equal(t, 10, row.Quantity)

	rows, err := repo.FindByStore(ctx, store.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestGormStoreStockRepository_SetQuantityAndDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStoreStockRepository(db)
	ctx := context.Background()

	store := seedStore(t, db, "Sur")
	product := seedProduct(t, db, seedSubcategory(t, db).ID, "P-3", 0)

	assert.ErrorIs(t, repo.SetQuantity(ctx, store.ID, product.ID, 1), shared.ErrNotFound)

	stock, err := inventory.NewStoreStock(store.ID, product.ID, 0)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, stock))

	count, err := repo.CountByStore(ctx, store.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count, "empty rows do not count as held stock")

	require.NoError(t, repo.SetQuantity(ctx, store.ID, product.ID, 7))
	count, err = repo.CountByStore(ctx, store.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.DeleteByStoreAndProduct(ctx, store.ID, product.ID))
	assert.ErrorIs(t, repo.DeleteByStoreAndProduct(ctx, store.ID, product.ID), shared.ErrNotFound)
}

func TestGormStockTransferRepository_FindHistory(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockTransferRepository(db)
	ctx := context.Background()

	from := seedStore(t, db, "Depósito")
	to := seedStore(t, db, "Local")
	other := seedStore(t, db, "Otro")
	product := seedProduct(t, db, seedSubcategory(t, db).ID, "P-4", 0)

	require.NoError(t, repo.Create(ctx, inventory.NewStockTransfer(from.ID, to.ID, product.ID, 3, nil)))
	require.NoError(t, repo.Create(ctx, inventory.NewStockTransfer(other.ID, from.ID, product.ID, 1, nil)))

	filter := shared.Filter{Filters: map[string]interface{}{"to_store_id": to.ID}}
	entries, err := repo.FindHistory(ctx, filter)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Depósito", entries[0].FromStoreName)
	assert.Equal(t, "Local", entries[0].ToStoreName)
	assert.Equal(t, "Producto P-4", entries[0].ProductName)
	assert.Equal(t, 3, entries[0].Quantity)

	count, err := repo.Count(ctx, shared.Filter{Filters: map[string]interface{}{"store_id": from.ID}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
