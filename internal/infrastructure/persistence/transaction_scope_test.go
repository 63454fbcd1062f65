package persistence

import (
	"context"
	"errors"
	"testing"

	appinv "github.com/retail/backoffice/internal/application/inventory"
	apptrade "github.com/retail/backoffice/internal/application/trade"
	"github.com/retail/backoffice/internal/domain/inventory"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGormInventoryTransactionScope(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormInventoryTransactionScope(db)
	stockRepo := NewGormStoreStockRepository(db)
	ctx := context.Background()

	from := seedStore(t, db, "Origen")
	to := seedStore(t, db, "Destino")
	product := seedProduct(t, db, seedSubcategory(t, db).ID, "T-1", 0)
	_, err := stockRepo.Increment(ctx, from.ID, product.ID, 5)
	require.NoError(t, err)

	t.Run("commits every write", func(t *testing.T) {
		err := scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
			ok, err := repos.StoreStockRepo().Decrement(ctx, from.ID, product.ID, 2)
			if err != nil || !ok {
				return errors.New("decrement failed")
			}
			if _, err := repos.StoreStockRepo().Increment(ctx, to.ID, product.ID, 2); err != nil {
				return err
			}
			return repos.TransferRepo().Create(ctx, inventory.NewStockTransfer(from.ID, to.ID, product.ID, 2, nil))
		})
		require.NoError(t, err)

		src, _ := stockRepo.FindByStoreAndProduct(ctx, from.ID, product.ID)
		dst, _ := stockRepo.FindByStoreAndProduct(ctx, to.ID, product.ID)
		assert.Equal(t, 3, src.Quantity)
		assert.Equal(t, 2, dst.Quantity)
	})

	t.Run("rolls back every write on error", func(t *testing.T) {
		err := scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
			if _, err := repos.StoreStockRepo().Decrement(ctx, from.ID, product.ID, 3); err != nil {
				return err
			}
			if _, err := repos.StoreStockRepo().Increment(ctx, to.ID, product.ID, 3); err != nil {
				return err
			}
			return shared.ErrInsufficientStock
		})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)

		src, _ := stockRepo.FindByStoreAndProduct(ctx, from.ID, product.ID)
		dst, _ := stockRepo.FindByStoreAndProduct(ctx, to.ID, product.ID)
		assert.Equal(t, 3, src.Quantity)
		assert.Equal(t, 2, dst.Quantity)

		count, err := NewGormStockTransferRepository(db).Count(ctx, shared.Filter{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestGormTradeTransactionScope_RollsBackStock(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormTradeTransactionScope(db)
	productRepo := NewGormProductRepository(db)
	ctx := context.Background()

	product := seedProduct(t, db, seedSubcategory(t, db).ID, "T-2", 4)

	err := scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		ok, err := repos.ProductRepo().DecrementStock(ctx, product.ID, 3)
		require.NoError(t, err)
		require.True(t, ok)
		ok, err = repos.ProductRepo().DecrementStock(ctx, product.ID, 3)
		require.NoError(t, err)
		if !ok {
			return shared.ErrInsufficientStock
		}
		return nil
	})
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)

	reloaded, err := productRepo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, reloaded.Stock)
}

func TestStockService_TransferOverSQLite(t *testing.T) {
	db := setupTestDB(t)
	stockRepo := NewGormStoreStockRepository(db)
	transferRepo := NewGormStockTransferRepository(db)
	service := appinv.NewStockService(stockRepo, transferRepo, NewGormStoreRepository(db),
		NewGormInventoryTransactionScope(db), zap.NewNop())
	ctx := context.Background()

	from := seedStore(t, db, "Centro")
	to := seedStore(t, db, "Norte")
	sub := seedSubcategory(t, db)
	p1 := seedProduct(t, db, sub.ID, "B-1", 0)
	p2 := seedProduct(t, db, sub.ID, "B-2", 0)
	_, err := stockRepo.Increment(ctx, from.ID, p1.ID, 5)
	require.NoError(t, err)
	_, err = stockRepo.Increment(ctx, from.ID, p2.ID, 2)
	require.NoError(t, err)

	ledgerSize := func() int64 {
		n, err := transferRepo.Count(ctx, shared.Filter{})
		require.NoError(t, err)
		return n
	}

	t.Run("a short item undoes the items before it", func(t *testing.T) {
		_, err := service.Transfer(ctx, appinv.TransferStockRequest{
			FromStoreID: from.ID,
			ToStoreID:   to.ID,
			Items: []appinv.TransferItemRequest{
				{ProductID: p1.ID, Quantity: 3},
				{ProductID: p2.ID, Quantity: 4},
			},
		})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)

		src, err := stockRepo.FindByStoreAndProduct(ctx, from.ID, p1.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, src.Quantity)
		_, err = stockRepo.FindByStoreAndProduct(ctx, to.ID, p1.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Zero(t, ledgerSize())
	})

	t.Run("same store keeps the quantity and writes a ledger row", func(t *testing.T) {
		rows, err := service.Transfer(ctx, appinv.TransferStockRequest{
			FromStoreID: from.ID,
			ToStoreID:   from.ID,
			Items:       []appinv.TransferItemRequest{{ProductID: p1.ID, Quantity: 2}},
		})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, 5, rows[0].Quantity)

		src, err := stockRepo.FindByStoreAndProduct(ctx, from.ID, p1.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, src.Quantity)
		assert.Equal(t, int64(1), ledgerSize())
	})
}
