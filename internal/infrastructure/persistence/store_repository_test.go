package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormStoreRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStoreRepository(db)
	stockRepo := NewGormStoreStockRepository(db)
	ctx := context.Background()

	store := seedStore(t, db, "Vaciado")
	product := seedProduct(t, db, seedSubcategory(t, db).ID, "D-1", 0)
	_, err := stockRepo.Increment(ctx, store.ID, product.ID, 3)
	require.NoError(t, err)
	ok, err := stockRepo.Decrement(ctx, store.ID, product.ID, 3)
	require.NoError(t, err)
	require.True(t, ok)

	held, err := stockRepo.CountByStore(ctx, store.ID)
	require.NoError(t, err)
	assert.Zero(t, held)

	require.NoError(t, repo.Delete(ctx, store.ID))

	_, err = repo.FindByID(ctx, store.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = stockRepo.FindByStoreAndProduct(ctx, store.ID, product.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), shared.ErrNotFound)
}
