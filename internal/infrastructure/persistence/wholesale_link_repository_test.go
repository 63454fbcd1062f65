package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/retail/backoffice/internal/domain/wholesale"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLink(t *testing.T, details wholesale.LinkDetails) *wholesale.Link {
	t.Helper()
	if details.Name == "" {
		details.Name = "Mayorista"
	}
	link, err := wholesale.NewLink(details, nil)
	require.NoError(t, err)
	return link
}

func TestGormWholesaleLinkRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormWholesaleLinkRepository(db)
	ctx := context.Background()

	sub := seedSubcategory(t, db)
	p1 := seedProduct(t, db, sub.ID, "W-1", 1)
	p2 := seedProduct(t, db, sub.ID, "W-2", 1)

	link := newTestLink(t, wholesale.LinkDetails{Discount: decimal.NewFromInt(15), CustomSlug: "Tienda Sol"})
	link.ProductIDs = []uuid.UUID{p1.ID, p2.ID, p1.ID}
	require.NoError(t, repo.Create(ctx, link))

	byToken, err := repo.FindByToken(ctx, link.Token)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{p1.ID, p2.ID}, byToken.ProductIDs)

	bySlug, err := repo.FindByToken(ctx, "tienda-sol")
	require.NoError(t, err)
	assert.Equal(t, link.ID, bySlug.ID)

	require.NoError(t, repo.ReplaceProducts(ctx, link.ID, []uuid.UUID{p2.ID}))
	loaded, err := repo.FindByID(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{p2.ID}, loaded.ProductIDs)

	_, err = repo.FindByToken(ctx, "missing")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormWholesaleLinkRepository_RecordUse(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormWholesaleLinkRepository(db)
	ctx := context.Background()
	now := time.Now()

	active := newTestLink(t, wholesale.LinkDetails{})
	require.NoError(t, repo.Create(ctx, active))

	past := now.Add(-time.Hour)
	expired := newTestLink(t, wholesale.LinkDetails{ExpiresAt: &past})
	require.NoError(t, repo.Create(ctx, expired))

	inactive := newTestLink(t, wholesale.LinkDetails{})
	require.NoError(t, repo.Create(ctx, inactive))
	inactive.Deactivate()
	require.NoError(t, repo.Save(ctx, inactive))

	for i := 0; i < 2; i++ {
		ok, err := repo.RecordUse(ctx, active.Token, now)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	loaded, err := repo.FindByID(ctx, active.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Uses)
	assert.NotNil(t, loaded.LastUsedAt)

	ok, err := repo.RecordUse(ctx, expired.Token, now)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.RecordUse(ctx, inactive.Token, now)
	require.NoError(t, err)
	assert.False(t, ok)

	activeOnly := shared.Filter{Filters: map[string]interface{}{"active_only": true}}.Normalize()
	count, err := repo.Count(ctx, activeOnly)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGormWholesaleLinkRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormWholesaleLinkRepository(db)
	ctx := context.Background()

	link := newTestLink(t, wholesale.LinkDetails{})
	require.NoError(t, repo.Create(ctx, link))

	require.NoError(t, repo.Delete(ctx, link.ID))
	assert.ErrorIs(t, repo.Delete(ctx, link.ID), shared.ErrNotFound)
}
