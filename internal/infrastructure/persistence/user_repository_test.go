package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/identity"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormUserRepository_FindByUsername(t *testing.T) {
	t.Run("normalizes the username", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormUserRepository(db)

		id := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "username", "password_hash", "role", "is_active"}).
			AddRow(id, "maria", "hash", "seller", true)
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("maria", 1).
			WillReturnRows(rows)

		user, err := repo.FindByUsername(context.Background(), "  Maria ")
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, identity.RoleSeller, user.Role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing rows to not found", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormUserRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1`).
			WithArgs("ghost", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		user, err := repo.FindByUsername(context.Background(), "ghost")
		assert.Nil(t, user)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormUserRepository_CountByRole(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormUserRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE role = \$1`).
		WithArgs("superadmin").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountByRole(context.Background(), identity.RoleSuperAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserRepository_Delete(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormUserRepository(db)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM "users" WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), id), shared.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserRepository_SqliteRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	admin, err := identity.NewUser("admin", "secret123", identity.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, admin))

	seller, err := identity.NewUser("vendedor", "secret123", identity.RoleSeller)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, seller))

	clash, err := identity.NewUser("ADMIN", "secret123", identity.RoleCustom)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Save(ctx, clash), shared.ErrAlreadyExists)

	exists, err := repo.ExistsByUsername(ctx, "Vendedor")
	require.NoError(t, err)
	assert.True(t, exists)

	filter := shared.Filter{OrderBy: "username", OrderDir: "asc"}.Normalize()
	filter.Filters["role"] = string(identity.RoleSeller)
	users, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "vendedor", users[0].Username)
}
