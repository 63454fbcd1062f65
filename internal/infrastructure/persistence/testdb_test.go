package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/catalog"
	"github.com/retail/backoffice/internal/domain/identity"
	"github.com/retail/backoffice/internal/domain/inventory"
	"github.com/retail/backoffice/internal/domain/partner"
	"github.com/retail/backoffice/internal/domain/trade"
	"github.com/retail/backoffice/internal/domain/wholesale"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory SQLite database with every table migrated
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), GormConfig(logger.Default.LogMode(logger.Silent)))
	require.NoError(t, err)

	// one connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(
		&partner.Store{},
		&partner.Client{},
		&partner.Seller{},
		&partner.Supplier{},
		&identity.User{},
		&catalog.Category{},
		&catalog.Subcategory{},
		&catalog.Product{},
		&catalog.VolumeDiscount{},
		&catalog.BoxConfiguration{},
		&inventory.StoreStock{},
		&inventory.StockTransfer{},
		&trade.Order{},
		&trade.OrderItem{},
		&trade.SaleTransaction{},
		&wholesale.Link{},
		&wholesale.LinkProduct{},
	)
	require.NoError(t, err)
	return db
}

// newMockDB opens a postgres-dialect gorm handle over sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func seedStore(t *testing.T, db *gorm.DB, name string) *partner.Store {
	t.Helper()
	store, err := partner.NewStore(name, "")
	require.NoError(t, err)
	require.NoError(t, db.Create(store).Error)
	return store
}

func seedSubcategory(t *testing.T, db *gorm.DB) *catalog.Subcategory {
	t.Helper()
	category, err := catalog.NewCategory("Ropa "+uuid.NewString()[:8], "")
	require.NoError(t, err)
	require.NoError(t, db.Omit("Subcategories").Create(category).Error)

	sub, err := catalog.NewSubcategory(category.ID, "Remeras", "")
	require.NoError(t, err)
	require.NoError(t, db.Create(sub).Error)
	return sub
}

func seedProduct(t *testing.T, db *gorm.DB, subcategoryID uuid.UUID, code string, stock int) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(catalog.ProductDetails{
		Name:          "Producto " + code,
		Code:          code,
		Price:         decimal.NewFromInt(100),
		SubcategoryID: subcategoryID,
	}, stock)
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db).Create(context.Background(), product))
	return product
}
