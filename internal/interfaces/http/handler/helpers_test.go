package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/retail/backoffice/internal/application/catalog"
	identityapp "github.com/retail/backoffice/internal/application/identity"
	tradeapp "github.com/retail/backoffice/internal/application/trade"
	wholesaleapp "github.com/retail/backoffice/internal/application/wholesale"
	"github.com/retail/backoffice/internal/domain/catalog"
	"github.com/retail/backoffice/internal/domain/identity"
	"github.com/retail/backoffice/internal/domain/inventory"
	"github.com/retail/backoffice/internal/domain/partner"
	"github.com/retail/backoffice/internal/domain/trade"
	"github.com/retail/backoffice/internal/domain/wholesale"
	"github.com/retail/backoffice/internal/infrastructure/auth"
	"github.com/retail/backoffice/internal/infrastructure/cache"
	"github.com/retail/backoffice/internal/infrastructure/config"
	"github.com/retail/backoffice/internal/infrastructure/persistence"
	"github.com/retail/backoffice/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// envelope mirrors dto.Response with raw data for per-test decoding
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"requestId"`
		Details   []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
	Meta *struct {
		Total      int64 `json:"total"`
		Page       int   `json:"page"`
		PageSize   int   `json:"pageSize"`
		TotalPages int   `json:"totalPages"`
	} `json:"meta"`
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), persistence.GormConfig(logger.Default.LogMode(logger.Silent)))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
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
	))
	return db
}

// services wires the application layer over one sqlite database
type services struct {
	db          *gorm.DB
	jwt         *auth.JWTService
	blacklist   auth.TokenBlacklist
	auth        *identityapp.AuthService
	users       *identityapp.UserService
	categories  *catalogapp.CategoryService
	subcategory *catalogapp.SubcategoryService
	products    *catalogapp.ProductService
	orders      *tradeapp.OrderService
	links       *wholesaleapp.LinkService
}

func newServices(t *testing.T, gateway trade.PaymentGateway) *services {
	t.Helper()
	db := setupTestDB(t)
	log := zap.NewNop()

	userRepo := persistence.NewGormUserRepository(db)
	sellerRepo := persistence.NewGormSellerRepository(db)
	storeRepo := persistence.NewGormStoreRepository(db)
	clientRepo := persistence.NewGormClientRepository(db)
	supplierRepo := persistence.NewGormSupplierRepository(db)
	categoryRepo := persistence.NewGormCategoryRepository(db)
	subRepo := persistence.NewGormSubcategoryRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	stockRepo := persistence.NewGormStoreStockRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	saleTxRepo := persistence.NewGormSaleTransactionRepository(db)
	linkRepo := persistence.NewGormWholesaleLinkRepository(db)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "handler-test-secret-at-least-32-chars",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "test-issuer",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	links := wholesaleapp.NewLinkService(linkRepo, productRepo, log)

	return &services{
		db:          db,
		jwt:         jwtService,
		blacklist:   blacklist,
		auth:        identityapp.NewAuthService(userRepo, sellerRepo, jwtService, blacklist, log),
		users:       identityapp.NewUserService(userRepo, persistence.NewGormIdentityTransactionScope(db), blacklist, 15*time.Minute, log),
		categories:  catalogapp.NewCategoryService(categoryRepo, subRepo, productRepo, persistence.NewGormCatalogTransactionScope(db), nil, log),
		subcategory: catalogapp.NewSubcategoryService(subRepo, categoryRepo, productRepo, nil, log),
		products: catalogapp.NewProductService(productRepo, subRepo, storeRepo, supplierRepo, stockRepo,
			persistence.NewGormCatalogTransactionScope(db), nil, links, log),
		orders: tradeapp.NewOrderService(orderRepo, saleTxRepo, clientRepo, storeRepo, sellerRepo,
			persistence.NewGormTradeTransactionScope(db), gateway, cache.NewInMemoryIdempotencyStore(), log),
		links: links,
	}
}

// asRole stands in for the JWT middleware with a fixed caller
func asRole(role identity.Role) gin.HandlerFunc {
	userID := uuid.New()
	return func(c *gin.Context) {
		claims := &auth.Claims{UserID: userID.String(), Username: "tester", Role: string(role)}
		c.Set(middleware.JWTClaimsKey, claims)
		c.Set(middleware.JWTUserIDKey, claims.UserID)
		c.Set(middleware.JWTUsernameKey, claims.Username)
		c.Set(middleware.JWTRoleKey, claims.Role)
		c.Next()
	}
}

func doJSON(t *testing.T, engine http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}
