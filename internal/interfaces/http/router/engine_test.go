package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/retail/backoffice/internal/application/catalog"
	identityapp "github.com/retail/backoffice/internal/application/identity"
	inventoryapp "github.com/retail/backoffice/internal/application/inventory"
	partnerapp "github.com/retail/backoffice/internal/application/partner"
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
	"github.com/retail/backoffice/internal/infrastructure/telemetry"
	"github.com/retail/backoffice/internal/interfaces/http/handler"
	"github.com/retail/backoffice/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEngine struct {
	engine *gin.Engine
	jwt    *auth.JWTService
}

type pingOK struct{}

func (pingOK) Ping(context.Context) error { return nil }

func newTestEngine(t *testing.T, httpCfg config.HTTPConfig) *testEngine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), persistence.GormConfig(logger.Default.LogMode(logger.Silent)))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(
		&partner.Store{}, &partner.Client{}, &partner.Seller{}, &partner.Supplier{},
		&identity.User{},
		&catalog.Category{}, &catalog.Subcategory{}, &catalog.Product{},
		&catalog.VolumeDiscount{}, &catalog.BoxConfiguration{},
		&inventory.StoreStock{}, &inventory.StockTransfer{},
		&trade.Order{}, &trade.OrderItem{}, &trade.SaleTransaction{},
		&wholesale.Link{}, &wholesale.LinkProduct{},
	))

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
	transferRepo := persistence.NewGormStockTransferRepository(db)
	catalogScope := persistence.NewGormCatalogTransactionScope(db)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "router-test-secret-at-least-32-chars",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "test-issuer",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	links := wholesaleapp.NewLinkService(persistence.NewGormWholesaleLinkRepository(db), productRepo, log)
	orders := tradeapp.NewOrderService(persistence.NewGormOrderRepository(db), persistence.NewGormSaleTransactionRepository(db),
		clientRepo, storeRepo, sellerRepo, persistence.NewGormTradeTransactionScope(db), nil, cache.NewInMemoryIdempotencyStore(), log)

	h := Handlers{
		Auth: handler.NewAuthHandler(
			identityapp.NewAuthService(userRepo, sellerRepo, jwtService, blacklist, log),
			identityapp.NewUserService(userRepo, persistence.NewGormIdentityTransactionScope(db), blacklist, 15*time.Minute, log),
		),
		Category: handler.NewCategoryHandler(
			catalogapp.NewCategoryService(categoryRepo, subRepo, productRepo, catalogScope, nil, log),
			catalogapp.NewSubcategoryService(subRepo, categoryRepo, productRepo, nil, log),
			1<<20,
		),
		Product: handler.NewProductHandler(catalogapp.NewProductService(productRepo, subRepo, storeRepo, supplierRepo,
			stockRepo, catalogScope, nil, links, log), 1<<20),
		Stock: handler.NewStockHandler(inventoryapp.NewStockService(stockRepo, transferRepo, storeRepo,
			persistence.NewGormInventoryTransactionScope(db), log)),
		Sales:     handler.NewSalesHandler(orders),
		Wholesale: handler.NewWholesaleHandler(links),
		Store:     handler.NewStoreHandler(partnerapp.NewStoreService(storeRepo, stockRepo, log)),
		Client:    handler.NewClientHandler(partnerapp.NewClientService(clientRepo)),
		Supplier:  handler.NewSupplierHandler(partnerapp.NewSupplierService(supplierRepo)),
		Seller:    handler.NewSellerHandler(partnerapp.NewSellerService(sellerRepo)),
		Health:    handler.NewHealthHandler(pingOK{}),
	}

	engine, stop := NewEngine(EngineConfig{
		HTTP:    httpCfg,
		Swagger: config.SwaggerConfig{Enabled: true, RequireAuth: true},
		JWT:     middleware.JWTMiddlewareConfig{JWTService: jwtService, TokenBlacklist: blacklist, Logger: log},
		Metrics: telemetry.NewMetrics(),
		Logger:  log,
	}, h)
	t.Cleanup(stop)
	return &testEngine{engine: engine, jwt: jwtService}
}

func (e *testEngine) token(t *testing.T, role identity.Role) string {
	t.Helper()
	issued, err := e.jwt.GenerateToken(auth.GenerateTokenInput{UserID: uuid.New(), Username: "tester", Role: string(role)})
	require.NoError(t, err)
	return issued.AccessToken
}

func (e *testEngine) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(middleware.AuthHeaderKey, middleware.BearerPrefix+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func defaultHTTPConfig() config.HTTPConfig {
	return config.HTTPConfig{MaxBodySize: 1 << 20, MaxUploadSize: 5 << 20}
}

func TestEngine_OperationalEndpoints(t *testing.T) {
	e := newTestEngine(t, defaultHTTPConfig())

	w := e.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	assert.Equal(t, http.StatusOK, e.do(http.MethodGet, "/ready", "", "").Code)

	e.do(http.MethodGet, "/api/v1/categories", "", "")
	w = e.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/v1/categories")

	assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodGet, "/swagger/index.html", "", "").Code)
	admin := e.token(t, identity.RoleAdmin)
	assert.Equal(t, http.StatusOK, e.do(http.MethodGet, "/swagger/index.html", admin, "").Code)
	w = e.do(http.MethodGet, "/swagger/doc.json", admin, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/sales/gateway-webhook"`)
	assert.Contains(t, w.Body.String(), "BearerAuth")
}

func TestEngine_RoleGates(t *testing.T) {
	e := newTestEngine(t, defaultHTTPConfig())
	admin := e.token(t, identity.RoleAdmin)
	seller := e.token(t, identity.RoleSeller)
	super := e.token(t, identity.RoleSuperAdmin)
	custom := e.token(t, identity.RoleCustom)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		want   int
	}{
		{"public catalog read", http.MethodGet, "/api/v1/categories", "", "", http.StatusOK},
		{"public product read", http.MethodGet, "/api/v1/products", "", "", http.StatusOK},
		{"public store read", http.MethodGet, "/api/v1/stores", "", "", http.StatusOK},
		{"write needs token", http.MethodPost, "/api/v1/categories", "", `{"name":"x"}`, http.StatusUnauthorized},
		{"seller cannot write catalog", http.MethodPost, "/api/v1/categories", seller, `{"name":"x"}`, http.StatusForbidden},
		{"admin writes catalog", http.MethodPost, "/api/v1/categories", admin, `{"name":"x"}`, http.StatusCreated},
		{"superadmin passes admin gate", http.MethodPost, "/api/v1/categories", super, `{"name":"y"}`, http.StatusCreated},
		{"clients need staff", http.MethodGet, "/api/v1/clients", "", "", http.StatusUnauthorized},
		{"custom role is not staff", http.MethodGet, "/api/v1/clients", custom, "", http.StatusForbidden},
		{"seller lists clients", http.MethodGet, "/api/v1/clients", seller, "", http.StatusOK},
		{"profile needs token", http.MethodGet, "/api/v1/auth/profile", "", "", http.StatusUnauthorized},
		{"transfer history for staff", http.MethodGet, "/api/v1/store-stock/transfers/history", seller, "", http.StatusOK},
		{"stock update for admin only", http.MethodPatch, "/api/v1/store-stock/update", seller, `{}`, http.StatusForbidden},
		{"wholesale links admin only", http.MethodGet, "/api/v1/wholesale/links", seller, "", http.StatusForbidden},
		{"wholesale validate is public", http.MethodGet, "/api/v1/wholesale/links/validate/nope", "", "", http.StatusNotFound},
		{"order listing admin only", http.MethodGet, "/api/v1/sales/orders", seller, "", http.StatusForbidden},
		{"payment needs staff", http.MethodPost, "/api/v1/sales/payment", "", `{}`, http.StatusUnauthorized},
		{"webhook without gateway", http.MethodPost, "/api/v1/sales/gateway-webhook", "", `{}`, http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/v1/clients", "not.a.jwt", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.do(tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestEngine_LoginRateLimit(t *testing.T) {
	cfg := defaultHTTPConfig()
	cfg.RateLimitEnabled = true
	cfg.RateLimitRequests = 1000
	cfg.RateLimitWindow = time.Minute
	cfg.AuthRateLimitRequests = 2
	cfg.AuthRateLimitWindow = time.Minute
	e := newTestEngine(t, cfg)

	body := `{"username":"nobody","password":"wrong"}`
	assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodPost, "/api/v1/auth/login", "", body).Code)
	assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodPost, "/api/v1/auth/login", "", body).Code)

	w := e.do(http.MethodPost, "/api/v1/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")

	// other routes still pass the global limiter
	assert.Equal(t, http.StatusOK, e.do(http.MethodGet, "/api/v1/categories", "", "").Code)
}
