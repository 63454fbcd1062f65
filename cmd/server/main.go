package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	catalogapp "github.com/retail/backoffice/internal/application/catalog"
	identityapp "github.com/retail/backoffice/internal/application/identity"
	inventoryapp "github.com/retail/backoffice/internal/application/inventory"
	partnerapp "github.com/retail/backoffice/internal/application/partner"
	tradeapp "github.com/retail/backoffice/internal/application/trade"
	wholesaleapp "github.com/retail/backoffice/internal/application/wholesale"
	"github.com/retail/backoffice/internal/domain/trade"
	"github.com/retail/backoffice/internal/infrastructure/auth"
	"github.com/retail/backoffice/internal/infrastructure/cache"
	"github.com/retail/backoffice/internal/infrastructure/config"
	"github.com/retail/backoffice/internal/infrastructure/logger"
	"github.com/retail/backoffice/internal/infrastructure/migration"
	"github.com/retail/backoffice/internal/infrastructure/payment"
	"github.com/retail/backoffice/internal/infrastructure/persistence"
	"github.com/retail/backoffice/internal/infrastructure/storage"
	"github.com/retail/backoffice/internal/infrastructure/telemetry"
	"github.com/retail/backoffice/internal/interfaces/http/handler"
	"github.com/retail/backoffice/internal/interfaces/http/middleware"
	"github.com/retail/backoffice/internal/interfaces/http/router"
	"github.com/retail/backoffice/migrations"
	"go.uber.org/zap"
)

const stockMetricsInterval = time.Minute

//	@title			Retail Backoffice API
//	@version		1.0
//	@description	Catalog, store stock, sales and wholesale pricing for a retail business.

//	@contact.name	Backoffice maintainers

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	log, err := logger.New(cfg.Log, cfg.App.Env)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting retail backoffice",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracer, err := telemetry.StartTracing(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	db, err := persistence.Open(&cfg.Database, logger.NewGormLogger(log, cfg.Database))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, cfg.Database.DBName, log); err != nil {
		log.Warn("Database tracing disabled", zap.Error(err))
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to access connection pool", zap.Error(err))
	}
	metrics := telemetry.NewMetrics()
	if err := metrics.RegisterDBStats(sqlDB, cfg.Database.DBName); err != nil {
		log.Warn("Connection pool metrics disabled", zap.Error(err))
	}

	if cfg.Database.AutoMigrate {
		if err := migrateUp(cfg.Database.DSN(), log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	// Redis is optional; the token blacklist and webhook dedupe fall back to memory
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	var blacklist auth.TokenBlacklist
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}
	idempotency := cache.NewIdempotencyStore(redisClient, log)

	imageStorage, err := storage.NewImageStorage(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize image storage", zap.Error(err))
	}
	images := catalogapp.NewImageUploader(
		storage.NewJPEGProcessor(cfg.Storage.JPEGQuality, cfg.HTTP.MaxUploadSize),
		imageStorage,
		log,
	)

	var gateway trade.PaymentGateway
	if cfg.Payment.MercadoPago.AccessToken != "" {
		adapter, err := payment.NewMercadoPagoAdapter(cfg.Payment.MercadoPago, log)
		if err != nil {
			log.Fatal("Failed to initialize payment gateway", zap.Error(err))
		}
		gateway = adapter
	} else {
		log.Warn("MercadoPago access token not configured, gateway payments are disabled")
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	sellerRepo := persistence.NewGormSellerRepository(db.DB)
	storeRepo := persistence.NewGormStoreRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	subcategoryRepo := persistence.NewGormSubcategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	stockRepo := persistence.NewGormStoreStockRepository(db.DB)
	transferRepo := persistence.NewGormStockTransferRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	saleTxRepo := persistence.NewGormSaleTransactionRepository(db.DB)
	linkRepo := persistence.NewGormWholesaleLinkRepository(db.DB)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, sellerRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, persistence.NewGormIdentityTransactionScope(db.DB),
		blacklist, cfg.JWT.AccessTokenExpiration, log)

	catalogScope := persistence.NewGormCatalogTransactionScope(db.DB)
	linkService := wholesaleapp.NewLinkService(linkRepo, productRepo, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, subcategoryRepo, productRepo, catalogScope, images, log)
	subcategoryService := catalogapp.NewSubcategoryService(subcategoryRepo, categoryRepo, productRepo, images, log)
	productService := catalogapp.NewProductService(productRepo, subcategoryRepo, storeRepo, supplierRepo, stockRepo,
		catalogScope, images, linkService, log)

	stockService := inventoryapp.NewStockService(stockRepo, transferRepo, storeRepo,
		persistence.NewGormInventoryTransactionScope(db.DB), log)
	orderService := tradeapp.NewOrderService(orderRepo, saleTxRepo, clientRepo, storeRepo, sellerRepo,
		persistence.NewGormTradeTransactionScope(db.DB), gateway, idempotency, log)

	storeService := partnerapp.NewStoreService(storeRepo, stockRepo, log)
	clientService := partnerapp.NewClientService(clientRepo)
	supplierService := partnerapp.NewSupplierService(supplierRepo)
	sellerService := partnerapp.NewSellerService(sellerRepo)

	businessMetrics, err := telemetry.NewBusinessMetrics(metrics, productRepo, log)
	if err != nil {
		log.Fatal("Failed to register business metrics", zap.Error(err))
	}
	stockService.SetBusinessMetrics(businessMetrics)
	orderService.SetBusinessMetrics(businessMetrics)
	linkService.SetBusinessMetrics(businessMetrics)
	businessMetrics.StartPeriodicCollection(ctx, stockMetricsInterval)
	defer businessMetrics.Stop()

	if err := userService.BootstrapSuperAdmin(ctx, cfg.Bootstrap.SuperAdminUsername, cfg.Bootstrap.SuperAdminPassword); err != nil {
		log.Fatal("Failed to bootstrap superadmin", zap.Error(err))
	}

	engine, stopLimiters := router.NewEngine(router.EngineConfig{
		HTTP:    cfg.HTTP,
		Storage: cfg.Storage,
		Swagger: cfg.Swagger,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tracer.Enabled(),
		},
		JWT: middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: blacklist,
			Logger:         log,
		},
		Metrics: metrics,
		Logger:  log,
	}, router.Handlers{
		Auth:      handler.NewAuthHandler(authService, userService),
		Category:  handler.NewCategoryHandler(categoryService, subcategoryService, cfg.HTTP.MaxUploadSize),
		Product:   handler.NewProductHandler(productService, cfg.HTTP.MaxUploadSize),
		Stock:     handler.NewStockHandler(stockService),
		Sales:     handler.NewSalesHandler(orderService),
		Wholesale: handler.NewWholesaleHandler(linkService),
		Store:     handler.NewStoreHandler(storeService),
		Client:    handler.NewClientHandler(clientService),
		Supplier:  handler.NewSupplierHandler(supplierService),
		Seller:    handler.NewSellerHandler(sellerService),
		Health:    handler.NewHealthHandler(db),
	})
	defer stopLimiters()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		log.Error("Server failed", zap.Error(err))
	case <-ctx.Done():
		log.Info("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := tracer.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer shutdown failed", zap.Error(err))
	}
	if err := idempotency.Close(); err != nil {
		log.Warn("Idempotency store close failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// migrateUp applies the embedded schema on a dedicated connection, since
// closing the migrator also closes its database handle.
func migrateUp(dsn string, log *zap.Logger) error {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	m, err := migration.New(conn, migrations.FS, log)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer func() { _ = m.Close() }()
	return m.Up()
}
