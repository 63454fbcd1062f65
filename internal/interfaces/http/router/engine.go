package router

import (
	"strings"

	"github.com/gin-gonic/gin"
	_ "github.com/retail/backoffice/docs"
	"github.com/retail/backoffice/internal/infrastructure/config"
	"github.com/retail/backoffice/internal/infrastructure/logger"
	"github.com/retail/backoffice/internal/infrastructure/telemetry"
	"github.com/retail/backoffice/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// EngineConfig carries what the HTTP engine needs besides the handlers
type EngineConfig struct {
	HTTP    config.HTTPConfig
	Storage config.StorageConfig
	Swagger config.SwaggerConfig
	Tracing middleware.TracingConfig
	JWT     middleware.JWTMiddlewareConfig
	Metrics *telemetry.Metrics
	Logger  *zap.Logger
}

// NewEngine builds the gin engine with the global middleware stack, the health
// endpoints, the API docs and every API group. The returned func stops the rate limiters.
func NewEngine(cfg EngineConfig, h Handlers) (*gin.Engine, func()) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID(log))
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(cfg.Tracing)...)
	engine.Use(middleware.Metrics(cfg.Metrics))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(cfg.HTTP))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize, cfg.HTTP.MaxUploadSize))

	var limiters []*middleware.RateLimiter
	var loginGuard gin.HandlerFunc
	if cfg.HTTP.RateLimitEnabled {
		global := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		login := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		limiters = append(limiters, global, login)
		engine.Use(middleware.RateLimit(global))
		loginGuard = middleware.RateLimitByKey(login, func(c *gin.Context) string {
			return "login:" + c.ClientIP()
		})
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
			zap.Int("login_requests", cfg.HTTP.AuthRateLimitRequests),
		)
	}

	if h.Health != nil {
		engine.GET("/health", h.Health.Health)
		engine.GET("/ready", h.Health.Ready)
	}
	if cfg.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}
	engine.GET("/swagger/*any",
		middleware.SwaggerGuard(cfg.Swagger, middleware.JWTAuth(cfg.JWT)),
		ginSwagger.WrapHandler(swaggerFiles.Handler))
	if strings.EqualFold(cfg.Storage.Driver, "local") && cfg.Storage.LocalDir != "" {
		engine.Static("/uploads", cfg.Storage.LocalDir)
	}

	Mount(engine.Group(APIPrefix), APIGroups(h, Guards{
		Auth:         middleware.JWTAuth(cfg.JWT),
		OptionalAuth: middleware.OptionalJWTAuth(cfg.JWT),
		Login:        loginGuard,
	})...)

	return engine, func() {
		for _, l := range limiters {
			l.Stop()
		}
	}
}
