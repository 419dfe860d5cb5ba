package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/uniedit/checkout/docs" // swagger docs
	paymenthttp "github.com/uniedit/checkout/internal/adapter/inbound/http/payment"
	"github.com/uniedit/checkout/internal/domain/payment"
	"github.com/uniedit/checkout/internal/infra/config"
	"github.com/uniedit/checkout/internal/infra/database"
	"github.com/uniedit/checkout/internal/port/outbound"
	"github.com/uniedit/checkout/internal/utils/metrics"
	"github.com/uniedit/checkout/internal/utils/middleware"
)

// Dependencies holds all injected dependencies.
type Dependencies struct {
	Config      *config.Config
	DB          *gorm.DB
	Redis       goredis.UniversalClient
	HTTPClient  *http.Client
	RateLimiter outbound.RateLimiterPort
	ZapLogger   *zap.Logger
	Registry    *prometheus.Registry
	Metrics     *metrics.Metrics
	Tokens      outbound.TokenPort

	// Domains
	PaymentDomain payment.PaymentDomain

	// HTTP Handlers
	CheckoutHandler   *paymenthttp.CheckoutHandler
	BackOfficeHandler *paymenthttp.BackOfficeHandler
	WebhookHandler    *paymenthttp.WebhookHandler
}

// App represents the application.
type App struct {
	config  *config.Config
	deps    *Dependencies
	router  *gin.Engine
	cleanup func()
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	deps, cleanup, err := newDependencies(cfg)
	if err != nil {
		return nil, fmt.Errorf("init dependencies: %w", err)
	}
	return newApp(deps, cleanup), nil
}

func newApp(deps *Dependencies, cleanup func()) *App {
	if cleanup == nil {
		cleanup = func() {}
	}
	app := &App{
		config:  deps.Config,
		deps:    deps,
		cleanup: cleanup,
	}
	app.router = app.setupRouter()
	app.registerRoutes()
	return app
}

// newDependencies builds the object graph by hand in the same order as the
// wire injector in wire.go.
func newDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	zapLog, logCleanup, err := ProvideZapLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanups = append(cleanups, logCleanup)

	db, dbCleanup, err := ProvideDatabase(cfg, zapLog)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	cleanups = append(cleanups, dbCleanup)

	redis, redisCleanup := ProvideRedisClient(cfg, zapLog)
	cleanups = append(cleanups, redisCleanup)

	httpClient := ProvideHTTPClient(cfg)
	limiter := ProvideRateLimiter(cfg, redis)
	registry := ProvideRegistry()
	m := ProvideMetrics(registry)

	settings := ProvidePaymentSettings(cfg)
	gateway := ProvideGateway(cfg, settings, httpClient, m, zapLog)
	store := ProvideOrderStore(db, m)
	paymentDomain := ProvidePaymentDomain(gateway, store, ProvideCountryLookup(), settings, zapLog)

	return &Dependencies{
		Config:            cfg,
		DB:                db,
		Redis:             redis,
		HTTPClient:        httpClient,
		RateLimiter:       limiter,
		ZapLogger:         zapLog,
		Registry:          registry,
		Metrics:           m,
		Tokens:            ProvideTokenManager(cfg),
		PaymentDomain:     paymentDomain,
		CheckoutHandler:   ProvideCheckoutHandler(cfg, paymentDomain),
		BackOfficeHandler: ProvideBackOfficeHandler(paymentDomain, zapLog),
		WebhookHandler:    ProvideWebhookHandler(paymentDomain, m),
	}, cleanup, nil
}

// setupRouter creates and configures the Gin router.
func (a *App) setupRouter() *gin.Engine {
	if a.config.Server.Mode != "" {
		gin.SetMode(a.config.Server.Mode)
	}

	r := gin.New()

	// Apply global middleware
	r.Use(middleware.Recovery(a.deps.ZapLogger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.deps.ZapLogger))
	r.Use(middleware.Metrics(a.deps.Metrics))
	r.Use(middleware.CORS(a.config.CORS.AllowOrigins))

	// Liveness
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness
	r.GET("/ready", a.ready)

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.deps.Registry, promhttp.HandlerOpts{})))

	// Swagger documentation endpoint
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	return r
}

// registerRoutes mounts the payment API under /api/v1.
func (a *App) registerRoutes() {
	cfg := a.config
	api := a.router.Group("/api/v1")

	// Storefront checkout
	var createMiddleware []gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		createMiddleware = append(createMiddleware,
			middleware.RateLimit(a.deps.RateLimiter, cfg.RateLimit.CheckoutLimit, cfg.RateLimit.Window, middleware.ByRouteAndIP))
	}
	if cfg.Idempotency.Enabled {
		createMiddleware = append(createMiddleware,
			middleware.Idempotency(a.deps.Redis, middleware.IdempotencyConfig{TTL: cfg.Idempotency.TTL, Metrics: a.deps.Metrics}))
	}
	a.deps.CheckoutHandler.RegisterRoutes(api, createMiddleware...)

	// Back office
	backOffice := api.Group("", middleware.RequireAuth(a.deps.Tokens))
	a.deps.BackOfficeHandler.RegisterRoutes(backOffice)

	// Gateway webhooks
	var webhookMiddleware []gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		webhookMiddleware = append(webhookMiddleware,
			middleware.RateLimit(a.deps.RateLimiter, cfg.RateLimit.WebhookLimit, cfg.RateLimit.Window, middleware.ByClientIP))
	}
	a.deps.WebhookHandler.RegisterRoutes(api, webhookMiddleware...)
}

// ready reports whether the backing stores answer.
func (a *App) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{}
	healthy := true

	if a.deps.DB != nil {
		if err := database.Ping(ctx, a.deps.DB); err != nil {
			checks["database"] = err.Error()
			healthy = false
		} else {
			checks["database"] = "ok"
		}
	}
	if a.deps.Redis != nil {
		// Redis is optional; a failure degrades the service without failing readiness.
		if err := a.deps.Redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = err.Error()
		} else {
			checks["redis"] = "ok"
		}
	}

	status := http.StatusOK
	state := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "unavailable"
	}
	c.JSON(status, gin.H{"status": state, "checks": checks})
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Logger returns the process logger.
func (a *App) Logger() *zap.Logger {
	return a.deps.ZapLogger
}

// Stop releases the database, cache and logger.
func (a *App) Stop() {
	a.cleanup()
}
