package app

import (
	"fmt"
	"net/http"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	// Domains
	"github.com/uniedit/checkout/internal/domain/payment"

	// Inbound adapters
	paymenthttp "github.com/uniedit/checkout/internal/adapter/inbound/http/payment"

	// Ports
	"github.com/uniedit/checkout/internal/port/outbound"

	// Outbound adapters
	jwtadapter "github.com/uniedit/checkout/internal/adapter/outbound/jwt"
	"github.com/uniedit/checkout/internal/adapter/outbound/netseasy"
	"github.com/uniedit/checkout/internal/adapter/outbound/postgres"
	redisadapter "github.com/uniedit/checkout/internal/adapter/outbound/redis"
	"github.com/uniedit/checkout/internal/adapter/outbound/region"

	// Infrastructure
	"github.com/uniedit/checkout/internal/infra/cache"
	"github.com/uniedit/checkout/internal/infra/config"
	"github.com/uniedit/checkout/internal/infra/database"
	"github.com/uniedit/checkout/internal/infra/httpclient"

	// Utils
	"github.com/uniedit/checkout/internal/utils/logger"
	"github.com/uniedit/checkout/internal/utils/metrics"
)

// ===== Infrastructure Providers =====

// InfraSet provides infrastructure dependencies.
var InfraSet = wire.NewSet(
	ProvideZapLogger,
	ProvideDatabase,
	ProvideRedisClient,
	ProvideHTTPClient,
	ProvideRateLimiter,
	ProvideRegistry,
	wire.Bind(new(prometheus.Registerer), new(*prometheus.Registry)),
	ProvideMetrics,
)

// ProvideZapLogger creates the process logger.
func ProvideZapLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	log, err := logger.NewZapLogger(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init zap logger: %w", err)
	}
	return log, func() { _ = log.Sync() }, nil
}

// ProvideDatabase opens the database and migrates the order tables.
func ProvideDatabase(cfg *config.Config, zapLog *zap.Logger) (*gorm.DB, func(), error) {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("init database: %w", err)
	}
	cleanup := func() {
		if err := database.Close(db); err != nil {
			zapLog.Warn("failed to close database", zap.Error(err))
		}
	}

	if cfg.Database.AutoMigrate {
		if err := postgres.AutoMigrate(db); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("migrate database: %w", err)
		}
	}
	return db, cleanup, nil
}

// ProvideRedisClient creates a Redis client. Redis is optional: without
// it idempotency and rate limiting are disabled.
func ProvideRedisClient(cfg *config.Config, zapLog *zap.Logger) (goredis.UniversalClient, func()) {
	if !cfg.Redis.Enabled() {
		return nil, func() {}
	}
	client, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		zapLog.Warn("redis connection failed, continuing without cache", zap.Error(err))
		return nil, func() {}
	}
	return client, func() { _ = cache.Close(client) }
}

// ProvideHTTPClient creates the pooled client used for gateway calls.
func ProvideHTTPClient(cfg *config.Config) *http.Client {
	return httpclient.New(cfg.HTTPClient, cfg.NetsEasy.Timeout)
}

// ProvideRateLimiter creates a rate limiter, or nil without Redis.
func ProvideRateLimiter(cfg *config.Config, redis goredis.UniversalClient) outbound.RateLimiterPort {
	if redis == nil || !cfg.RateLimit.Enabled {
		return nil
	}
	return redisadapter.NewRateLimiter(redis)
}

// ProvideRegistry creates the registry served on /metrics.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a metrics instance.
func ProvideMetrics(reg prometheus.Registerer) *metrics.Metrics {
	return metrics.NewWithRegistry("checkout", reg)
}

// ===== Payment Providers =====

// PaymentSet provides the payment domain and its adapters.
var PaymentSet = wire.NewSet(
	ProvidePaymentSettings,
	ProvideGateway,
	ProvideOrderStore,
	ProvideCountryLookup,
	ProvidePaymentDomain,
)

// ProvidePaymentSettings maps the gateway configuration onto domain settings.
func ProvidePaymentSettings(cfg *config.Config) payment.Settings {
	nc := cfg.NetsEasy
	return payment.Settings{
		TestMode:                            nc.TestMode,
		TestSecretKey:                       nc.TestSecretKey,
		LiveSecretKey:                       nc.LiveSecretKey,
		TestCheckoutKey:                     nc.TestCheckoutKey,
		LiveCheckoutKey:                     nc.LiveCheckoutKey,
		PaymentMethods:                      nc.PaymentMethods,
		BillingCompanyPropertyAlias:         nc.BillingCompanyPropertyAlias,
		BillingPhonePropertyAlias:           nc.BillingPhonePropertyAlias,
		ShippingAddressLine1PropertyAlias:   nc.ShippingAddressLine1PropertyAlias,
		ShippingAddressLine2PropertyAlias:   nc.ShippingAddressLine2PropertyAlias,
		ShippingAddressZipCodePropertyAlias: nc.ShippingAddressZipCodePropertyAlias,
		ShippingAddressCityPropertyAlias:    nc.ShippingAddressCityPropertyAlias,
		TermsURL:                            nc.TermsURL,
		MerchantTermsURL:                    nc.MerchantTermsURL,
		Language:                            nc.Language,
		AutoCapture:                         nc.AutoCapture,
	}
}

// ProvideGateway creates the gateway client for the configured mode.
func ProvideGateway(
	cfg *config.Config,
	settings payment.Settings,
	httpClient *http.Client,
	m *metrics.Metrics,
	zapLog *zap.Logger,
) outbound.GatewayPort {
	baseURL := cfg.NetsEasy.BaseURL
	if baseURL == "" {
		baseURL = settings.BaseURL()
	}
	return netseasy.NewClient(netseasy.Config{
		BaseURL:          baseURL,
		SecretKey:        settings.SecretKey(),
		FailureThreshold: cfg.NetsEasy.FailureThreshold,
		OpenTimeout:      cfg.NetsEasy.BreakerTimeout,
	}, httpClient, m, zapLog)
}

// ProvideCountryLookup creates the ISO country lookup.
func ProvideCountryLookup() outbound.CountryLookupPort {
	return region.NewCountryLookup()
}

// ProvideOrderStore creates the order store.
func ProvideOrderStore(db *gorm.DB, m *metrics.Metrics) outbound.OrderStorePort {
	return postgres.NewOrderStore(db, m)
}

// ProvidePaymentDomain creates the payment domain.
func ProvidePaymentDomain(
	gateway outbound.GatewayPort,
	store outbound.OrderStorePort,
	countries outbound.CountryLookupPort,
	settings payment.Settings,
	zapLog *zap.Logger,
) payment.PaymentDomain {
	return payment.NewPaymentDomain(gateway, store, countries, settings, zapLog)
}

// ===== Auth Providers =====

// AuthSet provides back-office token handling.
var AuthSet = wire.NewSet(
	ProvideTokenManager,
)

// ProvideTokenManager creates the back-office token manager.
func ProvideTokenManager(cfg *config.Config) outbound.TokenPort {
	return jwtadapter.NewTokenManager(&jwtadapter.Config{
		Secret: cfg.Auth.JWTSecret,
		Issuer: cfg.Auth.Issuer,
		Expiry: cfg.Auth.TokenExpiry,
	})
}

// ===== HTTP Handler Providers =====

// HandlerSet provides the HTTP handlers.
var HandlerSet = wire.NewSet(
	ProvideCheckoutHandler,
	ProvideBackOfficeHandler,
	ProvideWebhookHandler,
)

// ProvideCheckoutHandler creates the storefront checkout handler.
func ProvideCheckoutHandler(cfg *config.Config, domain payment.PaymentDomain) *paymenthttp.CheckoutHandler {
	return paymenthttp.NewCheckoutHandler(domain, cfg.NetsEasy.CallbackBaseURL)
}

// ProvideBackOfficeHandler creates the back-office handler.
func ProvideBackOfficeHandler(domain payment.PaymentDomain, zapLog *zap.Logger) *paymenthttp.BackOfficeHandler {
	return paymenthttp.NewBackOfficeHandler(domain, zapLog)
}

// ProvideWebhookHandler creates the gateway webhook handler.
func ProvideWebhookHandler(domain payment.PaymentDomain, m *metrics.Metrics) *paymenthttp.WebhookHandler {
	return paymenthttp.NewWebhookHandler(domain, m)
}

// AppSet is the full provider set for the application.
var AppSet = wire.NewSet(
	InfraSet,
	PaymentSet,
	AuthSet,
	HandlerSet,
)
