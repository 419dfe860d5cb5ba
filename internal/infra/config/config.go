package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	HTTPClient  HTTPClientConfig  `mapstructure:"http_client"`
	Log         LogConfig         `mapstructure:"log"`
	NetsEasy    NetsEasyConfig    `mapstructure:"netseasy"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Idempotency IdempotencyConfig `mapstructure:"idempotency"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	CORS        CORSConfig        `mapstructure:"cors"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Mode            string        `mapstructure:"mode"` // gin mode: debug, release, test
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN returns the database connection string. URL wins when set.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Database, c.SSLMode,
	)
	if c.Password != "" {
		dsn += fmt.Sprintf(" password=%s", c.Password)
	}
	return dsn
}

// RedisConfig holds Redis configuration. An empty address and URL
// disables Redis.
type RedisConfig struct {
	URL      string `mapstructure:"url"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Enabled reports whether Redis is configured.
func (c *RedisConfig) Enabled() bool {
	return c.URL != "" || c.Address != ""
}

// HTTPClientConfig holds HTTP client configuration for connection pooling.
type HTTPClientConfig struct {
	MaxIdleConns        int           `mapstructure:"max_idle_conns"`
	MaxIdleConnsPerHost int           `mapstructure:"max_idle_conns_per_host"`
	MaxConnsPerHost     int           `mapstructure:"max_conns_per_host"`
	IdleConnTimeout     time.Duration `mapstructure:"idle_conn_timeout"`

	DialTimeout         time.Duration `mapstructure:"dial_timeout"`
	TLSHandshakeTimeout time.Duration `mapstructure:"tls_handshake_timeout"`
	ResponseTimeout     time.Duration `mapstructure:"response_timeout"`

	KeepAlive time.Duration `mapstructure:"keep_alive"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// NetsEasyConfig holds the hosted checkout gateway configuration.
type NetsEasyConfig struct {
	TestMode        bool   `mapstructure:"test_mode"`
	TestSecretKey   string `mapstructure:"test_secret_key"`
	LiveSecretKey   string `mapstructure:"live_secret_key"`
	TestCheckoutKey string `mapstructure:"test_checkout_key"`
	LiveCheckoutKey string `mapstructure:"live_checkout_key"`

	// PaymentMethods is a comma separated list, e.g. "Card,Swish".
	PaymentMethods string `mapstructure:"payment_methods"`

	BillingCompanyPropertyAlias         string `mapstructure:"billing_company_property_alias"`
	BillingPhonePropertyAlias           string `mapstructure:"billing_phone_property_alias"`
	ShippingAddressLine1PropertyAlias   string `mapstructure:"shipping_address_line1_property_alias"`
	ShippingAddressLine2PropertyAlias   string `mapstructure:"shipping_address_line2_property_alias"`
	ShippingAddressZipCodePropertyAlias string `mapstructure:"shipping_address_zip_code_property_alias"`
	ShippingAddressCityPropertyAlias    string `mapstructure:"shipping_address_city_property_alias"`

	TermsURL         string `mapstructure:"terms_url"`
	MerchantTermsURL string `mapstructure:"merchant_terms_url"`
	Language         string `mapstructure:"language"`
	AutoCapture      bool   `mapstructure:"auto_capture"`

	// CallbackBaseURL is the public origin the gateway delivers webhooks to.
	CallbackBaseURL string `mapstructure:"callback_base_url"`

	// BaseURL overrides the API root derived from TestMode.
	BaseURL string `mapstructure:"base_url"`

	Timeout          time.Duration `mapstructure:"timeout"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
	BreakerTimeout   time.Duration `mapstructure:"breaker_timeout"`
}

// AuthConfig holds back-office token configuration.
type AuthConfig struct {
	JWTSecret   string        `mapstructure:"jwt_secret"`
	Issuer      string        `mapstructure:"issuer"`
	TokenExpiry time.Duration `mapstructure:"token_expiry"`
}

// IdempotencyConfig holds checkout idempotency configuration.
type IdempotencyConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	CheckoutLimit int           `mapstructure:"checkout_limit"`
	WebhookLimit  int           `mapstructure:"webhook_limit"`
	Window        time.Duration `mapstructure:"window"`
}

// CORSConfig holds CORS configuration for the checkout API.
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// Load loads configuration from file and environment.
func Load() (*Config, error) {
	return load(viper.New())
}

// LoadFile loads configuration from the given file and environment.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/checkout")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("CHECKOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnvOverrides reads secrets from their conventional variables.
func applyEnvOverrides(cfg *Config) {
	if key := os.Getenv("NETSEASY_TEST_SECRET_KEY"); key != "" {
		cfg.NetsEasy.TestSecretKey = key
	}
	if key := os.Getenv("NETSEASY_LIVE_SECRET_KEY"); key != "" {
		cfg.NetsEasy.LiveSecretKey = key
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		cfg.Database.URL = dsn
	}
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cfg.Redis.URL = redisURL
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	var errs []error

	if c.NetsEasy.TestMode && c.NetsEasy.TestSecretKey == "" {
		errs = append(errs, errors.New("netseasy.test_secret_key is required in test mode"))
	}
	if !c.NetsEasy.TestMode && c.NetsEasy.LiveSecretKey == "" {
		errs = append(errs, errors.New("netseasy.live_secret_key is required in live mode"))
	}

	if c.NetsEasy.CallbackBaseURL == "" {
		errs = append(errs, errors.New("netseasy.callback_base_url is required"))
	} else if u, err := url.Parse(c.NetsEasy.CallbackBaseURL); err != nil || u.Host == "" {
		errs = append(errs, fmt.Errorf("netseasy.callback_base_url %q is not an absolute url", c.NetsEasy.CallbackBaseURL))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}

	return errors.Join(errs...)
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.mode", "release")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.database", "checkout")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.conn_max_idle_time", 30*time.Minute)
	v.SetDefault("database.auto_migrate", true)

	// Redis defaults
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)

	// HTTP client defaults
	v.SetDefault("http_client.max_idle_conns", 100)
	v.SetDefault("http_client.max_idle_conns_per_host", 20)
	v.SetDefault("http_client.max_conns_per_host", 50)
	v.SetDefault("http_client.idle_conn_timeout", 90*time.Second)
	v.SetDefault("http_client.dial_timeout", 10*time.Second)
	v.SetDefault("http_client.tls_handshake_timeout", 10*time.Second)
	v.SetDefault("http_client.response_timeout", 30*time.Second)
	v.SetDefault("http_client.keep_alive", 30*time.Second)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Gateway defaults
	v.SetDefault("netseasy.test_mode", true)
	v.SetDefault("netseasy.auto_capture", false)
	v.SetDefault("netseasy.timeout", 30*time.Second)
	v.SetDefault("netseasy.failure_threshold", 5)
	v.SetDefault("netseasy.breaker_timeout", 30*time.Second)

	// Auth defaults
	v.SetDefault("auth.issuer", "checkout")
	v.SetDefault("auth.token_expiry", 15*time.Minute)

	// Idempotency defaults
	v.SetDefault("idempotency.enabled", true)
	v.SetDefault("idempotency.ttl", 24*time.Hour)

	// Rate limit defaults
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.checkout_limit", 30)
	v.SetDefault("rate_limit.webhook_limit", 600)
	v.SetDefault("rate_limit.window", time.Minute)

	// CORS defaults
	v.SetDefault("cors.allow_origins", []string{"*"})
}
