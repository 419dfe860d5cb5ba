package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
server:
  address: ":9090"
netseasy:
  test_mode: true
  test_secret_key: "test-secret-key-abc"
  test_checkout_key: "test-checkout-key-def"
  payment_methods: "Card,Swish"
  billing_phone_property_alias: "phone"
  callback_base_url: "https://shop.example"
  language: "sv-SE"
auth:
  jwt_secret: "s3cret"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.True(t, cfg.NetsEasy.TestMode)
	assert.Equal(t, "test-secret-key-abc", cfg.NetsEasy.TestSecretKey)
	assert.Equal(t, "Card,Swish", cfg.NetsEasy.PaymentMethods)
	assert.Equal(t, "phone", cfg.NetsEasy.BillingPhonePropertyAlias)
	assert.Equal(t, "sv-SE", cfg.NetsEasy.Language)

	// defaults
	assert.Equal(t, 30*time.Second, cfg.NetsEasy.Timeout)
	assert.Equal(t, uint32(5), cfg.NetsEasy.FailureThreshold)
	assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
	assert.Equal(t, "checkout", cfg.Auth.Issuer)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowOrigins)
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	t.Setenv("NETSEASY_TEST_SECRET_KEY", "from-env")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/checkout")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("CHECKOUT_SERVER_ADDRESS", ":7070")

	cfg, err := LoadFile(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.NetsEasy.TestSecretKey)
	assert.Equal(t, "postgres://u:p@db:5432/checkout", cfg.Database.DSN())
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, ":7070", cfg.Server.Address)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			NetsEasy: NetsEasyConfig{TestMode: true, TestSecretKey: "k", CallbackBaseURL: "https://shop.example"},
			Auth:     AuthConfig{JWTSecret: "s"},
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing test key", func(c *Config) { c.NetsEasy.TestSecretKey = "" }, "test_secret_key"},
		{"missing live key", func(c *Config) { c.NetsEasy.TestMode = false }, "live_secret_key"},
		{"missing callback", func(c *Config) { c.NetsEasy.CallbackBaseURL = "" }, "callback_base_url is required"},
		{"relative callback", func(c *Config) { c.NetsEasy.CallbackBaseURL = "/hooks" }, "not an absolute url"},
		{"missing jwt secret", func(c *Config) { c.Auth.JWTSecret = "" }, "jwt_secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "app", Database: "checkout", SSLMode: "disable", Password: "pw"}
	assert.Equal(t, "host=db port=5432 user=app dbname=checkout sslmode=disable password=pw", c.DSN())
}

func TestRedisConfig_Enabled(t *testing.T) {
	assert.False(t, (&RedisConfig{}).Enabled())
	assert.True(t, (&RedisConfig{Address: "localhost:6379"}).Enabled())
	assert.True(t, (&RedisConfig{URL: "redis://localhost:6379/0"}).Enabled())
}
