package cache

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uniedit/checkout/internal/infra/config"
)

func TestOptions(t *testing.T) {
	t.Run("url wins over address", func(t *testing.T) {
		opts, err := options(&config.RedisConfig{URL: "redis://:pw@cache:6380/2", Address: "ignored:6379"})
		require.NoError(t, err)
		assert.Equal(t, "cache:6380", opts.Addr)
		assert.Equal(t, "pw", opts.Password)
		assert.Equal(t, 2, opts.DB)
	})

	t.Run("address", func(t *testing.T) {
		opts, err := options(&config.RedisConfig{Address: "localhost:6379", DB: 1})
		require.NoError(t, err)
		assert.Equal(t, "localhost:6379", opts.Addr)
		assert.Equal(t, 1, opts.DB)
	})

	t.Run("invalid url", func(t *testing.T) {
		_, err := options(&config.RedisConfig{URL: "http://nope"})
		assert.Error(t, err)
	})
}

func TestNewRedisClient(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewRedisClient(&config.RedisConfig{Address: srv.Addr()})
	require.NoError(t, err)
	assert.NoError(t, Close(client))

	srv.Close()
	_, err = NewRedisClient(&config.RedisConfig{Address: srv.Addr()})
	assert.Error(t, err)
}
