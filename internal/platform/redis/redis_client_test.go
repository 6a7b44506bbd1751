package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_PASSWORD", "secret")

	cfg := LoadConfig()

	assert.Equal(t, Config{Host: "cache", Port: "6380", Password: "secret"}, cfg)
	assert.Equal(t, "cache:6380", cfg.Addr())
}

func TestConfig_AddrDefaultPort(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "localhost:6379", Config{Host: "localhost"}.Addr())
}

func TestNewRedisClient_DisabledWithoutHost(t *testing.T) {
	t.Parallel()

	rdb, err := NewRedisClient(Config{})

	require.NoError(t, err)
	assert.Nil(t, rdb)
}

func TestNewRedisClient_PingFailure(t *testing.T) {
	t.Parallel()

	// 127.0.0.1:1 には何も待ち受けていない
	rdb, err := NewRedisClient(Config{Host: "127.0.0.1", Port: "1"})

	assert.Error(t, err)
	assert.Nil(t, rdb)
}
