package config

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, StoreFile, cfg.StoreDriver)
	assert.Equal(t, "data/db.json", cfg.DataFile)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, time.Hour, cfg.AccessTTL())
	assert.Equal(t, LockLocal, cfg.Lock.Driver)
	assert.Equal(t, map[string]bool{"GET": true}, cfg.Cache.MethodSet())
	assert.Equal(t, 60, cfg.RateLimit.Capacity)
	assert.Equal(t, 1, cfg.MQTT.QoS)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadNestedPrefixes(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("CACHE_METHODS", "get,head")
	t.Setenv("RATE_LIMIT_BURST", "5")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "2s")
	t.Setenv("MQTT_BROKER", "tcp://broker:1883")
	t.Setenv("LOCK_DRIVER", "redis")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, cfg.Cache.MethodSet())
	assert.Equal(t, 5, cfg.RateLimit.Capacity)
	assert.Equal(t, 2*time.Second, cfg.RateLimit.RefillInterval)
	assert.Equal(t, 10*time.Second, cfg.RateLimit.TTL)
	assert.Equal(t, "tcp://broker:1883", cfg.MQTT.Broker)
	assert.Equal(t, LockRedis, cfg.Lock.Driver)
}

func TestValidateMySQL(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("STORE_DRIVER", "mysql")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_HOST")

	t.Setenv("DB_USER", "hotel")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "hotel")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3306", cfg.DB.Port)
	require.Len(t, cfg.Warnings(), 1)
	assert.Contains(t, cfg.Warnings()[0], "LOCK_DRIVER=local")

	t.Setenv("LOCK_DRIVER", "redis")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Warnings())
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := NewRedisClient(RedisConfig{Enabled: true, Addr: mr.Addr()})
	require.NotNil(t, rdb)
	_ = rdb.Close()

	assert.Nil(t, NewRedisClient(RedisConfig{Enabled: false, Addr: mr.Addr()}))
	assert.Nil(t, NewRedisClient(RedisConfig{Enabled: true, Addr: "127.0.0.1:1"}))
}
