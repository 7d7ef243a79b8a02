package cache

import (
	"context"
	"testing"
	"time"

	"smartshop-ai/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cacheConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Cache.Enabled = true
	cfg.Cache.MaxSize = 2
	cfg.Cache.TTL = 50 * time.Millisecond
	cfg.Cache.CleanupInterval = time.Hour
	return cfg
}

func TestNewManager(t *testing.T) {
	t.Run("returns nil when disabled", func(t *testing.T) {
		cfg := &config.Config{}
		assert.Nil(t, NewManager(cfg))
	})

	t.Run("nil manager methods are safe", func(t *testing.T) {
		var m *CacheManager
		_, err := m.Get(context.Background(), "key")
		assert.Error(t, err)
		assert.NoError(t, m.Set(context.Background(), "key", "value"))
		assert.Nil(t, m.GetStats())
		assert.NoError(t, m.Close())
	})
}

func TestCacheManager(t *testing.T) {
	ctx := context.Background()

	t.Run("set then get", func(t *testing.T) {
		m := NewManager(cacheConfig())
		require.NotNil(t, m)
		defer m.Close()

		require.NoError(t, m.Set(ctx, "prompt", "reply"))

		got, err := m.Get(ctx, "prompt")
		require.NoError(t, err)
		assert.Equal(t, "reply", got)
	})

	t.Run("miss on unknown key", func(t *testing.T) {
		m := NewManager(cacheConfig())
		require.NotNil(t, m)
		defer m.Close()

		_, err := m.Get(ctx, "never set")
		assert.Error(t, err)
	})

	t.Run("entries expire after ttl", func(t *testing.T) {
		m := NewManager(cacheConfig())
		require.NotNil(t, m)
		defer m.Close()

		require.NoError(t, m.Set(ctx, "prompt", "reply"))
		time.Sleep(80 * time.Millisecond)

		_, err := m.Get(ctx, "prompt")
		assert.Error(t, err)
	})

	t.Run("evicts least used entry when full", func(t *testing.T) {
		m := NewManager(cacheConfig())
		require.NotNil(t, m)
		defer m.Close()

		require.NoError(t, m.Set(ctx, "a", "1"))
		require.NoError(t, m.Set(ctx, "b", "2"))
		// 提升 a 的使用次數，讓 b 成為淘汰對象
		_, err := m.Get(ctx, "a")
		require.NoError(t, err)

		require.NoError(t, m.Set(ctx, "c", "3"))

		got, err := m.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "1", got)
		got, err = m.Get(ctx, "c")
		require.NoError(t, err)
		assert.Equal(t, "3", got)
	})

	t.Run("stats reflect activity", func(t *testing.T) {
		m := NewManager(cacheConfig())
		require.NotNil(t, m)
		defer m.Close()

		require.NoError(t, m.Set(ctx, "a", "1"))
		_, _ = m.Get(ctx, "a")
		_, _ = m.Get(ctx, "missing")

		stats := m.GetStats()
		assert.Equal(t, int64(1), stats["hits"])
		assert.Equal(t, int64(1), stats["misses"])
	})
}
