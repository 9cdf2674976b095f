package xcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewFromConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("memory mode caches", func(t *testing.T) {
		cache := NewFromConfig[string](Config{
			Mode: ModeMemory,
			Memory: MemoryConfig{
				Expiration:      time.Minute,
				CleanupInterval: time.Minute,
			},
		})

		require.NoError(t, cache.Set(ctx, "k", "v"))

		got, err := cache.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, "v", got)

		require.NoError(t, cache.Delete(ctx, "k"))

		_, err = cache.Get(ctx, "k")
		require.Error(t, err)
	})

	t.Run("none mode never stores", func(t *testing.T) {
		cache := NewFromConfig[string](Config{Mode: ModeNone})

		require.NoError(t, cache.Set(ctx, "k", "v"))

		_, err := cache.Get(ctx, "k")
		require.Error(t, err)
	})

	t.Run("unset mode falls back to noop", func(t *testing.T) {
		cache := NewFromConfig[string](Config{})

		require.NoError(t, cache.Set(ctx, "k", "v"))

		_, err := cache.Get(ctx, "k")
		require.Error(t, err)
	})
}
