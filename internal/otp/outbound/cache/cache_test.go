package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shiftbuddy/shiftbuddy/internal/otp/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func setupCache(t *testing.T) *Cache {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, testcontainers.TerminateContainer(container))
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	opt, err := redis.ParseURL(uri)
	require.NoError(t, err)

	client := redis.NewClient(opt)
	t.Cleanup(func() { _ = client.Close() })

	return NewCache(client, instrument.NewNoop())
}

func TestCache(t *testing.T) {
	cache := setupCache(t)
	ctx := context.Background()

	t.Run("ThrottleBlocksUntilReleased", func(t *testing.T) {
		acquired, _, err := cache.AcquireThrottle(ctx, "anna@example.com", entity.PurposeSignup, time.Minute)
		require.NoError(t, err)
		assert.True(t, acquired)

		acquired, remaining, err := cache.AcquireThrottle(ctx, "anna@example.com", entity.PurposeSignup, time.Minute)
		require.NoError(t, err)
		assert.False(t, acquired)
		assert.Greater(t, remaining, 50*time.Second)

		require.NoError(t, cache.ReleaseThrottle(ctx, "anna@example.com", entity.PurposeSignup))

		acquired, _, err = cache.AcquireThrottle(ctx, "anna@example.com", entity.PurposeSignup, time.Minute)
		require.NoError(t, err)
		assert.True(t, acquired)
	})

	t.Run("ThrottleScopedByPurpose", func(t *testing.T) {
		acquired, _, err := cache.AcquireThrottle(ctx, "scoped@example.com", entity.PurposeSignup, time.Minute)
		require.NoError(t, err)
		require.True(t, acquired)

		acquired, _, err = cache.AcquireThrottle(ctx, "scoped@example.com", entity.PurposePasswordReset, time.Minute)
		require.NoError(t, err)
		assert.True(t, acquired, "purposes hold independent throttles")
	})

	t.Run("VerifiedMarkerIsSingleUse", func(t *testing.T) {
		require.NoError(t, cache.PutVerified(ctx, "anna@example.com", entity.PurposePasswordReset, time.Minute))

		ok, err := cache.TakeVerified(ctx, "anna@example.com", entity.PurposePasswordReset)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = cache.TakeVerified(ctx, "anna@example.com", entity.PurposePasswordReset)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("TakeVerifiedWithoutMarker", func(t *testing.T) {
		ok, err := cache.TakeVerified(ctx, "nobody@example.com", entity.PurposeSignup)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
