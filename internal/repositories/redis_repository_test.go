package repository_test

import (
	"testing"
	"time"

	"github.com/aaravmahajanofficial/artisan-storefront/internal/config"
	repository "github.com/aaravmahajanofficial/artisan-storefront/internal/repositories"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRateLimiter(t *testing.T, maxAttempts int64) (repository.RateLimitRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.RateConfig{MaxAttempts: maxAttempts, WindowSize: time.Minute}

	return repository.NewRateLimitRepo(client, cfg), mr
}

func TestCheckRateLimit(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - Allows Up To Max Attempts", func(t *testing.T) {
		// Arrange
		limiter, _ := setupRateLimiter(t, 3)

		// Act & Assert
		for i := 1; i <= 3; i++ {
			allowed, remaining, retryAfter, err := limiter.CheckRateLimit(ctx, "coupon", "session_a")
			require.NoError(t, err)
			assert.True(t, allowed, "attempt %d should be allowed", i)
			assert.Equal(t, 3-i, remaining)
			assert.Zero(t, retryAfter)
		}
	})

	t.Run("Failure - Blocks Once Exceeded", func(t *testing.T) {
		// Arrange
		limiter, _ := setupRateLimiter(t, 2)

		for range 2 {
			_, _, _, err := limiter.CheckRateLimit(ctx, "coupon", "session_b")
			require.NoError(t, err)
		}

		// Act
		allowed, remaining, retryAfter, err := limiter.CheckRateLimit(ctx, "coupon", "session_b")

		// Assert
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Zero(t, remaining)
		assert.Positive(t, retryAfter)
		assert.LessOrEqual(t, retryAfter, 60)
	})

	t.Run("Success - Subjects And Scopes Are Independent", func(t *testing.T) {
		// Arrange
		limiter, mr := setupRateLimiter(t, 1)

		// Act
		first, _, _, err := limiter.CheckRateLimit(ctx, "coupon", "session_c")
		require.NoError(t, err)
		other, _, _, err := limiter.CheckRateLimit(ctx, "coupon", "session_d")
		require.NoError(t, err)
		otherScope, _, _, err := limiter.CheckRateLimit(ctx, "checkout", "session_c")
		require.NoError(t, err)

		// Assert
		assert.True(t, first)
		assert.True(t, other)
		assert.True(t, otherScope)
		assert.True(t, mr.Exists("rate:coupon:session_c"))
		assert.Equal(t, time.Minute, mr.TTL("rate:coupon:session_c"))
	})

	t.Run("Failure - Redis Unavailable", func(t *testing.T) {
		// Arrange
		limiter, mr := setupRateLimiter(t, 1)
		mr.Close()

		// Act
		allowed, _, _, err := limiter.CheckRateLimit(ctx, "coupon", "session_e")

		// Assert
		require.Error(t, err)
		assert.False(t, allowed)
	})
}
