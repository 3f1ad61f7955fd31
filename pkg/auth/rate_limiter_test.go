package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlidingWindowLimiter(t *testing.T) {
	ctx := context.Background()
	limiter := NewSlidingWindowLimiter(3, time.Minute)

	t.Run("allows up to the limit", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			allowed, err := limiter.Allow(ctx, "k")
			require.NoError(t, err)
			assert.True(t, allowed)
		}

		allowed, err := limiter.Allow(ctx, "k")
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("keys are independent", func(t *testing.T) {
		allowed, err := limiter.Allow(ctx, "other")
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("reset clears the window", func(t *testing.T) {
		require.NoError(t, limiter.Reset(ctx, "k"))
		allowed, err := limiter.Allow(ctx, "k")
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}

func TestSlidingWindowExpiry(t *testing.T) {
	ctx := context.Background()
	limiter := NewSlidingWindowLimiter(1, 20*time.Millisecond)

	allowed, _ := limiter.Allow(ctx, "k")
	assert.True(t, allowed)

	allowed, _ = limiter.Allow(ctx, "k")
	assert.False(t, allowed)

	time.Sleep(30 * time.Millisecond)

	allowed, _ = limiter.Allow(ctx, "k")
	assert.True(t, allowed)
}
