//go:build integration

package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sahayak/pkg/testutil/containers"
)

func TestRedisLimiter(t *testing.T) {
	ctx := context.Background()
	redis := containers.NewRedisContainer(t)
	limiter := NewRedisLimiter(redis.Client, 3, time.Minute)

	for i := 0; i < 3; i++ {
		result, err := limiter.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	}

	result, err := limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Positive(t, result.RetryAfter)

	result, err = limiter.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}
