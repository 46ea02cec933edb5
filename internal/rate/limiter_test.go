package rate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	l := NewMemoryLimiter(2, time.Hour)
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		res, err := l.Allow(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, int64(2), res.Limit)
		assert.Equal(t, int64(i), res.Hits)
		assert.Equal(t, int64(2-i), res.Remaining)
		assert.Positive(t, res.ResetIn)
	}

	res, err := l.Allow(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Zero(t, res.Remaining)
	assert.Positive(t, res.RetryAfter)

	// otra key tiene su propia ventana
	res, err = l.Allow(ctx, "u2")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestMemoryLimiter_WindowBoundaries(t *testing.T) {
	l := NewMemoryLimiter(1000, 5*time.Millisecond)
	ctx := context.Background()

	deadline := time.Now().Add(100 * time.Millisecond)
	for time.Now().Before(deadline) {
		res, err := l.Allow(ctx, "u1")
		require.NoError(t, err)
		require.LessOrEqual(t, res.ResetIn, 5*time.Millisecond)
	}
}

func TestNewResult(t *testing.T) {
	res := newResult(5, 1, 0, 90*time.Second)
	assert.False(t, res.Allowed)
	assert.Equal(t, int64(1), res.Limit)
	assert.Zero(t, res.Remaining)
	assert.Equal(t, 90*time.Second, res.RetryAfter)

	res = newResult(1, 3, 10*time.Second, time.Minute)
	assert.True(t, res.Allowed)
	assert.Equal(t, int64(2), res.Remaining)
	assert.Zero(t, res.RetryAfter)
}

func TestWindowAt(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 45, 0, time.UTC)
	start, resetIn := windowAt(now, time.Minute)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 15*time.Second, resetIn)
}
