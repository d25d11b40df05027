package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T) (*FixedWindowLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewFixedWindowLimiter(rdb), mr
}

func TestFixedWindowLimiter_DeniesAfterLimit(t *testing.T) {
	l, _ := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := l.Allow(ctx, "register:1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, d.Allowed, "запрос %d должен пройти", i+1)
		assert.Equal(t, 2-i, d.Remaining)
	}

	d, err := l.Allow(ctx, "register:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.True(t, d.RetryAfter > 0)

	// другой ключ: своё окно
	d, err = l.Allow(ctx, "register:5.6.7.8", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestFixedWindowLimiter_WindowResets(t *testing.T) {
	l, mr := newTestLimiter(t)
	ctx := context.Background()

	_, err := l.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	d, err := l.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, d.Allowed)

	mr.FastForward(61 * time.Second)

	d, err = l.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestFixedWindowLimiter_NoRedisFailsOpen(t *testing.T) {
	l := NewFixedWindowLimiter(nil)
	d, err := l.Allow(context.Background(), "k", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}
