package rate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiter(t *testing.T, cfg Config) (*miniredis.Miniredis, *Limiter) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, New(rdb, cfg)
}

func TestLimiterBlocksAfterBudget(t *testing.T) {
	ctx := context.Background()
	_, l := newLimiter(t, Config{MaxFailures: 2, Cooldown: time.Minute})

	require.NoError(t, l.Check(ctx, "10.0.0.1"))
	require.NoError(t, l.RecordFailure(ctx, "10.0.0.1"))
	require.NoError(t, l.Check(ctx, "10.0.0.1"))
	require.NoError(t, l.RecordFailure(ctx, "10.0.0.1"))

	assert.ErrorIs(t, l.Check(ctx, "10.0.0.1"), ErrRateLimited)
	assert.NoError(t, l.Check(ctx, "10.0.0.2"))

	n, err := l.Failures(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestLimiterWindowExpires(t *testing.T) {
	ctx := context.Background()
	mr, l := newLimiter(t, Config{MaxFailures: 1, Cooldown: 30 * time.Second})

	require.NoError(t, l.RecordFailure(ctx, "a"))
	require.ErrorIs(t, l.Check(ctx, "a"), ErrRateLimited)
	assert.Equal(t, 30*time.Second, mr.TTL("aquao:authfail:a"))

	mr.FastForward(31 * time.Second)
	assert.NoError(t, l.Check(ctx, "a"))
}

func TestLimiterReset(t *testing.T) {
	ctx := context.Background()
	_, l := newLimiter(t, Config{MaxFailures: 1})

	require.NoError(t, l.RecordFailure(ctx, "a"))
	require.NoError(t, l.Reset(ctx, "a"))
	assert.NoError(t, l.Check(ctx, "a"))
}

func TestLimiterDisabled(t *testing.T) {
	ctx := context.Background()
	_, l := newLimiter(t, Config{})

	assert.False(t, l.Enabled())
	for i := 0; i < 5; i++ {
		require.NoError(t, l.RecordFailure(ctx, "a"))
	}
	assert.NoError(t, l.Check(ctx, "a"))
}

func TestLimiterRedisUnavailable(t *testing.T) {
	mr := miniredis.NewMiniRedis()
	require.NoError(t, mr.Start())
	addr := mr.Addr()
	mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: addr, MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })

	l := New(rdb, Config{MaxFailures: 1})
	assert.ErrorIs(t, l.RecordFailure(context.Background(), "a"), ErrRedisUnavailable)
}
