package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newThrottle(t *testing.T, max int, window time.Duration) (*LoginThrottle, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLoginThrottle(client, max, window, zap.NewNop()), server
}

func TestThrottleBlocksAfterMaxFailures(t *testing.T) {
	ctx := context.Background()
	throttle, _ := newThrottle(t, 2, time.Minute)

	require.True(t, throttle.Allow(ctx, "a@example.com", "1.2.3.4"))
	throttle.RecordFailure(ctx, "a@example.com", "1.2.3.4")
	require.True(t, throttle.Allow(ctx, "a@example.com", "1.2.3.4"))
	throttle.RecordFailure(ctx, "a@example.com", "1.2.3.4")
	require.False(t, throttle.Allow(ctx, "a@example.com", "1.2.3.4"))

	// A different source address is counted separately.
	require.True(t, throttle.Allow(ctx, "a@example.com", "5.6.7.8"))
}

func TestThrottleResetsOnSuccess(t *testing.T) {
	ctx := context.Background()
	throttle, _ := newThrottle(t, 1, time.Minute)

	throttle.RecordFailure(ctx, "a@example.com", "1.2.3.4")
	require.False(t, throttle.Allow(ctx, "a@example.com", "1.2.3.4"))

	throttle.Reset(ctx, "a@example.com", "1.2.3.4")
	require.True(t, throttle.Allow(ctx, "a@example.com", "1.2.3.4"))
}

func TestThrottleWindowExpires(t *testing.T) {
	ctx := context.Background()
	throttle, server := newThrottle(t, 1, time.Minute)

	throttle.RecordFailure(ctx, "a@example.com", "1.2.3.4")
	require.False(t, throttle.Allow(ctx, "a@example.com", "1.2.3.4"))

	server.FastForward(2 * time.Minute)
	require.True(t, throttle.Allow(ctx, "a@example.com", "1.2.3.4"))
}

func TestThrottleDisabledAllowsEverything(t *testing.T) {
	ctx := context.Background()

	var nilThrottle *LoginThrottle
	require.True(t, nilThrottle.Allow(ctx, "a@example.com", "1.2.3.4"))
	nilThrottle.RecordFailure(ctx, "a@example.com", "1.2.3.4")
	nilThrottle.Reset(ctx, "a@example.com", "1.2.3.4")
}

func TestThrottleAllowsWhenRedisDown(t *testing.T) {
	ctx := context.Background()
	throttle, server := newThrottle(t, 1, time.Minute)

	throttle.RecordFailure(ctx, "a@example.com", "1.2.3.4")
	server.Close()

	// Redis outage degrades protection, not availability.
	require.True(t, throttle.Allow(ctx, "a@example.com", "1.2.3.4"))
}
