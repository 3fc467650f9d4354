package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LoginThrottle counts failed login attempts per email and source address in
// Redis. It is best-effort: when Redis is unreachable attempts are allowed,
// so an outage degrades protection rather than availability.
type LoginThrottle struct {
	client *redis.Client
	max    int
	window time.Duration
	logger *zap.Logger
}

// NewLoginThrottle builds a throttle. A nil client or non-positive max
// disables it.
func NewLoginThrottle(client *redis.Client, max int, window time.Duration, logger *zap.Logger) *LoginThrottle {
	return &LoginThrottle{client: client, max: max, window: window, logger: logger}
}

func (t *LoginThrottle) key(email, addr string) string {
	return "login_fail:" + email + ":" + addr
}

func (t *LoginThrottle) disabled() bool {
	return t == nil || t.client == nil || t.max <= 0
}

// Allow reports whether another attempt may proceed.
func (t *LoginThrottle) Allow(ctx context.Context, email, addr string) bool {
	if t.disabled() {
		return true
	}
	count, err := t.client.Get(ctx, t.key(email, addr)).Int()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			t.logger.Warn("login throttle unavailable", zap.Error(err))
		}
		return true
	}
	return count < t.max
}

// RecordFailure increments the failure counter and refreshes the window.
func (t *LoginThrottle) RecordFailure(ctx context.Context, email, addr string) {
	if t.disabled() {
		return
	}
	pipe := t.client.TxPipeline()
	pipe.Incr(ctx, t.key(email, addr))
	pipe.Expire(ctx, t.key(email, addr), t.window)
	if _, err := pipe.Exec(ctx); err != nil {
		t.logger.Warn("login throttle record failed", zap.Error(err))
	}
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email, addr string) {
	if t.disabled() {
		return
	}
	if err := t.client.Del(ctx, t.key(email, addr)).Err(); err != nil {
		t.logger.Warn("login throttle reset failed", zap.Error(err))
	}
}
