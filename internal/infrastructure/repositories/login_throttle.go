package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/you/studiosvc/domain"
)

// LoginThrottleImpl implements domain.LoginThrottle with a Redis counter
// per key that expires with the window.
type LoginThrottleImpl struct {
	client      *redis.Client
	prefix      string
	maxAttempts int
	window      time.Duration
}

// NewLoginThrottle creates a new login throttle
func NewLoginThrottle(client *redis.Client, maxAttempts int, window time.Duration) *LoginThrottleImpl {
	return &LoginThrottleImpl{
		client:      client,
		prefix:      "login:att:",
		maxAttempts: maxAttempts,
		window:      window,
	}
}

var _ domain.LoginThrottle = (*LoginThrottleImpl)(nil)

// Check implements domain.LoginThrottle
func (t *LoginThrottleImpl) Check(ctx context.Context, key string) (time.Duration, error) {
	k := t.prefix + key
	attempts, err := t.client.Get(ctx, k).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read attempts: %w", err)
	}
	if attempts < t.maxAttempts {
		return 0, nil
	}

	ttl, err := t.client.TTL(ctx, k).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read lockout TTL: %w", err)
	}
	if ttl < 0 {
		// a counter without expiry would lock the key out for good
		if err := t.client.Expire(ctx, k, t.window).Err(); err != nil {
			return 0, fmt.Errorf("failed to set attempts window: %w", err)
		}
		ttl = t.window
	}
	return ttl, domain.ErrTooManyAttempts
}

// RecordFailure implements domain.LoginThrottle. The window starts at the
// first failure.
func (t *LoginThrottleImpl) RecordFailure(ctx context.Context, key string) error {
	k := t.prefix + key
	_, err := t.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, k, 0, t.window)
		pipe.Incr(ctx, k)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to increment attempts: %w", err)
	}
	return nil
}

// Reset implements domain.LoginThrottle
func (t *LoginThrottleImpl) Reset(ctx context.Context, key string) error {
	return t.client.Del(ctx, t.prefix+key).Err()
}
