package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds limiter tuning parameters. A MaxFailures of zero disables the limiter.
type Config struct {
	MaxFailures int
	Cooldown    time.Duration
	Prefix      string
}

// Limiter counts rejected authorization attempts per client address in Redis
// fixed windows.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

// New creates a [Limiter] backed by the given Redis client.
func New(redisClient redis.UniversalClient, cfg Config) *Limiter {
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = time.Minute
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "aquao:authfail"
	}
	return &Limiter{
		redis:  redisClient,
		config: cfg,
	}
}

// Enabled reports whether attempts are limited at all.
func (l *Limiter) Enabled() bool {
	return l != nil && l.config.MaxFailures > 0
}

// Check returns [ErrRateLimited] once addr used up its failure budget for the
// current window.
func (l *Limiter) Check(ctx context.Context, addr string) error {
	if !l.Enabled() || addr == "" {
		return nil
	}

	count, err := l.redis.Get(ctx, l.key(addr)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if count >= int64(l.config.MaxFailures) {
		return ErrRateLimited
	}
	return nil
}

// RecordFailure counts one rejected attempt for addr.
func (l *Limiter) RecordFailure(ctx context.Context, addr string) error {
	if !l.Enabled() || addr == "" {
		return nil
	}

	count, err := l.redis.Incr(ctx, l.key(addr)).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// Fixed-window semantics: set TTL only for the first hit in the window.
	if count == 1 {
		if err := l.redis.Expire(ctx, l.key(addr), l.config.Cooldown).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}
	return nil
}

// Reset clears the failure counter of addr after a successful authorization.
func (l *Limiter) Reset(ctx context.Context, addr string) error {
	if !l.Enabled() || addr == "" {
		return nil
	}
	if err := l.redis.Del(ctx, l.key(addr)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Failures returns the current counter of addr. Missing keys read as zero.
func (l *Limiter) Failures(ctx context.Context, addr string) (int, error) {
	count, err := l.redis.Get(ctx, l.key(addr)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if count < 0 {
		return 0, nil
	}
	return int(count), nil
}

func (l *Limiter) key(addr string) string {
	return l.config.Prefix + ":" + addr
}
