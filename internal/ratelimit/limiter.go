// Package ratelimit guards the OTP endpoint against brute-force attempts.
// Fixed-window counting: coarse, cheap, and good enough for a six-digit code
// with a short session TTL.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Result is the outcome of one limit check.
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter answers whether a key may proceed in the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
}

// MemoryLimiter is the single-instance implementation.
type MemoryLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	windows map[string]*windowState
}

type windowState struct {
	count   int
	resetAt time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		windows: make(map[string]*windowState),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (*Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	state, ok := l.windows[key]
	if !ok || now.After(state.resetAt) {
		state = &windowState{resetAt: now.Add(l.window)}
		l.windows[key] = state
	}
	state.count++

	if state.count > l.limit {
		return &Result{
			Allowed:    false,
			RetryAfter: state.resetAt.Sub(now),
		}, nil
	}
	return &Result{
		Allowed:   true,
		Remaining: l.limit - state.count,
	}, nil
}

// RedisLimiter shares windows across gateway instances.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (*Result, error) {
	redisKey := "sahayak:ratelimit:" + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return nil, fmt.Errorf("increment rate limit counter: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return nil, fmt.Errorf("set rate limit window: %w", err)
		}
	}

	if count > int64(l.limit) {
		ttl, err := l.client.TTL(ctx, redisKey).Result()
		if err != nil {
			ttl = l.window
		}
		return &Result{Allowed: false, RetryAfter: ttl}, nil
	}
	return &Result{Allowed: true, Remaining: l.limit - int(count)}, nil
}
