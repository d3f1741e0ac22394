// Package rate implements the login rate limiter: a Redis-backed keyed
// counter per originating address with a rolling window enforced through key
// expiry. Every attempt is recorded before the limit comparison, so rejected
// attempts consume window budget too.
package rate

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "login_attempts:"

// LimitError is returned when an address has exhausted its attempt budget.
// RetryAfter is the remaining lifetime of the current window.
type LimitError struct {
	RetryAfter time.Duration
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

// RetryAfterSeconds renders RetryAfter as whole seconds, rounded up, for the
// Retry-After response header.
func (e *LimitError) RetryAfterSeconds() string {
	secs := int(math.Ceil(e.RetryAfter.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

// Limiter tracks login attempts per originating address. It is safe for
// concurrent use; counter updates are atomic on the Redis side.
type Limiter struct {
	rdb    redis.UniversalClient
	limit  int
	window time.Duration
}

// NewLimiter creates a Limiter allowing at most limit attempts per address
// within the given window.
func NewLimiter(rdb redis.UniversalClient, limit int, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, limit: limit, window: window}
}

// CheckAndRecord records one attempt for the address and returns a
// *LimitError when the recorded count exceeds the limit. The INCR happens
// before the comparison, so the call both gates and counts: callers invoke
// it exactly once per login attempt, before any credential work. Stale
// windows expire server-side via the key TTL.
func (l *Limiter) CheckAndRecord(ctx context.Context, address string) error {
	key := keyPrefix + address

	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("rate limiter backend: %w", err)
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("rate limiter backend: %w", err)
		}
	}

	if count > int64(l.limit) {
		ttl, err := l.rdb.TTL(ctx, key).Result()
		if err != nil || ttl < 0 {
			ttl = l.window
		}
		return &LimitError{RetryAfter: ttl}
	}

	return nil
}
