// Package ratelimit paces calls into the external action source so the
// automated app sees human-plausible activity. The token bucket bounds
// sustained action rate; the jittered pacer spaces consecutive actions.
package ratelimit

import (
	"math/rand"
	"sync"
	"time"
)

// Limiter defines the interface for pacing device actions
type Limiter interface {
	// Allow checks if an action is allowed under the current rate limit
	Allow() bool
	// Wait blocks until the rate limit allows another action
	Wait()
	// Reset resets the rate limiter state
	Reset()
}

// TokenBucket implements a token bucket rate limiter
type TokenBucket struct {
	capacity     int
	tokens       int
	refillPeriod time.Duration
	lastRefill   time.Time
	mu           sync.Mutex
}

// NewTokenBucket creates a bucket allowing capacity actions per refill
// period.
func NewTokenBucket(capacity int, refillPeriod time.Duration) *TokenBucket {
	return &TokenBucket{
		capacity:     capacity,
		tokens:       capacity,
		refillPeriod: refillPeriod,
		lastRefill:   time.Now(),
	}
}

// Allow checks if an action can proceed
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()

	if tb.tokens > 0 {
		tb.tokens--
		return true
	}

	return false
}

// Wait blocks until a token is available
func (tb *TokenBucket) Wait() {
	for !tb.Allow() {
		tb.mu.Lock()
		timeUntilRefill := tb.refillPeriod - time.Since(tb.lastRefill)
		tb.mu.Unlock()

		if timeUntilRefill > 0 {
			time.Sleep(timeUntilRefill)
		} else {
			time.Sleep(100 * time.Millisecond)
		}
	}
}

// Reset refills the bucket to capacity
func (tb *TokenBucket) Reset() {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.tokens = tb.capacity
	tb.lastRefill = time.Now()
}

func (tb *TokenBucket) refill() {
	now := time.Now()
	if now.Sub(tb.lastRefill) >= tb.refillPeriod {
		tb.tokens = tb.capacity
		tb.lastRefill = now
	}
}

// JitteredPacer sleeps a random duration between min and max before
// each action. One session drives one device, so the pacer needs no
// locking beyond the rand source's own.
type JitteredPacer struct {
	Min time.Duration
	Max time.Duration
}

// NewJitteredPacer creates a pacer with the given delay bounds. A max
// below min is clamped to min.
func NewJitteredPacer(min, max time.Duration) *JitteredPacer {
	if max < min {
		max = min
	}
	return &JitteredPacer{Min: min, Max: max}
}

// Allow always permits the action; pacing happens in Wait.
func (p *JitteredPacer) Allow() bool { return true }

// Wait sleeps for a random duration inside the configured bounds.
func (p *JitteredPacer) Wait() {
	delay := p.Min
	if span := p.Max - p.Min; span > 0 {
		delay += time.Duration(rand.Int63n(int64(span)))
	}
	if delay > 0 {
		time.Sleep(delay)
	}
}

// Reset is a no-op for the jittered pacer.
func (p *JitteredPacer) Reset() {}

// Chain composes limiters so every action satisfies all of them. A
// token bucket chained with a jittered pacer caps sustained rate while
// still spacing individual actions.
type Chain struct {
	limiters []Limiter
}

// NewChain creates a limiter that applies each member in order.
func NewChain(limiters ...Limiter) *Chain {
	return &Chain{limiters: limiters}
}

// Allow reports whether every member permits the action.
func (c *Chain) Allow() bool {
	for _, l := range c.limiters {
		if !l.Allow() {
			return false
		}
	}
	return true
}

// Wait blocks on each member in order.
func (c *Chain) Wait() {
	for _, l := range c.limiters {
		l.Wait()
	}
}

// Reset resets every member.
func (c *Chain) Reset() {
	for _, l := range c.limiters {
		l.Reset()
	}
}
