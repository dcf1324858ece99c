package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter gates outbound requests. The REST client waits on a limiter before
// hitting private endpoints so a burst of order traffic does not trip the
// exchange's limits.
type Limiter interface {
	Wait(ctx context.Context) error
	Allow() bool
	Remaining() int
}

// TokenBucket is a token bucket limiter: capacity tokens, refilled at
// refillRate tokens per second.
type TokenBucket struct {
	capacity   int
	tokens     int
	refillRate int
	lastRefill time.Time
	mu         sync.Mutex
}

func NewTokenBucket(capacity, refillRate int) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		tokens:     capacity,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

func (tb *TokenBucket) refill() {
	if tb.refillRate <= 0 {
		return
	}
	now := time.Now()
	elapsed := now.Sub(tb.lastRefill)
	add := int(elapsed * time.Duration(tb.refillRate) / time.Second)
	if add > 0 {
		tb.tokens = min(tb.capacity, tb.tokens+add)
		// advance only by the time the accrued tokens account for, so the
		// sub-interval remainder keeps counting toward the next token
		tb.lastRefill = tb.lastRefill.Add(time.Duration(add) * time.Second / time.Duration(tb.refillRate))
		if tb.tokens == tb.capacity {
			tb.lastRefill = now
		}
	}
}

// Allow consumes a token if one is available.
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

// Wait blocks until a token is available or the context ends.
func (tb *TokenBucket) Wait(ctx context.Context) error {
	for {
		if tb.Allow() {
			return nil
		}
		wait := time.Second
		if tb.refillRate > 0 {
			wait = time.Second / time.Duration(tb.refillRate)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// Remaining reports the tokens currently available.
func (tb *TokenBucket) Remaining() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.refill()
	return tb.tokens
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
