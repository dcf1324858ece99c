package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestAllowDrainsBucket(t *testing.T) {
	tb := NewTokenBucket(3, 1)
	for i := 0; i < 3; i++ {
		if !tb.Allow() {
			t.Fatalf("token %d should be available", i)
		}
	}
	if tb.Allow() {
		t.Fatal("bucket should be empty")
	}
	if got := tb.Remaining(); got != 0 {
		t.Errorf("remaining = %d", got)
	}
}

func TestRefill(t *testing.T) {
	tb := NewTokenBucket(2, 100)
	tb.Allow()
	tb.Allow()
	if tb.Allow() {
		t.Fatal("bucket should be empty")
	}
	time.Sleep(50 * time.Millisecond)
	if !tb.Allow() {
		t.Fatal("bucket should have refilled")
	}
}

func TestRefillSubSecond(t *testing.T) {
	// 10 tokens/s means one token per 100ms; accrual must not wait for a
	// whole-second boundary.
	tb := NewTokenBucket(1, 10)
	if !tb.Allow() {
		t.Fatal("initial token should be available")
	}
	if tb.Allow() {
		t.Fatal("bucket should be empty")
	}
	time.Sleep(120 * time.Millisecond)
	if !tb.Allow() {
		t.Fatal("one token should have accrued")
	}
	// the 20ms remainder is not a whole token
	if tb.Allow() {
		t.Fatal("only one token should have accrued")
	}
}

func TestWaitRespectsContext(t *testing.T) {
	tb := NewTokenBucket(1, 1)
	tb.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := tb.Wait(ctx); err == nil {
		t.Fatal("expected context deadline error")
	}
}

func TestWaitReturnsWhenTokenAvailable(t *testing.T) {
	tb := NewTokenBucket(1, 100)
	tb.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := tb.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}
}
