package worker

import (
	"context"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}

	l3 := NewLimiter(0, 1)
	if l3.defaultRate != rate.Inf {
		t.Errorf("expected unlimited rate for 0 rps, got %v", l3.defaultRate)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "openrouter"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	if err := limiter.Wait(ctx, "ollama"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_WaitCancelled(t *testing.T) {
	limiter := NewLimiter(0.01, 1)
	limiter.Allow("slow")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, "slow"); err == nil {
		t.Error("expected error when the deadline is shorter than the wait")
	}
}

func TestLimiter_WaitWithDelay(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	start := time.Now()
	err := limiter.WaitWithDelay(ctx, "openrouter", 50*time.Millisecond)
	if err != nil {
		t.Fatalf("WaitWithDelay failed: %v", err)
	}

	duration := time.Since(start)
	if duration < 50*time.Millisecond {
		t.Errorf("expected delay >= 50ms, got %v", duration)
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	limiter := NewLimiter(1, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "127.0.0.1"); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	if limiter.Allow("127.0.0.1") {
		t.Errorf("expected allow to fail (exhausted tokens)")
	}

	if !limiter.Allow("10.0.0.2") {
		t.Errorf("expected allow for another key")
	}
}

func TestLimiter_Reserve(t *testing.T) {
	limiter := NewLimiter(1, 1)

	if d := limiter.Reserve("k"); d != 0 {
		t.Errorf("expected no delay with a full bucket, got %v", d)
	}

	limiter.Allow("k")
	if d := limiter.Reserve("k"); d <= 0 {
		t.Errorf("expected positive delay after draining, got %v", d)
	}

	// Reserve must not consume tokens of its own
	if limiter.Allow("fresh") != true {
		t.Error("expected fresh key to allow")
	}
}

func TestLimiter_SetRate(t *testing.T) {
	limiter := NewLimiter(10, 10)
	key := "anthropic"

	limiter.SetRate(key, 0.1, 1)

	if !limiter.Allow(key) {
		t.Errorf("first request should pass")
	}

	if limiter.Allow(key) {
		t.Errorf("second request should fail")
	}

	if !limiter.Allow("openai") {
		t.Errorf("other key should pass")
	}
}
