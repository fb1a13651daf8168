package ratelimit

import (
	"testing"
	"time"
)

func TestLimiterAllowsBurst(t *testing.T) {
	limiter := NewLimiter(10, 5)

	for i := 0; i < 5; i++ {
		if !limiter.Allow() {
			t.Fatalf("Request %d within burst should be allowed", i)
		}
	}

	if limiter.Allow() {
		t.Error("Request beyond burst should be denied")
	}
}

func TestLimiterRefills(t *testing.T) {
	limiter := NewLimiter(100, 1)

	if !limiter.Allow() {
		t.Fatal("First request should be allowed")
	}
	if limiter.Allow() {
		t.Fatal("Second immediate request should be denied")
	}

	time.Sleep(50 * time.Millisecond)

	if !limiter.Allow() {
		t.Error("Request after refill interval should be allowed")
	}
}
