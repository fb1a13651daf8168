// Package ratelimit provides a token-bucket limiter applied to each
// connection's inbound frames.
package ratelimit

import (
	"sync"
	"time"
)

// Config is the per-connection inbound budget. Cursor-move traffic
// dominates, so the defaults are generous.
type Config struct {
	MessagesPerSecond float64
	Burst             int
}

func DefaultConfig() Config {
	return Config{
		MessagesPerSecond: 100,
		Burst:             200,
	}
}

type Limiter struct {
	rate       float64
	burst      int
	tokens     float64
	lastUpdate time.Time
	mu         sync.Mutex
}

func NewLimiter(rate float64, burst int) *Limiter {
	return &Limiter{
		rate:       rate,
		burst:      burst,
		tokens:     float64(burst),
		lastUpdate: time.Now(),
	}
}

// Allow consumes one token if available.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(l.lastUpdate).Seconds()
	l.lastUpdate = now

	l.tokens += elapsed * l.rate
	if l.tokens > float64(l.burst) {
		l.tokens = float64(l.burst)
	}

	if l.tokens >= 1 {
		l.tokens--
		return true
	}

	return false
}
