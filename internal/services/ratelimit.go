package services

import (
	"sync"
	"time"
)

// RateLimiter is a fixed attempt counter per key with a cooldown window. It
// is in-memory and per-process, so it resets on restart: UX throttling for
// the auth endpoints, not a security boundary.
type RateLimiter struct {
	mu          sync.Mutex
	maxAttempts int
	window      time.Duration
	attempts    map[string]*attemptWindow
	now         func() time.Time
}

type attemptWindow struct {
	count   int
	resetAt time.Time
}

func NewRateLimiter(maxAttempts int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		maxAttempts: maxAttempts,
		window:      window,
		attempts:    make(map[string]*attemptWindow),
		now:         time.Now,
	}
}

// Allow records an attempt for key and reports whether it is within budget.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.attempts[key]
	if !ok || now.After(w.resetAt) {
		rl.attempts[key] = &attemptWindow{count: 1, resetAt: now.Add(rl.window)}
		return true
	}
	w.count++
	return w.count <= rl.maxAttempts
}

// Reset clears the window for key, used after a successful sign-in.
func (rl *RateLimiter) Reset(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.attempts, key)
}
