package tlgate

import (
	"sync"
	"time"
)

// RateLimiter decides whether a new request may proceed right now.
type RateLimiter interface {
	Allow() bool
}

// RateLimitConfig configures the sliding-window limiter.
type RateLimitConfig struct {
	Window      time.Duration // Length of the trailing window (default: 60s)
	MaxRequests int           // Requests admitted per window (default: 30)
}

// DefaultRateLimitConfig returns the gateway defaults: 30 requests per minute.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Window:      time.Minute,
		MaxRequests: 30,
	}
}

// SlidingWindowLimiter admits at most MaxRequests calls within any trailing
// Window. It is a single global limiter shared by all callers.
type SlidingWindowLimiter struct {
	window time.Duration
	max    int
	hits   []time.Time // oldest first
	now    func() time.Time
	mu     sync.Mutex
}

// NewSlidingWindowLimiter creates a new sliding-window limiter.
func NewSlidingWindowLimiter(cfg RateLimitConfig) *SlidingWindowLimiter {
	window := cfg.Window
	if window <= 0 {
		window = time.Minute
	}

	limit := cfg.MaxRequests
	if limit < 1 {
		limit = 1
	}

	return &SlidingWindowLimiter{
		window: window,
		max:    limit,
		hits:   make([]time.Time, 0, limit),
		now:    time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (l *SlidingWindowLimiter) WithClock(now func() time.Time) *SlidingWindowLimiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
	return l
}

// Allow records the call and returns true if the window has room.
// A denied call is not recorded.
func (l *SlidingWindowLimiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	if len(l.hits) >= l.max {
		return false
	}

	l.hits = append(l.hits, now)
	return true
}

// Remaining returns how many calls would currently be admitted.
func (l *SlidingWindowLimiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune(l.now())
	return l.max - len(l.hits)
}

// RetryAfter returns how long until the next call would be admitted.
// It is zero when the window has room.
func (l *SlidingWindowLimiter) RetryAfter() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	if len(l.hits) < l.max {
		return 0
	}
	// The oldest hit is pruned once it is strictly older than the window.
	wait := l.hits[0].Add(l.window).Sub(now) + time.Nanosecond
	if wait < 0 {
		return 0
	}
	return wait
}

// prune drops hits older than the window (must be called with lock held).
func (l *SlidingWindowLimiter) prune(now time.Time) {
	i := 0
	for i < len(l.hits) && now.Sub(l.hits[i]) > l.window {
		i++
	}
	if i > 0 {
		l.hits = l.hits[i:]
	}
}
