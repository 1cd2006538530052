// Package memory provides in-memory implementations of outbound ports.
package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ares-mcp/ares-mcp-server/internal/domain/ratelimit"
)

// SlidingWindowLimiter implements ratelimit.Limiter with a sliding window log.
// It keeps the timestamp of every admission made within the trailing window
// and admits a new request only while fewer than MaxRequests remain.
// Thread-safe for concurrent access.
type SlidingWindowLimiter struct {
	config ratelimit.Config
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	admitted []time.Time // ascending
	total    int64
	waits    int64

	// onAdmit is invoked inside the critical section with the recorded timestamp.
	onAdmit func(time.Time)
}

// LimiterOption configures a SlidingWindowLimiter.
type LimiterOption func(*SlidingWindowLimiter)

// WithLogger sets the logger used for wait notices.
func WithLogger(logger *slog.Logger) LimiterOption {
	return func(l *SlidingWindowLimiter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) LimiterOption {
	return func(l *SlidingWindowLimiter) {
		if now != nil {
			l.now = now
		}
	}
}

// NewRateLimiter creates a sliding-window limiter for the given config.
// Non-positive values fall back to 100 requests per 60 seconds.
func NewRateLimiter(config ratelimit.Config, opts ...LimiterOption) *SlidingWindowLimiter {
	if config.MaxRequests <= 0 {
		config.MaxRequests = 100
	}
	if config.Window <= 0 {
		config.Window = 60 * time.Second
	}

	l := &SlidingWindowLimiter{
		config:   config,
		logger:   slog.Default(),
		now:      time.Now,
		admitted: make([]time.Time, 0, config.MaxRequests),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Acquire blocks until the request can be admitted without exceeding
// MaxRequests admissions inside the trailing Window, then records it.
//
// The wait happens outside the lock so other callers keep making progress.
// After every wait the quota is re-evaluated from scratch, since concurrent
// callers may have claimed the freed slot.
func (l *SlidingWindowLimiter) Acquire(ctx context.Context) error {
	for {
		wait, ok := l.tryAdmit()
		if ok {
			return nil
		}

		l.logger.Info("rate limit reached, waiting",
			"wait", wait.Round(time.Millisecond),
			"max_requests", l.config.MaxRequests,
			"window", l.config.Window,
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// tryAdmit is the check-then-append critical section. It returns true if the
// caller was admitted, otherwise the time until the oldest admission leaves
// the window.
func (l *SlidingWindowLimiter) tryAdmit() (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.purge(now)

	if len(l.admitted) < l.config.MaxRequests {
		l.record(now)
		return 0, true
	}

	wait := l.admitted[0].Add(l.config.Window).Sub(now)
	if wait <= 0 {
		l.record(now)
		return 0, true
	}

	l.waits++
	return wait, false
}

// purge drops admissions at or before now-Window. The window is left-open,
// so an admission exactly Window old no longer counts.
// Caller must hold l.mu.
func (l *SlidingWindowLimiter) purge(now time.Time) {
	cutoff := now.Add(-l.config.Window)
	i := 0
	for i < len(l.admitted) && !l.admitted[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.admitted = append(l.admitted[:0], l.admitted[i:]...)
	}
}

// record appends an admission. Caller must hold l.mu.
func (l *SlidingWindowLimiter) record(now time.Time) {
	l.admitted = append(l.admitted, now)
	l.total++
	if l.onAdmit != nil {
		l.onAdmit(now)
	}
}

// Size returns the number of admissions currently inside the window.
func (l *SlidingWindowLimiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.purge(l.now())
	return len(l.admitted)
}

// Stats returns a snapshot of the limiter counters.
func (l *SlidingWindowLimiter) Stats() ratelimit.Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.purge(l.now())
	return ratelimit.Stats{
		Tracked:  len(l.admitted),
		Admitted: l.total,
		Waits:    l.waits,
	}
}

// Config returns the policy the limiter enforces.
func (l *SlidingWindowLimiter) Config() ratelimit.Config {
	return l.config
}

// Compile-time interface verification.
var _ ratelimit.Limiter = (*SlidingWindowLimiter)(nil)
