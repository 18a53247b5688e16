package ratelimit

import (
	"sync"
	"time"
)

// Limiter tracks request counts per client identifier in a fixed window.
// Process-local and advisory only: entries are lost on restart, and callers
// decide the HTTP response for rejected requests.
type Limiter struct {
	mu          sync.Mutex
	entries     map[string]*entry
	maxRequests int
	window      time.Duration
	nowFunc     func() time.Time
	stop        chan struct{}
	stopOnce    sync.Once
}

type entry struct {
	count   int
	resetAt time.Time
}

// Result reports the outcome of a limit check. Limit echoes the window's
// budget so callers can emit the full X-RateLimit header set.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetTime time.Time
}

// NewLimiter returns a limiter allowing maxRequests per window per identifier.
func NewLimiter(maxRequests int, window time.Duration) *Limiter {
	return &Limiter{
		entries:     map[string]*entry{},
		maxRequests: maxRequests,
		window:      window,
		nowFunc:     time.Now,
		stop:        make(chan struct{}),
	}
}

// CheckLimit records a request for identifier and reports whether it is
// within the window's budget. Requests beyond the budget are rejected without
// incrementing the count further.
func (l *Limiter) CheckLimit(identifier string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFunc()
	e, ok := l.entries[identifier]
	if !ok || now.After(e.resetAt) {
		e = &entry{count: 1, resetAt: now.Add(l.window)}
		l.entries[identifier] = e
		return Result{Allowed: true, Limit: l.maxRequests, Remaining: l.maxRequests - 1, ResetTime: e.resetAt}
	}

	if e.count >= l.maxRequests {
		return Result{Allowed: false, Limit: l.maxRequests, Remaining: 0, ResetTime: e.resetAt}
	}

	e.count++
	return Result{Allowed: true, Limit: l.maxRequests, Remaining: l.maxRequests - e.count, ResetTime: e.resetAt}
}

// StartSweeper launches a goroutine that periodically drops expired entries
// to bound memory growth. Stop terminates it.
func (l *Limiter) StartSweeper(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.sweep()
			case <-l.stop:
				return
			}
		}
	}()
}

// Stop terminates the sweeper goroutine. Safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *Limiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.nowFunc()
	for id, e := range l.entries {
		if now.After(e.resetAt) {
			delete(l.entries, id)
		}
	}
}
