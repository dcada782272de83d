package socket

import (
	"sync"
	"time"
)

// RateLimiter is a per-user sliding-window admission control. A user editing
// two documents shares one budget. State is in-memory and process-scoped.
type RateLimiter struct {
	mu       sync.Mutex
	max      int
	window   time.Duration
	requests map[string][]time.Time

	now func() time.Time // overridable in tests
}

func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		max:      max,
		window:   window,
		requests: make(map[string][]time.Time),
		now:      time.Now,
	}
}

// Admit records an attempt for the user and reports whether it is allowed.
// The decision counts only attempts inside the window, taken before the new
// entry is added. Denied attempts are recorded too, so sustained flooding
// keeps extending the denial.
func (l *RateLimiter) Admit(userID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	kept := l.requests[userID][:0]
	for _, ts := range l.requests[userID] {
		if now.Sub(ts) < l.window {
			kept = append(kept, ts)
		}
	}

	allowed := len(kept) < l.max
	l.requests[userID] = append(kept, now)
	return allowed
}
