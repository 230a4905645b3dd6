package queue

import (
	"context"
	"sync"
	"time"
)

// slidingWindowLimiter caps how many job starts may happen inside a rolling
// time window. Start times outside the window are discarded lazily.
type slidingWindowLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	starts []time.Time
	now    func() time.Time // injectable clock for tests
}

func newSlidingWindowLimiter(limit int, window time.Duration) *slidingWindowLimiter {
	return &slidingWindowLimiter{
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// tryAcquire records a start if the window has room. Returns the wait until
// the oldest start leaves the window when the limit is hit.
func (l *slidingWindowLimiter) tryAcquire() (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.starts[:0]
	for _, start := range l.starts {
		if start.After(cutoff) {
			kept = append(kept, start)
		}
	}
	l.starts = kept

	if len(l.starts) < l.limit {
		l.starts = append(l.starts, now)
		return true, 0
	}
	return false, l.starts[0].Sub(cutoff)
}

// acquire blocks until a start slot is available or the context is done.
func (l *slidingWindowLimiter) acquire(ctx context.Context) error {
	for {
		ok, wait := l.tryAcquire()
		if ok {
			return nil
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
