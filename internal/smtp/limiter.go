package smtp

import (
	"sync"

	"golang.org/x/time/rate"
)

// ConnectionLimiter bounds both the rate of new SMTP sessions and the
// number of concurrent ones. Acquire must be paired with Release.
type ConnectionLimiter struct {
	rate *rate.Limiter

	mu      sync.Mutex
	active  int
	maxConn int
}

// NewConnectionLimiter allows perSecond new sessions per second with a
// burst of the same size, and at most maxConcurrent sessions at once.
func NewConnectionLimiter(perSecond float64, maxConcurrent int) *ConnectionLimiter {
	return &ConnectionLimiter{
		rate:    rate.NewLimiter(rate.Limit(perSecond), int(perSecond)+1),
		maxConn: maxConcurrent,
	}
}

// Acquire reports whether a new session may start.
func (l *ConnectionLimiter) Acquire() bool {
	if !l.rate.Allow() {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active >= l.maxConn {
		return false
	}
	l.active++
	return true
}

// Release frees the slot taken by Acquire.
func (l *ConnectionLimiter) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active > 0 {
		l.active--
	}
}

// Active returns the current session count.
func (l *ConnectionLimiter) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}
