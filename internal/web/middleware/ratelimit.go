package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	rate     rate.Limit
	burst    int
	maxIdle  time.Duration
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter allows perMinute requests per client per minute, with a
// burst of the same size. Idle clients are forgotten after maxIdle.
func NewRateLimiter(perMinute int, maxIdle time.Duration) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	if maxIdle <= 0 {
		maxIdle = 30 * time.Minute
	}
	l := &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		rate:     rate.Limit(float64(perMinute) / 60.0),
		burst:    perMinute,
		maxIdle:  maxIdle,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go l.cleanupWorker(maxIdle / 3)
	return l
}

// Allow reports whether the client may make another request now.
func (l *RateLimiter) Allow(clientID string) bool {
	l.mu.Lock()
	limiter, ok := l.limiters[clientID]
	if !ok {
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.limiters[clientID] = limiter
	}
	l.lastSeen[clientID] = time.Now()
	l.mu.Unlock()

	return limiter.Allow()
}

func (l *RateLimiter) cleanupWorker(interval time.Duration) {
	defer close(l.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup(time.Now())
		case <-l.stop:
			return
		}
	}
}

func (l *RateLimiter) cleanup(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for clientID, seen := range l.lastSeen {
		if now.Sub(seen) > l.maxIdle {
			delete(l.limiters, clientID)
			delete(l.lastSeen, clientID)
		}
	}
}

// Stop ends the cleanup goroutine and waits for it to exit. Safe to call
// more than once.
func (l *RateLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
	<-l.done
}

// RateLimit rejects requests over the per-client budget with 429.
// It relies on chi's RealIP middleware having normalized RemoteAddr.
func RateLimit(l *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(clientIP(r)) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "60")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"too many requests"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
