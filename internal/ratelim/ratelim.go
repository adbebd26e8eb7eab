// Package ratelim provides per-client request rate limiting.
package ratelim

import (
	"net/http"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/time/rate"
)

// visitor pairs a client's token bucket with the time it last sent a
// request, so cleanup only evicts idle clients.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per remote address.
type RateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	rps      rate.Limit
	burst    int
	expiry   time.Duration
}

// New creates a rate limiter allowing rps requests per second with the
// given burst. A non-positive rps disables limiting.
func New(rps float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
		expiry:   10 * time.Minute,
	}
	if rl.rps > 0 {
		go rl.cleanupLoop()
	}
	return rl
}

func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// cleanupLoop keeps the visitor map bounded.
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		rl.sweep()
	}
}

// sweep drops buckets idle longer than the expiry window. A client that
// keeps sending refreshes lastSeen on every request, so an exhausted
// burst is never silently refilled mid-stream.
func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, v := range rl.visitors {
		if time.Since(v.lastSeen) > rl.expiry {
			delete(rl.visitors, ip)
		}
	}
}

// Limit wraps a httprouter handler with rate limiting.
func (rl *RateLimiter) Limit(next httprouter.Handle) httprouter.Handle {
	if rl == nil || rl.rps <= 0 {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !rl.getLimiter(r.RemoteAddr).Allow() {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next(w, r, ps)
	}
}
