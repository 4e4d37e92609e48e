package ratelimiter

import (
	"sync"
	"time"
)

type Limiter interface {
	Allow(ip string) (bool, time.Duration)
}

type Config struct {
	RequestsPerTimeFrame int
	TimeFrame            time.Duration
	Enabled              bool
}

type window struct {
	start time.Time
	count int
}

// FixedWindowRateLimiter allows limit requests per client in each window,
// counted from the client's first request.
type FixedWindowRateLimiter struct {
	sync.Mutex
	clients map[string]*window //string:ClientIP
	limit   int
	window  time.Duration
	now     func() time.Time
}

func NewFixedWindowLimiter(limit int, window time.Duration) *FixedWindowRateLimiter {
	rl := newFixedWindowLimiter(limit, window, time.Now)
	go rl.cleanup()
	return rl
}

func newFixedWindowLimiter(limit int, w time.Duration, now func() time.Time) *FixedWindowRateLimiter {
	return &FixedWindowRateLimiter{
		clients: make(map[string]*window),
		limit:   limit,
		window:  w,
		now:     now,
	}
}

func (rl *FixedWindowRateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	for range ticker.C {
		rl.sweep()
	}
}

// sweep drops clients whose window has passed.
func (rl *FixedWindowRateLimiter) sweep() {
	now := rl.now()
	rl.Lock()
	for ip, w := range rl.clients {
		if now.Sub(w.start) >= rl.window {
			delete(rl.clients, ip)
		}
	}
	rl.Unlock()
}

// Allow reports whether ip may proceed, and if not, how long until its
// window resets.
func (rl *FixedWindowRateLimiter) Allow(ip string) (bool, time.Duration) {
	now := rl.now()

	rl.Lock()
	defer rl.Unlock()

	w, ok := rl.clients[ip]
	if !ok || now.Sub(w.start) >= rl.window {
		rl.clients[ip] = &window{start: now, count: 1}
		return true, 0
	}
	if w.count < rl.limit {
		w.count++
		return true, 0
	}
	return false, rl.window - now.Sub(w.start)
}
