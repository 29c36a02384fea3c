package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type clientInfo struct {
	last  time.Time
	count int
}

// fixedWindow is an in-process per-IP fixed window counter. Stale entries
// are swept lazily, at most once per window, so the map stays bounded by
// the set of IPs seen within the last two windows.
type fixedWindow struct {
	mu        sync.Mutex
	clients   map[string]*clientInfo
	max       int
	window    time.Duration
	lastSweep time.Time
}

func newFixedWindow(max int, window time.Duration) *fixedWindow {
	return &fixedWindow{
		clients: make(map[string]*clientInfo),
		max:     max,
		window:  window,
	}
}

func (l *fixedWindow) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > l.window {
		for k, ci := range l.clients {
			if now.Sub(ci.last) > l.window {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	ci, ok := l.clients[ip]
	if !ok || now.Sub(ci.last) > l.window {
		l.clients[ip] = &clientInfo{last: now, count: 1}
		return true
	}

	ci.count++
	return ci.count <= l.max
}

func (l *fixedWindow) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// SimpleRateLimit blocks clients that send more than maxRequests per
// window. In-process; used for the auth endpoints where a Redis dependency
// is not worth it.
func SimpleRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	limiter := newFixedWindow(maxRequests, window)
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
