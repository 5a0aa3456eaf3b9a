package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

type visitor struct {
	lastSeen time.Time
	count    int
}

// RateLimiter bounds requests per client IP over a one-minute window.
// Each instance owns its own visitor table; idle entries are dropped by
// the background cleanup loop.
type RateLimiter struct {
	requestsPerMinute int
	cleanupInterval   time.Duration

	mu       sync.Mutex
	visitors map[string]*visitor
}

// NewRateLimiter creates a new per-IP rate limiter
func NewRateLimiter(requestsPerMinute int, cleanupInterval time.Duration) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}
	return &RateLimiter{
		requestsPerMinute: requestsPerMinute,
		cleanupInterval:   cleanupInterval,
		visitors:          make(map[string]*visitor),
	}
}

// Limit rejects requests from IPs that exhausted their per-minute budget
func (l *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := getIP(r)

		l.mu.Lock()
		v, exists := l.visitors[ip]

		if !exists {
			l.visitors[ip] = &visitor{
				lastSeen: time.Now(),
				count:    1,
			}
			l.mu.Unlock()
			next.ServeHTTP(w, r)
			return
		}

		if time.Since(v.lastSeen) > time.Minute {
			v.count = 1
			v.lastSeen = time.Now()
			l.mu.Unlock()
			next.ServeHTTP(w, r)
			return
		}

		if v.count >= l.requestsPerMinute {
			l.mu.Unlock()
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		v.count++
		l.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

// StartCleanup periodically drops idle visitor entries
func (l *RateLimiter) StartCleanup() {
	ticker := time.NewTicker(l.cleanupInterval)
	go func() {
		for range ticker.C {
			l.mu.Lock()
			for ip, v := range l.visitors {
				if time.Since(v.lastSeen) > l.cleanupInterval {
					delete(l.visitors, ip)
				}
			}
			l.mu.Unlock()
		}
	}()
}

// getIP extracts IP from request
func getIP(r *http.Request) string {
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		ips := strings.Split(forwarded, ",")
		return strings.TrimSpace(ips[0])
	}

	realIP := r.Header.Get("X-Real-IP")
	if realIP != "" {
		return realIP
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
