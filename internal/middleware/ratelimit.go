package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// loginAttempt tracks failed attempts from a single address.
type loginAttempt struct {
	count     int
	firstSeen time.Time
}

// LoginLimiter throttles repeated requests to the login endpoint per
// client IP. It is intentionally in-memory: a restart clears the state,
// which is acceptable for an admin-facing endpoint.
type LoginLimiter struct {
	mu       sync.Mutex
	attempts map[string]*loginAttempt

	max    int
	window time.Duration
}

// NewLoginLimiter allows max requests per window from a single IP.
func NewLoginLimiter(max int, window time.Duration) *LoginLimiter {
	l := &LoginLimiter{
		attempts: make(map[string]*loginAttempt),
		max:      max,
		window:   window,
	}
	go l.cleanup()
	return l
}

// Middleware blocks requests from clients that exceeded the limit.
func (l *LoginLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !l.allow(ip) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "60")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"ok":false,"error_kind":"rate_limited","message":"too many login attempts"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *LoginLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	a, ok := l.attempts[ip]
	if !ok || now.Sub(a.firstSeen) > l.window {
		l.attempts[ip] = &loginAttempt{count: 1, firstSeen: now}
		return true
	}

	a.count++
	return a.count <= l.max
}

// cleanup evicts expired entries every few minutes so the map does not
// grow without bound.
func (l *LoginLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for ip, a := range l.attempts {
			if now.Sub(a.firstSeen) > l.window {
				delete(l.attempts, ip)
			}
		}
		l.mu.Unlock()
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
