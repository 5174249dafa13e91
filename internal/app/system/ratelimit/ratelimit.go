// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limiter provides rate limiting using a sliding window algorithm.
// It is safe for concurrent use.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int           // max requests per window
	duration time.Duration // window duration
	cleanup  time.Duration // how often to clean old entries
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a new rate limiter.
// limit: maximum requests allowed per duration
// duration: the time window for counting requests
func New(limit int, duration time.Duration) *Limiter {
	l := &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
		cleanup:  duration * 2,
	}
	go l.cleanupLoop()
	return l
}

// Allow checks if a request from the given key should be allowed.
// Returns true if allowed, false if rate limited.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, exists := l.windows[key]

	if !exists || now.After(w.expiresAt) {
		l.windows[key] = &window{
			count:     1,
			expiresAt: now.Add(l.duration),
		}
		return true
	}

	if w.count >= l.limit {
		return false
	}

	w.count++
	return true
}

// Remaining returns how many requests are left for this key in the current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, exists := l.windows[key]

	if !exists || now.After(w.expiresAt) {
		return l.limit
	}

	remaining := l.limit - w.count
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Reset clears the rate limit for a specific key.
// Useful after a successful verification to reward good behavior.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// cleanupLoop periodically removes expired entries to prevent memory leaks.
func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(l.cleanup)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for key, w := range l.windows {
			if now.After(w.expiresAt) {
				delete(l.windows, key)
			}
		}
		l.mu.Unlock()
	}
}

// OTPLimiter rate limits OTP sends. It tracks both IP-based and
// phone-based windows to slow down:
// - distributed abuse from many IPs against one phone
// - SMS-pumping from one IP across many phones
type OTPLimiter struct {
	ipLimiter    *Limiter
	phoneLimiter *Limiter
}

// NewOTPLimiter creates a limiter configured for OTP delivery.
// Defaults: 10 sends per IP per minute, 3 sends per phone per 10 minutes.
func NewOTPLimiter() *OTPLimiter {
	return &OTPLimiter{
		ipLimiter:    New(10, time.Minute),
		phoneLimiter: New(3, 10*time.Minute),
	}
}

// NewOTPLimiterWithConfig creates an OTP limiter with custom limits.
func NewOTPLimiterWithConfig(ipLimit int, ipDuration time.Duration, phoneLimit int, phoneDuration time.Duration) *OTPLimiter {
	return &OTPLimiter{
		ipLimiter:    New(ipLimit, ipDuration),
		phoneLimiter: New(phoneLimit, phoneDuration),
	}
}

// Check verifies if an OTP send should be allowed.
// Returns (allowed, reason) where reason explains why it was blocked.
func (ol *OTPLimiter) Check(ip, phone string) (bool, string) {
	if ip != "" && !ol.ipLimiter.Allow(ip) {
		return false, "Too many requests. Please wait a minute before trying again."
	}

	if phone != "" {
		key := strings.TrimSpace(phone)
		if !ol.phoneLimiter.Allow(key) {
			return false, "Too many codes requested for this number. Please wait a few minutes."
		}
	}

	return true, ""
}

// ResetPhone clears the rate limit for a phone after successful verification.
func (ol *OTPLimiter) ResetPhone(phone string) {
	if phone != "" {
		ol.phoneLimiter.Reset(strings.TrimSpace(phone))
	}
}

// ClientIP extracts the client IP address from the request.
// It checks X-Forwarded-For and X-Real-IP headers (set by reverse proxies)
// before falling back to RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// X-Forwarded-For can contain multiple IPs; the first is the client.
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	// RemoteAddr includes the port; strip it.
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
