package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"offer-ticketing-platform/internal/logging"
)

// LoginRateLimiter limits login attempts per client IP within a sliding window
type LoginRateLimiter struct {
	mutex       sync.Mutex
	attempts    map[string][]time.Time
	maxAttempts int
	window      time.Duration
	now         func() time.Time
}

// NewLoginRateLimiter creates a new login rate limiter
func NewLoginRateLimiter(maxAttempts int, window time.Duration) *LoginRateLimiter {
	return &LoginRateLimiter{
		attempts:    make(map[string][]time.Time),
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
	}
}

// recent drops attempts older than the window. Callers hold the mutex.
func (rl *LoginRateLimiter) recent(ip string, now time.Time) []time.Time {
	cutoff := now.Add(-rl.window)
	attempts := rl.attempts[ip]

	valid := attempts[:0]
	for _, attempt := range attempts {
		if attempt.After(cutoff) {
			valid = append(valid, attempt)
		}
	}

	if len(valid) == 0 {
		delete(rl.attempts, ip)
		return nil
	}
	rl.attempts[ip] = valid
	return valid
}

// IsAllowed checks if a login attempt from the given IP is allowed
func (rl *LoginRateLimiter) IsAllowed(ip string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	return len(rl.recent(ip, rl.now())) < rl.maxAttempts
}

// RecordAttempt records a login attempt for the given IP
func (rl *LoginRateLimiter) RecordAttempt(ip string) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	rl.attempts[ip] = append(rl.recent(ip, now), now)
}

// RetryAfter returns how long until the oldest counted attempt leaves the window
func (rl *LoginRateLimiter) RetryAfter(ip string) time.Duration {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	attempts := rl.recent(ip, now)
	if len(attempts) < rl.maxAttempts {
		return 0
	}
	return attempts[0].Add(rl.window).Sub(now)
}

// LoginRateLimit provides rate limiting middleware for login endpoints. Only POSTs count.
func LoginRateLimit(rateLimiter *LoginRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientIP(r)
			if !rateLimiter.IsAllowed(ip) {
				retry := rateLimiter.RetryAfter(ip)
				logging.FromContext(r.Context()).WithField("ip", ip).Warn("Login rate limit exceeded")
				w.Header().Set("Retry-After", strconv.Itoa(int(retry.Round(time.Second).Seconds())))
				http.Error(w, "Too many login attempts. Please try again later.", http.StatusTooManyRequests)
				return
			}

			rateLimiter.RecordAttempt(ip)
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP expects chi's RealIP to have rewritten RemoteAddr when behind a proxy
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
