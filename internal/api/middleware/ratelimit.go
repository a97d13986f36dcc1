package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/workops/internal/api/dto"
)

// RateLimiter is a sliding-window limiter keyed by caller.
type RateLimiter struct {
	requests int
	window   time.Duration
	now      func() time.Time

	mu      sync.Mutex
	clients map[string][]time.Time

	stop chan struct{}
	once sync.Once
}

// NewRateLimiter allows requests per windowSeconds for each key. Non-positive
// values fall back to 100 per minute.
func NewRateLimiter(requests int, windowSeconds int) *RateLimiter {
	if requests <= 0 {
		requests = 100
	}
	if windowSeconds <= 0 {
		windowSeconds = 60
	}

	rl := &RateLimiter{
		requests: requests,
		window:   time.Duration(windowSeconds) * time.Second,
		now:      time.Now,
		clients:  make(map[string][]time.Time),
		stop:     make(chan struct{}),
	}
	go rl.cleanup(time.Minute)
	return rl
}

func (rl *RateLimiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			cutoff := rl.now().Add(-2 * rl.window)
			for key, stamps := range rl.clients {
				if len(stamps) == 0 || stamps[len(stamps)-1].Before(cutoff) {
					delete(rl.clients, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Stop ends the background cleanup.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// Allow records a request for key if it fits in the window. It returns the
// remaining budget and when the window resets.
func (rl *RateLimiter) Allow(key string) (bool, int, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	windowStart := now.Add(-rl.window)

	stamps := rl.clients[key]
	i := 0
	for i < len(stamps) && !stamps[i].After(windowStart) {
		i++
	}
	stamps = stamps[i:]

	if len(stamps) >= rl.requests {
		rl.clients[key] = stamps
		return false, 0, stamps[0].Add(rl.window)
	}

	stamps = append(stamps, now)
	rl.clients[key] = stamps
	return true, rl.requests - len(stamps), now.Add(rl.window)
}

// RateLimit limits each client IP.
func RateLimit(requests int, windowSeconds int) func(http.Handler) http.Handler {
	return limitBy(NewRateLimiter(requests, windowSeconds), getClientIP)
}

// RateLimitByUser limits each authenticated user, falling back to the client
// IP for anonymous requests. It must run after Auth.
func RateLimitByUser(requests int, windowSeconds int) func(http.Handler) http.Handler {
	return limitBy(NewRateLimiter(requests, windowSeconds), func(r *http.Request) string {
		if userID := GetUserID(r.Context()); userID != uuid.Nil {
			return "user:" + userID.String()
		}
		return getClientIP(r)
	})
}

func limitBy(limiter *RateLimiter, key func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, remaining, resetTime := limiter.Allow(key(r))

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.requests))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

			if !allowed {
				retry := int64(time.Until(resetTime).Seconds()) + 1
				w.Header().Set("Retry-After", strconv.FormatInt(retry, 10))
				dto.NewProblem(http.StatusTooManyRequests, "Rate limit exceeded. Try again later.").Write(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP prefers proxy headers, then the connection address.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
