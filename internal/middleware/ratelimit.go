package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// UserRateLimiter tracks request counts per user in a fixed window.
//
// The map lives in process memory, which is only correct while the service
// runs as a single process; a multi-process deployment needs the counters
// moved to a shared expiring store. Expired windows are removed by a
// background sweep so the map cannot grow without bound.
type UserRateLimiter struct {
	mu          sync.Mutex
	requests    map[string]*window
	maxRequests int
	windowSize  time.Duration
}

type window struct {
	count     int
	resetTime time.Time
}

// NewUserRateLimiter creates a limiter allowing maxRequests per windowSize
// per user and starts its sweep loop.
func NewUserRateLimiter(maxRequests int, windowSize time.Duration) *UserRateLimiter {
	l := &UserRateLimiter{
		requests:    make(map[string]*window),
		maxRequests: maxRequests,
		windowSize:  windowSize,
	}
	go l.sweep()
	return l
}

func (l *UserRateLimiter) sweep() {
	for range time.Tick(5 * time.Minute) {
		now := time.Now()
		l.mu.Lock()
		for id, w := range l.requests {
			if now.After(w.resetTime) {
				delete(l.requests, id)
			}
		}
		l.mu.Unlock()
	}
}

// Allow records one request for userID and reports whether it fits in the
// current window.
func (l *UserRateLimiter) Allow(userID string) (bool, time.Time) {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	w := l.requests[userID]
	if w == nil || now.After(w.resetTime) {
		l.requests[userID] = &window{count: 1, resetTime: now.Add(l.windowSize)}
		return true, now.Add(l.windowSize)
	}
	if w.count >= l.maxRequests {
		return false, w.resetTime
	}
	w.count++
	return true, w.resetTime
}

// Middleware applies the limiter keyed by the userId field of the request
// body or, failing that, the client IP.
func (l *UserRateLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			UserID string `json:"userId"`
		}
		key := c.IP()
		if err := c.BodyParser(&body); err == nil && body.UserID != "" {
			key = body.UserID
		}

		ok, resetTime := l.Allow(key)
		if !ok {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":     "rate_limited",
				"message":   "rate limit exceeded for this user",
				"resetTime": resetTime,
			})
		}
		return c.Next()
	}
}
