package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/aurora-society/aurora-backend/internal/common"
	"github.com/gin-gonic/gin"
)

// ContactLimits per-hour budgets for the contact relay
type ContactLimits struct {
	Anonymous     int
	Authenticated int
}

// DefaultContactLimits returns the standard contact-form budgets
func DefaultContactLimits() ContactLimits {
	return ContactLimits{Anonymous: 3, Authenticated: 10}
}

const contactWindow = time.Hour

// SlidingWindow an in-memory sliding-window counter keyed by caller.
// Counters do not survive a restart; the contact budget is lenient enough
// that this is acceptable.
type SlidingWindow struct {
	mu        sync.Mutex
	window    time.Duration
	hits      map[string][]time.Time
	now       func() time.Time
	nextSweep time.Time
}

// NewSlidingWindow creates a sliding-window counter
func NewSlidingWindow(window time.Duration) *SlidingWindow {
	return &SlidingWindow{
		window: window,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow records a hit for key if it is under limit, reporting whether the
// call may proceed
func (w *SlidingWindow) Allow(key string, limit int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	cutoff := now.Add(-w.window)

	// One full sweep per window drops keys that went idle, otherwise the
	// map grows with every distinct caller ever seen
	if now.After(w.nextSweep) {
		for k, times := range w.hits {
			if len(times) == 0 || !times[len(times)-1].After(cutoff) {
				delete(w.hits, k)
			}
		}
		w.nextSweep = now.Add(w.window)
	}

	kept := w.hits[key][:0]
	for _, t := range w.hits[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= limit {
		w.hits[key] = kept
		return false
	}
	w.hits[key] = append(kept, now)
	return true
}

// ContactRateLimit limits contact-form submissions. Authenticated members
// get the larger budget keyed by member id; anonymous callers are keyed by
// client IP. Must run after OptionalAuth.
func ContactRateLimit(window *SlidingWindow, limits ContactLimits) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		limit := limits.Anonymous
		if memberID := GetMemberID(c); memberID != "" {
			key = "member:" + memberID
			limit = limits.Authenticated
		}

		if !window.Allow(key, limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   gin.H{"code": "RATE_LIMITED", "message": common.ErrRateLimited.Error()},
			})
			return
		}
		c.Next()
	}
}
