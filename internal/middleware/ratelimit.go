package middleware

import (
	"mysre-api/internal/config"
	"mysre-api/internal/models"
	"mysre-api/internal/services"
	"net/http"
	"strconv"
	"sync"
	"time"
)

type RateLimiter struct {
	limits map[models.SubscriptionTier]int
	users  map[string]int
	mu     sync.Mutex
	reset  map[string]time.Time
}

func NewRateLimiter(cfg *config.TierLimitConfig) *RateLimiter {
	return &RateLimiter{
		limits: cfg.RequestLimits,
		users:  make(map[string]int),
		reset:  make(map[string]time.Time),
	}
}

func (rl *RateLimiter) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := services.UserFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		rl.mu.Lock()
		defer rl.mu.Unlock()

		userID := user.ID.String()

		// Check if the user's limit should reset
		now := time.Now()
		if resetTime, exists := rl.reset[userID]; !exists || now.After(resetTime) {
			rl.reset[userID] = now.AddDate(0, 1, 0)
			rl.users[userID] = 0
		}

		limit := rl.limits[user.Tier]
		if limit >= 0 && rl.users[userID] >= limit {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(rl.reset[userID].Unix(), 10))
			http.Error(w, "Rate limit exceeded. Please upgrade your plan for higher limits.", http.StatusTooManyRequests)
			return
		}

		rl.users[userID]++

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(limit-rl.users[userID]))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(rl.reset[userID].Unix(), 10))

		next.ServeHTTP(w, r)
	})
}
