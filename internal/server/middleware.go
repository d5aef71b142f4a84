package server

import (
	"net/http"
	"sync"
	"time"
)

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RateLimiter caps how many inbound messages a single connection may send
// per sliding window, so one flooding client cannot starve the rest.
type RateLimiter struct {
	maxMessages int
	window      time.Duration
	arrivals    map[string][]time.Time // connectionID → recent message times
	mu          sync.Mutex
}

func NewRateLimiter(maxMessages int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		maxMessages: maxMessages,
		window:      window,
		arrivals:    make(map[string][]time.Time),
	}
}

// Allow records one message arrival and reports whether the connection is
// still within its window budget.
func (r *RateLimiter) Allow(connectionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-r.window)

	recent := make([]time.Time, 0, len(r.arrivals[connectionID]))
	for _, ts := range r.arrivals[connectionID] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= r.maxMessages {
		r.arrivals[connectionID] = recent
		return false
	}

	r.arrivals[connectionID] = append(recent, now)
	return true
}

// Forget drops a connection's arrival history once it closes.
func (r *RateLimiter) Forget(connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.arrivals, connectionID)
}
