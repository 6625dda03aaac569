package ratelimiter

import (
	"sync"
	"time"
)

type IPAddress string

type ErrRateLimitExceeded struct{}

func (e ErrRateLimitExceeded) Error() string {
	return "rate limit exceeded"
}

// RateLimiter allows Points events per client within a sliding window.
type RateLimiter struct {
	mu       sync.Mutex
	events   map[IPAddress][]time.Time
	duration time.Duration
	points   int
	now      func() time.Time
}

// New returns a limiter. points <= 0 disables limiting.
func New(duration time.Duration, points int) *RateLimiter {
	return &RateLimiter{
		events:   make(map[IPAddress][]time.Time),
		duration: duration,
		points:   points,
		now:      time.Now,
	}
}

func (r *RateLimiter) CheckRateLimit(ip IPAddress) error {
	if r == nil || r.points <= 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	cutoff := now.Add(-r.duration)
	filteredEvents := r.events[ip][:0]
	for _, event := range r.events[ip] {
		if event.After(cutoff) {
			filteredEvents = append(filteredEvents, event)
		}
	}
	if len(filteredEvents) >= r.points {
		r.events[ip] = filteredEvents
		return ErrRateLimitExceeded{}
	}
	r.events[ip] = append(filteredEvents, now)
	return nil
}
