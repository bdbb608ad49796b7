package utils

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter paces outgoing requests inside a single adapter so we don't
// hammer a studio's site between paginated fetches.
type RateLimiter struct {
	lim *rate.Limiter
}

// NewRateLimiter creates a RateLimiter allowing one request per delayMs milliseconds
func NewRateLimiter(delayMs int) *RateLimiter {
	if delayMs <= 0 {
		delayMs = 1
	}
	return &RateLimiter{
		lim: rate.NewLimiter(rate.Every(time.Duration(delayMs)*time.Millisecond), 1),
	}
}

// Wait blocks until the next request is allowed, or ctx is cancelled
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.lim.Wait(ctx)
}
