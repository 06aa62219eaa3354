package worker

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter bounds the rate of remote classification calls so concurrent
// workers collectively respect the service's rate limits.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a limiter allowing requestsPerSecond with the given burst
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 1
	}

	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Wait blocks until a call is permitted or the context is done
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow reports whether a call is permitted without waiting
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}
