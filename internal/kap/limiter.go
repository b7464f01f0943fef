package kap

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter spaces outbound requests at least delay apart. The first call
// never blocks.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter returns a limiter with a burst of one. A zero delay disables it.
func NewLimiter(delay time.Duration) *Limiter {
	if delay <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Every(delay), 1)}
}

// Wait blocks until the next request may be issued or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
