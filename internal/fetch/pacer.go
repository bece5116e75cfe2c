package fetch

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer blocks until the next request may be sent.
type Pacer interface {
	Wait(ctx context.Context) error
}

// FixedDelayPacer spaces request starts at least delay apart, measured start
// to start: time spent inside a request counts toward the next wait. The
// first request waits a full delay too.
type FixedDelayPacer struct {
	limiter *rate.Limiter
}

// NewFixedDelayPacer returns a pacer releasing one request per delay.
// A delay of zero or less disables pacing.
func NewFixedDelayPacer(delay time.Duration) *FixedDelayPacer {
	if delay <= 0 {
		return &FixedDelayPacer{}
	}
	limiter := rate.NewLimiter(rate.Every(delay), 1)
	// Drain the initial burst token: the first request waits too.
	limiter.Allow()
	return &FixedDelayPacer{limiter: limiter}
}

// Wait suspends until the delay has elapsed or ctx is done.
func (p *FixedDelayPacer) Wait(ctx context.Context) error {
	if p.limiter == nil {
		return ctx.Err()
	}
	return p.limiter.Wait(ctx)
}
