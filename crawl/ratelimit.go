package crawl

import (
	"context"
	"sync"

	"github.com/gromk/ugmirror"
	"golang.org/x/time/rate"
)

var _ ugmirror.HostLimiter = (*HostLimiter)(nil)

// HostLimiter throttles requests per host using token buckets. Chapter and
// asset fetches resolve to the userguide host while plate lookups go to the
// VRM service, so each host gets an independent bucket. The burst covers one
// second of traffic: a freshly resolved chapter list starts fetching without
// a stall, and the average holds at the configured rate from then on.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewHostLimiter creates a HostLimiter allowing rps requests per second per
// host, with bursts of up to one second of traffic.
func NewHostLimiter(rps float64) *HostLimiter {
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

// Wait blocks until the rate limit allows a request to the host.
// Returns an error if the context is canceled before the wait completes.
func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	l.mu.Lock()
	limiter, ok := l.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[host] = limiter
	}
	l.mu.Unlock()

	return limiter.Wait(ctx)
}
