// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ratelimit enforces a per-source minimum interval between
// requests, shared across all concurrent retrievals.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval applies to sources with no configured interval.
const DefaultInterval = time.Second

// Limiter throttles calls per source name. It is safe for concurrent use;
// one Limiter is shared by every source client and every in-flight
// retrieval, so the interval holds even under full batch concurrency.
type Limiter struct {
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	intervals map[string]time.Duration
	fallback  time.Duration
}

// New creates a Limiter with per-source intervals. Sources missing from
// the map use fallback; a non-positive fallback uses DefaultInterval.
func New(intervals map[string]time.Duration, fallback time.Duration) *Limiter {
	if fallback <= 0 {
		fallback = DefaultInterval
	}
	copied := make(map[string]time.Duration, len(intervals))
	for name, d := range intervals {
		copied[name] = d
	}
	return &Limiter{
		limiters:  make(map[string]*rate.Limiter),
		intervals: copied,
		fallback:  fallback,
	}
}

// Wait blocks until at least the source's interval has elapsed since the
// previous call for the same source. The reservation is taken under the
// lock, so concurrent callers of the same source queue up rather than
// burst. Returns early with the context's error on cancellation.
func (l *Limiter) Wait(ctx context.Context, source string) error {
	l.mu.Lock()
	rl, ok := l.limiters[source]
	if !ok {
		rl = rate.NewLimiter(rate.Every(l.interval(source)), 1)
		l.limiters[source] = rl
	}
	l.mu.Unlock()

	return rl.Wait(ctx)
}

// Interval returns the effective interval for a source.
func (l *Limiter) Interval(source string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.interval(source)
}

func (l *Limiter) interval(source string) time.Duration {
	if d, ok := l.intervals[source]; ok && d > 0 {
		return d
	}
	return l.fallback
}
