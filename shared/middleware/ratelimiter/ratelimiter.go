// Package ratelimiter implements a per-identity token bucket.
package ratelimiter

import (
	"sync"
	"time"
)

type bucket struct {
	tokens     float64
	lastRefill time.Time
	lastSeen   time.Time
}

// Limiter tracks one token bucket per identity (user id or IP). Idle buckets
// are dropped lazily on the next sweep instead of holding a timer each.
type Limiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	rate     float64
	capacity float64
	idleTTL  time.Duration
	lastGC   time.Time
}

func New(rate, capacity float64, idleTTL time.Duration) *Limiter {
	return &Limiter{
		buckets:  make(map[string]*bucket),
		rate:     rate,
		capacity: capacity,
		idleTTL:  idleTTL,
		lastGC:   time.Now(),
	}
}

// Allow reports whether one request for the identity fits the budget and
// consumes a token if it does.
func (l *Limiter) Allow(identity string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.maybeSweep(now)

	b, ok := l.buckets[identity]
	if !ok {
		b = &bucket{tokens: l.capacity, lastRefill: now}
		l.buckets[identity] = b
	}

	b.tokens += now.Sub(b.lastRefill).Seconds() * l.rate
	if b.tokens > l.capacity {
		b.tokens = l.capacity
	}
	b.lastRefill = now
	b.lastSeen = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// maybeSweep drops buckets idle past the TTL, at most once per TTL. Caller
// holds the lock.
func (l *Limiter) maybeSweep(now time.Time) {
	if now.Sub(l.lastGC) < l.idleTTL {
		return
	}
	for identity, b := range l.buckets {
		if now.Sub(b.lastSeen) > l.idleTTL {
			delete(l.buckets, identity)
		}
	}
	l.lastGC = now
}
