package ratelimiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowBurst(t *testing.T) {
	l := New(1, 3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("user_1"), "burst capacity admits request %d", i)
	}
	assert.False(t, l.Allow("user_1"), "budget exhausted")
}

func TestIdentitiesAreIndependent(t *testing.T) {
	l := New(1, 1, time.Minute)

	assert.True(t, l.Allow("user_1"))
	assert.False(t, l.Allow("user_1"))
	assert.True(t, l.Allow("user_2"), "a different identity has its own bucket")
}

func TestRefill(t *testing.T) {
	l := New(100, 1, time.Minute)

	assert.True(t, l.Allow("user_1"))
	assert.False(t, l.Allow("user_1"))

	time.Sleep(15 * time.Millisecond)
	assert.True(t, l.Allow("user_1"), "tokens come back at the configured rate")
}

func TestSweepDropsIdleBuckets(t *testing.T) {
	l := New(1, 1, 10*time.Millisecond)

	l.Allow("user_1")
	l.Allow("user_2")
	assert.Len(t, l.buckets, 2)

	time.Sleep(25 * time.Millisecond)

	// the next call triggers the sweep; both old buckets are past the TTL
	l.Allow("user_3")
	assert.Len(t, l.buckets, 1)
}
