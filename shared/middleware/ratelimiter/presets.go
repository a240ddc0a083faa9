package ratelimiter

import "time"

// Rps allows a sustained n requests per second with a burst of the same size.
func Rps(n float64) *Limiter {
	return New(n, n, time.Hour)
}

// OncePerSecond is the default write-path limit.
func OncePerSecond() *Limiter {
	return New(1, 1, time.Hour)
}

// OncePerMinute throttles expensive creations like new threads.
func OncePerMinute() *Limiter {
	return New(1.0/60, 1, time.Hour)
}
