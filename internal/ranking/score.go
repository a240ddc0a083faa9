// Package ranking holds the thread hot-ranking score and the reply-excerpt
// window policy. Everything here is pure: no I/O, no clocks, no storage.
package ranking

import (
	"math"
	"time"
)

// Fixed reference points of the hot formula. EpochOffset shifts the age term
// so newer content scores higher; it must stay bit-identical across
// deployments or scores stop being comparable.
const (
	EpochOffset  = 1134028003
	DecayDivisor = 45000
)

// scorePrecision keeps 7 decimal fraction digits.
const scorePrecision = 1e7

// Score computes the decayed hotness of a thread from its vote-like counters
// and creation time. In this system ups is the reply count and downs is
// always zero; both parameters exist so the formula keeps its classic shape.
//
// Negative counters are a caller contract violation and are not re-checked
// here.
func Score(ups, downs int64, createdAt time.Time) float64 {
	score := ups - downs

	order := math.Log10(math.Max(math.Abs(float64(score)), 1))

	var sign float64
	switch {
	case score > 0:
		sign = 1
	case score < 0:
		sign = -1
	}

	ageSeconds := math.Abs(float64(createdAt.Unix()) - EpochOffset)

	result := sign*order + ageSeconds/DecayDivisor

	// math.Round is round-half-away-from-zero, which is the rounding the
	// stored scores were produced with.
	return math.Round(result*scorePrecision) / scorePrecision
}
