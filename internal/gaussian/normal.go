// Package gaussian turns uniform random draws into standard-normal variates
// and provides the normal distribution helpers used around the simulator.
package gaussian

import (
	"math"
	"math/rand/v2"
)

// Source supplies uniform draws in [0, 1).
//
// *rand.Rand from math/rand/v2 satisfies it, as does any deterministic
// stub a test wants to feed in.
type Source interface {
	Float64() float64
}

// NewSource returns a PCG-backed generator. Two sources with the same seed
// but different stream values produce independent sequences, which is how
// parallel workers get their own draws without sharing state.
func NewSource(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}

// Normal draws one standard-normal value using the Box-Muller transform.
//
// Only the cosine branch is used; the paired sine value is discarded, so
// every call consumes exactly two uniform draws. u1 is flipped into (0, 1]
// so log(u1) is always finite.
func Normal(src Source) float64 {
	u1 := 1 - src.Float64()
	u2 := src.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}
