package opt

import "math/rand"

// NewRNG returns the deterministic random stream of a run. Every stochastic
// decision of the solver (shaking walks, operator shuffles, acceptance
// draws) consumes this single stream in a fixed sequence, which makes runs
// reproducible for a given seed and parameter set.
func NewRNG(seed int) *rand.Rand {
	return rand.New(rand.NewSource(int64(seed)))
}

// deriveSeed mixes a parent seed and a stream identifier into a new 64-bit
// seed with a SplitMix64-style finalizer, for tests that need independent
// substreams without correlations.
//
// Complexity: O(1).
func deriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}

// DeriveRNG creates an independent deterministic stream from base and a
// stream identifier. base.Int63() is consumed once so reusing a stream id
// by mistake still yields distinct children.
func DeriveRNG(base *rand.Rand, stream uint64) *rand.Rand {
	return rand.New(rand.NewSource(deriveSeed(base.Int63(), stream)))
}
