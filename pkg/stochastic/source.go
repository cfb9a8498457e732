package stochastic

import (
	"golang.org/x/exp/rand"
)

// golden is the 64-bit golden ratio constant used to decorrelate
// derived seeds (Weyl sequence increment).
const golden = 0x9e3779b97f4a7c15

// NewSource returns a seeded PCG source. Distinct seeds give
// independent streams.
func NewSource(seed uint64) rand.Source {
	return rand.NewSource(seed)
}

// SplitSource derives the i-th independent sub-source from a run seed.
// Ensemble workers pull their per-path source by index, so the set of
// generated paths depends only on (seed, i), never on goroutine
// scheduling.
func SplitSource(seed uint64, i int) rand.Source {
	return rand.NewSource(mix(seed + uint64(i+1)*golden))
}

// mix is splitmix64's finalizer: a cheap bijection that spreads
// consecutive inputs across the seed space.
func mix(z uint64) uint64 {
	z ^= z >> 30
	z *= 0xbf58476d1ce4e5b9
	z ^= z >> 27
	z *= 0x94d049bb133111eb
	z ^= z >> 31
	return z
}
