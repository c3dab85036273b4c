// Package synth provides the deterministic pseudo-random sequences behind
// synthetic fallback data. The values are not random in any cryptographic
// sense; the whole point is that identical seed inputs always reproduce the
// identical output, so downstream consumers can treat synthetic responses as
// idempotent.
package synth

import (
	"hash/fnv"
	"math"
)

// Sequence yields values in [0,1) derived from a fixed integer seed. The
// formula is frac(sin(seed+offset) * 10000) for an increasing offset.
type Sequence struct {
	seed   int64
	offset int64
}

// New creates a Sequence for the given seed.
func New(seed int64) *Sequence {
	return &Sequence{seed: seed}
}

// Next returns the next value in [0,1) and advances the sequence.
func (s *Sequence) Next() float64 {
	v := math.Sin(float64(s.seed+s.offset)) * 10000
	s.offset++
	return v - math.Floor(v)
}

// SeedFromCoords derives a seed from a geographic location.
func SeedFromCoords(lat, lon float64) int64 {
	return int64(math.Floor(lat*1000 + lon*1000))
}

// SeedFromString derives a seed from an arbitrary string, typically a
// canonical query fingerprint.
func SeedFromString(s string) int64 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return int64(h.Sum32())
}
