package synth

import "testing"

// TestSequenceDeterminism verifies that two sequences built from the same
// seed inputs produce identical values.
func TestSequenceDeterminism(t *testing.T) {
	seed := SeedFromCoords(11.0168, 76.9558)

	a := New(seed)
	b := New(seed)

	for i := 0; i < 50; i++ {
		va, vb := a.Next(), b.Next()
		if va != vb {
			t.Fatalf("sequence diverged at offset %d: %v != %v", i, va, vb)
		}
	}
}

func TestSequenceRange(t *testing.T) {
	s := New(42)
	for i := 0; i < 1000; i++ {
		v := s.Next()
		if v < 0 || v >= 1 {
			t.Fatalf("value %v at offset %d out of [0,1)", v, i)
		}
	}
}

func TestSeedFromCoords(t *testing.T) {
	if got := SeedFromCoords(11.0168, 76.9558); got != 87972 {
		t.Fatalf("expected seed 87972, got %d", got)
	}
}

func TestSeedFromStringStable(t *testing.T) {
	a := SeedFromString("wheat|punjab|amritsar|*")
	b := SeedFromString("wheat|punjab|amritsar|*")
	if a != b {
		t.Fatalf("same fingerprint produced different seeds: %d != %d", a, b)
	}
	if a == SeedFromString("rice|punjab|amritsar|*") {
		t.Fatal("different fingerprints should not collide on this input")
	}
}
