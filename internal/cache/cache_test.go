package cache

import (
	"testing"
	"time"
)

// TestTTLBoundary pins the clock and checks the entry is live strictly inside
// the TTL window and absent at (and past) the boundary.
func TestTTLBoundary(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := base

	c := New()
	c.now = func() time.Time { return now }

	c.Set("k", "v", 300000*time.Millisecond)

	now = base.Add(299999 * time.Millisecond)
	if v, ok := c.Get("k"); !ok || v != "v" {
		t.Fatalf("expected live entry at t+299999ms, got ok=%v v=%v", ok, v)
	}

	now = base.Add(300001 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected entry to be expired at t+300001ms")
	}

	// Expired entries are removed on read.
	if c.Len() != 0 {
		t.Fatalf("expected 0 entries after expired read, got %d", c.Len())
	}
}

// TestExpiredDeleteSparesFreshEntry interleaves a Set between Get's expiry
// check and its delete (via the clock hook) and checks the fresh entry
// survives.
func TestExpiredDeleteSparesFreshEntry(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	later := base.Add(10 * time.Minute)

	c := New()
	c.now = func() time.Time { return base }
	c.Set("k", "old", 5*time.Minute)

	refreshed := false
	c.now = func() time.Time {
		if !refreshed {
			refreshed = true
			c.Set("k", "new", 5*time.Minute)
		}
		return later
	}

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected expired read to miss")
	}

	c.now = func() time.Time { return later }
	v, ok := c.Get("k")
	if !ok || v != "new" {
		t.Fatalf("Set racing an expired read must survive, got ok=%v v=%v", ok, v)
	}
}

func TestSetOverwrites(t *testing.T) {
	c := New()
	c.Set("k", 1, time.Minute)
	c.Set("k", 2, time.Minute)

	v, ok := c.Get("k")
	if !ok || v != 2 {
		t.Fatalf("expected overwritten value 2, got ok=%v v=%v", ok, v)
	}
}

func TestZeroTTLDoesNotStore(t *testing.T) {
	c := New()
	c.Set("k", "v", 0)
	if _, ok := c.Get("k"); ok {
		t.Fatal("zero TTL must not cache")
	}
}

func TestMissingKey(t *testing.T) {
	c := New()
	if _, ok := c.Get("absent"); ok {
		t.Fatal("expected miss for absent key")
	}
}
