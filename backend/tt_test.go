package main

import "testing"

func TestTTProbeRequiresSufficientDepth(t *testing.T) {
	tt := NewTranspositionTable(1 << 10)
	key := uint64(0xDEADBEEFCAFE)
	move := NewMove(12, 28)
	tt.Store(key, 5, 120, move, BoundExact)

	if _, ok := tt.Probe(key, 6); ok {
		t.Fatalf("a depth-5 entry must not satisfy a depth-6 probe")
	}
	entry, ok := tt.Probe(key, 5)
	if !ok {
		t.Fatalf("expected a hit at the stored depth")
	}
	if entry.Score != 120 || !entry.Move.Equals(move) || entry.Bound != BoundExact {
		t.Fatalf("entry came back mangled: %+v", entry)
	}
	if _, ok := tt.Probe(key, 2); !ok {
		t.Fatalf("a deeper entry must satisfy a shallower probe")
	}
}

func TestTTLookupIgnoresDepth(t *testing.T) {
	tt := NewTranspositionTable(1 << 10)
	key := uint64(42)
	tt.Store(key, 1, -30, NewMove(0, 8), BoundUpper)
	entry, ok := tt.Lookup(key)
	if !ok {
		t.Fatalf("expected lookup to find the shallow entry")
	}
	if entry.Depth != 1 || entry.Score != -30 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestTTNeverHitsUnstoredKey(t *testing.T) {
	tt := NewTranspositionTable(1 << 8)
	for key := uint64(1); key < 2000; key++ {
		if _, ok := tt.Probe(key, 0); ok {
			t.Fatalf("probe hit on an empty table for key %d", key)
		}
	}
	tt.Store(7, 3, 10, NewMove(1, 2), BoundExact)
	// Same slot, different key: the hash check must reject it.
	if _, ok := tt.Probe(7+uint64(tt.Capacity()), 0); ok {
		t.Fatalf("probe hit on a colliding key with a different hash")
	}
}

func TestTTStoreAlwaysReplaces(t *testing.T) {
	tt := NewTranspositionTable(1 << 8)
	key := uint64(99)
	tt.Store(key, 8, 500, NewMove(0, 1), BoundLower)
	tt.Store(key, 2, -10, NewMove(2, 3), BoundUpper)
	entry, ok := tt.Lookup(key)
	if !ok {
		t.Fatalf("expected an entry")
	}
	if entry.Depth != 2 || entry.Score != -10 || entry.Bound != BoundUpper {
		t.Fatalf("store did not overwrite: %+v", entry)
	}
	if tt.Count() != 1 {
		t.Fatalf("overwriting the same slot should not grow the count, got %d", tt.Count())
	}
}

func TestTTCapacityRoundsUpToPowerOfTwo(t *testing.T) {
	tt := NewTranspositionTable(1000)
	if tt.Capacity() != 1024 {
		t.Fatalf("expected capacity 1024, got %d", tt.Capacity())
	}
}

func TestTTResizeDiscardsEntries(t *testing.T) {
	tt := NewTranspositionTable(1 << 8)
	tt.Store(5, 4, 77, NewMove(4, 12), BoundExact)
	tt.Resize(1 << 10)
	if tt.Count() != 0 {
		t.Fatalf("resize must discard entries, count=%d", tt.Count())
	}
	if _, ok := tt.Lookup(5); ok {
		t.Fatalf("entry survived a resize")
	}
	if tt.Capacity() != 1<<10 {
		t.Fatalf("expected capacity %d, got %d", 1<<10, tt.Capacity())
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[int]int{1: 1, 2: 2, 3: 4, 1000: 1024, 1 << 20: 1 << 20}
	for in, want := range cases {
		if got := nextPowerOfTwo(in); got != want {
			t.Fatalf("nextPowerOfTwo(%d) = %d, want %d", in, got, want)
		}
	}
}
