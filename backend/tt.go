package main

// Bound classifies a stored score relative to the search window it was
// produced under.
type Bound uint8

const (
	BoundExact Bound = iota
	BoundLower
	BoundUpper
)

type TTEntry struct {
	Key   uint64
	Depth int
	Score int
	Move  Move
	Bound Bound
	used  bool
}

// TranspositionTable is a fixed-size, always-replace cache keyed by position
// hash. The slot is the hash masked to the table size, so capacity is forced
// to a power of two. Single search thread, so no locking.
type TranspositionTable struct {
	entries []TTEntry
	mask    uint64
	stored  int
}

const defaultTTSize = 1 << 20

func NewTranspositionTable(size int) *TranspositionTable {
	if size < 1 {
		size = defaultTTSize
	}
	size = nextPowerOfTwo(size)
	return &TranspositionTable{
		entries: make([]TTEntry, size),
		mask:    uint64(size - 1),
	}
}

func (tt *TranspositionTable) Capacity() int {
	return len(tt.entries)
}

func (tt *TranspositionTable) Count() int {
	return tt.stored
}

// Probe returns the stored entry for key if its depth is at least
// requiredDepth. A shallower entry is not a hit: its score was computed with
// less lookahead than the caller needs.
func (tt *TranspositionTable) Probe(key uint64, requiredDepth int) (TTEntry, bool) {
	e := tt.entries[key&tt.mask]
	if !e.used || e.Key != key || e.Depth < requiredDepth {
		return TTEntry{}, false
	}
	return e, true
}

// Lookup fetches the entry for key regardless of depth. Useful for move
// ordering, where even a shallow best move is a good hint.
func (tt *TranspositionTable) Lookup(key uint64) (TTEntry, bool) {
	e := tt.entries[key&tt.mask]
	if !e.used || e.Key != key {
		return TTEntry{}, false
	}
	return e, true
}

// Store unconditionally overwrites the slot for key.
func (tt *TranspositionTable) Store(key uint64, depth, score int, move Move, bound Bound) {
	slot := &tt.entries[key&tt.mask]
	if !slot.used {
		tt.stored++
	}
	*slot = TTEntry{Key: key, Depth: depth, Score: score, Move: move, Bound: bound, used: true}
}

func (tt *TranspositionTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
	tt.stored = 0
}

// Resize discards all entries. Rehashing old entries into the new slot
// projection is not worth it for a pure cache.
func (tt *TranspositionTable) Resize(size int) {
	if size < 1 {
		size = defaultTTSize
	}
	size = nextPowerOfTwo(size)
	tt.entries = make([]TTEntry, size)
	tt.mask = uint64(size - 1)
	tt.stored = 0
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
