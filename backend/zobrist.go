package main

// Zobrist keys for position hashing. Keys are generated once at init from a
// fixed-seed splitmix64 stream so hashes are stable across runs, which keeps
// transposition-table tests reproducible.

var (
	zobristPieceKeys    [2][7][64]uint64
	zobristSideKey      uint64
	zobristCastlingKeys [2][2]uint64
	zobristEPFileKeys   [8]uint64
)

const zobristSeed = 0x9E3779B97F4A7C15

func init() {
	state := uint64(zobristSeed)
	next := func() uint64 {
		state += 0x9E3779B97F4A7C15
		z := state
		z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
		z = (z ^ (z >> 27)) * 0x94D049BB133111EB
		return z ^ (z >> 31)
	}
	for color := 0; color < 2; color++ {
		for piece := Pawn; piece <= King; piece++ {
			for sq := 0; sq < 64; sq++ {
				zobristPieceKeys[color][piece][sq] = next()
			}
		}
	}
	zobristSideKey = next()
	for color := 0; color < 2; color++ {
		for side := 0; side < 2; side++ {
			zobristCastlingKeys[color][side] = next()
		}
	}
	for file := 0; file < 8; file++ {
		zobristEPFileKeys[file] = next()
	}
}

// ComputeHash folds placement, side to move, castling rights and the
// en-passant file into one key. It is recomputed from scratch after every
// Apply rather than maintained incrementally.
func ComputeHash(p Position) uint64 {
	var h uint64
	for _, color := range []Color{White, Black} {
		for piece := Pawn; piece <= King; piece++ {
			bb := p.Pieces[piece] & p.Colors[color]
			for bb != 0 {
				sq := popLSB(&bb)
				h ^= zobristPieceKeys[color][piece][sq]
			}
		}
	}
	if p.Side == Black {
		h ^= zobristSideKey
	}
	for color := 0; color < 2; color++ {
		for side := 0; side < 2; side++ {
			if p.Castling[color][side] {
				h ^= zobristCastlingKeys[color][side]
			}
		}
	}
	if p.EnPassant != -1 {
		h ^= zobristEPFileKeys[fileOf(p.EnPassant)]
	}
	return h
}
