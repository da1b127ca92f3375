package main

import "math/bits"

// Square numbering is a1=0 .. h8=63, rank-major.

var (
	knightAttackTable [64]uint64
	kingAttackTable   [64]uint64
	pawnAttackTable   [2][64]uint64
)

func init() {
	knightDeltas := [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingDeltas := [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	for sq := 0; sq < 64; sq++ {
		f := fileOf(sq)
		r := rankOf(sq)
		for _, d := range knightDeltas {
			if inBoard(f+d[0], r+d[1]) {
				knightAttackTable[sq] |= bit(squareAt(f+d[0], r+d[1]))
			}
		}
		for _, d := range kingDeltas {
			if inBoard(f+d[0], r+d[1]) {
				kingAttackTable[sq] |= bit(squareAt(f+d[0], r+d[1]))
			}
		}
		if inBoard(f-1, r+1) {
			pawnAttackTable[White][sq] |= bit(squareAt(f-1, r+1))
		}
		if inBoard(f+1, r+1) {
			pawnAttackTable[White][sq] |= bit(squareAt(f+1, r+1))
		}
		if inBoard(f-1, r-1) {
			pawnAttackTable[Black][sq] |= bit(squareAt(f-1, r-1))
		}
		if inBoard(f+1, r-1) {
			pawnAttackTable[Black][sq] |= bit(squareAt(f+1, r-1))
		}
	}
}

func knightAttacks(sq int) uint64 {
	return knightAttackTable[sq]
}

func kingAttacks(sq int) uint64 {
	return kingAttackTable[sq]
}

func pawnAttacks(sq int, color Color) uint64 {
	return pawnAttackTable[color][sq]
}

func rayAttacks(sq int, blockers uint64, deltas [4][2]int) uint64 {
	var attacks uint64
	f := fileOf(sq)
	r := rankOf(sq)
	for _, d := range deltas {
		nf, nr := f+d[0], r+d[1]
		for inBoard(nf, nr) {
			target := squareAt(nf, nr)
			attacks |= bit(target)
			if blockers&bit(target) != 0 {
				break
			}
			nf += d[0]
			nr += d[1]
		}
	}
	return attacks
}

func bishopAttacks(sq int, blockers uint64) uint64 {
	return rayAttacks(sq, blockers, [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}})
}

func rookAttacks(sq int, blockers uint64) uint64 {
	return rayAttacks(sq, blockers, [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}})
}

func queenAttacks(sq int, blockers uint64) uint64 {
	return bishopAttacks(sq, blockers) | rookAttacks(sq, blockers)
}

func fileOf(sq int) int {
	return sq & 7
}

func rankOf(sq int) int {
	return sq >> 3
}

func squareAt(file, rank int) int {
	return rank<<3 | file
}

func inBoard(file, rank int) bool {
	return file >= 0 && file < 8 && rank >= 0 && rank < 8
}

func bit(sq int) uint64 {
	return 1 << uint(sq)
}

func popLSB(bb *uint64) int {
	sq := bits.TrailingZeros64(*bb)
	*bb &= *bb - 1
	return sq
}

func popcount(bb uint64) int {
	return bits.OnesCount64(bb)
}
