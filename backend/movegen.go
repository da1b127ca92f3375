package main

import "math/rand"

// Candidate filtering keeps every forcing move and admits a fixed fraction of
// the remaining quiet moves, mimicking how a human prunes the move list before
// calculating. The fraction and seed are fixed so runs are reproducible.
const (
	candidateQuietPercent = 30
	candidateFilterSeed   = 12345
)

// GeneratePseudoLegal enumerates the side to move's moves without checking
// whether they leave the king in check. Iteration is square-ascending, so the
// order is deterministic for a given position.
func GeneratePseudoLegal(p Position) []Move {
	moves := make([]Move, 0, 48)
	mover := p.Side
	own := p.Colors[mover]
	enemy := p.Colors[otherColor(mover)]
	all := own | enemy

	pawns := p.Pieces[Pawn] & own
	forward := 8
	startRank := 1
	promoRank := 7
	if mover == Black {
		forward = -8
		startRank = 6
		promoRank = 0
	}
	for pawns != 0 {
		from := popLSB(&pawns)
		to := from + forward
		if to >= 0 && to < 64 && all&bit(to) == 0 {
			moves = append(moves, pawnMove(from, to, promoRank))
			if rankOf(from) == startRank {
				double := to + forward
				if all&bit(double) == 0 {
					moves = append(moves, NewMove(from, double))
				}
			}
		}
		attacks := pawnAttacks(from, mover)
		targets := attacks & enemy
		for targets != 0 {
			to := popLSB(&targets)
			moves = append(moves, pawnMove(from, to, promoRank))
		}
		if p.EnPassant != -1 && attacks&bit(p.EnPassant) != 0 {
			m := NewMove(from, p.EnPassant)
			m.EnPassant = true
			moves = append(moves, m)
		}
	}

	knights := p.Pieces[Knight] & own
	for knights != 0 {
		from := popLSB(&knights)
		moves = appendTargets(moves, from, knightAttacks(from)&^own)
	}

	bishops := p.Pieces[Bishop] & own
	for bishops != 0 {
		from := popLSB(&bishops)
		moves = appendTargets(moves, from, bishopAttacks(from, all)&^own)
	}

	rooks := p.Pieces[Rook] & own
	for rooks != 0 {
		from := popLSB(&rooks)
		moves = appendTargets(moves, from, rookAttacks(from, all)&^own)
	}

	queens := p.Pieces[Queen] & own
	for queens != 0 {
		from := popLSB(&queens)
		moves = appendTargets(moves, from, queenAttacks(from, all)&^own)
	}

	kings := p.Pieces[King] & own
	for kings != 0 {
		from := popLSB(&kings)
		moves = appendTargets(moves, from, kingAttacks(from)&^own)
	}

	return moves
}

func pawnMove(from, to, promoRank int) Move {
	m := NewMove(from, to)
	if rankOf(to) == promoRank {
		m.Promo = Queen
	}
	return m
}

func appendTargets(moves []Move, from int, targets uint64) []Move {
	for targets != 0 {
		to := popLSB(&targets)
		moves = append(moves, NewMove(from, to))
	}
	return moves
}

// IsLegal applies the move speculatively and checks whether the mover's own
// king ends up attacked. There is no pin detection; apply-and-test is the sole
// legality mechanism, trading speed for simplicity.
func IsLegal(p Position, move Move) bool {
	mover := p.Side
	next := p.Apply(move)
	return !next.InCheck(mover)
}

func LegalMoves(p Position) []Move {
	pseudo := GeneratePseudoLegal(p)
	legal := pseudo[:0]
	for _, m := range pseudo {
		if IsLegal(p, m) {
			legal = append(legal, m)
		}
	}
	return legal
}

// IsCapture reports whether move takes a piece in p, counting en passant.
func IsCapture(p Position, move Move) bool {
	if move.EnPassant || (p.EnPassant != -1 && move.To == p.EnPassant && p.PieceAt(move.From) == Pawn) {
		return true
	}
	return p.PieceAt(move.To) != NoPiece
}

// GivesCheck reports whether move leaves the opponent's king attacked.
func GivesCheck(p Position, move Move) bool {
	next := p.Apply(move)
	return next.InCheck(next.Side)
}

// FilterCandidates trims legal down to the moves worth calculating: all
// captures, checks, king moves and pawn moves survive, plus a random sample
// of the quiet rest. If the sample rejects everything, the full list is
// returned unchanged so a position with legal moves never looks terminal.
func FilterCandidates(p Position, legal []Move, rng *rand.Rand) []Move {
	if len(legal) <= 1 {
		return legal
	}
	candidates := make([]Move, 0, len(legal))
	for _, m := range legal {
		piece := p.PieceAt(m.From)
		keep := piece == Pawn || piece == King ||
			IsCapture(p, m) || GivesCheck(p, m) ||
			rng.Intn(100) < candidateQuietPercent
		if keep {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return legal
	}
	return candidates
}
