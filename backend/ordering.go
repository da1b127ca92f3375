package main

import "sort"

const (
	ttMoveScore      = 1 << 20
	captureBaseScore = 10000
	killerScore      = 9000
	historyCeiling   = 8000
	maxSearchPly     = 64
)

// MoveOrderer ranks moves so likely-best ones are searched first: the table's
// recommended move, then captures by most-valuable-victim/least-valuable-
// attacker, then killer moves recorded at the same ply, then quiet moves by
// history score.
type MoveOrderer struct {
	killers [maxSearchPly][2]Move
	history [64][64]int

	useKillers bool
	useHistory bool
}

func NewMoveOrderer(useKillers, useHistory bool) *MoveOrderer {
	return &MoveOrderer{useKillers: useKillers, useHistory: useHistory}
}

func (o *MoveOrderer) Reset() {
	o.killers = [maxSearchPly][2]Move{}
	o.history = [64][64]int{}
}

// mvvLva favors capturing a big piece with a small one.
func mvvLva(p Position, m Move) int {
	victim := p.PieceAt(m.To)
	if victim == NoPiece {
		// En passant: the victim is a pawn on another square.
		victim = Pawn
	}
	attacker := p.PieceAt(m.From)
	return captureBaseScore + 10*pieceValues[victim] - pieceValues[attacker]
}

func (o *MoveOrderer) scoreMove(p Position, m Move, ttMove Move, ply int) int {
	if m.Equals(ttMove) {
		return ttMoveScore
	}
	if IsCapture(p, m) {
		return mvvLva(p, m)
	}
	score := 0
	if o.useKillers && ply >= 0 && ply < maxSearchPly {
		if m.Equals(o.killers[ply][0]) || m.Equals(o.killers[ply][1]) {
			score = killerScore
		}
	}
	if o.useHistory {
		score += o.history[m.From][m.To]
	}
	return score
}

// Order sorts moves in place, best candidates first. ttMove may be the zero
// Move when the table has no hint.
func (o *MoveOrderer) Order(p Position, moves []Move, ttMove Move, ply int) {
	type scored struct {
		move  Move
		score int
	}
	ranked := make([]scored, len(moves))
	for i, m := range moves {
		ranked[i] = scored{m, o.scoreMove(p, m, ttMove, ply)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	for i := range ranked {
		moves[i] = ranked[i].move
	}
}

// OrderCaptures ranks a capture-only list for quiescence.
func (o *MoveOrderer) OrderCaptures(p Position, moves []Move) {
	sort.SliceStable(moves, func(i, j int) bool {
		return mvvLva(p, moves[i]) > mvvLva(p, moves[j])
	})
}

// RecordCutoff remembers a quiet move that refuted its node: it becomes the
// ply's first killer and its history counter grows by depth squared. The
// whole history table is halved when any counter would pass the ceiling, so
// stale successes decay.
func (o *MoveOrderer) RecordCutoff(p Position, m Move, ply, depth int) {
	if IsCapture(p, m) {
		return
	}
	if o.useKillers && ply >= 0 && ply < maxSearchPly && !m.Equals(o.killers[ply][0]) {
		o.killers[ply][1] = o.killers[ply][0]
		o.killers[ply][0] = m
	}
	if o.useHistory {
		o.history[m.From][m.To] += depth * depth
		if o.history[m.From][m.To] > historyCeiling {
			for from := 0; from < 64; from++ {
				for to := 0; to < 64; to++ {
					o.history[from][to] /= 2
				}
			}
		}
	}
}
