package main

import "testing"

func TestOrderPutsTableMoveFirst(t *testing.T) {
	p := StartPosition()
	moves := LegalMoves(p)
	ttMove := moves[len(moves)-1]
	o := NewMoveOrderer(true, true)
	o.Order(p, moves, ttMove, 0)
	if !moves[0].Equals(ttMove) {
		t.Fatalf("expected the table move first, got %s", moves[0].UCI())
	}
}

func TestCapturesFavorBigVictimsAndSmallAttackers(t *testing.T) {
	// White pawn c3 can take the b4 queen; the d1 queen can take the d7 pawn.
	p, err := ParseFEN("k7/3p4/8/8/1q6/2P5/8/3Q3K w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	c3, _ := parseSquare("c3")
	b4, _ := parseSquare("b4")
	d1, _ := parseSquare("d1")
	d7, _ := parseSquare("d7")
	pawnTakesQueen := mvvLva(p, Move{From: c3, To: b4})
	queenTakesPawn := mvvLva(p, Move{From: d1, To: d7})
	if pawnTakesQueen <= queenTakesPawn {
		t.Fatalf("pawn takes queen (%d) should outrank queen takes pawn (%d)",
			pawnTakesQueen, queenTakesPawn)
	}
	if want := captureBaseScore + 10*pieceValues[Queen] - pieceValues[Pawn]; pawnTakesQueen != want {
		t.Fatalf("expected score %d, got %d", want, pawnTakesQueen)
	}
}

func TestKillerMoveRanksAboveOtherQuietMoves(t *testing.T) {
	p := StartPosition()
	moves := LegalMoves(p)
	killer := moves[len(moves)-1]
	o := NewMoveOrderer(true, true)
	o.RecordCutoff(p, killer, 3, 4)
	o.Order(p, moves, Move{}, 3)
	if !moves[0].Equals(killer) {
		t.Fatalf("expected the killer move first, got %s", moves[0].UCI())
	}
}

func TestKillerSlotsShiftAndCapturesAreNotKillers(t *testing.T) {
	p := StartPosition()
	first := NewMove(12, 28)
	second := NewMove(11, 27)
	o := NewMoveOrderer(true, false)
	o.RecordCutoff(p, first, 2, 3)
	o.RecordCutoff(p, second, 2, 3)
	if !o.killers[2][0].Equals(second) || !o.killers[2][1].Equals(first) {
		t.Fatalf("killer slots did not shift: %+v", o.killers[2])
	}

	capture, err := ParseFEN("k7/8/8/3p4/4P3/8/8/K7 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	e4, _ := parseSquare("e4")
	d5, _ := parseSquare("d5")
	o.RecordCutoff(capture, Move{From: e4, To: d5}, 5, 3)
	if o.killers[5][0].IsValid() {
		t.Fatalf("captures must not be recorded as killers")
	}
}

func TestHistoryGrowsByDepthSquaredAndDecays(t *testing.T) {
	p := StartPosition()
	m := NewMove(12, 28)
	o := NewMoveOrderer(false, true)
	o.RecordCutoff(p, m, 1, 3)
	if got := o.history[m.From][m.To]; got != 9 {
		t.Fatalf("expected history 9 after a depth-3 cutoff, got %d", got)
	}
	for i := 0; i < 500; i++ {
		o.RecordCutoff(p, m, 1, 10)
	}
	if got := o.history[m.From][m.To]; got > historyCeiling {
		t.Fatalf("history exceeded the ceiling: %d", got)
	}
	if got := o.history[m.From][m.To]; got <= 0 {
		t.Fatalf("history should stay positive after decay, got %d", got)
	}
}

func TestDisabledHeuristicsDoNotScore(t *testing.T) {
	p := StartPosition()
	m := NewMove(12, 28)
	o := NewMoveOrderer(false, false)
	o.RecordCutoff(p, m, 0, 5)
	if o.killers[0][0].IsValid() {
		t.Fatalf("killers recorded while disabled")
	}
	if o.history[m.From][m.To] != 0 {
		t.Fatalf("history recorded while disabled")
	}
}
