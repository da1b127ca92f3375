package main

import "testing"

func TestHashIncludesSideToMove(t *testing.T) {
	white, err := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	black, err := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R b - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if white.Hash == black.Hash {
		t.Fatalf("expected hash to differ for different side to move")
	}
}

func TestHashIncludesCastlingRights(t *testing.T) {
	all, _ := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	none, _ := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w - - 0 1")
	if all.Hash == none.Hash {
		t.Fatalf("expected hash to differ for different castling rights")
	}
}

func TestHashIncludesEnPassantFile(t *testing.T) {
	with, _ := ParseFEN("rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2")
	without, _ := ParseFEN("rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2")
	if with.Hash == without.Hash {
		t.Fatalf("expected hash to differ when an en passant target exists")
	}
}

func TestHashIgnoresMoveCounters(t *testing.T) {
	a, _ := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w - - 0 1")
	b, _ := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w - - 30 77")
	if a.Hash != b.Hash {
		t.Fatalf("move counters must not contribute to the hash")
	}
}

func TestHashIsRecomputable(t *testing.T) {
	p := StartPosition()
	if p.Hash != ComputeHash(p) {
		t.Fatalf("stored hash disagrees with recomputation")
	}
	next := p.Apply(Move{From: 12, To: 28})
	if next.Hash != ComputeHash(next) {
		t.Fatalf("hash after apply disagrees with recomputation")
	}
}

func TestSamePositionDifferentMoveOrderSameHash(t *testing.T) {
	// 1. Nf3 Nf6 2. Ng1 Ng8 returns to the start placement; only the
	// counters differ, so the hash must match the start hash.
	p := StartPosition()
	g1, _ := parseSquare("g1")
	f3, _ := parseSquare("f3")
	g8, _ := parseSquare("g8")
	f6, _ := parseSquare("f6")
	q := p.Apply(Move{From: g1, To: f3}).
		Apply(Move{From: g8, To: f6}).
		Apply(Move{From: f3, To: g1}).
		Apply(Move{From: f6, To: g8})
	if q.Hash != p.Hash {
		t.Fatalf("expected identical hash after returning to the start placement")
	}
}
