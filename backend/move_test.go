package main

import "testing"

func TestMoveUCIRoundTrip(t *testing.T) {
	cases := []string{"e2e4", "g8f6", "a7a8q", "h2h1n"}
	for _, uci := range cases {
		m, err := ParseUCIMove(uci)
		if err != nil {
			t.Fatalf("ParseUCIMove(%q): %v", uci, err)
		}
		if got := m.UCI(); got != uci {
			t.Fatalf("round trip changed %q into %q", uci, got)
		}
	}
}

func TestParseUCIMoveRejectsGarbage(t *testing.T) {
	bad := []string{"", "e2", "e2e9", "i2i4", "e7e8p", "e7e8k", "e2e4qq"}
	for _, uci := range bad {
		if _, err := ParseUCIMove(uci); err == nil {
			t.Fatalf("expected error for %q", uci)
		}
	}
}

func TestInvalidMoveRendersAsNull(t *testing.T) {
	if got := (Move{}).UCI(); got != "0000" {
		t.Fatalf("expected 0000, got %q", got)
	}
	if (Move{From: 12, To: 12}).IsValid() {
		t.Fatalf("a move must change squares")
	}
}

func TestSquareNames(t *testing.T) {
	if got := squareName(0); got != "a1" {
		t.Fatalf("square 0 should be a1, got %q", got)
	}
	if got := squareName(63); got != "h8" {
		t.Fatalf("square 63 should be h8, got %q", got)
	}
	sq, err := parseSquare("e4")
	if err != nil || sq != 28 {
		t.Fatalf("parseSquare(e4) = %d, %v", sq, err)
	}
}
